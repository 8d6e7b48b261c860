package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func intPtr(v int) *int { return &v }

func TestDeriveDateOfBirth(t *testing.T) {
	now := time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		age  *int
		unit AgeUnit
		want string
	}{
		{"years", intPtr(34), AgeUnitYear, "1990-03-15"},
		{"months", intPtr(6), AgeUnitMonth, "2023-09-15"},
		{"days", intPtr(10), AgeUnitDay, "2024-03-05"},
		{"empty unit defaults to years", intPtr(1), "", "2023-03-15"},
		{"zero age", intPtr(0), AgeUnitYear, "2024-03-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveDateOfBirth(tt.age, tt.unit, now)
			if got == nil {
				t.Fatal("expected a date")
			}
			if s := got.Format("2006-01-02"); s != tt.want {
				t.Errorf("got %s, want %s", s, tt.want)
			}
			if got.Hour() != 0 || got.Minute() != 0 {
				t.Errorf("time of day not truncated: %v", got)
			}
		})
	}
}

func TestDeriveDateOfBirthWithoutAge(t *testing.T) {
	if got := DeriveDateOfBirth(nil, AgeUnitYear, time.Now()); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestDeriveDateOfBirthMonthOverflow(t *testing.T) {
	// Calendar subtraction normalises Feb 31 to Mar 2
	now := time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)
	got := DeriveDateOfBirth(intPtr(1), AgeUnitMonth, now)
	if s := got.Format("2006-01-02"); s != "2024-03-02" {
		t.Errorf("got %s", s)
	}
}

func TestAgeUnitIsValid(t *testing.T) {
	for _, u := range []AgeUnit{AgeUnitYear, AgeUnitMonth, AgeUnitDay} {
		if !u.IsValid() {
			t.Errorf("%q should be valid", u)
		}
	}
	if AgeUnit("week").IsValid() {
		t.Error("week should be invalid")
	}
}

func TestDeltaFromPaymentAndApply(t *testing.T) {
	p := PaymentInfo{
		Method:       PaymentMethodMixed,
		TotalCharges: decimal.NewFromInt(1000),
		Discount:     decimal.NewFromInt(100),
		TotalPaid:    decimal.NewFromInt(900),
		CashAmount:   decimal.NewFromInt(400),
		OnlineAmount: decimal.NewFromInt(500),
	}

	d := DeltaFromPayment(p)
	if d.Count != 1 || !d.AmountPaid.Equal(decimal.NewFromInt(900)) {
		t.Fatalf("unexpected delta %+v", d)
	}

	s := NewDailySummary(time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC))
	s.Apply(d)
	s.Apply(d)

	if s.TotalCount != 2 {
		t.Errorf("count = %d", s.TotalCount)
	}
	if !s.TotalRevenue.Equal(decimal.NewFromInt(1800)) {
		t.Errorf("revenue = %s", s.TotalRevenue)
	}
	if !s.Cash.Equal(decimal.NewFromInt(800)) || !s.Online.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("cash/online = %s/%s", s.Cash, s.Online)
	}
	if !s.Discount.Equal(decimal.NewFromInt(200)) {
		t.Errorf("discount = %s", s.Discount)
	}
	if s.SummaryDate.Hour() != 0 {
		t.Errorf("summary date not truncated: %v", s.SummaryDate)
	}
}

func TestAppointmentVariants(t *testing.T) {
	p := &Patient{ID: 7, UHID: "MED-2024-00007"}

	appts := []Appointment{
		&OnCallAppointment{},
		&ScheduledAppointment{ServiceLines: []ServiceLine{
			{ServiceName: "Consultation", Charge: decimal.NewFromInt(300)},
			{ServiceName: "ECG", Charge: decimal.NewFromInt(200)},
		}},
	}

	for _, a := range appts {
		AssignPatient(a, p)
		id, uhid := a.Owner()
		if id != 7 || uhid != "MED-2024-00007" {
			t.Errorf("%s: owner = (%d, %s)", a.Type(), id, uhid)
		}

		switch v := a.(type) {
		case *OnCallAppointment:
			if v.Type() != AppointmentTypeOnCall {
				t.Errorf("oncall type = %s", v.Type())
			}
		case *ScheduledAppointment:
			if v.Type() != AppointmentTypeScheduled {
				t.Errorf("scheduled type = %s", v.Type())
			}
			if !v.ServicesTotal().Equal(decimal.NewFromInt(500)) {
				t.Errorf("services total = %s", v.ServicesTotal())
			}
		}
	}
}

func TestApplyDemographicsKeepsIdentity(t *testing.T) {
	p := &Patient{ID: 1, UHID: "MED-2024-00001", FullName: "Old"}
	p.ApplyDemographics(&Patient{ID: 99, UHID: "MED-2024-00099", FullName: "New", PhoneNumber: "9876543210"})

	if p.ID != 1 || p.UHID != "MED-2024-00001" {
		t.Errorf("identity changed: %d %s", p.ID, p.UHID)
	}
	if p.FullName != "New" || p.PhoneNumber != "9876543210" {
		t.Errorf("demographics not applied: %+v", p)
	}
}
