package entity

import (
	"time"
)

// AgeUnit qualifies Patient.Age
type AgeUnit string

const (
	AgeUnitYear  AgeUnit = "year"
	AgeUnitMonth AgeUnit = "month"
	AgeUnitDay   AgeUnit = "day"
)

// IsValid reports whether u is one of the known units
func (u AgeUnit) IsValid() bool {
	switch u {
	case AgeUnitYear, AgeUnitMonth, AgeUnitDay:
		return true
	}
	return false
}

// Gender constants
const (
	GenderMale   = "M"
	GenderFemale = "F"
	GenderOther  = "O"
)

// Patient is a registered patient. ID and UHID are assigned once and never
// change; everything else is demographics, overwritten on each booking.
type Patient struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UHID        string     `gorm:"column:uhid;type:varchar(32);uniqueIndex;not null" json:"uhid"`
	FullName    string     `gorm:"type:varchar(255);not null" json:"full_name"`
	PhoneNumber string     `gorm:"type:varchar(20);index" json:"phone_number,omitempty"`
	Age         *int       `gorm:"type:int" json:"age,omitempty"`
	AgeUnit     AgeUnit    `gorm:"type:varchar(10)" json:"age_unit,omitempty"`
	DateOfBirth *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`
	Gender      string     `gorm:"type:varchar(1)" json:"gender,omitempty"`
	Address     string     `gorm:"type:text" json:"address,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Patient) TableName() string {
	return "patients"
}

// DemographicColumns are the only columns an in-place patient update may write.
var DemographicColumns = []string{"full_name", "phone_number", "age", "age_unit", "date_of_birth", "gender", "address", "updated_at"}

// ApplyDemographics copies demographic fields from d, leaving identity untouched.
func (p *Patient) ApplyDemographics(d *Patient) {
	p.FullName = d.FullName
	p.PhoneNumber = d.PhoneNumber
	p.Age = d.Age
	p.AgeUnit = d.AgeUnit
	p.DateOfBirth = d.DateOfBirth
	p.Gender = d.Gender
	p.Address = d.Address
}

// DeriveDateOfBirth subtracts age calendar units from now. This is an
// approximation (AddDate normalises overflowing days, e.g. Mar 31 minus one
// month is Mar 3) and must stay that way to match stored values.
// A nil age yields a nil date.
func DeriveDateOfBirth(age *int, unit AgeUnit, now time.Time) *time.Time {
	if age == nil {
		return nil
	}

	var dob time.Time
	switch unit {
	case AgeUnitMonth:
		dob = now.AddDate(0, -*age, 0)
	case AgeUnitDay:
		dob = now.AddDate(0, 0, -*age)
	default:
		dob = now.AddDate(-*age, 0, 0)
	}

	dob = time.Date(dob.Year(), dob.Month(), dob.Day(), 0, 0, 0, 0, dob.Location())
	return &dob
}
