package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AppointmentType is the wire tag of an appointment variant
type AppointmentType string

const (
	AppointmentTypeOnCall    AppointmentType = "oncall"
	AppointmentTypeScheduled AppointmentType = "scheduled"
)

// Appointment is implemented only by *OnCallAppointment and
// *ScheduledAppointment.
type Appointment interface {
	Type() AppointmentType
	GetID() int64
	Owner() (patientID int64, uhid string)
	assignPatient(patientID int64, uhid string)
}

// AssignPatient links a to the resolved or freshly created patient.
func AssignPatient(a Appointment, p *Patient) {
	a.assignPatient(p.ID, p.UHID)
}

// OnCallAppointment is a lightweight callback/referral record with no billing
type OnCallAppointment struct {
	ID              int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID       int64     `gorm:"not null;index" json:"patient_id"`
	UHID            string    `gorm:"column:uhid;type:varchar(32);not null;index" json:"uhid"`
	AppointmentDate time.Time `gorm:"type:date;not null;index" json:"appointment_date"`
	AppointmentTime *string   `gorm:"type:time" json:"appointment_time,omitempty"` // NULL when the caller gave no time
	Referral        string    `gorm:"type:text" json:"referral,omitempty"`
	Notes           string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy       string    `gorm:"type:varchar(255)" json:"created_by,omitempty"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient *Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (OnCallAppointment) TableName() string {
	return "oncall_appointments"
}

func (a *OnCallAppointment) Type() AppointmentType { return AppointmentTypeOnCall }
func (a *OnCallAppointment) GetID() int64          { return a.ID }
func (a *OnCallAppointment) Owner() (int64, string) {
	return a.PatientID, a.UHID
}
func (a *OnCallAppointment) assignPatient(patientID int64, uhid string) {
	a.PatientID = patientID
	a.UHID = uhid
}

// ScheduledAppointment is a billable visit with one or more service lines
type ScheduledAppointment struct {
	ID              int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID       int64         `gorm:"not null;index" json:"patient_id"`
	UHID            string        `gorm:"column:uhid;type:varchar(32);not null;index" json:"uhid"`
	AppointmentDate time.Time     `gorm:"type:date;not null;index" json:"appointment_date"`
	Referral        string        `gorm:"type:text" json:"referral,omitempty"`
	Notes           string        `gorm:"type:text" json:"notes,omitempty"`
	BillNumber      int64         `gorm:"uniqueIndex;not null;default:nextval('bill_number_seq')" json:"bill_number"`
	Payment         PaymentInfo   `gorm:"embedded;embeddedPrefix:payment_" json:"payment"`
	ServiceLines    []ServiceLine `gorm:"foreignKey:AppointmentID;constraint:OnDelete:CASCADE" json:"service_lines"`
	CreatedBy       string        `gorm:"type:varchar(255)" json:"created_by,omitempty"`
	CreatedAt       time.Time     `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time     `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient *Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (ScheduledAppointment) TableName() string {
	return "scheduled_appointments"
}

func (a *ScheduledAppointment) Type() AppointmentType { return AppointmentTypeScheduled }
func (a *ScheduledAppointment) GetID() int64          { return a.ID }
func (a *ScheduledAppointment) Owner() (int64, string) {
	return a.PatientID, a.UHID
}
func (a *ScheduledAppointment) assignPatient(patientID int64, uhid string) {
	a.PatientID = patientID
	a.UHID = uhid
}

// ServicesTotal sums the line charges
func (a *ScheduledAppointment) ServicesTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range a.ServiceLines {
		total = total.Add(line.Charge)
	}
	return total
}

// ServiceLine is one billed service; Position keeps the request order
type ServiceLine struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	AppointmentID int64           `gorm:"not null;index" json:"appointment_id"`
	Position      int             `gorm:"not null" json:"position"`
	ServiceType   string          `gorm:"type:varchar(100);not null" json:"service_type"`
	DoctorName    string          `gorm:"type:varchar(255)" json:"doctor_name,omitempty"`
	Specialty     string          `gorm:"type:varchar(100)" json:"specialty,omitempty"`
	VisitType     string          `gorm:"type:varchar(50)" json:"visit_type,omitempty"`
	ServiceName   string          `gorm:"type:varchar(255);not null" json:"service_name"`
	Charge        decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"charge"`
}

func (ServiceLine) TableName() string {
	return "appointment_service_lines"
}

// Payment methods
const (
	PaymentMethodCash   = "cash"
	PaymentMethodOnline = "online"
	PaymentMethodMixed  = "mixed"
)

// PaymentInfo is embedded into scheduled_appointments with a payment_ prefix
type PaymentInfo struct {
	Method        string          `gorm:"type:varchar(20);not null" json:"method"`
	TotalCharges  decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"total_charges"`
	Discount      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"discount"`
	TotalPaid     decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"total_paid"`
	CashAmount    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"cash_amount"`
	OnlineAmount  decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"online_amount"`
	CashChannel   string          `gorm:"type:varchar(50)" json:"cash_channel,omitempty"`
	OnlineChannel string          `gorm:"type:varchar(50)" json:"online_channel,omitempty"`
}

// DoctorRef names the doctor on a service line either by directory id or by a
// free-text display name. It is resolved to a display name before any write.
type DoctorRef struct {
	ID   *uuid.UUID
	Name string
}

// IsEmpty reports whether neither form was supplied
func (r DoctorRef) IsEmpty() bool {
	return r.ID == nil && r.Name == ""
}
