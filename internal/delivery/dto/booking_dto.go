package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

// PatientInput carries demographics. PatientID and UHID together address an
// existing patient; leave both empty to register a new one.
type PatientInput struct {
	PatientID   *int64 `json:"patient_id,omitempty"`
	UHID        string `json:"uhid,omitempty" validate:"omitempty,max=32"`
	FullName    string `json:"full_name" validate:"required,max=255"`
	PhoneNumber string `json:"phone_number,omitempty" validate:"omitempty,digits,max=20"`
	Age         *int   `json:"age,omitempty" validate:"omitempty,gte=0,lte=150"`
	AgeUnit     string `json:"age_unit,omitempty"`
	Gender      string `json:"gender,omitempty" validate:"omitempty,oneof=M F O m f o"`
	Address     string `json:"address,omitempty" validate:"omitempty,max=1000"`
}

type ServiceLineInput struct {
	ServiceType string          `json:"service_type" validate:"required,max=100"`
	DoctorID    *uuid.UUID      `json:"doctor_id,omitempty"`
	DoctorName  string          `json:"doctor_name,omitempty" validate:"omitempty,max=255"`
	Specialty   string          `json:"specialty,omitempty" validate:"omitempty,max=100"`
	VisitType   string          `json:"visit_type,omitempty" validate:"omitempty,max=50"`
	ServiceName string          `json:"service_name" validate:"required,max=255"`
	Charge      decimal.Decimal `json:"charge"`
}

// PaymentInput: TotalCharges defaults to the sum of service charges when omitted
type PaymentInput struct {
	Method        string           `json:"method" validate:"required,oneof=cash online mixed"`
	TotalCharges  *decimal.Decimal `json:"total_charges,omitempty"`
	Discount      decimal.Decimal  `json:"discount"`
	TotalPaid     decimal.Decimal  `json:"total_paid"`
	CashAmount    decimal.Decimal  `json:"cash_amount"`
	OnlineAmount  decimal.Decimal  `json:"online_amount"`
	CashChannel   string           `json:"cash_channel,omitempty" validate:"omitempty,max=50"`
	OnlineChannel string           `json:"online_channel,omitempty" validate:"omitempty,max=50"`
}

// BookingDetails is shared by create and edit
type BookingDetails struct {
	Patient         PatientInput       `json:"patient"`
	AppointmentDate string             `json:"appointment_date" validate:"required"`
	AppointmentTime string             `json:"appointment_time,omitempty"`
	Referral        string             `json:"referral,omitempty"`
	Notes           string             `json:"notes,omitempty"`
	ServiceLines    []ServiceLineInput `json:"service_lines,omitempty" validate:"omitempty,dive"`
	Payment         *PaymentInput      `json:"payment,omitempty"`
}

type CreateBookingRequest struct {
	AppointmentType string `json:"appointment_type" validate:"required"`
	BookingDetails
}

type UpdateBookingRequest struct {
	BookingDetails
}

// Response DTOs

type BookingResponse struct {
	UHID            string   `json:"uhid"`
	PatientID       int64    `json:"patient_id"`
	AppointmentID   int64    `json:"appointment_id"`
	AppointmentType string   `json:"appointment_type"`
	BillNumber      *int64   `json:"bill_number,omitempty"`
	PatientCreated  bool     `json:"patient_created"`
	Warnings        []string `json:"warnings,omitempty"`
}
