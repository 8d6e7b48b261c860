package dto

import "time"

type PatientResponse struct {
	ID          int64     `json:"id"`
	UHID        string    `json:"uhid"`
	FullName    string    `json:"full_name"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Age         *int      `json:"age,omitempty"`
	AgeUnit     string    `json:"age_unit,omitempty"`
	DateOfBirth string    `json:"date_of_birth,omitempty"` // YYYY-MM-DD
	Gender      string    `json:"gender,omitempty"`
	Address     string    `json:"address,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type PatientListResponse struct {
	Patients []PatientResponse `json:"patients"`
	Total    int               `json:"total"`
	Mode     string            `json:"mode"`
}
