package usecase

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is the parent of every request rejection. Nothing has been
// written when one of these is returned.
var ErrInvalidInput = errors.New("invalid input")

var (
	ErrInvalidPhoneNumber     = fmt.Errorf("%w: phone number must contain digits only", ErrInvalidInput)
	ErrNoServicesSelected     = fmt.Errorf("%w: at least one service must be selected", ErrInvalidInput)
	ErrMissingIdentity        = fmt.Errorf("%w: patient id and uhid are both required", ErrInvalidInput)
	ErrInvalidAppointmentType = fmt.Errorf("%w: appointment type must be oncall or scheduled", ErrInvalidInput)
	ErrInvalidDate            = fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	ErrInvalidTime            = fmt.Errorf("%w: time must be HH:MM", ErrInvalidInput)
	ErrInvalidPayment         = fmt.Errorf("%w: inconsistent payment", ErrInvalidInput)
	ErrInvalidAgeUnit         = fmt.Errorf("%w: age unit must be year, month or day", ErrInvalidInput)
	ErrDoctorNotFound         = fmt.Errorf("%w: doctor not found", ErrInvalidInput)
)

var (
	ErrPatientNotFound     = errors.New("patient not found")
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrStorage wraps unexpected query failures so they are never mistaken for "not found"
	ErrStorage = errors.New("storage error")

	ErrPatientWriteFailed = errors.New("failed to save patient")
	// ErrAppointmentWriteFailed means the patient row was saved but the
	// appointment was not. The message names the saved UHID.
	ErrAppointmentWriteFailed = errors.New("failed to save appointment")
)

// Staff and auth
var (
	ErrEmailAlreadyExists   = errors.New("email already exists")
	ErrLicenseAlreadyExists = errors.New("license number already exists")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInactiveAccount      = errors.New("account is inactive")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrTokenRevoked         = errors.New("token has been revoked")
	ErrUserNotFound         = errors.New("user not found")
	ErrRoleNotFound         = errors.New("role not found")
	ErrAuditLogNotFound     = errors.New("audit log not found")
)

func storageErr(err error) error {
	return fmt.Errorf("%w: %w", ErrStorage, err)
}
