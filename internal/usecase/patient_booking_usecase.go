package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-clinic-booking/internal/converter"
	"go-clinic-booking/internal/delivery/dto"
	"go-clinic-booking/internal/delivery/http/middleware"
	"go-clinic-booking/internal/domain/entity"
	"go-clinic-booking/internal/domain/repository"
	"go-clinic-booking/internal/service"
	"go-clinic-booking/pkg/metrics"
	"go-clinic-booking/pkg/uhid"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

type PatientBookingUsecase interface {
	CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
	UpdateBooking(ctx context.Context, apptType string, appointmentID int64, req *dto.UpdateBookingRequest) (*dto.BookingResponse, error)
}

type patientBookingUsecase struct {
	log             *logrus.Logger
	patientRepo     repository.PatientRepository
	appointmentRepo repository.AppointmentRepository
	doctorRepo      repository.DoctorProfileRepository
	allocator       service.SequenceAllocator
	formatter       *uhid.Formatter
	ledger          service.DailyLedger
	auditService    service.AuditService
	metrics         *metrics.Collector
	loc             *time.Location
	now             func() time.Time
}

func NewPatientBookingUsecase(
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorProfileRepository,
	allocator service.SequenceAllocator,
	formatter *uhid.Formatter,
	ledger service.DailyLedger,
	auditService service.AuditService,
	m *metrics.Collector,
	loc *time.Location,
) PatientBookingUsecase {
	if loc == nil {
		loc = time.UTC
	}
	return &patientBookingUsecase{
		log:             log,
		patientRepo:     patientRepo,
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		allocator:       allocator,
		formatter:       formatter,
		ledger:          ledger,
		auditService:    auditService,
		metrics:         m,
		loc:             loc,
		now:             time.Now,
	}
}

// CreateBooking registers or updates the patient, writes the appointment and,
// for scheduled visits, adds the payment to today's ledger row.
//
// Flow:
// 1. Validate the whole request and resolve doctor references (no writes yet)
// 2. Existing identity -> update demographics; otherwise allocate, format, insert
// 3. Insert the appointment (scheduled: with ordered service lines)
// 4. Scheduled only: ledger increment, failure logged but not returned
// 5. Audit + metrics
func (u *patientBookingUsecase) CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	apptType := entity.AppointmentType(strings.ToLower(strings.TrimSpace(req.AppointmentType)))

	resp, err := u.createBooking(ctx, apptType, req)
	u.metrics.BookingsTotal.WithLabelValues(typeLabel(apptType), outcomeLabel(err)).Inc()
	return resp, err
}

func (u *patientBookingUsecase) createBooking(ctx context.Context, apptType entity.AppointmentType, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	if apptType != entity.AppointmentTypeOnCall && apptType != entity.AppointmentTypeScheduled {
		return nil, ErrInvalidAppointmentType
	}

	existing := req.Patient.PatientID != nil || strings.TrimSpace(req.Patient.UHID) != ""
	if existing {
		if err := u.checkIdentity(&req.Patient); err != nil {
			return nil, err
		}
	}

	now := u.now().In(u.loc)

	// Step 1: everything that can reject the request happens before any write
	patient, err := u.buildPatient(&req.Patient, now)
	if err != nil {
		return nil, err
	}
	appt, err := u.buildAppointment(ctx, apptType, &req.BookingDetails)
	if err != nil {
		return nil, err
	}
	creator, actorID := actorFromContext(ctx)
	setCreator(appt, creator)

	// Step 2: resolve identity
	patientCreated := false
	if existing {
		if err := u.updatePatient(ctx, patient); err != nil {
			return nil, err
		}
	} else {
		seq, err := u.allocator.AllocateNext(ctx)
		if err != nil {
			return nil, err
		}
		patient.UHID = u.formatter.Format(seq, now)

		if err := u.patientRepo.Create(ctx, patient); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				u.log.Errorf("Allocated UHID %s already exists, check the sequence counter: %+v", patient.UHID, err)
			} else {
				u.log.Errorf("Failed to create patient: %+v", err)
			}
			return nil, fmt.Errorf("%w: %w", ErrPatientWriteFailed, err)
		}
		patientCreated = true
		u.metrics.PatientsCreatedTotal.Inc()
	}

	// Step 3: appointment
	entity.AssignPatient(appt, patient)
	if err := u.insertAppointment(ctx, appt); err != nil {
		u.log.Errorf("Failed to create %s appointment for patient %s: %+v", apptType, patient.UHID, err)
		return nil, fmt.Errorf("%w (patient %s was saved and can be reused): %w", ErrAppointmentWriteFailed, patient.UHID, err)
	}

	resp := converter.AppointmentToBookingResponse(appt, patientCreated)

	// Step 4: ledger
	if scheduled, ok := appt.(*entity.ScheduledAppointment); ok {
		if err := u.ledger.AddBooking(ctx, now, entity.DeltaFromPayment(scheduled.Payment)); err != nil {
			u.log.Errorf("Failed to update daily summary for bill %d: %+v", scheduled.BillNumber, err)
			resp.Warnings = append(resp.Warnings, "daily summary was not updated")
		}
	}

	// Step 5: audit (best-effort)
	if patientCreated {
		_ = u.auditService.LogCreate(ctx, actorID, entity.AuditActionPatientRegister, "patient", patient.UHID, converter.PatientToResponse(patient))
	}
	_ = u.auditService.LogCreate(ctx, actorID, entity.AuditActionBookingCreate, string(apptType)+"_appointment", fmt.Sprint(appt.GetID()), resp)

	u.log.Infof("Booked %s appointment %d for patient %s", apptType, appt.GetID(), patient.UHID)
	return resp, nil
}

// UpdateBooking edits an existing appointment in place. The daily ledger is
// not adjusted; GetDailyReport shows any resulting drift.
func (u *patientBookingUsecase) UpdateBooking(ctx context.Context, apptType string, appointmentID int64, req *dto.UpdateBookingRequest) (*dto.BookingResponse, error) {
	t := entity.AppointmentType(strings.ToLower(strings.TrimSpace(apptType)))

	resp, err := u.updateBooking(ctx, t, appointmentID, req)
	u.metrics.BookingEditsTotal.WithLabelValues(typeLabel(t), outcomeLabel(err)).Inc()
	return resp, err
}

func (u *patientBookingUsecase) updateBooking(ctx context.Context, apptType entity.AppointmentType, appointmentID int64, req *dto.UpdateBookingRequest) (*dto.BookingResponse, error) {
	if apptType != entity.AppointmentTypeOnCall && apptType != entity.AppointmentTypeScheduled {
		return nil, ErrInvalidAppointmentType
	}
	if err := u.checkIdentity(&req.Patient); err != nil {
		return nil, err
	}

	now := u.now().In(u.loc)

	patient, err := u.buildPatient(&req.Patient, now)
	if err != nil {
		return nil, err
	}
	appt, err := u.buildAppointment(ctx, apptType, &req.BookingDetails)
	if err != nil {
		return nil, err
	}

	current, err := u.findAppointment(ctx, apptType, appointmentID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrAppointmentNotFound
	}
	if ownerID, ownerUHID := current.Owner(); ownerID != patient.ID || ownerUHID != patient.UHID {
		return nil, ErrAppointmentNotFound
	}

	if err := u.updatePatient(ctx, patient); err != nil {
		return nil, err
	}

	entity.AssignPatient(appt, patient)
	switch a := appt.(type) {
	case *entity.OnCallAppointment:
		a.ID = appointmentID
		err = u.appointmentRepo.UpdateOnCall(ctx, a)
	case *entity.ScheduledAppointment:
		a.ID = appointmentID
		a.BillNumber = current.(*entity.ScheduledAppointment).BillNumber
		err = u.appointmentRepo.ReplaceScheduled(ctx, a)
	}
	if err != nil {
		u.log.Errorf("Failed to update %s appointment %d: %+v", apptType, appointmentID, err)
		return nil, fmt.Errorf("%w (patient %s was saved and can be reused): %w", ErrAppointmentWriteFailed, patient.UHID, err)
	}

	_, actorID := actorFromContext(ctx)
	_ = u.auditService.LogUpdate(ctx, actorID, entity.AuditActionBookingUpdate, string(apptType)+"_appointment", fmt.Sprint(appointmentID), current, appt)

	return converter.AppointmentToBookingResponse(appt, false), nil
}

// checkIdentity requires both halves of an existing patient's identity and a
// UHID that splits into prefix, year and sequence.
func (u *patientBookingUsecase) checkIdentity(in *dto.PatientInput) error {
	if in.PatientID == nil || strings.TrimSpace(in.UHID) == "" {
		return ErrMissingIdentity
	}
	if _, err := u.formatter.Parse(in.UHID); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}

// buildPatient validates demographics and derives the date of birth
func (u *patientBookingUsecase) buildPatient(in *dto.PatientInput, now time.Time) (*entity.Patient, error) {
	name := strings.TrimSpace(in.FullName)
	if name == "" {
		return nil, fmt.Errorf("%w: full name is required", ErrInvalidInput)
	}

	phone := strings.TrimSpace(in.PhoneNumber)
	if phone != "" && !uhid.IsNumeric(phone) {
		return nil, ErrInvalidPhoneNumber
	}

	unit := entity.AgeUnit(strings.ToLower(strings.TrimSpace(in.AgeUnit)))
	if in.Age != nil {
		if *in.Age < 0 {
			return nil, fmt.Errorf("%w: age cannot be negative", ErrInvalidInput)
		}
		if unit == "" {
			unit = entity.AgeUnitYear
		}
	}
	if unit != "" && !unit.IsValid() {
		return nil, ErrInvalidAgeUnit
	}

	patient := &entity.Patient{
		UHID:        strings.TrimSpace(in.UHID),
		FullName:    name,
		PhoneNumber: phone,
		Age:         in.Age,
		AgeUnit:     unit,
		DateOfBirth: entity.DeriveDateOfBirth(in.Age, unit, now),
		Gender:      strings.ToUpper(strings.TrimSpace(in.Gender)),
		Address:     strings.TrimSpace(in.Address),
	}
	if in.PatientID != nil {
		patient.ID = *in.PatientID
	}
	return patient, nil
}

func (u *patientBookingUsecase) buildAppointment(ctx context.Context, apptType entity.AppointmentType, in *dto.BookingDetails) (entity.Appointment, error) {
	date, err := time.ParseInLocation(dateLayout, strings.TrimSpace(in.AppointmentDate), u.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, in.AppointmentDate)
	}

	if apptType == entity.AppointmentTypeOnCall {
		var apptTime *string
		if t := strings.TrimSpace(in.AppointmentTime); t != "" {
			if _, err := time.Parse(timeLayout, t); err != nil {
				return nil, fmt.Errorf("%w: %q", ErrInvalidTime, in.AppointmentTime)
			}
			apptTime = &t
		}
		return &entity.OnCallAppointment{
			AppointmentDate: date,
			AppointmentTime: apptTime,
			Referral:        in.Referral,
			Notes:           in.Notes,
		}, nil
	}

	if len(in.ServiceLines) == 0 {
		return nil, ErrNoServicesSelected
	}

	lines := make([]entity.ServiceLine, 0, len(in.ServiceLines))
	for i, l := range in.ServiceLines {
		if strings.TrimSpace(l.ServiceName) == "" || strings.TrimSpace(l.ServiceType) == "" {
			return nil, fmt.Errorf("%w: service %d needs a type and a name", ErrInvalidInput, i+1)
		}
		if l.Charge.IsNegative() {
			return nil, fmt.Errorf("%w: service %d has a negative charge", ErrInvalidInput, i+1)
		}
		doctorName, err := u.resolveDoctor(ctx, entity.DoctorRef{ID: l.DoctorID, Name: strings.TrimSpace(l.DoctorName)})
		if err != nil {
			return nil, err
		}
		lines = append(lines, entity.ServiceLine{
			ServiceType: strings.TrimSpace(l.ServiceType),
			DoctorName:  doctorName,
			Specialty:   l.Specialty,
			VisitType:   l.VisitType,
			ServiceName: strings.TrimSpace(l.ServiceName),
			Charge:      l.Charge,
		})
	}

	appt := &entity.ScheduledAppointment{
		AppointmentDate: date,
		Referral:        in.Referral,
		Notes:           in.Notes,
		ServiceLines:    lines,
	}

	payment, err := buildPayment(in.Payment, appt.ServicesTotal())
	if err != nil {
		return nil, err
	}
	appt.Payment = *payment

	return appt, nil
}

// buildPayment checks that the amounts are non-negative and that cash and
// online add up to what was paid.
func buildPayment(in *dto.PaymentInput, servicesTotal decimal.Decimal) (*entity.PaymentInfo, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: payment is required for scheduled appointments", ErrInvalidPayment)
	}

	method := strings.ToLower(strings.TrimSpace(in.Method))
	switch method {
	case entity.PaymentMethodCash, entity.PaymentMethodOnline, entity.PaymentMethodMixed:
	default:
		return nil, fmt.Errorf("%w: unknown method %q", ErrInvalidPayment, in.Method)
	}

	totalCharges := servicesTotal
	if in.TotalCharges != nil {
		totalCharges = *in.TotalCharges
	}

	for name, v := range map[string]decimal.Decimal{
		"total_charges": totalCharges,
		"discount":      in.Discount,
		"total_paid":    in.TotalPaid,
		"cash_amount":   in.CashAmount,
		"online_amount": in.OnlineAmount,
	} {
		if v.IsNegative() {
			return nil, fmt.Errorf("%w: %s cannot be negative", ErrInvalidPayment, name)
		}
	}

	if in.Discount.GreaterThan(totalCharges) {
		return nil, fmt.Errorf("%w: discount exceeds total charges", ErrInvalidPayment)
	}
	if !in.CashAmount.Add(in.OnlineAmount).Equal(in.TotalPaid) {
		return nil, fmt.Errorf("%w: cash %s + online %s != total paid %s", ErrInvalidPayment, in.CashAmount, in.OnlineAmount, in.TotalPaid)
	}
	if method == entity.PaymentMethodCash && !in.OnlineAmount.IsZero() {
		return nil, fmt.Errorf("%w: cash payment with an online amount", ErrInvalidPayment)
	}
	if method == entity.PaymentMethodOnline && !in.CashAmount.IsZero() {
		return nil, fmt.Errorf("%w: online payment with a cash amount", ErrInvalidPayment)
	}

	return &entity.PaymentInfo{
		Method:        method,
		TotalCharges:  totalCharges,
		Discount:      in.Discount,
		TotalPaid:     in.TotalPaid,
		CashAmount:    in.CashAmount,
		OnlineAmount:  in.OnlineAmount,
		CashChannel:   in.CashChannel,
		OnlineChannel: in.OnlineChannel,
	}, nil
}

// resolveDoctor turns a DoctorRef into the name printed on the line
func (u *patientBookingUsecase) resolveDoctor(ctx context.Context, ref entity.DoctorRef) (string, error) {
	if ref.IsEmpty() {
		return "", nil
	}
	if ref.ID == nil {
		return ref.Name, nil
	}

	name, err := u.doctorRepo.FindDisplayName(ctx, *ref.ID)
	if err != nil {
		u.log.Warnf("Failed to resolve doctor %s: %+v", ref.ID, err)
		return "", storageErr(err)
	}
	if name == "" {
		return "", fmt.Errorf("%w: %s", ErrDoctorNotFound, ref.ID)
	}
	return name, nil
}

// updatePatient overwrites the demographics of the row addressed by
// patient.ID and patient.UHID. On success patient holds the stored row.
func (u *patientBookingUsecase) updatePatient(ctx context.Context, patient *entity.Patient) error {
	before, err := u.patientRepo.FindByID(ctx, patient.ID)
	if err != nil {
		u.log.Warnf("Failed to load patient %d: %+v", patient.ID, err)
		return storageErr(err)
	}
	if before == nil || before.UHID != patient.UHID {
		return ErrPatientNotFound
	}

	updated := *before
	updated.ApplyDemographics(patient)

	rows, err := u.patientRepo.UpdateDemographics(ctx, &updated)
	if err != nil {
		u.log.Errorf("Failed to update patient %s: %+v", patient.UHID, err)
		return fmt.Errorf("%w: %w", ErrPatientWriteFailed, err)
	}
	if rows == 0 {
		return ErrPatientNotFound
	}
	*patient = updated

	_, actorID := actorFromContext(ctx)
	_ = u.auditService.LogUpdate(ctx, actorID, entity.AuditActionPatientUpdate, "patient", patient.UHID,
		converter.PatientToResponse(before), converter.PatientToResponse(patient))
	return nil
}

func (u *patientBookingUsecase) insertAppointment(ctx context.Context, appt entity.Appointment) error {
	switch a := appt.(type) {
	case *entity.OnCallAppointment:
		return u.appointmentRepo.CreateOnCall(ctx, a)
	case *entity.ScheduledAppointment:
		return u.appointmentRepo.CreateScheduled(ctx, a)
	}
	return ErrInvalidAppointmentType
}

func (u *patientBookingUsecase) findAppointment(ctx context.Context, apptType entity.AppointmentType, id int64) (entity.Appointment, error) {
	switch apptType {
	case entity.AppointmentTypeOnCall:
		a, err := u.appointmentRepo.FindOnCallByID(ctx, id)
		if err != nil {
			return nil, storageErr(err)
		}
		if a == nil {
			return nil, nil
		}
		return a, nil
	default:
		a, err := u.appointmentRepo.FindScheduledByID(ctx, id)
		if err != nil {
			return nil, storageErr(err)
		}
		if a == nil {
			return nil, nil
		}
		return a, nil
	}
}

func setCreator(appt entity.Appointment, creator string) {
	switch a := appt.(type) {
	case *entity.OnCallAppointment:
		a.CreatedBy = creator
	case *entity.ScheduledAppointment:
		a.CreatedBy = creator
	}
}

// actorFromContext returns the creator tag and audit user id of the caller
func actorFromContext(ctx context.Context) (string, *uuid.UUID) {
	email, _ := middleware.GetUserEmailFromContext(ctx)
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return email, nil
	}
	return email, &userID
}

func typeLabel(t entity.AppointmentType) string {
	if t == entity.AppointmentTypeOnCall || t == entity.AppointmentTypeScheduled {
		return string(t)
	}
	return "unknown"
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidInput):
		return "invalid"
	case errors.Is(err, service.ErrAllocationUnavailable):
		return "allocation_failed"
	case errors.Is(err, ErrPatientWriteFailed):
		return "patient_write_failed"
	case errors.Is(err, ErrAppointmentWriteFailed):
		return "appointment_write_failed"
	case errors.Is(err, ErrPatientNotFound), errors.Is(err, ErrAppointmentNotFound):
		return "not_found"
	default:
		return "error"
	}
}
