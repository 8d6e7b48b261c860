package converter

import (
	"go-clinic-booking/internal/delivery/dto"
	"go-clinic-booking/internal/domain/entity"
)

// AppointmentToBookingResponse reports the identifiers a booking produced
func AppointmentToBookingResponse(appt entity.Appointment, patientCreated bool) *dto.BookingResponse {
	patientID, uhid := appt.Owner()
	resp := &dto.BookingResponse{
		UHID:            uhid,
		PatientID:       patientID,
		AppointmentID:   appt.GetID(),
		AppointmentType: string(appt.Type()),
		PatientCreated:  patientCreated,
	}

	if scheduled, ok := appt.(*entity.ScheduledAppointment); ok {
		bill := scheduled.BillNumber
		resp.BillNumber = &bill
	}
	return resp
}
