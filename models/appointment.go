package models

import "time"

// Appointment statuses. Only non-declined appointments block time.
const (
	AppointmentPending   = "pending"
	AppointmentConfirmed = "confirmed"
	AppointmentDeclined  = "declined"
)

// Appointment represents a committed booking record.
type Appointment struct {
	ID            string    `bson:"id" json:"id"`
	OptionID      string    `bson:"option_id,omitempty" json:"option_id,omitempty"`
	CustomerName  string    `bson:"customer_name" json:"customer_name"`
	CustomerEmail string    `bson:"customer_email" json:"customer_email"`
	DateTime      time.Time `bson:"date_time" json:"date_time"`
	TotalDuration int       `bson:"total_duration" json:"total_duration"` // minutes
	Status        string    `bson:"status" json:"status"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}

// EndTime returns the instant the appointment finishes.
func (a Appointment) EndTime() time.Time {
	return a.DateTime.Add(time.Duration(a.TotalDuration) * time.Minute)
}

// IsDeclined reports whether the appointment no longer blocks time.
func (a Appointment) IsDeclined() bool {
	return a.Status == AppointmentDeclined
}

// Period maps the appointment onto its busy period.
func (a Appointment) Period() Period {
	return Period{Start: a.DateTime, End: a.EndTime(), UID: a.ID}
}

// AppointmentRequest is the creation payload accepted by the booking service.
type AppointmentRequest struct {
	OptionID        string    `json:"option_id,omitempty"`
	CustomerName    string    `json:"customer_name"`
	CustomerEmail   string    `json:"customer_email"`
	DateTime        time.Time `json:"date_time"`
	DurationMinutes int       `json:"duration_minutes,omitempty"` // ignored when OptionID resolves a duration
}
