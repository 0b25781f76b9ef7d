package entity

import (
	"strconv"
	"time"

	"github.com/teyman11/voicebot/internal/sheetstore"
)

const (
	reservationDateLayout = "2006-01-02"
	reservationTimeLayout = "15:04"
)

type Reservation struct {
	ID              string `json:"id,omitempty"`
	Timestamp       string `json:"timestamp,omitempty"`
	Phone           string `json:"phone"`
	Name            string `json:"name"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	PartySize       int    `json:"party_size"`
	SpecialRequests string `json:"special_requests"`
	Status          string `json:"status"`
}

// Validate normalizes the reservation in place: phone to E.164, name and
// status defaulted, date/time checked against fixed layouts, party size
// bounded to [1,20].
func (r *Reservation) Validate() error {
	phone, err := NormalizePhone(r.Phone)
	if err != nil {
		return err
	}
	r.Phone = phone

	if r.Name == "" {
		r.Name = "Unknown"
	}
	if _, err := time.Parse(reservationDateLayout, r.Date); err != nil {
		return NewValidationError("Invalid date format. Use YYYY-MM-DD")
	}
	if _, err := time.Parse(reservationTimeLayout, r.Time); err != nil {
		return NewValidationError("Invalid time format. Use HH:MM (24h)")
	}
	if r.PartySize < 1 || r.PartySize > 20 {
		return NewValidationError("Party size must be between 1 and 20")
	}
	if r.Status == "" {
		r.Status = "New"
	}
	return nil
}

func (r Reservation) Row(id, timestamp string) []string {
	return []string{
		id,
		timestamp,
		r.Phone,
		r.Name,
		r.Date,
		r.Time,
		strconv.Itoa(r.PartySize),
		r.SpecialRequests,
		r.Status,
	}
}

func ReservationFromRecord(record sheetstore.Record) Reservation {
	partySize, _ := strconv.Atoi(record["party_size"])

	name := record["name"]
	if name == "" {
		name = "Unknown"
	}

	return Reservation{
		ID:              record["id"],
		Timestamp:       record["timestamp"],
		Phone:           record["phone"],
		Name:            name,
		Date:            record["date"],
		Time:            record["time"],
		PartySize:       partySize,
		SpecialRequests: record["special_requests"],
		Status:          record["status"],
	}
}
