package entity

import "github.com/teyman11/voicebot/internal/sheetstore"

type CallLog struct {
	ID            string `json:"id,omitempty"`
	Timestamp     string `json:"timestamp,omitempty"`
	Phone         string `json:"phone"`
	Duration      string `json:"duration"`
	Status        string `json:"status"`
	Intent        string `json:"intent"`
	Transcription string `json:"transcription"`
	Notes         string `json:"notes"`
}

// NewCallLog is the initial entry written when an inbound call is
// accepted; duration and outcome are not known yet.
func NewCallLog(phone string) CallLog {
	return CallLog{
		Phone:    phone,
		Duration: "0",
		Status:   "in-progress",
	}
}

func (l CallLog) Row(id, timestamp string) []string {
	return []string{id, timestamp, l.Phone, l.Duration, l.Status, l.Intent, l.Transcription, l.Notes}
}

func CallLogFromRecord(record sheetstore.Record) CallLog {
	return CallLog{
		ID:            record["id"],
		Timestamp:     record["timestamp"],
		Phone:         record["phone"],
		Duration:      record["duration"],
		Status:        record["status"],
		Intent:        record["intent"],
		Transcription: record["transcription"],
		Notes:         record["notes"],
	}
}
