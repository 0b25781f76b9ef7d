package entity

import (
	"strings"

	"github.com/teyman11/voicebot/internal/sheetstore"
)

type FAQ struct {
	ID        string `json:"id,omitempty"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	CreatedAt string `json:"created_at,omitempty"`
}

func (f *FAQ) Validate() error {
	f.Question = strings.TrimSpace(f.Question)
	f.Answer = strings.TrimSpace(f.Answer)
	if f.Question == "" || f.Answer == "" {
		return NewValidationError("Fields cannot be empty")
	}
	return nil
}

func (f FAQ) Row(id, createdAt string) []string {
	return []string{id, f.Question, f.Answer, createdAt}
}

func FAQFromRecord(record sheetstore.Record) FAQ {
	return FAQ{
		ID:        record["id"],
		Question:  record["question"],
		Answer:    record["answer"],
		CreatedAt: record["created_at"],
	}
}
