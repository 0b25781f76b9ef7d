package entity

import (
	"encoding/json"

	"github.com/teyman11/voicebot/internal/sheetstore"
)

type Order struct {
	ID                  string   `json:"id,omitempty"`
	Timestamp           string   `json:"timestamp,omitempty"`
	Phone               string   `json:"phone"`
	Name                string   `json:"name"`
	Items               []string `json:"items"`
	Total               float64  `json:"total"`
	SpecialInstructions string   `json:"special_instructions"`
	Status              string   `json:"status"`
}

// Validate normalizes the order in place: phone to E.164, name and status
// defaulted, items required non-empty, total required non-negative.
func (o *Order) Validate() error {
	phone, err := NormalizePhone(o.Phone)
	if err != nil {
		return err
	}
	o.Phone = phone

	if o.Name == "" {
		o.Name = "Unknown"
	}
	if len(o.Items) == 0 {
		return NewValidationError("Order must contain at least one item")
	}
	if o.Total < 0 {
		return NewValidationError("Order total must be greater than 0")
	}
	if o.Status == "" {
		o.Status = "New"
	}
	return nil
}

// Row serializes the order in Orders header order. Items are stored as a
// JSON array in a single cell.
func (o Order) Row(id, timestamp string) []string {
	items, _ := json.Marshal(o.Items)
	return []string{
		id,
		timestamp,
		o.Phone,
		o.Name,
		string(items),
		formatAmount(o.Total),
		o.SpecialInstructions,
		o.Status,
	}
}

// OrderFromRecord decodes a row. A malformed items cell degrades to an
// empty list rather than failing the read; the other fields stay intact.
func OrderFromRecord(record sheetstore.Record) Order {
	items := []string{}
	if cell := record["items"]; cell != "" {
		if err := json.Unmarshal([]byte(cell), &items); err != nil {
			items = []string{}
		}
	}

	name := record["name"]
	if name == "" {
		name = "Unknown"
	}

	return Order{
		ID:                  record["id"],
		Timestamp:           record["timestamp"],
		Phone:               record["phone"],
		Name:                name,
		Items:               items,
		Total:               parseAmount(record["total"]),
		SpecialInstructions: record["special_instructions"],
		Status:              record["status"],
	}
}
