package entity

import (
	"math"
	"strconv"
	"strings"

	"github.com/teyman11/voicebot/internal/sheetstore"
)

type MenuItem struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	CreatedAt   string  `json:"created_at,omitempty"`
}

// Validate normalizes the item in place: name trimmed and required,
// price required positive and rounded to 2 decimals.
func (m *MenuItem) Validate() error {
	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" {
		return NewValidationError("Name cannot be empty")
	}
	if m.Price <= 0 {
		return NewValidationError("Price must be greater than 0")
	}
	m.Price = math.Round(m.Price*100) / 100
	return nil
}

// Row serializes the item in Menu Items header order.
func (m MenuItem) Row(id, createdAt string) []string {
	return []string{id, m.Name, formatAmount(m.Price), m.Description, m.Category, createdAt}
}

func MenuItemFromRecord(record sheetstore.Record) MenuItem {
	return MenuItem{
		ID:          record["id"],
		Name:        record["name"],
		Price:       parseAmount(record["price"]),
		Description: record["description"],
		Category:    record["category"],
		CreatedAt:   record["created_at"],
	}
}

func formatAmount(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// parseAmount tolerates malformed cells, decoding them as zero.
func parseAmount(cell string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return 0
	}
	return value
}
