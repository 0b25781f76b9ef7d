package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teyman11/voicebot/internal/sheetstore"
)

func TestMenuItemValidateRoundsPrice(t *testing.T) {
	item := MenuItem{Name: "Burger", Price: 9.999, Description: "x", Category: "Mains"}
	require.NoError(t, item.Validate())
	assert.Equal(t, 10.0, item.Price)

	row := item.Row("item-1", "2025-01-02T10:00:00Z")
	assert.Equal(t, []string{"item-1", "Burger", "10", "x", "Mains", "2025-01-02T10:00:00Z"}, row)
}

func TestMenuItemValidateRejectsBadInput(t *testing.T) {
	item := MenuItem{Name: "   ", Price: 5}
	err := item.Validate()
	require.Error(t, err)
	assert.Equal(t, "Name cannot be empty", err.Error())

	item = MenuItem{Name: "Burger", Price: 0}
	err = item.Validate()
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Equal(t, "Price must be greater than 0", err.Error())
}

func TestMenuItemFromRecordToleratesBadPrice(t *testing.T) {
	item := MenuItemFromRecord(sheetstore.Record{
		"id":    "item-1",
		"name":  "Burger",
		"price": "not-a-number",
	})
	assert.Equal(t, 0.0, item.Price)
	assert.Equal(t, "Burger", item.Name)
}

func TestFAQValidateTrimsAndRejectsBlank(t *testing.T) {
	faq := FAQ{Question: "  When are you open?  ", Answer: " 9 to 5 "}
	require.NoError(t, faq.Validate())
	assert.Equal(t, "When are you open?", faq.Question)
	assert.Equal(t, "9 to 5", faq.Answer)

	faq = FAQ{Question: "Only a question"}
	err := faq.Validate()
	require.Error(t, err)
	assert.Equal(t, "Fields cannot be empty", err.Error())
}

func TestOrderValidateDefaultsAndNormalizes(t *testing.T) {
	order := Order{
		Phone: "+1 (650) 253-0000",
		Items: []string{"Burger", "Fries"},
		Total: 15.5,
	}
	require.NoError(t, order.Validate())
	assert.Equal(t, "+16502530000", order.Phone)
	assert.Equal(t, "Unknown", order.Name)
	assert.Equal(t, "New", order.Status)
}

func TestOrderValidateRejectsEmptyItems(t *testing.T) {
	order := Order{Phone: "+16502530000", Items: []string{}, Total: 10}
	err := order.Validate()
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Equal(t, "Order must contain at least one item", err.Error())
}

func TestOrderValidateRejectsNegativeTotal(t *testing.T) {
	order := Order{Phone: "+16502530000", Items: []string{"Burger"}, Total: -1}
	err := order.Validate()
	require.Error(t, err)
	assert.Equal(t, "Order total must be greater than 0", err.Error())
}

func TestOrderRowEncodesItemsAsJSON(t *testing.T) {
	order := Order{
		Phone:  "+16502530000",
		Name:   "Alice",
		Items:  []string{"Burger", "Fries"},
		Total:  15.5,
		Status: "New",
	}
	row := order.Row("order-1", "2025-01-02T10:00:00Z")
	assert.Equal(t, `["Burger","Fries"]`, row[4])
	assert.Equal(t, "15.5", row[5])
}

func TestOrderFromRecordDegradesMalformedItems(t *testing.T) {
	order := OrderFromRecord(sheetstore.Record{
		"id":    "order-1",
		"phone": "+16502530000",
		"items": `[1,2`,
		"total": "15.5",
	})
	assert.Equal(t, []string{}, order.Items)
	assert.Equal(t, "+16502530000", order.Phone)
	assert.Equal(t, 15.5, order.Total)
	assert.Equal(t, "Unknown", order.Name)
}

func TestOrderFromRecordDecodesItems(t *testing.T) {
	order := OrderFromRecord(sheetstore.Record{
		"id":    "order-1",
		"items": `["Burger","Fries"]`,
	})
	assert.Equal(t, []string{"Burger", "Fries"}, order.Items)
}

func TestReservationValidate(t *testing.T) {
	reservation := Reservation{
		Phone:     "+16502530000",
		Date:      "2025-06-01",
		Time:      "18:30",
		PartySize: 4,
	}
	require.NoError(t, reservation.Validate())
	assert.Equal(t, "Unknown", reservation.Name)
	assert.Equal(t, "New", reservation.Status)
}

func TestReservationValidateRejectsBadDate(t *testing.T) {
	reservation := Reservation{Phone: "+16502530000", Date: "2024-13-01", Time: "18:30", PartySize: 4}
	err := reservation.Validate()
	require.Error(t, err)
	assert.Equal(t, "Invalid date format. Use YYYY-MM-DD", err.Error())
}

func TestReservationValidateRejectsBadTime(t *testing.T) {
	reservation := Reservation{Phone: "+16502530000", Date: "2025-06-01", Time: "6pm", PartySize: 4}
	err := reservation.Validate()
	require.Error(t, err)
	assert.Equal(t, "Invalid time format. Use HH:MM (24h)", err.Error())
}

func TestReservationValidateRejectsPartySizeOutOfRange(t *testing.T) {
	for _, size := range []int{0, -1, 25} {
		reservation := Reservation{Phone: "+16502530000", Date: "2025-06-01", Time: "18:30", PartySize: size}
		err := reservation.Validate()
		require.Error(t, err, size)
		assert.Equal(t, "Party size must be between 1 and 20", err.Error())
	}
}

func TestCallLogRow(t *testing.T) {
	log := NewCallLog("+16502530000")
	row := log.Row("call-1", "2025-01-02T10:00:00Z")
	assert.Equal(t, []string{"call-1", "2025-01-02T10:00:00Z", "+16502530000", "0", "in-progress", "", "", ""}, row)
}
