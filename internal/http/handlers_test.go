package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teyman11/voicebot/internal/appcontext"
	"github.com/teyman11/voicebot/internal/services"
	"github.com/teyman11/voicebot/internal/sheetstore"
	"go.uber.org/zap"
)

// memBackend is a minimal in-memory sheetstore.Backend for handler tests.
type memBackend struct {
	sheets map[string][][]string
	titles []string
}

func newMemBackend() *memBackend {
	return &memBackend{sheets: make(map[string][][]string)}
}

func (m *memBackend) SheetTitles(ctx context.Context) ([]string, error) {
	return slices.Clone(m.titles), nil
}

func (m *memBackend) CreateSheet(ctx context.Context, title string, columnCount int64) error {
	m.sheets[title] = nil
	m.titles = append(m.titles, title)
	return nil
}

func (m *memBackend) Rows(ctx context.Context, title string) ([][]string, error) {
	rows, ok := m.sheets[title]
	if !ok {
		return nil, fmt.Errorf("worksheet %q not found", title)
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = slices.Clone(row)
	}
	return out, nil
}

func (m *memBackend) AppendRow(ctx context.Context, title string, row []string) error {
	if _, ok := m.sheets[title]; !ok {
		return fmt.Errorf("worksheet %q not found", title)
	}
	m.sheets[title] = append(m.sheets[title], slices.Clone(row))
	return nil
}

func (m *memBackend) UpdateRow(ctx context.Context, title string, rowIndex int64, row []string) error {
	m.sheets[title][rowIndex-1] = slices.Clone(row)
	return nil
}

func (m *memBackend) DeleteRow(ctx context.Context, title string, rowIndex int64) error {
	rows := m.sheets[title]
	m.sheets[title] = append(rows[:rowIndex-1], rows[rowIndex:]...)
	return nil
}

func (m *memBackend) Clear(ctx context.Context, title string) error {
	m.sheets[title] = nil
	return nil
}

func (m *memBackend) FormatHeader(ctx context.Context, title string) error {
	return nil
}

func newTestService(t *testing.T, assistantURL string) (*APIService, *memBackend) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := newMemBackend()
	logger := zap.NewNop()

	schema := sheetstore.NewSchemaManager(backend, logger)
	require.NoError(t, schema.EnsureTables(context.Background()))

	ctx := &appcontext.Context{
		Logger: logger,
		Store: sheetstore.NewStoreWithRetry(backend, logger, sheetstore.RetryPolicy{
			MaxAttempts: 3,
			Interval:    time.Millisecond,
		}),
		Schema:               schema,
		Assistant:            services.NewAssistantClient(assistantURL, "test-key", logger),
		AssistantID:          "assistant-1",
		AssistantPhoneNumber: "phone-1",
		TwilioNumber:         "+15005550006",
	}
	return NewHTTPService(ctx), backend
}

func doJSON(service *APIService, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	service.Engine().ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAddMenuItemRoundsPrice(t *testing.T) {
	service, _ := newTestService(t, "http://unused")

	w := doJSON(service, http.MethodPost, "/api/menu-items",
		`{"name":"Burger","price":9.999,"description":"x","category":"Mains"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decodeBody(t, w)
	assert.Equal(t, "Added successfully", created["message"])
	assert.NotEmpty(t, created["id"])

	w = doJSON(service, http.MethodGet, "/api/menu-items", "")
	require.Equal(t, http.StatusOK, w.Code)

	var items []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, 10.0, items[0]["price"])
	assert.Equal(t, "Burger", items[0]["name"])
}

func TestAddMenuItemRejectsInvalidPrice(t *testing.T) {
	service, backend := newTestService(t, "http://unused")

	w := doJSON(service, http.MethodPost, "/api/menu-items",
		`{"name":"Burger","price":0,"description":"x","category":"Mains"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Price must be greater than 0", decodeBody(t, w)["error"])

	rows, err := backend.Rows(context.Background(), sheetstore.MenuItemsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "no row written for rejected input")
}

func TestMenuItemUpdateAndDelete(t *testing.T) {
	service, _ := newTestService(t, "http://unused")

	w := doJSON(service, http.MethodPost, "/api/menu-items",
		`{"name":"Burger","price":9.5,"description":"x","category":"Mains"}`)
	require.Equal(t, http.StatusOK, w.Code)
	id := decodeBody(t, w)["id"].(string)

	w = doJSON(service, http.MethodPut, "/api/menu-items/"+id,
		`{"name":"Cheeseburger","price":11,"description":"x","category":"Mains"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(service, http.MethodGet, "/api/menu-items", "")
	var items []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0]["id"], "id survives update")
	assert.Equal(t, "Cheeseburger", items[0]["name"])

	w = doJSON(service, http.MethodDelete, "/api/menu-items/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(service, http.MethodDelete, "/api/menu-items/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderCompleteMissingToolCalls(t *testing.T) {
	service, _ := newTestService(t, "http://unused")

	w := doJSON(service, http.MethodPost, "/api/order-complete", `{"message":{}}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing toolCalls in payload", decodeBody(t, w)["error"])
}

func TestOrderCompleteSavesOrder(t *testing.T) {
	service, backend := newTestService(t, "http://unused")

	payload := `{"message":{"toolCalls":[{"function":{"arguments":{
		"phone":"+1 (650) 253-0000","items":["Burger","Fries"],"total":15.5}}}]}}`
	w := doJSON(service, http.MethodPost, "/api/order-complete", payload)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["id"])

	rows, err := backend.Rows(context.Background(), sheetstore.OrdersSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "+16502530000", rows[1][2], "phone stored in E.164")
	assert.Equal(t, `["Burger","Fries"]`, rows[1][4])
	assert.Equal(t, "New", rows[1][7])
}

func TestOrderCompleteRejectsEmptyItems(t *testing.T) {
	service, backend := newTestService(t, "http://unused")

	payload := `{"message":{"toolCalls":[{"function":{"arguments":{
		"phone":"+16502530000","items":[],"total":10}}}]}}`
	w := doJSON(service, http.MethodPost, "/api/order-complete", payload)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Order must contain at least one item", decodeBody(t, w)["error"])

	rows, err := backend.Rows(context.Background(), sheetstore.OrdersSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestReservationCompleteRejectsBadDate(t *testing.T) {
	service, _ := newTestService(t, "http://unused")

	payload := `{"message":{"toolCalls":[{"function":{"arguments":{
		"phone":"+16502530000","date":"2024-13-01","time":"18:30","party_size":4}}}]}}`
	w := doJSON(service, http.MethodPost, "/api/reservation-complete", payload)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid date format. Use YYYY-MM-DD", decodeBody(t, w)["error"])
}

func TestReservationCompleteDefaultsSpecialRequests(t *testing.T) {
	service, backend := newTestService(t, "http://unused")

	payload := `{"message":{"toolCalls":[{"function":{"arguments":{
		"phone":"+16502530000","date":"2025-06-01","time":"18:30","party_size":4}}}]}}`
	w := doJSON(service, http.MethodPost, "/api/reservation-complete", payload)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	rows, err := backend.Rows(context.Background(), sheetstore.ReservationsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Unknown", rows[1][3])
	assert.Equal(t, "None", rows[1][7])
	assert.Equal(t, "New", rows[1][8])
}

func TestUpdateOrderNotFound(t *testing.T) {
	service, _ := newTestService(t, "http://unused")

	w := doJSON(service, http.MethodPut, "/api/orders/missing-id",
		`{"phone":"+16502530000","items":["Burger"],"total":10}`)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Order not found", decodeBody(t, w)["error"])
}

func TestHealthCheck(t *testing.T) {
	service, _ := newTestService(t, "http://unused")

	w := doJSON(service, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, true, body["sheets_connected"])
}

func postInboundCall(service *APIService) *httptest.ResponseRecorder {
	form := "From=%2B16502530000&CallSid=CA123"
	req := httptest.NewRequest(http.MethodPost, "/inbound_call", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	service.Engine().ServeHTTP(w, req)
	return w
}

func TestInboundCallReturnsProviderMarkup(t *testing.T) {
	assistant := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/call", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var payload map[string]interface{}
		if assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload)) {
			assert.Equal(t, "assistant-1", payload["assistantId"])
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"phoneCallProviderDetails":{"twiml":"<Response><Connect/></Response>"}}`)
	}))
	defer assistant.Close()

	service, backend := newTestService(t, assistant.URL)

	w := postInboundCall(service)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "<Response><Connect/></Response>", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "application/xml")

	rows, err := backend.Rows(context.Background(), sheetstore.CallLogsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2, "accepted call writes a call log")
	assert.Equal(t, "+16502530000", rows[1][2])
	assert.Equal(t, "in-progress", rows[1][4])
}

func TestInboundCallFallsBackWhenAssistantFails(t *testing.T) {
	assistant := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer assistant.Close()

	service, backend := newTestService(t, assistant.URL)

	w := postInboundCall(service)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "<Response><Say>Unable to connect to assistant</Say></Response>", w.Body.String())

	rows, err := backend.Rows(context.Background(), sheetstore.CallLogsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "no call log for a failed call")
}

func TestInboundCallFallsBackOnMissingCallDetails(t *testing.T) {
	assistant := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{}`)
	}))
	defer assistant.Close()

	service, _ := newTestService(t, assistant.URL)

	w := postInboundCall(service)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "<Response><Say>Assistant configuration error</Say></Response>", w.Body.String())
}
