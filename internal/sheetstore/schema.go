package sheetstore

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Worksheet titles backing each record kind.
const (
	MenuItemsSheet    = "Menu Items"
	FAQsSheet         = "FAQs"
	OrdersSheet       = "Orders"
	ReservationsSheet = "Reservations"
	CallLogsSheet     = "Call Logs"
)

var sheetColumns = map[string][]string{
	MenuItemsSheet:    {"id", "name", "price", "description", "category", "created_at"},
	FAQsSheet:         {"id", "question", "answer", "created_at"},
	OrdersSheet:       {"id", "timestamp", "phone", "name", "items", "total", "special_instructions", "status"},
	ReservationsSheet: {"id", "timestamp", "phone", "name", "date", "time", "party_size", "special_requests", "status"},
	CallLogsSheet:     {"id", "timestamp", "phone", "duration", "status", "intent", "transcription", "notes"},
}

// ensureOrder keeps worksheet creation deterministic.
var ensureOrder = []string{MenuItemsSheet, FAQsSheet, OrdersSheet, ReservationsSheet, CallLogsSheet}

// Columns returns the canonical header for a registered worksheet.
func Columns(worksheet string) []string {
	return sheetColumns[worksheet]
}

// SchemaManager reconciles every registered worksheet with its canonical
// header. It is meant to run once at startup, before the store serves
// traffic.
type SchemaManager struct {
	backend Backend
	logger  *zap.Logger
	retry   RetryPolicy
}

func NewSchemaManager(backend Backend, logger *zap.Logger) *SchemaManager {
	return &SchemaManager{
		backend: backend,
		logger:  logger,
		retry:   DefaultRetryPolicy,
	}
}

// EnsureTables creates any missing worksheet with its header (styled and
// frozen), and resets the header of any worksheet that drifted from the
// canonical column list. A reset clears existing data: availability over
// strictness, and the reason drift is logged loudly as a warning.
// Idempotent, so safe to run on every boot.
func (m *SchemaManager) EnsureTables(ctx context.Context) error {
	existing, err := m.backend.SheetTitles(ctx)
	if err != nil {
		return fmt.Errorf("failed to list worksheets: %w", err)
	}

	for _, worksheet := range ensureOrder {
		columns := sheetColumns[worksheet]

		if !slices.Contains(existing, worksheet) {
			if err := m.createTable(ctx, worksheet, columns); err != nil {
				return err
			}
			m.logger.Info("created worksheet", zap.String("worksheet", worksheet))
			continue
		}

		rows, err := m.backend.Rows(ctx, worksheet)
		if err != nil {
			return fmt.Errorf("failed to read worksheet %q: %w", worksheet, err)
		}
		if len(rows) > 0 && slices.Equal(rows[0], columns) {
			continue
		}

		found := []string{}
		if len(rows) > 0 {
			found = rows[0]
		}
		m.logger.Warn("worksheet header mismatch, resetting (existing data is discarded)",
			zap.String("worksheet", worksheet),
			zap.Strings("expected", columns),
			zap.Strings("found", found),
		)
		if err := rebuildHeader(ctx, m.backend, m.logger, m.retry, worksheet, columns); err != nil {
			return err
		}
		m.logger.Info("reset worksheet header", zap.String("worksheet", worksheet))
	}
	return nil
}

// MigrateMenuItems is a one-time repair for menu data written under an
// older header. Rows are re-read under best-effort field names, re-keyed
// with fresh ids, stamped with the current time, and rewritten under the
// canonical schema. Missing fields default to empty rather than rejecting
// the row, since this runs at startup before anything can be rejected.
// Must run before EnsureTables, which would discard the drifted data.
func (m *SchemaManager) MigrateMenuItems(ctx context.Context) error {
	columns := sheetColumns[MenuItemsSheet]

	existing, err := m.backend.SheetTitles(ctx)
	if err != nil {
		return fmt.Errorf("failed to list worksheets: %w", err)
	}
	if !slices.Contains(existing, MenuItemsSheet) {
		if err := m.createTable(ctx, MenuItemsSheet, columns); err != nil {
			return err
		}
		m.logger.Info("created worksheet", zap.String("worksheet", MenuItemsSheet))
		return nil
	}

	rows, err := m.backend.Rows(ctx, MenuItemsSheet)
	if err != nil {
		return fmt.Errorf("failed to read worksheet %q: %w", MenuItemsSheet, err)
	}
	if len(rows) > 0 && slices.Equal(rows[0], columns) {
		return nil
	}

	var legacy []Record
	if len(rows) > 1 {
		header := rows[0]
		for _, row := range rows[1:] {
			record := make(Record, len(header))
			for i, column := range header {
				if i < len(row) {
					record[column] = row[i]
				}
			}
			legacy = append(legacy, record)
		}
	}

	if err := rebuildHeader(ctx, m.backend, m.logger, m.retry, MenuItemsSheet, columns); err != nil {
		return err
	}

	for _, record := range legacy {
		price := record["price"]
		if price == "" {
			price = "0"
		}
		migrated := []string{
			uuid.NewString(),
			record["name"],
			price,
			record["description"],
			record["category"],
			time.Now().Format(time.RFC3339),
		}
		if err := appendWithRetry(ctx, m.backend, m.logger, m.retry, MenuItemsSheet, migrated); err != nil {
			return fmt.Errorf("failed to migrate menu item row: %w", err)
		}
	}

	m.logger.Info("rebuilt menu items worksheet",
		zap.String("worksheet", MenuItemsSheet),
		zap.Int("migrated_rows", len(legacy)),
	)
	return nil
}

func (m *SchemaManager) createTable(ctx context.Context, worksheet string, columns []string) error {
	if err := m.backend.CreateSheet(ctx, worksheet, int64(len(columns))); err != nil {
		return err
	}
	if err := appendWithRetry(ctx, m.backend, m.logger, m.retry, worksheet, columns); err != nil {
		return fmt.Errorf("failed to write header for worksheet %q: %w", worksheet, err)
	}
	return m.backend.FormatHeader(ctx, worksheet)
}

// rebuildHeader clears the worksheet and rewrites its header row, styled
// and frozen. Shared by the schema manager and the store's read-side
// self-healing.
func rebuildHeader(ctx context.Context, b Backend, logger *zap.Logger, retry RetryPolicy, worksheet string, columns []string) error {
	if err := b.Clear(ctx, worksheet); err != nil {
		return fmt.Errorf("failed to clear worksheet %q: %w", worksheet, err)
	}
	if err := appendWithRetry(ctx, b, logger, retry, worksheet, columns); err != nil {
		return fmt.Errorf("failed to write header for worksheet %q: %w", worksheet, err)
	}
	return b.FormatHeader(ctx, worksheet)
}
