package sheetstore

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// Record is one data row keyed by the worksheet's header columns.
type Record map[string]string

// RetryPolicy bounds the append retry loop. MaxAttempts counts the first
// try, so {3, 5s} means one call plus up to two retries 5 seconds apart.
type RetryPolicy struct {
	MaxAttempts uint64
	Interval    time.Duration
}

// DefaultRetryPolicy matches the backend's rate-limit recovery window.
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 3, Interval: 5 * time.Second}

// Store provides row-level CRUD over the registered worksheets, addressing
// records by their logical id rather than by row position. Callers are
// expected to have run the schema manager first; reads still tolerate and
// repair header drift on their own.
type Store struct {
	backend Backend
	logger  *zap.Logger
	retry   RetryPolicy
}

func NewStore(backend Backend, logger *zap.Logger) *Store {
	return NewStoreWithRetry(backend, logger, DefaultRetryPolicy)
}

func NewStoreWithRetry(backend Backend, logger *zap.Logger, retry RetryPolicy) *Store {
	return &Store{
		backend: backend,
		logger:  logger,
		retry:   retry,
	}
}

// Ping performs a lightweight metadata read to report backend reachability.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.backend.SheetTitles(ctx)
	return err
}

// ListAll returns every data row decoded against the current header order.
// Missing trailing cells decode as empty strings. If the header does not
// match the registered column list the worksheet is rebuilt (losing its
// data) and an empty result is returned for this call.
func (s *Store) ListAll(ctx context.Context, worksheet string) ([]Record, error) {
	rows, err := s.backend.Rows(ctx, worksheet)
	if err != nil {
		return nil, err
	}

	expected := Columns(worksheet)
	if len(rows) == 0 || !slices.Equal(rows[0], expected) {
		found := "empty"
		if len(rows) > 0 {
			found = strings.Join(rows[0], ",")
		}
		s.logger.Warn("worksheet header mismatch, rebuilding",
			zap.String("worksheet", worksheet),
			zap.Strings("expected", expected),
			zap.String("found", found),
		)
		if err := rebuildHeader(ctx, s.backend, s.logger, s.retry, worksheet, expected); err != nil {
			return nil, err
		}
		return []Record{}, nil
	}

	header := rows[0]
	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(Record, len(header))
		for i, column := range header {
			if i < len(row) {
				record[column] = row[i]
			} else {
				record[column] = ""
			}
		}
		records = append(records, record)
	}
	return records, nil
}

// Append writes row after the last data row. This is the only retried
// mutation: bulk inbound traffic makes appends the most likely operation
// to hit rate limits, while single-row updates and deletes stay
// single-attempt and surface failures immediately.
func (s *Store) Append(ctx context.Context, worksheet string, row []string) error {
	return appendWithRetry(ctx, s.backend, s.logger, s.retry, worksheet, row)
}

// FindRowByID returns the 1-based sheet row of the first row whose id cell
// equals id, or ErrRecordNotFound. Duplicate ids are not expected; if
// present, later duplicates are unreachable.
func (s *Store) FindRowByID(ctx context.Context, worksheet, id string) (int64, error) {
	rows, err := s.backend.Rows(ctx, worksheet)
	if err != nil {
		return 0, err
	}
	_, index, err := findRow(worksheet, rows, id)
	return index, err
}

// UpdateByID overwrites the full row span of the record with the given id.
// The id cell always keeps its stored value, whatever the caller put in
// the corresponding position of row.
func (s *Store) UpdateByID(ctx context.Context, worksheet, id string, row []string) error {
	rows, err := s.backend.Rows(ctx, worksheet)
	if err != nil {
		return err
	}

	idColumn, index, err := findRow(worksheet, rows, id)
	if err != nil {
		return err
	}

	if idColumn < len(row) {
		row = slices.Clone(row)
		row[idColumn] = id
	}
	return s.backend.UpdateRow(ctx, worksheet, index, row)
}

// DeleteByID removes the record's row entirely, shifting later rows up.
func (s *Store) DeleteByID(ctx context.Context, worksheet, id string) error {
	rows, err := s.backend.Rows(ctx, worksheet)
	if err != nil {
		return err
	}

	_, index, err := findRow(worksheet, rows, id)
	if err != nil {
		return err
	}
	return s.backend.DeleteRow(ctx, worksheet, index)
}

// PruneBlankRows deletes fully blank data rows, bottom-up so earlier
// deletions do not shift the remaining targets.
func (s *Store) PruneBlankRows(ctx context.Context, worksheet string) error {
	rows, err := s.backend.Rows(ctx, worksheet)
	if err != nil {
		return err
	}

	for i := len(rows) - 1; i >= 1; i-- {
		if !blankRow(rows[i]) {
			continue
		}
		if err := s.backend.DeleteRow(ctx, worksheet, int64(i+1)); err != nil {
			return err
		}
	}
	return nil
}

func findRow(worksheet string, rows [][]string, id string) (idColumn int, index int64, err error) {
	if len(rows) == 0 {
		return 0, 0, ErrRecordNotFound
	}

	idColumn = slices.Index(rows[0], "id")
	if idColumn < 0 {
		return 0, 0, &SchemaError{Worksheet: worksheet, Column: "id"}
	}

	for i, row := range rows[1:] {
		if idColumn < len(row) && row[idColumn] == id {
			return idColumn, int64(i + 2), nil
		}
	}
	return 0, 0, ErrRecordNotFound
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func appendWithRetry(ctx context.Context, b Backend, logger *zap.Logger, retry RetryPolicy, worksheet string, row []string) error {
	operation := func() error {
		err := b.AppendRow(ctx, worksheet, row)
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return backoff.Permanent(err)
		}
		logger.Warn("transient error appending row, will retry",
			zap.String("worksheet", worksheet),
			zap.Duration("interval", retry.Interval),
			zap.Error(err),
		)
		return err
	}

	maxRetries := uint64(0)
	if retry.MaxAttempts > 0 {
		maxRetries = retry.MaxAttempts - 1
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(retry.Interval), maxRetries),
		ctx,
	)
	return backoff.Retry(operation, policy)
}
