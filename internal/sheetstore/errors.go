package sheetstore

import (
	"errors"
	"fmt"
	"net/url"

	"google.golang.org/api/googleapi"
)

// ErrRecordNotFound is returned when no row carries the requested id.
var ErrRecordNotFound = errors.New("record not found")

// SchemaError reports a worksheet whose header lacks a column the
// operation depends on. Unlike ordinary header drift it cannot be
// healed in place, because the data under the wrong header is ambiguous.
type SchemaError struct {
	Worksheet string
	Column    string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("worksheet %q header missing %q column", e.Worksheet, e.Column)
}

// IsTransient reports whether a backend error is worth retrying.
// Sheets API errors (rate limits, server hiccups) and network-level
// failures qualify; anything else is treated as permanent.
func IsTransient(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 408 || apiErr.Code == 429 || apiErr.Code >= 500
	}

	var netErr *url.Error
	return errors.As(err, &netErr)
}
