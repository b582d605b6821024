// This file implements parsing of JSON bodies, path ids and query
// parameters into the domain input schemas.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"commissions/internal/core"
)

const maxBodyBytes = 1 << 20

var errInvalidBody = errors.New("invalid request body")

// decodeJSON reads one JSON document into dst. Malformed dates surface as
// validation errors on the date field.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, core.ErrInvalidDate) {
			return core.NewValidationError(core.Violations{"date": "must be a date in YYYY-MM-DD format"})
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return core.NewValidationError(core.Violations{typeErr.Field: "has the wrong type"})
		}
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return nil
}

// pathID parses the {id} route parameter.
func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, core.NewValidationError(core.Violations{"id": "must be a positive integer"})
	}
	return id, nil
}

// parseDateRange reads the optional start and end query parameters.
func parseDateRange(r *http.Request) (core.DateRange, error) {
	var rng core.DateRange
	v := core.Violations{}

	q := r.URL.Query()
	if s := strings.TrimSpace(q.Get("start")); s != "" {
		d, err := core.ParseDate(s)
		if err != nil {
			v["start"] = "must be a date in YYYY-MM-DD format"
		}
		rng.Start = d
	}
	if s := strings.TrimSpace(q.Get("end")); s != "" {
		d, err := core.ParseDate(s)
		if err != nil {
			v["end"] = "must be a date in YYYY-MM-DD format"
		}
		rng.End = d
	}

	if !v.Empty() {
		return core.DateRange{}, core.NewValidationError(v)
	}
	return rng, nil
}
