package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/planilla-portal-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

func parseIDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, validator.ValidationErrors{{Field: name, Message: name + " must be a positive integer"}}
	}
	return id, nil
}

func parseDateParam(r *http.Request, name string) (time.Time, error) {
	date, ok := validator.IsValidDate(chi.URLParam(r, name))
	if !ok {
		return time.Time{}, validator.ValidationErrors{{Field: name, Message: name + " must be in YYYY-MM-DD format"}}
	}
	return date, nil
}

func parseYearParam(r *http.Request, name string) (int, error) {
	year, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, validator.ValidationErrors{{Field: name, Message: name + " must be a number"}}
	}
	return year, nil
}

// decodeOptionalJSON decodes the body into v; an empty body leaves v untouched.
func decodeOptionalJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
