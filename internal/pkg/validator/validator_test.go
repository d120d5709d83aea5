package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidDate(t *testing.T) {
	valid := []string{"2026-01-15", "2000-12-31"}
	invalid := []string{"2026-13-01", "2026-01-32", "2026/01/01", "15-01-2026", ""}
	for _, s := range valid {
		_, ok := IsValidDate(s)
		if !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		_, ok := IsValidDate(s)
		if ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestParseDateOrDateTime(t *testing.T) {
	d, ok := ParseDateOrDateTime("2026-01-31")
	require.True(t, ok)
	assert.Equal(t, 31, d.Day())

	ts, ok := ParseDateOrDateTime("2026-01-31T08:00:00-06:00")
	require.True(t, ok)
	assert.Equal(t, 8, ts.Hour())

	_, ok = ParseDateOrDateTime("31/01/2026")
	assert.False(t, ok)
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "payment_date", Message: "invalid"},
		{Field: "record_ids", Message: "required"},
	}
	got := errs.Error()
	want := "payment_date: invalid; record_ids: required"
	if got != want {
		t.Errorf("ValidationErrors.Error() = %q, want %q", got, want)
	}
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "payment_date", Message: "invalid"},
		{Field: "record_ids", Message: "required"},
	}
	got := errs.ToMap()
	assert.Equal(t, map[string]string{"payment_date": "invalid", "record_ids": "required"}, got)
}

type payForm struct {
	PaymentDate string  `json:"payment_date" validate:"required,datetime=2006-01-02"`
	RecordIDs   []int64 `json:"record_ids,omitempty" validate:"omitempty,dive,gt=0"`
}

func TestStruct(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, Struct(&payForm{PaymentDate: "2026-12-20", RecordIDs: []int64{1, 2}}))
	})

	t.Run("missing date", func(t *testing.T) {
		err := Struct(&payForm{})
		var verrs ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "Payment Date is required", verrs.ToMap()["payment_date"])
	})

	t.Run("bad date format", func(t *testing.T) {
		err := Struct(&payForm{PaymentDate: "20/12/2026"})
		var verrs ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "Payment Date must be in 2006-01-02 format", verrs.ToMap()["payment_date"])
	})

	t.Run("non-positive id", func(t *testing.T) {
		err := Struct(&payForm{PaymentDate: "2026-12-20", RecordIDs: []int64{3, 0}})
		var verrs ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Len(t, verrs, 1)
		assert.Equal(t, "record_ids[1]", verrs[0].Field)
	})
}
