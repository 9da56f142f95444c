package dto

import (
	"time"

	apperrors "locatrajes/internal/errors"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatDate(*t)
	return &s
}

// dateField parses value and records a detail when it is malformed. Empty
// values stay zero so the use case reports them as required.
func dateField(field, value string, details *[]apperrors.ValidationDetail) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		*details = append(*details, apperrors.ValidationDetail{
			Field:   field,
			Message: "must be a date in YYYY-MM-DD format",
		})
		return time.Time{}
	}
	return t
}

func invalid(details []apperrors.ValidationDetail) error {
	if len(details) == 0 {
		return nil
	}
	return apperrors.NewValidationError("validation failed", details...)
}
