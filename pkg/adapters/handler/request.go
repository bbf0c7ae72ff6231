package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/lizdek/lizdek-api/pkg/core/domain"
)

// decodeJSON reads the request body into v. Fields declared as any accept
// any JSON type so non-string values reach validation instead of failing
// the decode.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.NewValidationError("Request body too large")
		}
		return domain.NewValidationError("Invalid request body")
	}
	return nil
}

// stringValue returns v when it is a JSON string and "" otherwise, so a
// wrong type fails the same required-field check as a missing one.
func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

// optionalString maps null or absent to nil. ok is false for non-string values.
func optionalString(v any) (s *string, ok bool) {
	switch t := v.(type) {
	case nil:
		return nil, true
	case string:
		return &t, true
	default:
		return nil, false
	}
}

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, err == nil && id > 0
}
