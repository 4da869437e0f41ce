package helpers

import (
	"encoding/json"
	"net/http"
)

// Validator is implemented by request types that validate themselves.
// Validate returns a field -> message map, empty or nil when the value is valid.
type Validator interface {
	Validate() map[string]string
}

// DecodeAndValidate decodes the request body into dest, rejecting unknown
// fields, and runs dest's Validate method when it implements Validator.
// On failure it writes the error response and returns false; the caller
// should return immediately.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dest any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dest); err != nil {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body: "+err.Error())
		return false
	}

	if v, ok := dest.(Validator); ok {
		if fields := v.Validate(); len(fields) > 0 {
			WriteJSONValidationError(w, fields)
			return false
		}
	}

	return true
}
