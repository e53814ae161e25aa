package server

import (
	"encoding/json"
	"errors"
	"net/http"
)

// decodeJSON decodes a request body, rejecting unknown fields and empty
// bodies with a caller-friendly error.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.New("invalid JSON body")
	}
	return nil
}
