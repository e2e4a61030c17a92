package shared

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// maxBodyBytes bounds request bodies; narratives are the largest payload.
const maxBodyBytes = 1 << 20

// Global validator instance for reuse
var validate = validator.New()

// ErrEmptyBody is returned by DecodeJSON when the request has no body.
var ErrEmptyBody = errors.New("request body is empty")

// DecodeJSON decodes the request body into v.
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return ErrEmptyBody
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return err
	}
	return nil
}

// ValidateRequest validates the given struct using the validator package.
func ValidateRequest(v interface{}) error {
	if validator, ok := v.(interface{ Validate() error }); ok {
		return validator.Validate()
	}
	return validate.Struct(v)
}
