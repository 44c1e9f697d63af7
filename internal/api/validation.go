package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// errValidation marks a request body that decoded but failed validation
var errValidation = errors.New("validation failed")

// requestError carries the per-field validation failures
type requestError struct {
	fields map[string]string
}

func (e *requestError) Error() string {
	return fmt.Sprintf("%s: %v", errValidation, e.fields)
}

func (e *requestError) Unwrap() error {
	return errValidation
}

// decodeJSON decodes a JSON request body into v and validates it
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode request body: %w", err)
	}
	if err := validate.Struct(v); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return &requestError{fields: validationFields(ve)}
		}
		return err
	}
	return nil
}

// validationFields maps each failing field to the rule it broke
func validationFields(ve validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = fe.Tag()
	}
	return fields
}

// sendDecodeError answers a request whose body could not be used
func (s *Server) sendDecodeError(w http.ResponseWriter, err error) {
	var re *requestError
	if errors.As(err, &re) {
		s.sendJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Fields: re.fields})
		return
	}
	s.sendError(w, http.StatusBadRequest, "Invalid request body")
}
