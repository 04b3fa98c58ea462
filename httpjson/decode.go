package httpjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/snbtku/backend/srvcerr"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validator returns the shared validator so services can check the
// same struct tags outside of HTTP.
func Validator() *validator.Validate {
	return validate
}

// DecodeJson reads a JSON request body into dst and validates its struct tags.
func DecodeJson(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return srvcerr.ErrInvalidRequest("format permintaan tidak valid").
			SetDebug(fmt.Errorf("decode request body: %w", err))
	}
	return ValidateStruct(dst)
}

// ValidateStruct maps validator failures to a bad request service error
// naming the offending fields.
func ValidateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, strings.ToLower(fe.Field()))
		}
		msg := fmt.Sprintf("data tidak valid: %s", strings.Join(fields, ", "))
		return srvcerr.ErrInvalidRequest(msg).SetDebug(err)
	}
	return srvcerr.ErrInvalidRequest("data tidak valid").SetDebug(err)
}
