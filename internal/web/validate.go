package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// maxBodyBytes caps request bodies. A square request is a few dozen bytes.
const maxBodyBytes = 4 << 10

var validate = validator.New()

var errBodyTooLarge = errors.New("request body too large")

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
// The returned error is safe to show to the client.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errBodyTooLarge
		}
		return errors.New("invalid request body")
	}

	err := validate.Struct(dst)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validation failed: %v", err)
	}

	var details strings.Builder
	for _, fe := range verrs {
		if details.Len() > 0 {
			details.WriteString("; ")
		}
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			details.WriteString(fmt.Sprintf("%s is required", field))
		case "min":
			details.WriteString(fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		case "max":
			details.WriteString(fmt.Sprintf("%s must be at most %s", field, fe.Param()))
		default:
			details.WriteString(fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
		}
	}
	return errors.New(details.String())
}
