// Package render holds the request decoding and response writing shared by the API handlers.
package render

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/tronghieu/ezlib-sub005/internal/circulation"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

var statusByCode = map[string]int{
	"validation":    http.StatusBadRequest,
	"not_found":     http.StatusNotFound,
	"cross_tenant":  http.StatusForbidden,
	"ineligible":    http.StatusUnprocessableEntity,
	"conflict":      http.StatusConflict,
	"hold_conflict": http.StatusConflict,
	"renewal_limit": http.StatusUnprocessableEntity,
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func Fail(w http.ResponseWriter, status int, code, message string) {
	JSON(w, status, ErrorResponse{Error: code, Message: message})
}

// Error maps a domain error onto its HTTP status. Unmapped errors are logged and hidden.
func Error(w http.ResponseWriter, err error) {
	code := circulation.Code(err)

	status, ok := statusByCode[code]
	if !ok {
		slog.Error("request failed", "error", err)
		Fail(w, http.StatusInternalServerError, "internal", "internal error")

		return
	}

	Fail(w, status, code, err.Error())
}

// Decode reads a JSON body into v and runs its validate tags.
func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", circulation.ErrValidation, err)
	}

	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
			}

			return fmt.Errorf("%w: %s", circulation.ErrValidation, strings.Join(msgs, "; "))
		}

		return fmt.Errorf("%w: %v", circulation.ErrValidation, err)
	}

	return nil
}

// PathID parses a UUID URL parameter.
func PathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s", circulation.ErrValidation, name)
	}

	return id, nil
}

func LibraryID(r *http.Request) (uuid.UUID, error) {
	return PathID(r, "libraryID")
}
