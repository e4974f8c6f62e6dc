package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

// maxBodyBytes caps request bodies (a batch ranking of a few hundred snapshots fits easily)
const maxBodyBytes = 4 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

// FieldError is one failed validation rule
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// errorResponse is the body of every non-2xx response
type errorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

func respondValidation(w http.ResponseWriter, details []FieldError) {
	respondJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Details: details})
}

// decodeRequest reads JSON into req, applies `default` tags, then runs `validate` tags.
// It writes the 400 response itself and returns false on any failure.
func decodeRequest(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(req); err != nil {
		if errors.Is(err, io.EOF) {
			respondError(w, http.StatusBadRequest, "request body is empty")
		} else {
			respondError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		}
		return false
	}

	if err := defaults.Set(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return false
	}

	return checkStruct(w, req)
}

// checkStruct runs the validator and writes a 400 on failure
func checkStruct(w http.ResponseWriter, v interface{}) bool {
	err := validate.Struct(v)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		respondError(w, http.StatusBadRequest, err.Error())
		return false
	}

	details := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, FieldError{
			Field:   jsonPath(fe.Namespace()),
			Rule:    fe.Tag(),
			Message: fieldMessage(fe),
		})
	}
	respondValidation(w, details)
	return false
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt", "gte", "lt", "lte", "min", "max":
		return fmt.Sprintf("must satisfy %s=%s", fe.Tag(), fe.Param())
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}

// jsonPath drops the root struct name from a validator namespace
func jsonPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// queryFloat parses an optional float query parameter
func queryFloat(r *http.Request, name string) (*float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", name)
	}
	return &v, nil
}

// queryInt parses an optional int query parameter
func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return v, nil
}

func init() {
	// report json names instead of Go field names
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
}
