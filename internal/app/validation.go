package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrBlockedByQC is returned (wrapped) when a QC readiness policy refuses a transition.
var ErrBlockedByQC = errors.New("blocked by QC policy")

var validate = validator.New()

// FieldError describes one rejected request field.
type FieldError struct {
	Field string
	Rule  string
	Param string
}

// ValidationError is returned when a request fails validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Param != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", f.Field, f.Rule, f.Param))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed %s", f.Field, f.Rule))
		}
	}
	return "invalid request: " + strings.Join(parts, "; ")
}

func invalidField(field, rule, param string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Rule: rule, Param: param}}}
}

// validateRequest runs struct-tag validation on req.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate request: %w", err)
	}

	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field: fieldPath(fe.Namespace()),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}

// fieldPath drops the leading struct name, e.g. "TransitionBatchRequest.OG.Unit" -> "OG.Unit".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
