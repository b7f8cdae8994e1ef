// Package shapeerr holds the errors raised for malformed shape declarations.
//
// These are usage errors: a shape spec that cannot be parsed, or a spec
// structure that does not fit the arguments it is applied to. They are
// always fatal and never collected, unlike shape mismatches.
package shapeerr

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

type ErrCode int

const (
	None ErrCode = iota
	MultipleVariadic
	EmptyLabel
	IllegalLabel
	NegativeDim
	UnsupportedSpec
	KindMismatch
	KeyMismatch
	LengthMismatch
	NoShape
)

var codeNames = map[ErrCode]string{
	None:             "unclassified",
	MultipleVariadic: "multiple variadic dimensions",
	EmptyLabel:       "empty dimension",
	IllegalLabel:     "illegal dimension label",
	NegativeDim:      "negative dimension",
	UnsupportedSpec:  "unsupported spec",
	KindMismatch:     "container kind mismatch",
	KeyMismatch:      "mapping keys mismatch",
	LengthMismatch:   "sequence length mismatch",
	NoShape:          "argument has no shape",
}

func (c ErrCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("code %d", int(c))
}

// SpecError reports a malformed shape spec, or a spec structure which
// does not fit its argument.
type SpecError struct {
	Code ErrCode
	// Spec is the offending spec text, if any
	Spec string
	// Path locates the offending node within a nested structure, if any
	Path   string
	Detail string
}

func (e *SpecError) Error() string {
	msg := e.Code.String()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Spec != "" {
		msg += fmt.Sprintf(" in spec %q", e.Spec)
	}
	if e.Path != "" {
		msg += " at " + e.Path
	}
	return msg
}

// New returns a SpecError with a stack trace attached.
func New(code ErrCode, spec, format string, args ...any) error {
	return pkgerrors.WithStack(&SpecError{
		Code:   code,
		Spec:   spec,
		Detail: fmt.Sprintf(format, args...),
	})
}

// AtPath returns a SpecError located at path, with a stack trace attached.
func AtPath(code ErrCode, path, format string, args ...any) error {
	return pkgerrors.WithStack(&SpecError{
		Code:   code,
		Path:   path,
		Detail: fmt.Sprintf(format, args...),
	})
}

// As returns the SpecError inside err, if there is one.
func As(err error) (*SpecError, bool) {
	var specErr *SpecError
	if errors.As(err, &specErr) {
		return specErr, true
	}
	return nil, false
}

// CodeOf returns the code of the SpecError inside err, or None.
func CodeOf(err error) ErrCode {
	if specErr, ok := As(err); ok {
		return specErr.Code
	}
	return None
}

// FormatWithCode renders err as "(E%03d) message" when it is a SpecError.
func FormatWithCode(err error) string {
	if specErr, ok := As(err); ok {
		return fmt.Sprintf("(E%03d) %s", specErr.Code, specErr.Error())
	}
	return err.Error()
}
