// Package diagnostics collects the typed errors produced by the type pass.
//
// The pass never aborts on an error: every rule that can fail records a
// diagnostic here and substitutes a usable type, so a single run reports
// every violation in a module.
package diagnostics

import (
	"fmt"

	"github.com/koralang/kora/internal/token"
)

// ErrorCode identifies the kind of a diagnostic.
type ErrorCode string

const (
	ErrUndefinedAttribute           ErrorCode = "T001"
	ErrUndefinedMethod              ErrorCode = "T002"
	ErrUndefinedConstant            ErrorCode = "T003"
	ErrUndefinedKeywordArgument     ErrorCode = "T004"
	ErrUndefinedLocal               ErrorCode = "T005"
	ErrImportUndefinedSymbol        ErrorCode = "T006"
	ErrImportExistingSymbol         ErrorCode = "T007"
	ErrTypeMismatch                 ErrorCode = "T008"
	ErrReturnTypeMismatch           ErrorCode = "T009"
	ErrArgumentCountMismatch        ErrorCode = "T010"
	ErrGeneratedTraitNotImplemented ErrorCode = "T011"
	ErrUnimplementedTrait           ErrorCode = "T012"
	ErrUnimplementedMethod          ErrorCode = "T013"
	ErrReassignUndefinedAttribute   ErrorCode = "T014"
	ErrReassignUndefinedLocal       ErrorCode = "T015"
	ErrReassignImmutableAttribute   ErrorCode = "T016"
	ErrReassignImmutableLocal       ErrorCode = "T017"
	ErrAttributeOutsideInit         ErrorCode = "T018"
	ErrRequiredMethodOnNonTrait     ErrorCode = "T019"
	ErrRedefineReservedConstant     ErrorCode = "T020"
	ErrUnknownRawInstruction        ErrorCode = "T021"
)

// Diagnostic is a single typed error with a source location.
type Diagnostic struct {
	Code     ErrorCode
	Message  string
	Location token.Location
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s", d.Location, d.Code, d.Message)
}

// New builds a diagnostic at the given location.
func New(code ErrorCode, loc token.Location, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Location: loc,
	}
}

// Collection is an append-only sink of diagnostics, kept in the order they
// were emitted.
type Collection struct {
	entries []*Diagnostic
}

func NewCollection() *Collection {
	return &Collection{}
}

func (c *Collection) Append(d *Diagnostic) {
	c.entries = append(c.entries, d)
}

// Appendf records a new diagnostic built from the arguments.
func (c *Collection) Appendf(code ErrorCode, loc token.Location, format string, args ...interface{}) {
	c.Append(New(code, loc, format, args...))
}

// Entries returns all recorded diagnostics in emission order.
func (c *Collection) Entries() []*Diagnostic {
	return c.entries
}

func (c *Collection) Len() int {
	return len(c.entries)
}

// HasErrors reports whether anything was recorded.
func (c *Collection) HasErrors() bool {
	return len(c.entries) > 0
}

// FirstWithCode returns the first diagnostic with the given code, or nil.
func (c *Collection) FirstWithCode(code ErrorCode) *Diagnostic {
	for _, entry := range c.entries {
		if entry.Code == code {
			return entry
		}
	}
	return nil
}
