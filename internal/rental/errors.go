package rental

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors, matched with errors.Is. Each is wrapped in one of the
// typed errors below so callers can tell the class of failure apart.
var (
	ErrInvalidDuration        = errors.New("invalid duration")
	ErrInvalidQuantity        = errors.New("invalid quantity")
	ErrMissingEquipment       = errors.New("missing equipment reference")
	ErrNegativeAmount         = errors.New("amount must not be negative")
	ErrNoLineItems            = errors.New("contract has no line items")
	ErrDiscountExceedsTotal   = errors.New("discount exceeds contract total")
	ErrNonPositiveAmount      = errors.New("amount must be greater than zero")
	ErrTooManyDecimals        = errors.New("amount has more than 3 decimal places")
	ErrAmountExceedsRemaining = errors.New("amount exceeds remaining balance")
	ErrPaidExceedsTotal       = errors.New("payments exceed contract total")
	ErrDuplicatePayment       = errors.New("payment listed more than once")
	ErrMissingCheckDetails    = errors.New("check number, bank name and check date are required")
	ErrUnknownPaymentMethod   = errors.New("unknown payment method")
	ErrAlreadyFinalized       = errors.New("contract is finalized")
	ErrAlreadySigned          = errors.New("contract is already signed")
	ErrInvalidTransition      = errors.New("invalid status transition")
	ErrFileTooLarge           = errors.New("file too large")
	ErrUnsupportedFileType    = errors.New("unsupported file type")
	ErrNotFound               = errors.New("not found")
	ErrConflict               = errors.New("conflict")
	ErrExternal               = errors.New("external failure")
)

// ValidationError reports a bad value in a single field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: err.Error(), Err: err}
}

// ValidationErrors collects every field failure of one submission
type ValidationErrors []*ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) Unwrap() []error {
	errs := make([]error, len(v))
	for i, e := range v {
		errs[i] = e
	}
	return errs
}

// errOrNil avoids returning a typed nil inside an error interface
func (v ValidationErrors) errOrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// InvariantError reports a cross-field rule that would be broken by a
// mutation. Nothing is applied when it is returned.
type InvariantError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *InvariantError) Error() string {
	return e.Message
}

func (e *InvariantError) Unwrap() error { return e.Err }

func violation(field string, err error, format string, args ...any) *InvariantError {
	return &InvariantError{Field: field, Message: fmt.Sprintf(format, args...), Err: err}
}

// Conflict reports a state clash outside the engine rules, such as a
// duplicate code or a delete blocked by dependent records
func Conflict(field, format string, args ...any) error {
	return violation(field, ErrConflict, format, args...)
}

// NotFoundError reports an id that does not exist in the contract's
// current collections or in the store
type NotFoundError struct {
	Entity string
	ID     int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NewNotFound builds a NotFoundError
func NewNotFound(entity string, id int) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ExternalError wraps a persistence or storage failure. It is retryable;
// the engine itself never retries.
type ExternalError struct {
	Op  string
	Err error
}

func (e *ExternalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ExternalError) Unwrap() error { return e.Err }

func (e *ExternalError) Is(target error) bool { return target == ErrExternal }

// Retryable is always true for external failures
func (e *ExternalError) Retryable() bool { return true }

// External wraps err as an ExternalError, or returns nil
func External(op string, err error) error {
	if err == nil {
		return nil
	}
	return &ExternalError{Op: op, Err: err}
}

// IsValidation reports whether err carries field-level validation failures
func IsValidation(err error) bool {
	var ve *ValidationError
	var ves ValidationErrors
	return errors.As(err, &ves) || errors.As(err, &ve)
}

// IsInvariant reports whether err is an invariant violation
func IsInvariant(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}

// FieldErrors flattens err into field/message pairs for presentation
func FieldErrors(err error) []ValidationError {
	var ves ValidationErrors
	if errors.As(err, &ves) {
		out := make([]ValidationError, len(ves))
		for i, e := range ves {
			out[i] = *e
		}
		return out
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return []ValidationError{*ve}
	}
	var ie *InvariantError
	if errors.As(err, &ie) {
		return []ValidationError{{Field: ie.Field, Message: ie.Message}}
	}
	return nil
}
