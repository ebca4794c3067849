package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsIs_MatchesKind(t *testing.T) {
	err := InvalidState("collection.accept", "request is not available")

	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("errors.Is(%v, ErrInvalidState) = false, want true", err)
	}
	if errors.Is(err, ErrValidation) {
		t.Errorf("errors.Is(%v, ErrValidation) = true, want false", err)
	}

	wrapped := fmt.Errorf("handler: %w", err)
	if !errors.Is(wrapped, ErrInvalidState) {
		t.Error("wrapped error lost its kind")
	}
	if KindOf(wrapped) != KindInvalidState {
		t.Errorf("KindOf(wrapped) = %v, want %v", KindOf(wrapped), KindInvalidState)
	}
}

func TestKindOf_PlainError(t *testing.T) {
	if got := KindOf(errors.New("boom")); got != KindInternal {
		t.Errorf("KindOf(plain) = %v, want INTERNAL", got)
	}
}

func TestError_Message(t *testing.T) {
	cause := errors.New("disk full")
	err := Internal("ledger.credit", cause)

	if got := err.Error(); got != "ledger.credit: internal error: disk full" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, cause) {
		t.Error("Internal error should unwrap to its cause")
	}
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindValidation, "VALIDATION"},
		{KindNotFound, "NOT_FOUND"},
		{KindForbidden, "FORBIDDEN"},
		{KindInvalidState, "INVALID_STATE"},
		{KindInsufficientBalance, "INSUFFICIENT_BALANCE"},
		{KindUnavailable, "UNAVAILABLE"},
		{KindInternal, "INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
