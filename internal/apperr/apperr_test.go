package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsMatchesByCode(t *testing.T) {
	err := New(CodeOutOfSequence, "question %d already answered", 2)
	if !errors.Is(err, ErrOutOfSequence) {
		t.Error("expected errors.Is to match ErrOutOfSequence")
	}
	if errors.Is(err, ErrInvalidIdentity) {
		t.Error("expected errors.Is not to match ErrInvalidIdentity")
	}
}

func TestIsThroughWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("register: %w", Persistence(cause, "upsert respondent"))

	if !errors.Is(err, ErrPersistenceFailure) {
		t.Error("expected wrapped persistence failure to match")
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause to stay reachable")
	}
	if !IsRetryable(err) {
		t.Error("expected persistence failure to be retryable")
	}
	if got := CodeOf(err); got != CodePersistenceFailure {
		t.Errorf("CodeOf = %q, want %q", got, CodePersistenceFailure)
	}
}

func TestCodeOfPlainError(t *testing.T) {
	if got := CodeOf(errors.New("boom")); got != "" {
		t.Errorf("CodeOf = %q, want empty", got)
	}
	if IsRetryable(errors.New("boom")) {
		t.Error("plain errors are not retryable")
	}
}

func TestErrorString(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{&Error{Code: CodeNotFound}, "NOT_FOUND"},
		{&Error{Code: CodeNotFound, Message: "session"}, "NOT_FOUND: session"},
		{&Error{Code: CodeNotFound, Err: errors.New("x")}, "NOT_FOUND: x"},
		{&Error{Code: CodeNotFound, Message: "session", Err: errors.New("x")}, "NOT_FOUND: session: x"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
