package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidTree, "root node %q has no name", "x")

	if err.Code != ErrCodeInvalidTree {
		t.Errorf("Code = %q, want %q", err.Code, ErrCodeInvalidTree)
	}
	want := `INVALID_TREE: root node "x" has no name`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(ErrCodeInternal, cause, "write layout")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap() should return cause")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"MatchingCode", New(ErrCodeTreeTooDeep, "depth 70"), ErrCodeTreeTooDeep, true},
		{"DifferentCode", New(ErrCodeTreeTooDeep, "depth 70"), ErrCodeInvalidTree, false},
		{"WrappedInFmt", fmt.Errorf("outer: %w", New(ErrCodeNotFound, "map")), ErrCodeNotFound, true},
		{"PlainError", stderrors.New("plain"), ErrCodeInternal, false},
		{"Nil", nil, ErrCodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeLayoutUnavailable, "zero bounds")); got != ErrCodeLayoutUnavailable {
		t.Errorf("GetCode() = %q, want %q", got, ErrCodeLayoutUnavailable)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidTree, "no name")); got != "no name" {
		t.Errorf("UserMessage() = %q, want %q", got, "no name")
	}
	if got := UserMessage(stderrors.New("plain")); got != "plain" {
		t.Errorf("UserMessage(plain) = %q, want %q", got, "plain")
	}
}
