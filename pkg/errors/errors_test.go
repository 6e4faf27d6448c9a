package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewCarriesCodeAndMessage(t *testing.T) {
	err := New(ErrCodeInvalidInput, "bad label %q", "a b")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}
	if want := `INVALID_INPUT: bad label "a b"`; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapKeepsCauseReachable(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := Wrap(ErrCodeInvalidSnapshot, cause, "loading amp.json")

	if !errors.Is(err, cause) {
		t.Error("wrapped cause must satisfy errors.Is")
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap = %v, want the cause", errors.Unwrap(err))
	}
	if want := "INVALID_SNAPSHOT: loading amp.json: unexpected end of JSON input"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIsMatchesOutermostCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching", New(ErrCodeInvalidPath, "x"), ErrCodeInvalidPath, true},
		{"different code", New(ErrCodeInvalidPath, "x"), ErrCodeInvalidFormat, false},
		{"outer code wins", Wrap(ErrCodeInvalidSnapshot, New(ErrCodeInvalidDesignator, "r1"), "load"), ErrCodeInvalidSnapshot, true},
		{"plain error", errors.New("plain"), ErrCodeInvalidInput, false},
		{"nil", nil, ErrCodeInvalidInput, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Is(tc.err, tc.code); got != tc.want {
				t.Errorf("Is = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeInvalidFormat, "webp")); got != ErrCodeInvalidFormat {
		t.Errorf("GetCode = %v, want %v", got, ErrCodeInvalidFormat)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
	if got := GetCode(nil); got != "" {
		t.Errorf("GetCode(nil) = %v, want empty", got)
	}
	// Codes survive a plain fmt wrap.
	wrapped := fmt.Errorf("export: %w", New(ErrCodeInvalidFormat, "webp"))
	if got := GetCode(wrapped); got != ErrCodeInvalidFormat {
		t.Errorf("GetCode(fmt-wrapped) = %v, want %v", got, ErrCodeInvalidFormat)
	}
}

func TestUserMessageStripsCode(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidPath, "snapshot path cannot be empty")); got != "snapshot path cannot be empty" {
		t.Errorf("UserMessage = %q", got)
	}
	if got := UserMessage(errors.New("open amp.json: no such file")); got != "open amp.json: no such file" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}
