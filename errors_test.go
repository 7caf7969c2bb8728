package kormarc

import (
	"errors"
	"strings"
	"testing"
)

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{
		Field:   "record_status",
		Value:   "x",
		Allowed: []string{"a", "c", "d", "n", "p"},
	}
	msg := err.Error()
	if !strings.Contains(msg, "record_status") || !strings.Contains(msg, "must be one of") {
		t.Errorf("Error() = %q", msg)
	}

	plain := &ValidationError{Field: "indicator1", Value: "10"}
	if strings.Contains(plain.Error(), "must be one of") {
		t.Errorf("Error() = %q, want no allowed list", plain.Error())
	}
}

func TestLeaderLengthErrorMessage(t *testing.T) {
	err := &LeaderLengthError{Length: 23}
	want := "leader must be exactly 24 characters, got 23 characters"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestParseErrorUnwrap(t *testing.T) {
	cause := &LeaderLengthError{Length: 5}
	err := &ParseError{Msg: "failed to parse leader", Err: cause}

	var lerr *LeaderLengthError
	if !errors.As(err, &lerr) {
		t.Error("errors.As() = false, want unwrapped cause")
	}
	if !strings.Contains(err.Error(), "failed to parse leader") {
		t.Errorf("Error() = %q", err.Error())
	}

	tagged := &ParseError{Msg: "failed to parse field", Tag: "245"}
	if !strings.Contains(tagged.Error(), "tag 245") {
		t.Errorf("Error() = %q, want tag mention", tagged.Error())
	}
}
