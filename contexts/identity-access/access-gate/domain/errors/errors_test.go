package errors

import (
	"errors"
	"testing"
)

func TestPublicErrorMessagePrefersExplicitPublicMessage(t *testing.T) {
	err := NewPermissionError("missing permission: case:delete", "insufficient permission")
	if got := PublicErrorMessage(err, "fallback"); got != "insufficient permission" {
		t.Fatalf("got %q", got)
	}
}

func TestPublicErrorMessageMasksPermissionShapedMessages(t *testing.T) {
	err := &PermissionError{Message: "denied case:delete for user"}
	if got := PublicErrorMessage(err, "fallback"); got != "fallback" {
		t.Fatalf("permission-shaped message leaked: %q", got)
	}

	err = &PermissionError{Message: ""}
	if got := PublicErrorMessage(err, "fallback"); got != "fallback" {
		t.Fatalf("empty message not replaced: %q", got)
	}
}

func TestPublicErrorMessagePassesPlainMessages(t *testing.T) {
	err := &PermissionError{Message: "no access to this workspace"}
	if got := PublicErrorMessage(err, "fallback"); got != "no access to this workspace" {
		t.Fatalf("plain message rewritten: %q", got)
	}
}

func TestPublicErrorMessageFallsBackForOtherErrors(t *testing.T) {
	if got := PublicErrorMessage(errors.New("pq: connection refused"), "fallback"); got != "fallback" {
		t.Fatalf("non-permission error leaked: %q", got)
	}
	if got := PublicErrorMessage(nil, "fallback"); got != "fallback" {
		t.Fatalf("nil error: %q", got)
	}
}

func TestPublicErrorMessageUnwraps(t *testing.T) {
	wrapped := wrapError{inner: NewPermissionError("missing permission: admin:access", "insufficient permission")}
	if got := PublicErrorMessage(wrapped, "fallback"); got != "insufficient permission" {
		t.Fatalf("wrapped permission error not unwrapped: %q", got)
	}
}

type wrapError struct {
	inner error
}

func (w wrapError) Error() string { return "wrapped: " + w.inner.Error() }
func (w wrapError) Unwrap() error { return w.inner }
