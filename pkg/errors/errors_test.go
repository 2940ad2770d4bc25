package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCode(t *testing.T) {
	meta := MetadataFor(CodeForbidden)
	if meta.HTTPStatus != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", meta.HTTPStatus)
	}
	if meta.DetailsAllowed {
		t.Fatal("forbidden must not leak details")
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	meta := MetadataFor(Code("NOPE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal fallback, got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("boom")
	err := Wrap(CodeDependency, cause, "storage write")
	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be matchable")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("unexpected code %s", err.Code())
	}
}

func TestWrapNilCause(t *testing.T) {
	err := Wrap(CodeValidation, nil, "empty store id")
	if err.Unwrap() != nil {
		t.Fatal("expected no cause")
	}
	if err.Error() != "VALIDATION_ERROR: empty store id" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestAsFindsTypedError(t *testing.T) {
	inner := New(CodeNotFound, "missing product")
	wrapped := fmt.Errorf("outer: %w", inner)
	typed := As(wrapped)
	if typed == nil || typed.Code() != CodeNotFound {
		t.Fatalf("expected typed not-found, got %v", typed)
	}
	if As(stdErrors.New("plain")) != nil {
		t.Fatal("expected nil for untyped error")
	}
}

func TestWithDetails(t *testing.T) {
	err := New(CodeValidation, "bad").WithDetails(map[string]string{"storeId": "is required"})
	details, ok := err.Details().(map[string]string)
	if !ok || details["storeId"] != "is required" {
		t.Fatalf("unexpected details %v", err.Details())
	}
}
