package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	cases := map[Code]int{
		CodeValidation:   http.StatusBadRequest,
		CodeUnauthorized: http.StatusUnauthorized,
		CodeForbidden:    http.StatusForbidden,
		CodeNotFound:     http.StatusNotFound,
		CodeConflict:     http.StatusConflict,
		CodeRateLimit:    http.StatusTooManyRequests,
		CodeInternal:     http.StatusInternalServerError,
		CodeDependency:   http.StatusServiceUnavailable,
	}
	for code, status := range cases {
		if got := MetadataFor(code).HTTPStatus; got != status {
			t.Fatalf("code %s: expected status %d, got %d", code, status, got)
		}
	}
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	if got := MetadataFor(Code("BOGUS")).HTTPStatus; got != http.StatusInternalServerError {
		t.Fatalf("expected internal fallback, got %d", got)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("root cause")
	wrapped := Wrap(CodeConflict, cause, "slug already exists")

	if !errors.Is(wrapped, cause) {
		t.Fatal("expected wrapped error to match cause via errors.Is")
	}
	if wrapped.Code() != CodeConflict {
		t.Fatalf("expected conflict code, got %s", wrapped.Code())
	}
}

func TestAsFindsTypedErrorInChain(t *testing.T) {
	inner := New(CodeNotFound, "category not found")
	outer := fmt.Errorf("loading category: %w", inner)

	typed := As(outer)
	if typed == nil {
		t.Fatal("expected typed error in chain")
	}
	if typed.Code() != CodeNotFound {
		t.Fatalf("expected not found code, got %s", typed.Code())
	}
}

func TestAsReturnsNilForUntypedError(t *testing.T) {
	if typed := As(errors.New("plain")); typed != nil {
		t.Fatalf("expected nil, got %v", typed)
	}
}

func TestDumpCollectsChain(t *testing.T) {
	err := Wrap(CodeDependency, errors.New("connection refused"), "db: insert role")
	d := Dump(err)
	if d.Code != CodeDependency {
		t.Fatalf("expected dependency code, got %s", d.Code)
	}
	if len(d.Chain) < 2 {
		t.Fatalf("expected chain of at least 2, got %d", len(d.Chain))
	}
}
