package tracing

import (
	"errors"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestSafeAttributesDropsSensitiveKeys(t *testing.T) {
	safe := SafeAttributes(
		attribute.String("invoice.id", "42"),
		attribute.String("customer.email", "ada@example.com"),
		attribute.String("http.authorization", "Bearer abc"),
		attribute.String("billing.failure_kind", "transient"),
	)
	if len(safe) != 2 {
		t.Fatalf("expected 2 attributes to survive, got %d: %v", len(safe), safe)
	}
	if safe[0].Key != "invoice.id" || safe[1].Key != "billing.failure_kind" {
		t.Fatalf("unexpected surviving attributes: %v", safe)
	}
}

func TestSafeErrorKeepsTypeOnly(t *testing.T) {
	if SafeError(nil) != nil {
		t.Fatal("expected nil for a nil error")
	}
	err := SafeError(errors.New("charge declined for ada@example.com"))
	if strings.Contains(err.Error(), "example.com") {
		t.Fatalf("error message must not leak details, got %q", err.Error())
	}
}
