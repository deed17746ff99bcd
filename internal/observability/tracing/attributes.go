package tracing

import (
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

// Key fragments that mark a span attribute as carrying credentials or
// customer-identifying data. Matching is substring based, so
// "http.request.api_key" and "customer.email" are both caught.
var redactedKeyFragments = []string{
	"password",
	"secret",
	"token",
	"api_key",
	"authorization",
	"email",
}

// SafeAttributes filters out attributes whose keys look sensitive, so spans
// never carry credentials or customer addresses.
func SafeAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	safe := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if redactedKey(string(attr.Key)) {
			continue
		}
		safe = append(safe, attr)
	}
	return safe
}

// SafeError reduces an error to its type. Charge errors can quote customer
// ids or provider payloads in their message; the type alone is enough to
// understand a recorded span event.
func SafeError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%T", err)
}

func redactedKey(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, fragment := range redactedKeyFragments {
		if strings.Contains(key, fragment) {
			return true
		}
	}
	return false
}
