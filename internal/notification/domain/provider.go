package domain

import "context"

// Provider delivers a message to a customer address.
type Provider interface {
	Notify(ctx context.Context, address string, content string) error
}
