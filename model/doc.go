// Package model defines the provider-neutral completion interface the
// analysis backend generates with, plus a deterministic Mock for tests.
// Vendor adapters live in sub-packages (openai, anthropic) so the backend
// never branches on provider identity.
package model
