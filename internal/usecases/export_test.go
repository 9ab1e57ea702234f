package usecases

import "testing"

// SetFallbackTokenForTest swaps the fallback token source for external tests
func SetFallbackTokenForTest(t *testing.T, fn func() string) {
	t.Helper()
	orig := newFallbackToken
	t.Cleanup(func() { newFallbackToken = orig })
	newFallbackToken = fn
}
