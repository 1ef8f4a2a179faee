package testutil

import (
	"bytes"
	"encoding/hex"
	"testing"
)

// AssertBytesEqual проверяет, что два байтовых слайса равны.
func AssertBytesEqual(t testing.TB, expected, actual []byte, msg string) {
	t.Helper()

	if !bytes.Equal(expected, actual) {
		t.Fatalf("%s: bytes mismatch\nexpected: %s\nactual:   %s", msg, hex.EncodeToString(expected), hex.EncodeToString(actual))
	}
}

// MustHex decodes a hex string, failing the test on malformed input.
func MustHex(t testing.TB, s string) []byte {
	t.Helper()

	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("decoding hex %q: %v", s, err)
	}
	return b
}
