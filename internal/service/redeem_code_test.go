package service

import (
	"strings"
	"testing"
)

func TestNewRedeemCodeIsURLSafe(t *testing.T) {
	code, err := NewRedeemCode()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if code == "" {
		t.Fatalf("code should not be empty")
	}
	const safe = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	for _, r := range code {
		if !strings.ContainsRune(safe, r) {
			t.Fatalf("code %q contains non URL-safe rune %q", code, r)
		}
	}
}

func TestNewRedeemCodeDoesNotCollide(t *testing.T) {
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		code, err := NewRedeemCode()
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}
		if _, ok := seen[code]; ok {
			t.Fatalf("collision after %d codes: %s", i, code)
		}
		seen[code] = struct{}{}
	}
}
