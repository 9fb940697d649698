package utils

import (
	"strings"
	"testing"
)

func TestGenerateCodeLength(t *testing.T) {
	for _, n := range []int{1, 6, 12} {
		code, err := GenerateCode(n)
		if err != nil {
			t.Fatalf("GenerateCode(%d) failed: %v", n, err)
		}
		if len(code) != n {
			t.Fatalf("expected length %d, got %q", n, code)
		}
	}
}

func TestGenerateCodeDefaultsToSix(t *testing.T) {
	for _, n := range []int{0, -1} {
		code, err := GenerateCode(n)
		if err != nil {
			t.Fatalf("GenerateCode(%d) failed: %v", n, err)
		}
		if len(code) != 6 {
			t.Fatalf("expected default length 6, got %q", code)
		}
	}
}

func TestGenerateCodeAlphabet(t *testing.T) {
	code, err := GenerateCode(64)
	if err != nil {
		t.Fatalf("GenerateCode failed: %v", err)
	}
	for _, r := range code {
		if !strings.ContainsRune(codeAlphabet, r) {
			t.Fatalf("code %q contains %q outside the alphabet", code, r)
		}
	}
}
