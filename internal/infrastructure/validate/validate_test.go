package validate

import (
	"strings"
	"testing"
)

func TestField(t *testing.T) {
	v := Field("name", Required(), LengthBetween(3, 10))

	if err := v("abc"); err != nil {
		t.Errorf("valid value: %v", err)
	}
	if err := v(""); err == nil || !strings.HasPrefix(err.Error(), "name:") {
		t.Errorf("empty value: error = %v, want name-prefixed", err)
	}
	if err := v("ab"); err == nil {
		t.Error("too short: expected error")
	}
	if err := v("abcdefghijk"); err == nil {
		t.Error("too long: expected error")
	}
}

func TestRequired(t *testing.T) {
	v := Required()
	if err := v("   "); err == nil {
		t.Error("whitespace only: expected error")
	}
	if err := v("x"); err != nil {
		t.Errorf("non-empty: %v", err)
	}
}

func TestOneOf(t *testing.T) {
	v := OneOf("public", "private")

	if err := v("public"); err != nil {
		t.Errorf("allowed value: %v", err)
	}
	err := v("secret")
	if err == nil {
		t.Fatal("disallowed value: expected error")
	}
	if !strings.Contains(err.Error(), "public, private") {
		t.Errorf("error should name the allowed set, got %v", err)
	}
}
