package util

import (
	"errors"
	"testing"
)

func TestDeriveAndVerifyPassword(t *testing.T) {
	hash, salt, err := DerivePassword("noodles-and-rice-42")
	if err != nil {
		t.Fatalf("DerivePassword returned error: %v", err)
	}
	if len(hash) == 0 || len(salt) == 0 {
		t.Fatalf("expected hash and salt to be populated")
	}
	if !VerifyPassword("noodles-and-rice-42", salt, hash) {
		t.Fatalf("expected password verification to succeed")
	}
	if VerifyPassword("noodles-and-rice-43", salt, hash) {
		t.Fatalf("expected password verification to fail for wrong password")
	}
	if VerifyPassword("noodles-and-rice-42", nil, hash) {
		t.Fatalf("expected verification to fail without salt")
	}
}

func TestHashPasswordEmptyInput(t *testing.T) {
	if _, err := HashPassword("", []byte{1, 2, 3}); err == nil {
		t.Fatalf("expected error when password empty")
	}
	if _, err := HashPassword("secret", nil); err == nil {
		t.Fatalf("expected error when salt empty")
	}
}

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		password string
		want     error
	}{
		{"short1", ErrPasswordTooShort},
		{"onlyletterspassword", ErrPasswordTooWeak},
		{"12345678901", ErrPasswordTooWeak},
		{"dumplings4ever", nil},
	}
	for _, tc := range cases {
		if err := ValidatePassword(tc.password); !errors.Is(err, tc.want) {
			t.Fatalf("ValidatePassword(%q) = %v, want %v", tc.password, err, tc.want)
		}
	}
}
