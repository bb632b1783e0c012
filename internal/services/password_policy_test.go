package services

import (
	"errors"
	"testing"
)

func TestValidatePasswordStrength_RejectsWeakPasswords(t *testing.T) {
	testCases := []string{
		"Short1",
		"alllowercase1",
		"ALLUPPERCASE1",
		"NoDigitsHere",
	}

	for _, password := range testCases {
		if err := ValidatePasswordStrength(password); !errors.Is(err, ErrWeakPassword) {
			t.Fatalf("expected ErrWeakPassword for %q, got %v", password, err)
		}
	}
}

func TestValidatePasswordStrength_AcceptsStrongPassword(t *testing.T) {
	if err := ValidatePasswordStrength("StrongPass1"); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestClassifyPasswordStrength(t *testing.T) {
	testCases := []struct {
		password string
		want     PasswordStrength
	}{
		{"", PasswordWeak},
		{"lowercase", PasswordWeak},
		{"NoDigitsHere", PasswordWeak},
		{"abc123", PasswordWeak},
		{"Ab1", PasswordMedium},
		{"StrongPass1", PasswordMedium},
		{"Ab1!", PasswordMedium},
		{"StrongPass1!", PasswordStrong},
		{"Мама2026!", PasswordStrong},
	}

	for _, testCase := range testCases {
		if got := ClassifyPasswordStrength(testCase.password); got != testCase.want {
			t.Fatalf("ClassifyPasswordStrength(%q) = %q, want %q", testCase.password, got, testCase.want)
		}
	}
}

func TestClassifyPasswordStrength_UpperLowerDigitIsAtLeastMedium(t *testing.T) {
	for _, password := range []string{"aB3", "Password1", "xY9 with spaces", "1aA"} {
		if ClassifyPasswordStrength(password) == PasswordWeak {
			t.Fatalf("expected %q to rate at least medium", password)
		}
	}
}

func TestValidateNewPasswordPair(t *testing.T) {
	cases := []struct {
		password string
		confirm  string
		want     error
	}{
		{"Lullaby42", "Lullaby42", nil},
		{" Lullaby42 ", "", nil},
		{"Lullaby42", "Lullaby43", ErrAuthPasswordMismatch},
		{"lullaby", "lullaby", ErrWeakPassword},
		{"   ", "Lullaby42", ErrAuthCredentialsInvalid},
	}
	for _, tc := range cases {
		if err := ValidateNewPasswordPair(tc.password, tc.confirm); !errors.Is(err, tc.want) {
			t.Errorf("ValidateNewPasswordPair(%q, %q) = %v, want %v", tc.password, tc.confirm, err, tc.want)
		}
	}
}
