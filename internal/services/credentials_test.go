package services

import (
	"errors"
	"testing"
)

func TestNormalizeCredentialsInput(t *testing.T) {
	cases := []struct {
		name         string
		email        string
		password     string
		wantEmail    string
		wantPassword string
		wantErr      error
	}{
		{name: "trims and lowercases", email: "  Ana@Example.ORG ", password: " Secret1a ", wantEmail: "ana@example.org", wantPassword: "Secret1a"},
		{name: "plain address required", email: "Ana <ana@example.org>", password: "Secret1a", wantErr: ErrAuthCredentialsInvalid},
		{name: "not an address", email: "ana.example.org", password: "Secret1a", wantErr: ErrAuthCredentialsInvalid},
		{name: "blank email", email: "  ", password: "Secret1a", wantErr: ErrAuthCredentialsInvalid},
		{name: "blank password", email: "ana@example.org", password: "\t", wantErr: ErrAuthCredentialsInvalid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			email, password, err := NormalizeCredentialsInput(tc.email, tc.password)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
			if email != tc.wantEmail || password != tc.wantPassword {
				t.Fatalf("got (%q, %q), want (%q, %q)", email, password, tc.wantEmail, tc.wantPassword)
			}
		})
	}
}

func TestNormalizeAuthEmailRejectsDisplayName(t *testing.T) {
	if got := NormalizeAuthEmail(`"Ana" <ana@example.org>`); got != "" {
		t.Fatalf("expected display-name form to be rejected, got %q", got)
	}
	if got := NormalizeAuthEmail("ANA@EXAMPLE.ORG"); got != "ana@example.org" {
		t.Fatalf("unexpected normalized email %q", got)
	}
}
