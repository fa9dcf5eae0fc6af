package service

import (
	"errors"
	"testing"

	"github.com/jewgo-app/jewgo-api/internal/config"
)

func TestValidatePassword(t *testing.T) {
	policy := config.PasswordPolicyConfig{
		MinLength:     8,
		RequireUpper:  true,
		RequireLower:  true,
		RequireNumber: true,
	}

	cases := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "ok", password: "Shalom2026", wantErr: false},
		{name: "too short", password: "Ab1", wantErr: true},
		{name: "no upper", password: "shalom2026", wantErr: true},
		{name: "no lower", password: "SHALOM2026", wantErr: true},
		{name: "no digit", password: "ShalomShalom", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validatePassword(policy, tc.password)
			if tc.wantErr {
				if !errors.Is(err, ErrPasswordPolicy) {
					t.Fatalf("want policy error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("want nil, got %v", err)
			}
		})
	}
}

func TestValidatePasswordEmptyPolicyAcceptsAnything(t *testing.T) {
	if err := validatePassword(config.PasswordPolicyConfig{}, "x"); err != nil {
		t.Fatalf("empty policy should accept any password, got %v", err)
	}
}
