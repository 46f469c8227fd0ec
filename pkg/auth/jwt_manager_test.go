package auth_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/avoronov/devlink/pkg/auth"
)

const testSecret = "test-secret"

func TestGenerateVerifyRoundTrip(t *testing.T) {
	m := auth.NewJWTManager(testSecret, 10*time.Hour)

	token, err := m.Generate("42e59e72-5a5a-4c9f-9f5a-3a2b6de1c001")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "42e59e72-5a5a-4c9f-9f5a-3a2b6de1c001" {
		t.Errorf("subject = %q, want the user id", claims.Subject)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := auth.NewJWTManager(testSecret, -time.Minute)

	token, err := m.Generate("user")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if _, err := m.Verify(token); err == nil {
		t.Error("Verify accepted a token past its expiry")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	m := auth.NewJWTManager(testSecret, time.Hour)
	other := auth.NewJWTManager("other-secret", time.Hour)

	token, err := m.Generate("user")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if _, err := other.Verify(token); err == nil {
		t.Error("Verify accepted a token signed with a different secret")
	}
}

func TestExpiry(t *testing.T) {
	m := auth.NewJWTManager(testSecret, 10*time.Hour)

	token, err := m.Generate("user")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	exp, err := m.Expiry(token)
	if err != nil {
		t.Fatalf("Expiry: %v", err)
	}

	want := time.Now().Add(10 * time.Hour)
	if diff := exp.Sub(want); diff < -time.Minute || diff > time.Minute {
		t.Errorf("expiry = %v, want about %v", exp, want)
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"bearer", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"lowercase scheme", "bearer abc", "abc", false},
		{"missing header", "", "", true},
		{"wrong scheme", "Basic abc", "", true},
		{"no token", "Bearer", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := http.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}

			got, err := auth.ExtractTokenFromHeader(r)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("want error, got token %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("token = %q, want %q", got, tt.want)
			}
		})
	}
}
