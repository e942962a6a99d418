package auth

import (
	"testing"
	"time"

	"github.com/dealerdesk/crm-backend/internal/models"
)

func TestIssueAndParseRoundTrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	user := &models.User{UserID: 42, Role: models.RoleConsultant}

	token, err := m.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 || claims.Role != models.RoleConsultant {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := NewManager("secret-a", time.Hour).Issue(&models.User{UserID: 1})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewManager("secret-b", time.Hour).Parse(token); err == nil {
		t.Fatal("expected parse to fail with the wrong secret")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	token, err := NewManager("secret", -time.Minute).Issue(&models.User{UserID: 1})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewManager("secret", -time.Minute).Parse(token); err == nil {
		t.Fatal("expected parse to fail for an expired token")
	}
}

func TestVerifyReturnsTokenUser(t *testing.T) {
	m := NewManager("secret", time.Hour)
	token, err := m.Issue(&models.User{UserID: 7})
	if err != nil {
		t.Fatal(err)
	}
	got, err := m.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got != 7 {
		t.Fatalf("verify = %d, want 7", got)
	}
}

func TestParseBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "valid", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "lowercase scheme", header: "bearer tok", want: "tok"},
		{name: "empty", header: "", wantErr: true},
		{name: "no scheme", header: "abc.def.ghi", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBearerToken(tt.header)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Fatalf("token = %q, want %q", got, tt.want)
			}
		})
	}
}
