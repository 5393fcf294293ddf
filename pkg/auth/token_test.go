package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/leonfashion/fashionshop-backend/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "fashionshop-test",
		ExpirationMinutes: 30,
	}
}

func TestMintThenValidateBeforeExpiry(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), "admin@example.com")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if !ValidateAccessToken(cfg, token, "admin@example.com") {
		t.Fatal("expected token to validate for its own subject")
	}
}

func TestValidateFailsAfterExpiry(t *testing.T) {
	cfg := testJWTConfig()
	issued := time.Now().Add(-time.Duration(cfg.ExpirationMinutes+5) * time.Minute)
	token, err := MintAccessToken(cfg, issued, "admin@example.com")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if ValidateAccessToken(cfg, token, "admin@example.com") {
		t.Fatal("expired token must not validate")
	}
}

func TestValidateFailsForSubjectMismatch(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), "alice@example.com")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if ValidateAccessToken(cfg, token, "bob@example.com") {
		t.Fatal("token must not validate for a different subject")
	}
}

func TestValidateFailsClosedOnGarbage(t *testing.T) {
	cfg := testJWTConfig()
	for _, raw := range []string{"", "not-a-jwt", "a.b.c", strings.Repeat("x", 600)} {
		if ValidateAccessToken(cfg, raw, "admin@example.com") {
			t.Fatalf("garbage token %q must not validate", raw)
		}
	}
}

func TestValidateFailsForTamperedToken(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), "admin@example.com")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %s", token)
	}
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))
	if ValidateAccessToken(cfg, tampered, "admin@example.com") {
		t.Fatal("tampered token must not validate")
	}
}

func TestValidateFailsForWrongKey(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), "admin@example.com")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	other := cfg
	other.Secret = "different-secret"
	if ValidateAccessToken(other, token, "admin@example.com") {
		t.Fatal("token signed with another key must not validate")
	}
}

func TestExtractSubjectBestEffort(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), "carol@example.com")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if got := ExtractSubject(cfg, token); got != "carol@example.com" {
		t.Fatalf("expected subject carol@example.com, got %q", got)
	}
	if got := ExtractSubject(cfg, "garbage"); got != "" {
		t.Fatalf("malformed token must yield empty subject, got %q", got)
	}
}

func TestMintRejectsBlankSubject(t *testing.T) {
	if _, err := MintAccessToken(testJWTConfig(), time.Now(), "  "); err == nil {
		t.Fatal("expected error for blank subject")
	}
}
