package auth

import "testing"

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	if err := InitJWTSecret(); err != nil {
		t.Fatalf("init secret: %v", err)
	}

	signed, err := GenerateJWT(42, "alice@example.com")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	token, err := VerifyJWT(signed)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}

	userID, err := UserIDFromToken(token)
	if err != nil {
		t.Fatalf("extract user id: %v", err)
	}

	if userID != 42 {
		t.Fatalf("expected user id 42, got %d", userID)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	if err := InitJWTSecret(); err != nil {
		t.Fatalf("init secret: %v", err)
	}

	if _, err := VerifyJWT("not-a-token"); err == nil {
		t.Fatal("garbage token should not verify")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "first-secret")

	if err := InitJWTSecret(); err != nil {
		t.Fatalf("init secret: %v", err)
	}

	signed, err := GenerateJWT(7, "bob@example.com")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	t.Setenv("JWT_SECRET", "second-secret")
	if err := InitJWTSecret(); err != nil {
		t.Fatalf("re-init secret: %v", err)
	}

	if _, err := VerifyJWT(signed); err == nil {
		t.Fatal("token signed with the old secret should not verify")
	}
}
