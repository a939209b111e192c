package jwt

import "testing"

func TestGenerateAndParse(t *testing.T) {
	Init("test-secret-test-secret-test-secret", 30)

	token, err := GenerateAccessToken("U240101abcdefghijk")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != "U240101abcdefghijk" || claims.Subject != "access_token" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestParseRejectsForeignSecret(t *testing.T) {
	Init("secret-one-secret-one-secret-one", 30)
	token, err := GenerateAccessToken("U1")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	Init("secret-two-secret-two-secret-two", 30)
	if _, err := ParseToken(token); err == nil {
		t.Fatalf("token signed with another secret must be rejected")
	}
}
