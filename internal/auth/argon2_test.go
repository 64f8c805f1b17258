package auth

import (
	"strings"
	"testing"
)

func TestHashToken_ProducesPHCFormat(t *testing.T) {
	hash, err := HashToken("my-admin-token")
	if err != nil {
		t.Fatalf("HashToken: %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$v=") {
		t.Errorf("hash %q does not use PHC argon2id format", hash)
	}
	if strings.Contains(hash, "my-admin-token") {
		t.Error("hash contains the plaintext token")
	}
}

func TestHashToken_SaltedDifferently(t *testing.T) {
	h1, err := HashToken("same-token")
	if err != nil {
		t.Fatal(err)
	}
	h2, err := HashToken("same-token")
	if err != nil {
		t.Fatal(err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same token should differ by salt")
	}
}

func TestVerifyToken(t *testing.T) {
	hash, err := HashToken("correct-token")
	if err != nil {
		t.Fatal(err)
	}

	ok, err := VerifyToken("correct-token", hash)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if !ok {
		t.Error("correct token rejected")
	}

	ok, err = VerifyToken("wrong-token", hash)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if ok {
		t.Error("wrong token accepted")
	}
}

func TestVerifyToken_MalformedHash(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"garbage", "not-a-hash"},
		{"wrong algorithm", "$bcrypt$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA"},
		{"missing sections", "$argon2id$v=19$m=65536,t=3,p=4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := VerifyToken("token", tt.hash); err == nil {
				t.Error("expected error for malformed hash")
			}
		})
	}
}
