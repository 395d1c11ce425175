package crypto

import (
	"strings"
	"testing"
)

func TestPasswordHashing(t *testing.T) {
	password := "correct horse battery staple"
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if hash == password {
		t.Error("Digest equals the plaintext password")
	}

	if !CheckPasswordHash(password, hash) {
		t.Error("CheckPasswordHash failed for correct password")
	}

	if CheckPasswordHash("wrong password", hash) {
		t.Error("CheckPasswordHash succeeded for wrong password")
	}
}

func TestHashesAreSalted(t *testing.T) {
	h1, err := HashPassword("samepassword")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	h2, err := HashPassword("samepassword")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	// bcrypt embeds a fresh random salt per digest
	if h1 == h2 {
		t.Error("Two digests of the same password are identical, salting is broken")
	}
}

func TestDummyHash(t *testing.T) {
	if DummyHash == "" {
		t.Fatal("DummyHash not initialized")
	}
	if !strings.HasPrefix(DummyHash, "$2a$") {
		t.Errorf("DummyHash is not a bcrypt digest: %q", DummyHash)
	}
	if CheckPasswordHash("anything", DummyHash) {
		t.Error("DummyHash verified an arbitrary password")
	}
}
