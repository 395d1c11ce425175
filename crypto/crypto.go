// Package crypto owns the password digest scheme. Digests are bcrypt, so
// each record carries its own random salt inside the digest string; the
// original deployment stored unsalted sha256 hexdigests, which is exactly
// the precomputation weakness bcrypt removes.
package crypto

import "golang.org/x/crypto/bcrypt"

const bcryptCost = 14

// DummyHash is compared against when a login key does not exist, so that
// a lookup miss costs the same as a digest mismatch. Computed once at
// startup to guarantee it matches bcryptCost.
var DummyHash string

func init() {
	digest, err := bcrypt.GenerateFromPassword([]byte("claritybooks-dummy-password"), bcryptCost)
	if err != nil {
		panic(err)
	}
	DummyHash = string(digest)
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(bytes), err
}

// CheckPasswordHash reports whether password matches the stored digest.
// bcrypt's comparison is constant-time over the digest.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
