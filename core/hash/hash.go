// Package hash provides one-way digests of account secrets and
// verification of a secret against a stored digest.
package hash

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// Algorithm names accepted by New.
const (
	AlgorithmBcrypt = "bcrypt"
	AlgorithmSHA256 = "sha256"
)

// Hasher digests a secret and verifies a secret against a stored digest.
// A mismatch on Verify yields false, never an error.
type Hasher interface {
	Hash(secret string) (string, error)
	Verify(secret, digest string) bool
}

// New returns the Hasher for the configured algorithm name.
// Unknown names fall back to bcrypt.
func New(algorithm string) Hasher {
	if algorithm == AlgorithmSHA256 {
		return SHA256Hasher{}
	}
	return BcryptHasher{}
}

// BcryptHasher is the default secure Hasher. Digests are salted;
// hashing the same secret twice yields different digests.
type BcryptHasher struct{}

var _ Hasher = (*BcryptHasher)(nil)

func (BcryptHasher) Hash(secret string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func (BcryptHasher) Verify(secret, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret)) == nil
}

// SHA256Hasher produces the legacy digest format: a deterministic,
// unsalted hex-encoded SHA-256 of the secret. Kept for stores that
// already hold such digests; bcrypt is preferred for new deployments.
type SHA256Hasher struct{}

var _ Hasher = (*SHA256Hasher)(nil)

func (SHA256Hasher) Hash(secret string) (string, error) {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:]), nil
}

func (h SHA256Hasher) Verify(secret, digest string) bool {
	computed, err := h.Hash(secret)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1
}
