// Package ticketkey generates the per-user and per-payment secrets and
// derives the final e-ticket key handed to a buyer.
package ticketkey

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// SecretLen is the raw byte length of generated secrets; encoded form
// is twice as long.
const SecretLen = 16

// NewSecret returns a fresh hex-encoded random secret. Used for a
// user's key1 at registration and a payment's key2 at confirmation.
func NewSecret() (string, error) {
	buf := make([]byte, SecretLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("rand.Read -> %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// DeriveFinalKey computes HMAC-SHA256 of key2 keyed by the owner's
// key1, hex-encoded. The key is stable for a (user, payment) pair and
// unforgeable without key1.
func DeriveFinalKey(key1, key2 string) string {
	mac := hmac.New(sha256.New, []byte(key1))
	mac.Write([]byte(key2))

	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyFinalKey reports whether finalKey matches the derivation for
// key1/key2 in constant time.
func VerifyFinalKey(key1, key2, finalKey string) bool {
	return hmac.Equal([]byte(DeriveFinalKey(key1, key2)), []byte(finalKey))
}
