package secure

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Encryptor derives password digests with HMAC-SHA256 keyed by a
// server-side secret. Digests are deterministic, so verification is a
// recompute-and-compare. There is no per-user salt.
type Encryptor struct {
	secret []byte
}

// NewEncryptor creates an Encryptor for the given secret.
func NewEncryptor(secret string) *Encryptor {
	return &Encryptor{secret: []byte(secret)}
}

// Digest returns the hex-encoded HMAC-SHA256 of the plaintext.
func (e *Encryptor) Digest(plain string) string {
	mac := hmac.New(sha256.New, e.secret)
	mac.Write([]byte(plain))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether the plaintext hashes to the stored digest.
// The comparison is constant-time.
func (e *Encryptor) Verify(plain, digest string) bool {
	return hmac.Equal([]byte(e.Digest(plain)), []byte(digest))
}
