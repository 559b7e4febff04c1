package random

import (
	"crypto/rand"
	"encoding/base64"
	"math/big"
)

// TokenBytes is the entropy of a generated token
const TokenBytes = 32

// TokenLength is the encoded length of a token produced by Token
var TokenLength = base64.RawURLEncoding.EncodedLen(TokenBytes)

// Random provides random number generation that can be mocked for testing
type Random interface {
	// Intn returns a random int in [0, n)
	Intn(n int) int

	// Token returns an unguessable URL-safe token of TokenLength characters
	Token() string
}

// CryptoRandom implements Random using crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// Intn returns a cryptographically random int in [0, n)
func (r *CryptoRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	result, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(result.Int64())
}

// Token returns TokenBytes of crypto/rand entropy, base64url encoded without padding
func (r *CryptoRandom) Token() string {
	b := make([]byte, TokenBytes)
	// crypto/rand.Read never returns an error on supported platforms
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// IsToken reports whether s has the shape of a token produced by Token
func IsToken(s string) bool {
	if len(s) != TokenLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}
