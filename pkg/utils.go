package pkg

import (
	"math/rand"
	"os"
)

const idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandString makes a short join code, uppercase alphanumeric.
func RandString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = idAlphabet[rand.Intn(len(idAlphabet))]
	}
	return string(b)
}

// JWTSecret returns the token signing key. JWT_SECRET should be set in
// production; the fallback keeps local development working.
func JWTSecret() []byte {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("secret")
}
