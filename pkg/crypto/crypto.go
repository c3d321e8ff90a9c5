package crypto

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
)

// HMACSha256 returns the hex-encoded HMAC-SHA256 of data under secret. It is
// used to store client addresses without keeping them readable.
func HMACSha256(data, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}

// RandIntn returns a uniform random value in [0, n). It panics if got a
// non-positive parameter.
func RandIntn(n int) int {
	r, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}

	return int(r.Int64())
}

// RandFloat64 returns a uniform random value in [0, 1) with 1e-6 resolution.
func RandFloat64() float64 {
	return float64(RandIntn(1_000_000)) / 1_000_000
}
