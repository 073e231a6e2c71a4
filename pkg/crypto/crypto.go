package crypto

import (
	"crypto/rand"
	"encoding/binary"
	"math/big"
)

const (
	Alphabet      = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	UpperAlphaNum = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

func GenerateRandomAlphabet(n uint) string {
	return GenerateRandomFrom(Alphabet, n)
}

// GenerateRandomFrom returns n characters picked uniformly from charset.
func GenerateRandomFrom(charset string, n uint) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = charset[RandIntn(len(charset))]
	}
	return string(b)
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

// RandRange returns a uniform random value in [a, b). It panics if got a
// non-positive parameter or a>=b.
func RandRange(a, b int) int {
	return RandIntn(b-a) + a
}

// RandFloat64 returns a uniform random value in [0, 1).
func RandFloat64() float64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}

	// 53 random bits fill the mantissa of a float64 exactly.
	return float64(binary.BigEndian.Uint64(b[:])>>11) / (1 << 53)
}
