// internal/utils/crypto_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomStringLengthAndCharset(t *testing.T) {
	s, err := GenerateRandomString(32)
	require.NoError(t, err)
	assert.Len(t, s, 32)

	for _, r := range s {
		assert.True(t,
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'),
			"unexpected character %q", r)
	}
}

func TestGenerateRandomStringUnique(t *testing.T) {
	a, err := GenerateRandomString(32)
	require.NoError(t, err)
	b, err := GenerateRandomString(32)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashStringDeterministic(t *testing.T) {
	assert.Equal(t, HashString("hello"), HashString("hello"))
	assert.NotEqual(t, HashString("hello"), HashString("hello "))
	// sha256("hello")
	assert.Equal(t,
		"2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		HashString("hello"))
}

func TestSignHMACSHA256KnownVector(t *testing.T) {
	// RFC 4231 test case 2
	sig := SignHMACSHA256("what do ya want for nothing?", "Jefe")
	assert.Equal(t,
		"5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843",
		sig)
}

func TestVerifyHMACSHA256(t *testing.T) {
	message := "accessKey=abc&amount=150000&orderId=o-1&resultCode=0"
	secret := "partner-secret"

	sig := SignHMACSHA256(message, secret)
	assert.True(t, VerifyHMACSHA256(message, secret, sig))

	assert.False(t, VerifyHMACSHA256(message+"x", secret, sig))
	assert.False(t, VerifyHMACSHA256(message, "wrong-secret", sig))
	assert.False(t, VerifyHMACSHA256(message, secret, sig[:len(sig)-1]))
}
