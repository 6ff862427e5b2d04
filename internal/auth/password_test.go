package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	for _, pw := range []string{"hunter2", "correct horse battery staple", "ünïcødé-✓", ""} {
		digest, err := HashPassword(pw)
		require.NoError(t, err)
		assert.True(t, VerifyPassword(pw, digest), "password %q should verify", pw)
	}
}

func TestHashPassword_Format(t *testing.T) {
	digest, err := HashPassword("s3cret")
	require.NoError(t, err)

	key, salt, ok := strings.Cut(digest, ".")
	require.True(t, ok)
	assert.Len(t, key, keyLen*2)
	assert.Len(t, salt, saltLen*2)

	other, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, digest, other, "fresh salt per hash")
}

func TestVerifyPassword_SingleCharacterMutations(t *testing.T) {
	const pw = "Nurse#42"
	digest, err := HashPassword(pw)
	require.NoError(t, err)

	var mutations []string
	for i := range pw {
		b := []byte(pw)
		b[i] ^= 0x01
		// substitution and deletion at every position
		mutations = append(mutations, string(b), pw[:i]+pw[i+1:])
	}
	mutations = append(mutations, pw+"x", "x"+pw)

	for _, m := range mutations {
		assert.False(t, VerifyPassword(m, digest), "mutation %q must not verify", m)
	}
}

func TestVerifyPassword_MalformedDigest(t *testing.T) {
	digest, err := HashPassword("pw")
	require.NoError(t, err)
	key, salt, _ := strings.Cut(digest, ".")

	for _, bad := range []string{
		"",
		"no-separator",
		"zz." + salt,
		key + ".zz",
		key[:10] + "." + salt,
		key + ".",
	} {
		assert.False(t, VerifyPassword("pw", bad), "digest %q", bad)
	}
}
