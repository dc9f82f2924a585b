package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costscope/costscope-api/internal/service/auth"
)

func TestBcryptVerifier(t *testing.T) {
	t.Parallel()

	verifier := auth.NewBcryptVerifier()

	t.Run("hash then compare", func(t *testing.T) {
		t.Parallel()

		hash, err := verifier.Hash("correct horse battery staple")
		require.NoError(t, err)
		assert.NotEqual(t, "correct horse battery staple", hash)

		assert.NoError(t, verifier.Compare(hash, "correct horse battery staple"))
	})

	t.Run("wrong password fails", func(t *testing.T) {
		t.Parallel()

		hash, err := verifier.Hash("correct horse battery staple")
		require.NoError(t, err)

		assert.Error(t, verifier.Compare(hash, "incorrect horse"))
	})

	t.Run("same password hashes differently", func(t *testing.T) {
		t.Parallel()

		a, err := verifier.Hash("password-one-two-three")
		require.NoError(t, err)
		b, err := verifier.Hash("password-one-two-three")
		require.NoError(t, err)

		assert.NotEqual(t, a, b, "bcrypt salts must differ")
	})

	t.Run("comparing against a non-hash fails", func(t *testing.T) {
		t.Parallel()

		assert.Error(t, verifier.Compare("not-a-bcrypt-hash", "anything"))
	})
}
