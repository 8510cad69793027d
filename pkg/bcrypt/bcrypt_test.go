package bcrypt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	Cost = bcrypt.MinCost
	m.Run()
}

func TestHashAndCompare(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	assert.NoError(t, ComparePassword(hash, "correct horse"))
	assert.ErrorIs(t, ComparePassword(hash, "wrong horse"), ErrMismatch)
	assert.Error(t, ComparePassword("not-a-hash", "correct horse"))
}

func TestLongPasswordsAreClamped(t *testing.T) {
	long := strings.Repeat("a", 128)

	hash, err := HashPassword(long)
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hash, long))
	assert.NoError(t, ComparePassword(hash, long[:72]))
	assert.ErrorIs(t, ComparePassword(hash, long[:71]), ErrMismatch)
}
