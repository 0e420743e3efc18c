package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndComparePassword(t *testing.T) {
	user := User{Password: "s3cret-pass"}
	require.NoError(t, user.HashPassword())

	assert.NotEqual(t, "s3cret-pass", user.Password)
	assert.True(t, user.ComparePassword("s3cret-pass"))
	assert.False(t, user.ComparePassword("wrong-pass"))
}

func TestIsBlocked(t *testing.T) {
	assert.False(t, (&User{Status: AccountActive}).IsBlocked())
	assert.True(t, (&User{Status: AccountBlocked}).IsBlocked())
}
