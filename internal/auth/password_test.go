package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPasswordHash("correct horse battery staple", hash))
	assert.False(t, CheckPasswordHash("wrong password", hash))
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	assert.Error(t, ValidatePassword("short"))
	assert.NoError(t, ValidatePassword("long enough"))
}

func TestActorRoles(t *testing.T) {
	t.Parallel()

	admin := Actor{ID: "1", Role: "admin"}
	assert.True(t, admin.IsAdmin())
	assert.False(t, admin.IsClient())

	client := Actor{ID: "2", Role: "client"}
	assert.True(t, client.IsClient())
	assert.False(t, client.IsFreelancer())
}
