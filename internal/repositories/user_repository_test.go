package repositories

import (
	"testing"

	"github.com/memoria-app/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateManyLocalUsersWithoutFirebaseLink(t *testing.T) {
	repo := NewPostgresUserRepository(newTestDB(t))

	// Local signups never carry a Firebase UID; the unlinked column stays
	// NULL so any number of them coexist.
	require.NoError(t, repo.CreateUser(&models.User{Email: "maria@example.org", Password: "hash-1"}))
	require.NoError(t, repo.CreateUser(&models.User{Email: "josef@example.org", Password: "hash-2"}))
	require.NoError(t, repo.CreateUser(&models.User{Email: "anna@example.org", Password: "hash-3"}))

	user, err := repo.GetUserByEmail("josef@example.org")
	require.NoError(t, err)
	assert.Nil(t, user.FirebaseUID)
}

func TestFirebaseUIDStaysUniqueWhenLinked(t *testing.T) {
	repo := NewPostgresUserRepository(newTestDB(t))

	uid := "firebase-uid-1"
	require.NoError(t, repo.CreateUser(&models.User{Email: "maria@example.org", FirebaseUID: &uid}))

	err := repo.CreateUser(&models.User{Email: "josef@example.org", FirebaseUID: &uid})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// An unlinked account still slots in next to the linked one.
	require.NoError(t, repo.CreateUser(&models.User{Email: "anna@example.org"}))

	found, err := repo.GetUserByFirebaseUID(uid)
	require.NoError(t, err)
	assert.Equal(t, "maria@example.org", found.Email)
}

func TestDuplicateEmailRejected(t *testing.T) {
	repo := NewPostgresUserRepository(newTestDB(t))

	require.NoError(t, repo.CreateUser(&models.User{Email: "maria@example.org"}))
	err := repo.CreateUser(&models.User{Email: "maria@example.org"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
