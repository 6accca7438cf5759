package access

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/memoria-app/backend/internal/apperr"
	"github.com/memoria-app/backend/internal/models"
	"github.com/memoria-app/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

func newTestResolver(t *testing.T) (*Resolver, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:accessdb%d?mode=memory&cache=shared&_busy_timeout=10000",
		atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.Memorial{}, &models.Membership{}))

	resolver := NewResolver(
		repositories.NewPostgresMemorialRepository(db),
		repositories.NewPostgresMembershipRepository(db),
	)
	return resolver, db
}

func seedMemorial(t *testing.T, db *gorm.DB, ownerID uint, privacy string) *models.Memorial {
	t.Helper()
	m := &models.Memorial{
		OwnerID:     ownerID,
		Name:        "Opa Heinrich",
		Kind:        "person",
		Privacy:     privacy,
		InviteToken: fmt.Sprintf("token-%d-%s", ownerID, privacy),
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

func seedMembership(t *testing.T, db *gorm.DB, memorialID, userID uint, role string) {
	t.Helper()
	require.NoError(t, db.Create(&models.Membership{
		MemorialID: memorialID,
		UserID:     userID,
		Role:       role,
	}).Error)
}

func TestResolvePublicMemorial(t *testing.T) {
	resolver, db := newTestResolver(t)
	m := seedMemorial(t, db, 1, models.PrivacyPublic)
	seedMembership(t, db, m.ID, 2, models.MembershipRoleMember)
	seedMembership(t, db, m.ID, 3, models.MembershipRoleAdministrator)

	tests := []struct {
		name     string
		viewerID uint
		wantRole Role
	}{
		{"owner", 1, RoleCreator},
		{"member", 2, RoleMember},
		{"administrator", 3, RoleAdministrator},
		{"stranger", 9, RoleVisitor},
		{"anonymous", AnonymousViewer, RoleVisitor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision, err := resolver.Resolve(m.ID, tt.viewerID)
			require.NoError(t, err)
			assert.True(t, decision.Allowed)
			assert.Equal(t, tt.wantRole, decision.Role)
			assert.Empty(t, decision.Reason)
		})
	}
}

func TestResolvePrivateMemorial(t *testing.T) {
	resolver, db := newTestResolver(t)
	m := seedMemorial(t, db, 1, models.PrivacyPrivate)
	seedMembership(t, db, m.ID, 2, models.MembershipRoleMember)

	// Owner and members get in.
	decision, err := resolver.Resolve(m.ID, 1)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, RoleCreator, decision.Role)

	decision, err = resolver.Resolve(m.ID, 2)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, RoleMember, decision.Role)

	// An authenticated stranger is denied without leaking existence.
	decision, err = resolver.Resolve(m.ID, 9)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, RoleNone, decision.Role)
	assert.Equal(t, ReasonDenied, decision.Reason)

	// An anonymous viewer gets a sign-in prompt instead.
	decision, err = resolver.Resolve(m.ID, AnonymousViewer)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, RoleNone, decision.Role)
	assert.Equal(t, ReasonAuthRequired, decision.Reason)
}

func TestResolveUnknownMemorial(t *testing.T) {
	resolver, _ := newTestResolver(t)

	_, err := resolver.Resolve(4242, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestResolveIsReadOnly(t *testing.T) {
	resolver, db := newTestResolver(t)
	m := seedMemorial(t, db, 1, models.PrivacyPrivate)

	// Resolving repeatedly never changes state.
	for i := 0; i < 3; i++ {
		_, err := resolver.Resolve(m.ID, 9)
		require.NoError(t, err)
	}

	var memorialCount, membershipCount int64
	require.NoError(t, db.Model(&models.Memorial{}).Count(&memorialCount).Error)
	require.NoError(t, db.Model(&models.Membership{}).Count(&membershipCount).Error)
	assert.Equal(t, int64(1), memorialCount)
	assert.Equal(t, int64(0), membershipCount)
}
