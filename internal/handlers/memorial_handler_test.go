package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/memoria-app/backend/internal/access"
	"github.com/memoria-app/backend/internal/middleware"
	"github.com/memoria-app/backend/internal/models"
	"github.com/memoria-app/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// condolenceRecorder stands in for the Mongo-backed condolence book and
// records which memorials had their entries swept.
type condolenceRecorder struct {
	swept    []uint
	sweepErr error
}

func (r *condolenceRecorder) CreateEntry(ctx context.Context, entry *models.CondolenceEntry) error {
	return nil
}

func (r *condolenceRecorder) GetEntriesByMemorialID(ctx context.Context, memorialID uint, skip, limit int64) ([]models.CondolenceEntry, error) {
	return nil, nil
}

func (r *condolenceRecorder) DeleteEntriesByMemorialID(ctx context.Context, memorialID uint) error {
	if r.sweepErr != nil {
		return r.sweepErr
	}
	r.swept = append(r.swept, memorialID)
	return nil
}

func newMemorialHandlerEnv(t *testing.T) (*testEnv, *MemorialHandler, *condolenceRecorder) {
	t.Helper()
	env := newTestEnv(t)

	memorialRepo := repositories.NewPostgresMemorialRepository(env.db)
	membershipRepo := repositories.NewPostgresMembershipRepository(env.db)
	resolver := access.NewResolver(memorialRepo, membershipRepo)
	recorder := &condolenceRecorder{}
	handler := NewMemorialHandler(memorialRepo, recorder, resolver)
	return env, handler, recorder
}

func deleteMemorial(t *testing.T, env *testEnv, handler *MemorialHandler, actorID, memorialID uint) (*httptest.ResponseRecorder, error) {
	t.Helper()
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := env.e.NewContext(req, rec)
	c.SetPath("/memorials/:memorial_id")
	c.SetParamNames("memorial_id")
	c.SetParamValues(strconv.FormatUint(uint64(memorialID), 10))
	if actorID != 0 {
		c.Set(middleware.ContextUserIDKey, actorID)
	}
	return rec, handler.DeleteMemorial(c)
}

func TestDeleteMemorialSweepsCondolenceEntries(t *testing.T) {
	env, handler, recorder := newMemorialHandlerEnv(t)
	owner := env.seedUser(t, "luise@example.org")
	visitor := env.seedUser(t, "maria@example.org")
	m := env.seedMemorial(t, owner.ID, models.PrivacyPublic)
	require.NoError(t, env.db.Create(&models.Reaction{
		MemorialID: m.ID, UserID: visitor.ID, Kind: models.ReactionKerze,
	}).Error)

	rec, err := deleteMemorial(t, env, handler, owner.ID, m.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// The relational rows and the document-store entries both go.
	var count int64
	require.NoError(t, env.db.Model(&models.Reaction{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Equal(t, []uint{m.ID}, recorder.swept)
}

func TestDeleteMemorialSurvivesSweepFailure(t *testing.T) {
	env, handler, recorder := newMemorialHandlerEnv(t)
	recorder.sweepErr = errors.New("document store unreachable")
	owner := env.seedUser(t, "luise@example.org")
	m := env.seedMemorial(t, owner.ID, models.PrivacyPublic)

	rec, err := deleteMemorial(t, env, handler, owner.ID, m.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.Memorial{}).Count(&count).Error)
	assert.Zero(t, count, "the memorial itself is gone even when the sweep fails")
}

func TestDeleteMemorialOwnerOnly(t *testing.T) {
	env, handler, recorder := newMemorialHandlerEnv(t)
	owner := env.seedUser(t, "luise@example.org")
	stranger := env.seedUser(t, "fremd@example.org")
	m := env.seedMemorial(t, owner.ID, models.PrivacyPublic)

	_, err := deleteMemorial(t, env, handler, stranger.ID, m.ID)
	requireHTTPStatus(t, err, http.StatusNotFound)
	assert.Empty(t, recorder.swept)
}
