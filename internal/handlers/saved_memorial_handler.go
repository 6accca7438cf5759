package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/memoria-app/backend/internal/access"
	"github.com/memoria-app/backend/internal/apperr"
	"github.com/memoria-app/backend/internal/repositories"
)

// SavedMemorialHandler handles memorial bookmarks
type SavedMemorialHandler struct {
	savedRepository repositories.SavedMemorialRepository
	resolver        *access.Resolver
}

// NewSavedMemorialHandler creates a new SavedMemorialHandler
func NewSavedMemorialHandler(savedRepo repositories.SavedMemorialRepository, resolver *access.Resolver) *SavedMemorialHandler {
	return &SavedMemorialHandler{
		savedRepository: savedRepo,
		resolver:        resolver,
	}
}

// RegisterSavedMemorialRoutes registers bookmark routes
func (h *SavedMemorialHandler) RegisterSavedMemorialRoutes(g *echo.Group) {
	g.POST("/memorials/:memorial_id/save", h.SaveMemorial)
	g.DELETE("/memorials/:memorial_id/save", h.UnsaveMemorial)
	g.GET("/saved-memorials", h.GetSavedMemorials)
}

// SaveMemorial bookmarks a memorial the actor may see
func (h *SavedMemorialHandler) SaveMemorial(c echo.Context) error {
	actorID := getUserIDFromContext(c)
	if actorID == 0 {
		return httpError(apperr.ErrUnauthenticated)
	}

	memorialID, err := parseIDParam(c, "memorial_id")
	if err != nil {
		return httpError(err)
	}

	decision, err := h.resolver.Resolve(memorialID, actorID)
	if err != nil {
		return httpError(err)
	}
	if !decision.Allowed {
		return httpError(apperr.ErrAccessDenied)
	}

	if err := h.savedRepository.SaveMemorial(actorID, memorialID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"saved": true}})
}

// UnsaveMemorial removes a bookmark
func (h *SavedMemorialHandler) UnsaveMemorial(c echo.Context) error {
	actorID := getUserIDFromContext(c)
	if actorID == 0 {
		return httpError(apperr.ErrUnauthenticated)
	}

	memorialID, err := parseIDParam(c, "memorial_id")
	if err != nil {
		return httpError(err)
	}

	if err := h.savedRepository.UnsaveMemorial(actorID, memorialID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"saved": false}})
}

// GetSavedMemorials lists the ids of the actor's bookmarked memorials
func (h *SavedMemorialHandler) GetSavedMemorials(c echo.Context) error {
	actorID := getUserIDFromContext(c)
	if actorID == 0 {
		return httpError(apperr.ErrUnauthenticated)
	}

	ids, err := h.savedRepository.GetSavedMemorialIDs(actorID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"memorial_ids": ids}})
}
