package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/memoria-app/backend/internal/access"
	"github.com/memoria-app/backend/internal/apperr"
	"github.com/memoria-app/backend/internal/models"
	"github.com/memoria-app/backend/internal/repositories"
	"gorm.io/gorm"
)

// MemorialHandler handles HTTP requests related to memorial pages
type MemorialHandler struct {
	memorialRepository   repositories.MemorialRepository
	condolenceRepository repositories.CondolenceRepository
	resolver             *access.Resolver
}

// NewMemorialHandler creates a new MemorialHandler
func NewMemorialHandler(memorialRepo repositories.MemorialRepository, condolenceRepo repositories.CondolenceRepository, resolver *access.Resolver) *MemorialHandler {
	return &MemorialHandler{
		memorialRepository:   memorialRepo,
		condolenceRepository: condolenceRepo,
		resolver:             resolver,
	}
}

// RegisterMemorialRoutes registers the authenticated memorial routes
func (h *MemorialHandler) RegisterMemorialRoutes(g *echo.Group) {
	g.POST("/memorials", h.CreateMemorial)
	g.GET("/memorials", h.GetOwnMemorials)
	g.PUT("/memorials/:memorial_id", h.UpdateMemorial)
	g.DELETE("/memorials/:memorial_id", h.DeleteMemorial)
}

// RegisterPublicMemorialRoutes registers the read routes, which accept
// anonymous viewers on public memorials
func (h *MemorialHandler) RegisterPublicMemorialRoutes(g *echo.Group) {
	g.GET("/memorials/:memorial_id", h.GetMemorial)
}

// CreateMemorial creates a memorial page owned by the actor
func (h *MemorialHandler) CreateMemorial(c echo.Context) error {
	actorID := getUserIDFromContext(c)
	if actorID == 0 {
		return httpError(apperr.ErrUnauthenticated)
	}

	var req models.CreateMemorialRequest
	if err := c.Bind(&req); err != nil {
		return httpError(apperr.ErrInvalidArgument)
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	privacy := req.Privacy
	if privacy == "" {
		privacy = models.PrivacyPublic
	}

	memorial := &models.Memorial{
		OwnerID:     actorID,
		Name:        req.Name,
		Kind:        req.Kind,
		Privacy:     privacy,
		InviteToken: uuid.NewString(),
	}
	if err := h.memorialRepository.CreateMemorial(memorial); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": memorial})
}

// GetMemorial retrieves a memorial, gated by the access resolver. Private
// memorials render as not-found to uninvited viewers; anonymous viewers
// are asked to sign in instead so the client can offer the prompt.
func (h *MemorialHandler) GetMemorial(c echo.Context) error {
	viewerID := getUserIDFromContext(c)

	memorialID, err := parseIDParam(c, "memorial_id")
	if err != nil {
		return httpError(err)
	}

	decision, err := h.resolver.Resolve(memorialID, viewerID)
	if err != nil {
		return httpError(err)
	}
	if !decision.Allowed {
		if decision.Reason == access.ReasonAuthRequired {
			return httpError(apperr.ErrUnauthenticated)
		}
		log.Printf("memorial read denied: memorial=%d viewer=%d reason=%s", memorialID, viewerID, decision.Reason)
		return httpError(apperr.ErrAccessDenied)
	}

	memorial, err := h.memorialRepository.GetMemorialByID(memorialID)
	if err != nil {
		return httpError(err)
	}

	data := echo.Map{
		"memorial": memorial,
		"role":     decision.Role,
	}
	// The invite link is only the owner's to share.
	if decision.Role == access.RoleCreator {
		data["invite_token"] = memorial.InviteToken
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": data})
}

// GetOwnMemorials lists the memorials the actor created
func (h *MemorialHandler) GetOwnMemorials(c echo.Context) error {
	actorID := getUserIDFromContext(c)
	if actorID == 0 {
		return httpError(apperr.ErrUnauthenticated)
	}

	memorials, err := h.memorialRepository.GetMemorialsByOwnerID(actorID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"memorials": memorials}})
}

// UpdateMemorial updates a memorial's name or privacy. Owner only.
func (h *MemorialHandler) UpdateMemorial(c echo.Context) error {
	actorID := getUserIDFromContext(c)
	if actorID == 0 {
		return httpError(apperr.ErrUnauthenticated)
	}

	memorialID, err := parseIDParam(c, "memorial_id")
	if err != nil {
		return httpError(err)
	}

	var req models.UpdateMemorialRequest
	if err := c.Bind(&req); err != nil {
		return httpError(apperr.ErrInvalidArgument)
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	memorial, err := h.memorialRepository.GetMemorialByID(memorialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httpError(apperr.ErrNotFound)
		}
		return httpError(err)
	}
	if memorial.OwnerID != actorID {
		return httpError(apperr.ErrAccessDenied)
	}

	if req.Name != "" {
		memorial.Name = req.Name
	}
	if req.Privacy != "" {
		memorial.Privacy = req.Privacy
	}
	if err := h.memorialRepository.UpdateMemorial(memorial); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": memorial})
}

// DeleteMemorial deletes a memorial and everything hanging off it.
// Owner only.
func (h *MemorialHandler) DeleteMemorial(c echo.Context) error {
	actorID := getUserIDFromContext(c)
	if actorID == 0 {
		return httpError(apperr.ErrUnauthenticated)
	}

	memorialID, err := parseIDParam(c, "memorial_id")
	if err != nil {
		return httpError(err)
	}

	memorial, err := h.memorialRepository.GetMemorialByID(memorialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httpError(apperr.ErrNotFound)
		}
		return httpError(err)
	}
	if memorial.OwnerID != actorID {
		return httpError(apperr.ErrAccessDenied)
	}

	if err := h.memorialRepository.DeleteMemorial(memorialID); err != nil {
		return httpError(err)
	}

	// The condolence book lives in the document store, outside the
	// relational transaction. The memorial is already gone and its entries
	// unreachable, so a failed sweep is logged, not surfaced.
	if err := h.condolenceRepository.DeleteEntriesByMemorialID(c.Request().Context(), memorialID); err != nil {
		log.Printf("delete memorial %d: %v", memorialID, fmt.Errorf("%w: sweep condolence entries: %v", apperr.ErrDependencyFailure, err))
	}
	return c.NoContent(http.StatusNoContent)
}
