package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/memoria-app/backend/internal/access"
	"github.com/memoria-app/backend/internal/apperr"
	"github.com/memoria-app/backend/internal/identity"
	"github.com/memoria-app/backend/internal/models"
	"github.com/memoria-app/backend/internal/notifications"
	"github.com/memoria-app/backend/internal/repositories"
	"gorm.io/gorm"
)

// CondolenceHandler handles condolence-book entries. Writing an entry is
// one more activity that feeds the owner's notifications through the
// same aggregator as reactions.
type CondolenceHandler struct {
	condolenceRepository repositories.CondolenceRepository
	memorialRepository   repositories.MemorialRepository
	userRepository       repositories.UserRepository
	resolver             *access.Resolver
	aggregator           *notifications.Aggregator
	identity             *identity.Resolver
}

// NewCondolenceHandler creates a new CondolenceHandler
func NewCondolenceHandler(
	condolenceRepo repositories.CondolenceRepository,
	memorialRepo repositories.MemorialRepository,
	userRepo repositories.UserRepository,
	resolver *access.Resolver,
	aggregator *notifications.Aggregator,
	identityResolver *identity.Resolver,
) *CondolenceHandler {
	return &CondolenceHandler{
		condolenceRepository: condolenceRepo,
		memorialRepository:   memorialRepo,
		userRepository:       userRepo,
		resolver:             resolver,
		aggregator:           aggregator,
		identity:             identityResolver,
	}
}

// RegisterCondolenceRoutes registers the authenticated condolence routes
func (h *CondolenceHandler) RegisterCondolenceRoutes(g *echo.Group) {
	g.POST("/memorials/:memorial_id/condolences", h.CreateEntry)
}

// RegisterPublicCondolenceRoutes registers the read routes
func (h *CondolenceHandler) RegisterPublicCondolenceRoutes(g *echo.Group) {
	g.GET("/memorials/:memorial_id/condolences", h.GetEntries)
}

// CreateEntry writes a condolence-book entry on a memorial
func (h *CondolenceHandler) CreateEntry(c echo.Context) error {
	actorID := getUserIDFromContext(c)
	if actorID == 0 {
		return httpError(apperr.ErrUnauthenticated)
	}

	memorialID, err := parseIDParam(c, "memorial_id")
	if err != nil {
		return httpError(err)
	}

	var req models.CreateCondolenceRequest
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

	decision, err := h.resolver.ResolveFor(memorial, actorID)
	if err != nil {
		return httpError(err)
	}
	if !decision.Allowed {
		return httpError(apperr.ErrAccessDenied)
	}

	ctx := c.Request().Context()
	authorName := identity.PlaceholderName
	author, err := h.userRepository.GetUserByID(actorID)
	if err == nil {
		authorName = h.identity.DisplayName(ctx, author)
	}

	entry := &models.CondolenceEntry{
		MemorialID: memorialID,
		AuthorID:   actorID,
		AuthorName: authorName,
		Message:    req.Message,
	}
	if err := h.condolenceRepository.CreateEntry(ctx, entry); err != nil {
		return httpError(err)
	}

	// Same best-effort side channel as reactions.
	if actorID != memorial.OwnerID {
		err := h.aggregator.RecordOrMerge(memorial.OwnerID, memorial.ID, actorID, authorName,
			models.NotificationTypeCondolence, "eintrag")
		if err != nil {
			log.Printf("condolence notification for memorial %d: %v", memorial.ID, err)
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": entry})
}

// GetEntries lists a memorial's condolence-book entries
func (h *CondolenceHandler) GetEntries(c echo.Context) error {
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
		return httpError(apperr.ErrAccessDenied)
	}

	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	entries, err := h.condolenceRepository.GetEntriesByMemorialID(c.Request().Context(), memorialID, skip, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"entries": entries}})
}
