package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/memoria-app/backend/internal/access"
	"github.com/memoria-app/backend/internal/apperr"
	"github.com/memoria-app/backend/internal/identity"
	"github.com/memoria-app/backend/internal/models"
	"github.com/memoria-app/backend/internal/notifications"
	"github.com/memoria-app/backend/internal/repositories"
	"gorm.io/gorm"
)

// ReactionHandler handles HTTP requests related to memorial reactions.
// It is the one place that talks to the access resolver, the reaction
// store and the notification aggregator together.
type ReactionHandler struct {
	reactionRepository repositories.ReactionRepository
	memorialRepository repositories.MemorialRepository
	userRepository     repositories.UserRepository
	resolver           *access.Resolver
	aggregator         *notifications.Aggregator
	identity           *identity.Resolver
}

// NewReactionHandler creates a new ReactionHandler
func NewReactionHandler(
	reactionRepo repositories.ReactionRepository,
	memorialRepo repositories.MemorialRepository,
	userRepo repositories.UserRepository,
	resolver *access.Resolver,
	aggregator *notifications.Aggregator,
	identityResolver *identity.Resolver,
) *ReactionHandler {
	return &ReactionHandler{
		reactionRepository: reactionRepo,
		memorialRepository: memorialRepo,
		userRepository:     userRepo,
		resolver:           resolver,
		aggregator:         aggregator,
		identity:           identityResolver,
	}
}

// RegisterReactionRoutes registers the authenticated reaction routes
func (h *ReactionHandler) RegisterReactionRoutes(g *echo.Group) {
	g.POST("/memorials/:memorial_id/reactions", h.ToggleReaction)
}

// RegisterPublicReactionRoutes registers the read routes, which accept
// anonymous viewers on public memorials
func (h *ReactionHandler) RegisterPublicReactionRoutes(g *echo.Group) {
	g.GET("/memorials/:memorial_id/reactions", h.GetReactions)
}

// ToggleReaction toggles the actor's reaction of one kind on a memorial.
// Adding a reaction to someone else's memorial feeds the owner's
// notifications; removing one never does.
func (h *ReactionHandler) ToggleReaction(c echo.Context) error {
	actorID := getUserIDFromContext(c)
	if actorID == 0 {
		return httpError(apperr.ErrUnauthenticated)
	}

	memorialID, err := parseIDParam(c, "memorial_id")
	if err != nil {
		return httpError(err)
	}

	var req models.ToggleReactionRequest
	if err := c.Bind(&req); err != nil {
		return httpError(apperr.ErrInvalidArgument)
	}
	if err := c.Validate(&req); err != nil {
		return httpError(apperr.ErrInvalidArgument)
	}
	if !models.IsValidReactionKind(req.Kind) {
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown reaction kind")
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
		log.Printf("reaction toggle denied: memorial=%d actor=%d reason=%s", memorialID, actorID, decision.Reason)
		return httpError(apperr.ErrAccessDenied)
	}

	action, err := h.reactionRepository.Toggle(memorialID, actorID, req.Kind)
	if err != nil {
		return httpError(err)
	}

	// Only the add transition notifies, and never the owner about
	// themselves. Bookkeeping failures are logged and swallowed: the
	// toggle has already succeeded and stays successful.
	if action == models.ReactionAdded && actorID != memorial.OwnerID {
		h.notifyOwner(c, memorial, actorID, req.Kind)
	}

	counts, err := h.reactionRepository.CountsFor(memorialID)
	if err != nil {
		return httpError(err)
	}
	actorReactions, err := h.reactionRepository.ReactionsOf(memorialID, actorID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"action":         action,
			"counts":         counts,
			"actorReactions": actorReactions,
		},
	})
}

func (h *ReactionHandler) notifyOwner(c echo.Context, memorial *models.Memorial, actorID uint, kind string) {
	ctx := c.Request().Context()

	actorName := identity.PlaceholderName
	actor, err := h.userRepository.GetUserByID(actorID)
	if err != nil {
		log.Printf("reaction notification: load actor %d: %v", actorID, err)
	} else {
		actorName = h.identity.DisplayName(ctx, actor)
	}

	err = h.aggregator.RecordOrMerge(memorial.OwnerID, memorial.ID, actorID, actorName, models.NotificationTypeReaction, kind)
	if err != nil {
		log.Printf("reaction notification for memorial %d: %v", memorial.ID, err)
	}
}

// GetReactions returns a memorial's reaction counts plus the viewer's own
// reaction set. Anonymous viewers get an empty set.
func (h *ReactionHandler) GetReactions(c echo.Context) error {
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
		log.Printf("reaction read denied: memorial=%d viewer=%d reason=%s", memorialID, viewerID, decision.Reason)
		return httpError(apperr.ErrAccessDenied)
	}

	counts, err := h.reactionRepository.CountsFor(memorialID)
	if err != nil {
		return httpError(err)
	}

	actorReactions := []string{}
	if viewerID != 0 {
		actorReactions, err = h.reactionRepository.ReactionsOf(memorialID, viewerID)
		if err != nil {
			return httpError(err)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"counts":         counts,
			"actorReactions": actorReactions,
		},
	})
}
