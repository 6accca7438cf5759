package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/memoria-app/backend/internal/apperr"
	"github.com/memoria-app/backend/internal/models"
	"github.com/memoria-app/backend/internal/repositories"
	"gorm.io/gorm"
)

// MembershipHandler handles the invitation flow: joining a private
// memorial via its invite link and managing member roles.
type MembershipHandler struct {
	membershipRepository repositories.MembershipRepository
	memorialRepository   repositories.MemorialRepository
}

// NewMembershipHandler creates a new MembershipHandler
func NewMembershipHandler(membershipRepo repositories.MembershipRepository, memorialRepo repositories.MemorialRepository) *MembershipHandler {
	return &MembershipHandler{
		membershipRepository: membershipRepo,
		memorialRepository:   memorialRepo,
	}
}

// RegisterMembershipRoutes registers membership-related routes
func (h *MembershipHandler) RegisterMembershipRoutes(g *echo.Group) {
	g.POST("/memorials/join", h.JoinMemorial)
	g.GET("/memorials/:memorial_id/members", h.GetMembers)
	g.PUT("/memorials/:memorial_id/members/:user_id/role", h.UpdateMemberRole)
	g.DELETE("/memorials/:memorial_id/members/:user_id", h.RemoveMember)
}

// JoinMemorial adds the actor as a member of the memorial matching the
// invite token
func (h *MembershipHandler) JoinMemorial(c echo.Context) error {
	actorID := getUserIDFromContext(c)
	if actorID == 0 {
		return httpError(apperr.ErrUnauthenticated)
	}

	var req models.JoinMemorialRequest
	if err := c.Bind(&req); err != nil {
		return httpError(apperr.ErrInvalidArgument)
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	memorial, err := h.memorialRepository.GetMemorialByInviteToken(req.InviteToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Invite link is not valid")
		}
		return httpError(err)
	}

	if memorial.OwnerID == actorID {
		return echo.NewHTTPError(http.StatusConflict, "You already own this memorial")
	}

	membership := &models.Membership{
		MemorialID: memorial.ID,
		UserID:     actorID,
		Role:       models.MembershipRoleMember,
	}
	if err := h.membershipRepository.CreateMembership(membership); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return echo.NewHTTPError(http.StatusConflict, "Already a member of this memorial")
		}
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{
		"memorial_id": memorial.ID,
		"role":        membership.Role,
	}})
}

// GetMembers lists a memorial's members. Owner and administrators only.
func (h *MembershipHandler) GetMembers(c echo.Context) error {
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

	if err := h.requireManager(memorial, actorID); err != nil {
		return httpError(err)
	}

	members, err := h.membershipRepository.GetMembershipsByMemorialID(memorialID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"members": members}})
}

// UpdateMemberRole promotes or demotes a member. Owner only.
func (h *MembershipHandler) UpdateMemberRole(c echo.Context) error {
	actorID := getUserIDFromContext(c)
	if actorID == 0 {
		return httpError(apperr.ErrUnauthenticated)
	}

	memorialID, err := parseIDParam(c, "memorial_id")
	if err != nil {
		return httpError(err)
	}
	userID, err := parseIDParam(c, "user_id")
	if err != nil {
		return httpError(err)
	}

	var req models.UpdateMembershipRoleRequest
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

	if err := h.membershipRepository.UpdateMembershipRole(memorialID, userID, req.Role); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Membership not found")
		}
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"role": req.Role}})
}

// RemoveMember removes a member from a memorial. The owner can remove
// anyone; a member can remove themselves (leave).
func (h *MembershipHandler) RemoveMember(c echo.Context) error {
	actorID := getUserIDFromContext(c)
	if actorID == 0 {
		return httpError(apperr.ErrUnauthenticated)
	}

	memorialID, err := parseIDParam(c, "memorial_id")
	if err != nil {
		return httpError(err)
	}
	userID, err := parseIDParam(c, "user_id")
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
	if memorial.OwnerID != actorID && userID != actorID {
		return httpError(apperr.ErrAccessDenied)
	}

	if err := h.membershipRepository.DeleteMembership(memorialID, userID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *MembershipHandler) requireManager(memorial *models.Memorial, actorID uint) error {
	if memorial.OwnerID == actorID {
		return nil
	}
	membership, err := h.membershipRepository.GetMembership(memorial.ID, actorID)
	if err != nil {
		return err
	}
	if membership != nil && membership.Role == models.MembershipRoleAdministrator {
		return nil
	}
	return apperr.ErrAccessDenied
}
