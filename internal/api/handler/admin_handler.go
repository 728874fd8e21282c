package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bhutuklearning/Create-Your-Notes/internal/core/domain"
	"github.com/bhutuklearning/Create-Your-Notes/internal/core/ports"
)

// AdminHandler serves the moderation endpoints. Every route sits behind
// Session and RequireRole(admin).
type AdminHandler struct {
	service ports.AdminService
}

func NewAdminHandler(service ports.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

// Stats handles GET /api/v1/admin/stats.
//
// @Summary      Platform statistics
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  statsResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/v1/admin/stats [get]
func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statsResponse{Success: true, Stats: *stats})
}

// Users handles GET /api/v1/admin/users?search=.
//
// @Summary      List or search users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Name or email substring"
// @Success      200     {object}  userListResponse
// @Failure      401     {object}  errorResponse
// @Router       /api/v1/admin/users [get]
func (h *AdminHandler) Users(c echo.Context) error {
	users, err := h.service.ListUsers(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return err
	}
	out := toUserResponses(users)
	return c.JSON(http.StatusOK, userListResponse{Success: true, Count: len(out), Users: out})
}

// UpdateRole handles PATCH /api/v1/admin/users/role.
//
// @Summary      Change a user's role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateRoleRequest  true  "Target user and role"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/v1/admin/users/role [patch]
func (h *AdminHandler) UpdateRole(c echo.Context) error {
	actor, err := sessionUser(c)
	if err != nil {
		return err
	}

	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}

	if err := h.service.UpdateUserRole(c.Request().Context(), actor.ID, req.UserID, domain.Role(req.Role)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "User role updated"})
}

// Notes handles GET /api/v1/admin/notes?visibility=.
//
// @Summary      List every note, including deleted ones
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        visibility  query     string  false  "public or private"
// @Success      200         {object}  noteListResponse
// @Failure      400         {object}  errorResponse
// @Router       /api/v1/admin/notes [get]
func (h *AdminHandler) Notes(c echo.Context) error {
	notes, err := h.service.ListNotes(c.Request().Context(), domain.Visibility(c.QueryParam("visibility")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toNoteList(notes, ""))
}

// DeleteNote handles DELETE /api/v1/admin/notes/:noteId.
//
// @Summary      Soft-delete any note
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        noteId  path      string  true  "Note ID"
// @Success      200     {object}  messageResponse
// @Failure      404     {object}  errorResponse
// @Router       /api/v1/admin/notes/{noteId} [delete]
func (h *AdminHandler) DeleteNote(c echo.Context) error {
	if err := h.service.DeleteNote(c.Request().Context(), c.Param("noteId")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Note deleted by admin"})
}

// DeleteComment handles DELETE /api/v1/admin/comments/:commentId.
//
// @Summary      Soft-delete any comment
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        commentId  path      string  true  "Comment ID"
// @Success      200        {object}  messageResponse
// @Failure      404        {object}  errorResponse
// @Router       /api/v1/admin/comments/{commentId} [delete]
func (h *AdminHandler) DeleteComment(c echo.Context) error {
	if err := h.service.DeleteComment(c.Request().Context(), c.Param("commentId")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Comment deleted by admin"})
}
