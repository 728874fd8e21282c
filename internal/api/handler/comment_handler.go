package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bhutuklearning/Create-Your-Notes/internal/api/metrics"
	"github.com/bhutuklearning/Create-Your-Notes/internal/core/ports"
)

// CommentHandler handles HTTP requests for note comments.
type CommentHandler struct {
	service ports.CommentService
}

func NewCommentHandler(service ports.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

// Add handles POST /api/v1/comments/:noteId.
//
// @Summary      Comment on a note
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        noteId  path      string          true  "Note ID"
// @Param        body    body      commentRequest  true  "Comment"
// @Success      201     {object}  commentEnvelope
// @Failure      400     {object}  errorResponse
// @Failure      401     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /api/v1/comments/{noteId} [post]
func (h *CommentHandler) Add(c echo.Context) error {
	user, err := sessionUser(c)
	if err != nil {
		return err
	}

	var req commentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.service.Add(c.Request().Context(), c.Param("noteId"), user.ID, req.Body)
	if err != nil {
		return err
	}
	metrics.CommentsCreatedTotal.Inc()

	return c.JSON(http.StatusCreated, commentEnvelope{
		Success: true,
		Message: "Comment added",
		Comment: toCommentResponse(comment),
	})
}

// List handles GET /api/v1/comments/:noteId.
//
// @Summary      List comments on a note
// @Tags         comments
// @Produce      json
// @Param        noteId  path      string  true   "Note ID"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Page size (default 10, max 100)"
// @Success      200     {object}  commentListResponse
// @Failure      401     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /api/v1/comments/{noteId} [get]
func (h *CommentHandler) List(c echo.Context) error {
	var q commentListQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	page := ports.Page{Number: q.Page, Limit: q.Limit}.Normalize()
	comments, err := h.service.List(c.Request().Context(), c.Param("noteId"), viewerID(c), page)
	if err != nil {
		return err
	}

	out := make([]*commentResponse, 0, len(comments))
	for _, cm := range comments {
		out = append(out, toCommentResponse(cm))
	}
	return c.JSON(http.StatusOK, commentListResponse{
		Success:  true,
		Page:     page.Number,
		Limit:    page.Limit,
		Count:    len(out),
		Comments: out,
	})
}

// Edit handles PUT|PATCH /api/v1/comments/edit/:commentId.
//
// @Summary      Edit a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        commentId  path      string          true  "Comment ID"
// @Param        body       body      commentRequest  true  "New body"
// @Success      200        {object}  commentEnvelope
// @Failure      400        {object}  errorResponse
// @Failure      404        {object}  errorResponse
// @Router       /api/v1/comments/edit/{commentId} [put]
// @Router       /api/v1/comments/edit/{commentId} [patch]
func (h *CommentHandler) Edit(c echo.Context) error {
	user, err := sessionUser(c)
	if err != nil {
		return err
	}

	var req commentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.service.Edit(c.Request().Context(), c.Param("commentId"), user.ID, req.Body)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, commentEnvelope{
		Success: true,
		Message: "Comment updated",
		Comment: toCommentResponse(comment),
	})
}

// Delete handles DELETE /api/v1/comments/:commentId.
//
// @Summary      Delete a comment
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        commentId  path      string  true  "Comment ID"
// @Success      200        {object}  messageResponse
// @Failure      404        {object}  errorResponse
// @Router       /api/v1/comments/{commentId} [delete]
func (h *CommentHandler) Delete(c echo.Context) error {
	user, err := sessionUser(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), c.Param("commentId"), user.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Comment deleted"})
}
