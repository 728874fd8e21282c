package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bhutuklearning/Create-Your-Notes/internal/api/metrics"
	"github.com/bhutuklearning/Create-Your-Notes/internal/core/ports"
)

// NoteHandler handles HTTP requests for notes.
type NoteHandler struct {
	service ports.NoteService
}

func NewNoteHandler(service ports.NoteService) *NoteHandler {
	return &NoteHandler{service: service}
}

// Create handles POST /api/v1/notes.
//
// @Summary      Create a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createNoteRequest  true  "Note"
// @Success      201   {object}  noteEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/v1/notes [post]
// @Router       /api/v1/notes/create-note [post]
func (h *NoteHandler) Create(c echo.Context) error {
	user, err := sessionUser(c)
	if err != nil {
		return err
	}

	var req createNoteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	note, err := h.service.Create(c.Request().Context(), user.ID, toCreateNoteInput(req))
	if err != nil {
		return err
	}
	metrics.NotesCreatedTotal.WithLabelValues(string(note.Visibility)).Inc()

	return c.JSON(http.StatusCreated, noteEnvelope{
		Success: true,
		Message: "Note created successfully",
		Note:    toNoteResponse(note, user.ID),
	})
}

// ListMine handles GET /api/v1/notes/my.
//
// @Summary      List my notes
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  noteListResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/v1/notes/my [get]
func (h *NoteHandler) ListMine(c echo.Context) error {
	user, err := sessionUser(c)
	if err != nil {
		return err
	}
	notes, err := h.service.ListMine(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toNoteList(notes, user.ID))
}

// ListPublic handles GET /api/v1/notes/public.
//
// @Summary      List public notes
// @Tags         notes
// @Produce      json
// @Success      200  {object}  noteListResponse
// @Router       /api/v1/notes/public [get]
func (h *NoteHandler) ListPublic(c echo.Context) error {
	notes, err := h.service.ListPublic(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toNoteList(notes, viewerID(c)))
}

// Search handles GET /api/v1/notes/search?q=.
//
// @Summary      Search public notes
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        q    query     string  true  "Search text"
// @Success      200  {object}  noteListResponse
// @Failure      400  {object}  errorResponse
// @Router       /api/v1/notes/search [get]
func (h *NoteHandler) Search(c echo.Context) error {
	notes, err := h.service.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toNoteList(notes, viewerID(c)))
}

// GetBySlug handles GET /api/v1/notes/:slug.
//
// @Summary      Get a note by slug
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        slug  path      string  true  "Note slug"
// @Success      200   {object}  noteEnvelope
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/v1/notes/{slug} [get]
func (h *NoteHandler) GetBySlug(c echo.Context) error {
	viewer := viewerID(c)
	note, err := h.service.GetBySlug(c.Request().Context(), c.Param("slug"), viewer)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, noteEnvelope{Success: true, Note: toNoteResponse(note, viewer)})
}

// Update handles PUT /api/v1/notes/:id.
//
// @Summary      Update a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Note ID"
// @Param        body  body      updateNoteRequest  true  "Fields to change"
// @Success      200   {object}  noteEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/v1/notes/{id} [put]
func (h *NoteHandler) Update(c echo.Context) error {
	user, err := sessionUser(c)
	if err != nil {
		return err
	}

	var req updateNoteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	note, err := h.service.Update(c.Request().Context(), c.Param("id"), user.ID, toUpdateNoteInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, noteEnvelope{
		Success: true,
		Message: "Note updated successfully",
		Note:    toNoteResponse(note, user.ID),
	})
}

// Delete handles DELETE /api/v1/notes/:id.
//
// @Summary      Delete a note
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Note ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/notes/{id} [delete]
func (h *NoteHandler) Delete(c echo.Context) error {
	user, err := sessionUser(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), c.Param("id"), user.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Note deleted successfully"})
}

// Like handles POST /api/v1/notes/:id/like.
//
// @Summary      Like a note
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Note ID"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/notes/{id}/like [post]
func (h *NoteHandler) Like(c echo.Context) error {
	user, err := sessionUser(c)
	if err != nil {
		return err
	}
	if err := h.service.Like(c.Request().Context(), c.Param("id"), user.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Note liked"})
}

// Unlike handles POST /api/v1/notes/:id/unlike.
//
// @Summary      Remove a like
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Note ID"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/notes/{id}/unlike [post]
func (h *NoteHandler) Unlike(c echo.Context) error {
	user, err := sessionUser(c)
	if err != nil {
		return err
	}
	if err := h.service.Unlike(c.Request().Context(), c.Param("id"), user.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Note unliked"})
}
