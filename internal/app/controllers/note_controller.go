package controllers

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edustack/portal/internal/app/models"
	"github.com/edustack/portal/internal/app/models/dto"
	"github.com/edustack/portal/internal/app/services"
	"github.com/edustack/portal/internal/middleware"
	"github.com/edustack/portal/internal/pkg/logger"
)

// NoteController handles note uploads, access resolution and listings.
type NoteController struct {
	noteService *services.NoteService
}

// NewNoteController creates a new NoteController
func NewNoteController(noteService *services.NoteService) *NoteController {
	return &NoteController{noteService: noteService}
}

// Upload stores a new note under a topic. File materials arrive as
// multipart; url materials carry the link in the form instead.
func (c *NoteController) Upload(ctx *gin.Context) {
	var req dto.UploadNoteRequest
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorAPIResponse(dto.HandleValidationError(err)))
		return
	}

	// Missing file for file materials is reported by the service, which
	// knows whether this material type needs one.
	var fileHeader *multipart.FileHeader
	if fh, err := ctx.FormFile("file"); err == nil {
		fileHeader = fh
	}

	note, fellBack, err := c.noteService.Upload(ctx.Request.Context(), middleware.CurrentUser(ctx), req, fileHeader)
	if err != nil {
		logger.Warn().Err(err).Str("title", req.Title).Msg("Note upload failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.UploadNoteResponse{Note: c.noteService.ToResponse(note)}
	if fellBack {
		resp.StorageWarning = "CDN upload failed; the file was stored locally"
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// List returns the verified notes visible to the actor, filtered by course,
// semester, subject or free-text search.
func (c *NoteController) List(ctx *gin.Context) {
	var filter dto.NoteFilter
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorAPIResponse(dto.HandleValidationError(err)))
		return
	}

	notes, err := c.noteService.List(ctx.Request.Context(), middleware.CurrentUser(ctx), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(c.toResponses(notes)))
}

// Pending returns the review queue for the actor's college.
func (c *NoteController) Pending(ctx *gin.Context) {
	notes, err := c.noteService.Pending(ctx.Request.Context(), middleware.CurrentUser(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(c.toResponses(notes)))
}

// Access resolves where the client should fetch a note from. The download
// query switches CDN links to attachment delivery.
func (c *NoteController) Access(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	download := ctx.Query("download") == "true"
	access, err := c.noteService.Access(ctx.Request.Context(), middleware.CurrentUser(ctx), id, download)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(access))
}

// Download streams a locally stored note as an attachment. The access gate
// runs again here so the bytes are as protected as the URL resolution.
func (c *NoteController) Download(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	path, filename, err := c.noteService.LocalFile(ctx.Request.Context(), middleware.CurrentUser(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.FileAttachment(path, filename)
}

// View serves a locally stored note inline.
func (c *NoteController) View(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	path, _, err := c.noteService.LocalFile(ctx.Request.Context(), middleware.CurrentUser(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.File(path)
}

// UpdateTitle renames a note.
func (c *NoteController) UpdateTitle(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateNoteTitleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorAPIResponse(dto.HandleValidationError(err)))
		return
	}

	note, err := c.noteService.UpdateTitle(ctx.Request.Context(), middleware.CurrentUser(ctx), id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(c.noteService.ToResponse(note)))
}

// Delete removes a note and its stored file.
func (c *NoteController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.noteService.Delete(ctx.Request.Context(), middleware.CurrentUser(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Note deleted"}))
}

func (c *NoteController) toResponses(notes []*models.Note) []dto.NoteResponse {
	out := make([]dto.NoteResponse, 0, len(notes))
	for _, note := range notes {
		out = append(out, c.noteService.ToResponse(note))
	}
	return out
}
