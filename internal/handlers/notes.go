package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/orgnotes/orgnotes/internal/services"
	"github.com/orgnotes/orgnotes/internal/types"
	"github.com/orgnotes/orgnotes/internal/utils"
	"go.uber.org/zap"
)

// CreateNoteRequest has no author field; the author is always the caller.
type CreateNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type NoteHandler struct {
	noteService services.NoteService
	log         *zap.Logger
}

func NewNoteHandler(noteService services.NoteService, log *zap.Logger) *NoteHandler {
	return &NoteHandler{noteService: noteService, log: log}
}

func (h *NoteHandler) ListNotes(ctx *gin.Context) {
	caller, err := utils.GetCurrentCaller(ctx)
	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	notes, err := h.noteService.List(ctx.Request.Context(), caller)

	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	response := make([]types.NoteResponse, 0, len(notes))
	for _, n := range notes {
		response = append(response, types.NewNoteResponse(n))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *NoteHandler) CreateNote(ctx *gin.Context) {
	caller, err := utils.GetCurrentCaller(ctx)
	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	var body CreateNoteRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		utils.RespondBindError(ctx, h.log, err)
		return
	}

	note, err := h.noteService.Create(ctx.Request.Context(), caller, services.CreateNoteInput{
		Title:   body.Title,
		Content: body.Content,
	})

	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusCreated, types.NewNoteResponse(*note))
}

func (h *NoteHandler) DeleteNote(ctx *gin.Context) {
	caller, err := utils.GetCurrentCaller(ctx)
	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	noteID, err := utils.GetNoteID(ctx)
	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	if err := h.noteService.Delete(ctx.Request.Context(), caller, noteID); err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
