package controller

import (
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github/itish2003/hrfaq/models"
	"github/itish2003/hrfaq/services"
)

// maxUploadBytes caps the size of an uploaded document.
const maxUploadBytes = 20 << 20

// ChatController handles the HTTP requests of the HR assistant. It depends on
// the ChatService for everything beyond request parsing.
type ChatController struct {
	chatService services.ChatService
}

func NewChatController(service services.ChatService) *ChatController {
	return &ChatController{chatService: service}
}

// Register mounts the chat routes on rg.
func (c *ChatController) Register(rg *gin.RouterGroup) {
	rg.GET("/faq", c.FAQInfo)
	rg.POST("/sessions", c.CreateSession)
	rg.DELETE("/sessions/:id", c.DeleteSession)
	rg.GET("/sessions/:id/messages", c.GetMessages)
	rg.POST("/sessions/:id/messages", c.Ask)
	rg.DELETE("/sessions/:id/messages", c.Clear)
	rg.POST("/sessions/:id/documents", c.UploadDocument)
	rg.GET("/sessions/:id/history", c.DownloadHistory)
}

// CreateSession is the handler for POST /api/v1/sessions.
func (c *ChatController) CreateSession(ctx *gin.Context) {
	s := c.chatService.CreateSession()
	ctx.JSON(http.StatusCreated, models.SessionResponse{SessionID: s.ID, Messages: s.Messages()})
}

// DeleteSession is the handler for DELETE /api/v1/sessions/:id.
func (c *ChatController) DeleteSession(ctx *gin.Context) {
	if err := c.chatService.DeleteSession(ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// GetMessages is the handler for GET /api/v1/sessions/:id/messages.
func (c *ChatController) GetMessages(ctx *gin.Context) {
	s, err := c.chatService.Session(ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, models.SessionResponse{SessionID: s.ID, Messages: s.Messages(), Document: s.DocumentName()})
}

// Ask is the handler for POST /api/v1/sessions/:id/messages.
func (c *ChatController) Ask(ctx *gin.Context) {
	var req models.AskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "message must not be empty"})
		return
	}

	result, messages, err := c.chatService.Ask(ctx.Request.Context(), ctx.Param("id"), req.Message)
	var fbErr *services.FallbackError
	switch {
	case errors.As(err, &fbErr):
		// The failure notice is part of the conversation; surface it as the answer.
		ctx.JSON(http.StatusBadGateway, models.AskResponse{
			Answer:   result.Text,
			Messages: messages,
			Error:    "Failed to generate AI response",
		})
		return
	case err != nil:
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.AskResponse{
		Answer:          result.Text,
		Source:          result.Source,
		Score:           result.Score,
		MatchedQuestion: result.MatchedQuestion,
		UsedDocument:    result.UsedDocument,
		Messages:        messages,
	})
}

// Clear is the handler for DELETE /api/v1/sessions/:id/messages.
func (c *ChatController) Clear(ctx *gin.Context) {
	messages, err := c.chatService.Clear(ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, models.SessionResponse{SessionID: ctx.Param("id"), Messages: messages})
}

// UploadDocument is the handler for POST /api/v1/sessions/:id/documents.
// It expects a multipart form with a "file" field.
func (c *ChatController) UploadDocument(ctx *gin.Context) {
	fh, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "missing file: " + err.Error()})
		return
	}
	if !services.IsSupportedUpload(fh.Filename) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type, expected one of " + strings.Join(services.SupportedUploadExtensions, ", ")})
		return
	}
	if fh.Size > maxUploadBytes {
		ctx.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload"})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload"})
		return
	}

	filename := filepath.Base(fh.Filename)
	n, err := c.chatService.Upload(ctx.Param("id"), filename, data)
	var exErr *services.ExtractionError
	switch {
	case errors.As(err, &exErr):
		// The session continues without document context.
		ctx.JSON(http.StatusUnprocessableEntity, models.UploadResponse{
			Message:  "File could not be read; questions will be answered without it",
			Filename: filename,
			Error:    exErr.Error(),
		})
		return
	case err != nil:
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, models.UploadResponse{Message: "File loaded successfully", Filename: filename, Characters: n})
}

// DownloadHistory is the handler for GET /api/v1/sessions/:id/history.
func (c *ChatController) DownloadHistory(ctx *gin.Context) {
	path, err := c.chatService.HistoryFile(ctx.Param("id"))
	if errors.Is(err, os.ErrNotExist) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "no history exported yet"})
		return
	}
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.FileAttachment(path, filepath.Base(path))
}

// FAQInfo is the handler for GET /api/v1/faq.
func (c *ChatController) FAQInfo(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.chatService.FAQInfo())
}

func respondError(ctx *gin.Context, err error) {
	if errors.Is(err, services.ErrSessionNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	log.Printf("CONTROLLER ERROR: %s %s: %v", ctx.Request.Method, ctx.FullPath(), err)
	ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
