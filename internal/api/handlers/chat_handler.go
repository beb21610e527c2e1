package handlers

import (
	"net/http"

	"github.com/andresuchdata/salescast/internal/domain"
	"github.com/andresuchdata/salescast/internal/service"
	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatService *service.ChatService
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

type chatRequest struct {
	Message string `json:"message"`
}

// Ask forwards the question to the configured model. Provider failures are
// reported inside the reply with a 200 status.
func (h *ChatHandler) Ask(c *gin.Context) {
	var req chatRequest
	if !bindJSON(c, &req) {
		return
	}

	reply, err := h.chatService.Ask(c.Request.Context(), req.Message)
	if err != nil {
		if domain.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"reply": "No message received", "error": err.Error(), "field": "message"})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
