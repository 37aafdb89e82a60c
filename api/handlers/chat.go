package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/sentinel-console/internal/chat"
	"github.com/OldStager01/sentinel-console/pkg/models"
	"github.com/OldStager01/sentinel-console/pkg/validation"
)

type ChatHandler struct {
	consoles         ConsoleManager
	timeout          Timeouts
	maxMessageLength int
}

func NewChatHandler(consoles ConsoleManager, timeouts Timeouts, maxMessageLength int) *ChatHandler {
	return &ChatHandler{consoles: consoles, timeout: timeouts, maxMessageLength: maxMessageLength}
}

type ChatRequest struct {
	Message string `json:"message" example:"Why is the heat risk high?"`
}

type TranscriptResponse struct {
	Transcript []models.ChatTurn `json:"transcript"`
	Pending    bool              `json:"pending" example:"false"`
}

type ChatReply struct {
	Reply      models.ChatTurn   `json:"reply"`
	Transcript []models.ChatTurn `json:"transcript"`
}

// Transcript godoc
// @Summary Chat transcript
// @Description The conversation so far, starting with the assistant greeting
// @Tags Chat
// @Produce json
// @Success 200 {object} TranscriptResponse
// @Router /api/v1/chat [get]
func (h *ChatHandler) Transcript(c *gin.Context) {
	session := consoleFor(c, h.consoles).Chat()
	c.JSON(http.StatusOK, TranscriptResponse{
		Transcript: session.Transcript(),
		Pending:    session.Pending(),
	})
}

// Send godoc
// @Summary Send chat message
// @Description Forward a message with the current form as context. An upstream failure yields the offline fallback reply, not an error.
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body ChatRequest true "Message"
// @Success 200 {object} ChatReply
// @Failure 400 {object} ErrorResponse "Blank or oversized message"
// @Failure 409 {object} ErrorResponse "A reply is still pending"
// @Router /api/v1/chat [post]
func (h *ChatHandler) Send(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	message, err := validation.ValidateChatMessage(req.Message, h.maxMessageLength)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	con := consoleFor(c, h.consoles)
	ctx, cancel := withTimeout(c, h.timeout.Chat)
	defer cancel()

	reply, err := con.SendChat(ctx, message)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, ChatReply{Reply: reply, Transcript: con.Chat().Transcript()})
	case errors.Is(err, chat.ErrBlankMessage):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, chat.ErrBusy):
		respondError(c, http.StatusConflict, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, err.Error())
	}
}

// SendForm handles the chat box of the console page.
func (h *ChatHandler) SendForm(c *gin.Context) {
	message, err := validation.ValidateChatMessage(c.PostForm("message"), h.maxMessageLength)
	if err != nil {
		redirectTo(c, "chat", NoticeInvalidMessage)
		return
	}

	ctx, cancel := withTimeout(c, h.timeout.Chat)
	defer cancel()

	_, err = consoleFor(c, h.consoles).SendChat(ctx, message)
	if errors.Is(err, chat.ErrBusy) {
		redirectTo(c, "chat", NoticeBusy)
		return
	}
	// A blank message is a no-op.
	redirectTo(c, "chat", "")
}
