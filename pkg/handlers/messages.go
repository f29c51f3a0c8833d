package handlers

import (
	"github.com/gofiber/fiber/v2"

	"connected/pkg/middleware"
	"connected/pkg/models"
	"connected/pkg/services"
)

type MessagesHandler struct {
	messages services.MessageService
}

func NewMessages(messages services.MessageService) *MessagesHandler {
	return &MessagesHandler{messages: messages}
}

// POST /api/messages (auth required)
func (h *MessagesHandler) Send(c *fiber.Ctx) error {
	var req models.SendMessageRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	m, err := h.messages.SendMessage(c.UserContext(), middleware.UserID(c), req.ReceiverID, req.Content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(m)
}

// GET /api/messages/conversations (auth required)
func (h *MessagesHandler) Conversations(c *fiber.Ctx) error {
	list, err := h.messages.ListConversations(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// GET /api/messages/conversation/:userId (auth required)
func (h *MessagesHandler) Conversation(c *fiber.Ctx) error {
	other, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	msgs, err := h.messages.ListConversationMessages(c.UserContext(), middleware.UserID(c), other)
	if err != nil {
		return err
	}
	return c.JSON(msgs)
}
