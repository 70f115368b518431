package messages

import (
	msgsvc "agriconnect-backend/internal/application/messages"
	"agriconnect-backend/internal/pkg/request"
	"agriconnect-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *msgsvc.Service
}

// List GET /api/messages?user1=&user2= for a conversation, or ?user=[&unread=true] for an inbox.
func (h *Handlers) List(c *fiber.Ctx) error {
	messages, err := h.Service.List(c.UserContext(), msgsvc.Query{
		User1:      c.Query("user1"),
		User2:      c.Query("user2"),
		User:       c.Query("user"),
		UnreadOnly: request.Flag(c, "unread"),
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"messages": messages})
}

// Send POST /api/messages
func (h *Handlers) Send(c *fiber.Ctx) error {
	var in msgsvc.SendInput
	if err := request.Bind(c, &in); err != nil {
		return response.FromError(c, err)
	}
	msg, err := h.Service.Send(c.UserContext(), in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, fiber.Map{"message": msg})
}

// MarkRead PATCH /api/messages/:id/read
func (h *Handlers) MarkRead(c *fiber.Ctx) error {
	id, err := request.ID(c, "id", "Message not found")
	if err != nil {
		return response.FromError(c, err)
	}
	msg, err := h.Service.MarkRead(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"message": msg})
}
