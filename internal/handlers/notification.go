package handlers

import (
	"net/http"

	"github.com/dimitrije/teamup-api/internal/sse"
	"github.com/m1z23r/drift/pkg/drift"
)

type NotificationHandler struct {
	hub HubInterface
}

func NewNotificationHandler(hub HubInterface) *NotificationHandler {
	return &NotificationHandler{hub: hub}
}

// Connect streams the caller's events until the client goes away or the hub
// shuts down.
func (h *NotificationHandler) Connect(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	sseCtx := c.SSE()

	client := sse.NewClient(userID)
	h.hub.Register(client)
	defer h.hub.Unregister(client)

	if err := sseCtx.SendJSON(map[string]string{
		"type":      "connected",
		"client_id": client.ID,
	}, "system", ""); err != nil {
		return
	}

	done := c.Request.Context().Done()
	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				return
			}
			if err := sseCtx.Send(string(msg), "message", ""); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (h *NotificationHandler) Subscribe(c *drift.Context) {
	h.subscription(c, true)
}

func (h *NotificationHandler) Unsubscribe(c *drift.Context) {
	h.subscription(c, false)
}

func (h *NotificationHandler) subscription(c *drift.Context, subscribe bool) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	clientID := c.Param("clientId")
	if clientID == "" {
		c.BadRequest("client_id is required")
		return
	}

	projectID, ok := paramID(c, "projectId", "project")
	if !ok {
		return
	}

	var found bool
	if subscribe {
		found = h.hub.SubscribeToProject(clientID, userID, projectID)
	} else {
		found = h.hub.UnsubscribeFromProject(clientID, userID, projectID)
	}
	if !found {
		c.NotFound("client not found")
		return
	}

	verb := "unsubscribed from"
	if subscribe {
		verb = "subscribed to"
	}
	_ = c.JSON(http.StatusOK, map[string]string{
		"message": verb + " project " + projectID.String(),
	})
}
