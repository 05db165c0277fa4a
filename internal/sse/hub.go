package sse

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

const (
	EventJoinRequestCreated  = "join_request.created"
	EventJoinRequestReviewed = "join_request.reviewed"
	EventProjectUpdated      = "project.updated"
	EventProjectDeleted      = "project.deleted"
	EventMemberJoined        = "member.joined"
	EventMemberLeft          = "member.left"
)

// Event tells a client that something changed; clients refetch what they show.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type JoinRequestEvent struct {
	RequestID uuid.UUID `json:"request_id"`
	ProjectID uuid.UUID `json:"project_id"`
	UserID    uuid.UUID `json:"user_id"`
	Status    string    `json:"status"`
}

type ProjectEvent struct {
	ProjectID uuid.UUID `json:"project_id"`
}

type MemberEvent struct {
	ProjectID uuid.UUID `json:"project_id"`
	UserID    uuid.UUID `json:"user_id"`
}

type Client struct {
	ID       string
	UserID   uuid.UUID
	Projects map[uuid.UUID]bool
	Send     chan []byte
}

func NewClient(userID uuid.UUID) *Client {
	return &Client{
		ID:       uuid.New().String(),
		UserID:   userID,
		Projects: make(map[uuid.UUID]bool),
		Send:     make(chan []byte, 64),
	}
}

// message is delivered to every client of UserID, or to every client
// subscribed to ProjectID.
type message struct {
	UserID    uuid.UUID
	ProjectID uuid.UUID
	Event     Event
}

type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *message
	done       chan struct{}
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *message, 256),
		done:       make(chan struct{}),
	}
}

// Run owns client registration and delivery until ctx is done, then closes
// every client channel.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, client := range h.clients {
				delete(h.clients, id)
				close(client.Send)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg.Event)
			if err != nil {
				continue
			}
			h.mu.RLock()
			for _, client := range h.clients {
				if !msg.matches(client) {
					continue
				}
				select {
				case client.Send <- data:
				default:
					// Client buffer full, skip
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (m *message) matches(c *Client) bool {
	if m.UserID != uuid.Nil {
		return c.UserID == m.UserID
	}
	return c.Projects[m.ProjectID]
}

// Register adds a client. Once the hub has stopped the client's channel is
// closed straight away.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.Send)
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// SubscribeToProject adds a project to one of the user's own clients. It
// reports false when no such client is connected.
func (h *Hub) SubscribeToProject(clientID string, userID, projectID uuid.UUID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	client, ok := h.clients[clientID]
	if !ok || client.UserID != userID {
		return false
	}
	client.Projects[projectID] = true
	return true
}

func (h *Hub) UnsubscribeFromProject(clientID string, userID, projectID uuid.UUID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	client, ok := h.clients[clientID]
	if !ok || client.UserID != userID {
		return false
	}
	delete(client.Projects, projectID)
	return true
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) publish(msg *message) {
	select {
	case h.broadcast <- msg:
	default:
		// Hub backlog full, drop
	}
}

func (h *Hub) SendToUser(userID uuid.UUID, event Event) {
	h.publish(&message{UserID: userID, Event: event})
}

func (h *Hub) BroadcastToProject(projectID uuid.UUID, event Event) {
	h.publish(&message{ProjectID: projectID, Event: event})
}

func (h *Hub) NotifyJoinRequestCreated(leaderID, requestID, projectID, requesterID uuid.UUID) {
	h.SendToUser(leaderID, Event{
		Type: EventJoinRequestCreated,
		Data: JoinRequestEvent{RequestID: requestID, ProjectID: projectID, UserID: requesterID, Status: "pending"},
	})
}

func (h *Hub) NotifyJoinRequestReviewed(requesterID, requestID, projectID uuid.UUID, status string) {
	h.SendToUser(requesterID, Event{
		Type: EventJoinRequestReviewed,
		Data: JoinRequestEvent{RequestID: requestID, ProjectID: projectID, UserID: requesterID, Status: status},
	})
}

func (h *Hub) NotifyProjectUpdated(projectID uuid.UUID) {
	h.BroadcastToProject(projectID, Event{Type: EventProjectUpdated, Data: ProjectEvent{ProjectID: projectID}})
}

func (h *Hub) NotifyProjectDeleted(projectID uuid.UUID) {
	h.BroadcastToProject(projectID, Event{Type: EventProjectDeleted, Data: ProjectEvent{ProjectID: projectID}})
}

func (h *Hub) NotifyMemberJoined(projectID, userID uuid.UUID) {
	h.BroadcastToProject(projectID, Event{Type: EventMemberJoined, Data: MemberEvent{ProjectID: projectID, UserID: userID}})
}

func (h *Hub) NotifyMemberLeft(projectID, userID uuid.UUID) {
	h.BroadcastToProject(projectID, Event{Type: EventMemberLeft, Data: MemberEvent{ProjectID: projectID, UserID: userID}})
}
