package handlers

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dimitrije/teamup-api/internal/logger"
	"github.com/dimitrije/teamup-api/internal/models"
	"github.com/dimitrije/teamup-api/internal/validation"
	"github.com/dimitrije/teamup-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

const emailTimeout = 30 * time.Second

type JoinRequestHandler struct {
	joinRequestService JoinRequestServiceInterface
	profileService     ProfileServiceInterface
	hub                HubInterface
	emailService       EmailServiceInterface
	frontendURL        string

	mail sync.WaitGroup
}

func NewJoinRequestHandler(
	joinRequestService JoinRequestServiceInterface,
	profileService ProfileServiceInterface,
	hub HubInterface,
	emailService EmailServiceInterface,
	frontendURL string,
) *JoinRequestHandler {
	return &JoinRequestHandler{
		joinRequestService: joinRequestService,
		profileService:     profileService,
		hub:                hub,
		emailService:       emailService,
		frontendURL:        strings.TrimRight(frontendURL, "/"),
	}
}

// Wait blocks until queued e-mails have been handed to the mail server.
func (h *JoinRequestHandler) Wait() {
	h.mail.Wait()
}

// Create answers 201 when a request was created and 200 with the existing
// request when the caller had already asked.
func (h *JoinRequestHandler) Create(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	projectID, ok := paramID(c, "id", "project")
	if !ok {
		return
	}

	var req dto.JoinProjectRequest
	if c.Request.ContentLength != 0 {
		if err := c.BindJSON(&req); err != nil {
			c.BadRequest("invalid request body")
			return
		}
	}

	message, err := validation.JoinMessage(req)
	if err != nil {
		respondError(c, err, "failed to send join request")
		return
	}

	request, created, err := h.joinRequestService.Create(c.Request.Context(), projectID, userID, message)
	if err != nil {
		respondError(c, err, "failed to send join request")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		if request.Project != nil {
			h.hub.NotifyJoinRequestCreated(request.Project.LeaderID, request.ID, projectID, userID)
			h.mailLeader(*request.Project, userID)
		}
	}

	_ = c.JSON(status, dto.JoinRequestResponse{Request: *request, Created: created})
}

func (h *JoinRequestHandler) Sent(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	requests, err := h.joinRequestService.ListSent(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to load join requests")
		return
	}

	_ = c.JSON(http.StatusOK, dto.JoinRequestListResponse{Requests: requests})
}

func (h *JoinRequestHandler) Received(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	requests, err := h.joinRequestService.ListReceived(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to load join requests")
		return
	}

	_ = c.JSON(http.StatusOK, dto.JoinRequestListResponse{Requests: requests})
}

func (h *JoinRequestHandler) Approve(c *drift.Context) {
	h.review(c, models.JoinRequestApproved)
}

func (h *JoinRequestHandler) Reject(c *drift.Context) {
	h.review(c, models.JoinRequestRejected)
}

func (h *JoinRequestHandler) review(c *drift.Context, status string) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	requestID, ok := paramID(c, "id", "join request")
	if !ok {
		return
	}

	request, err := h.joinRequestService.Review(c.Request.Context(), requestID, status, userID)
	if err != nil {
		respondError(c, err, "failed to review join request")
		return
	}

	h.hub.NotifyJoinRequestReviewed(request.UserID, request.ID, request.ProjectID, request.Status)
	if request.Status == models.JoinRequestApproved {
		h.hub.NotifyMemberJoined(request.ProjectID, request.UserID)
	}
	h.mailRequester(request)

	_ = c.JSON(http.StatusOK, request)
}

func (h *JoinRequestHandler) projectLink(projectID uuid.UUID) string {
	return h.frontendURL + "/projects/" + projectID.String()
}

// mailLeader looks up both profiles off the request path and tells the leader
// about the new request.
func (h *JoinRequestHandler) mailLeader(project models.Project, requesterID uuid.UUID) {
	if h.emailService == nil {
		return
	}
	h.async(func(ctx context.Context) error {
		leader, err := h.profileService.GetByID(ctx, project.LeaderID)
		if err != nil {
			return err
		}
		if leader.Email == nil {
			return nil
		}
		requester, err := h.profileService.GetByID(ctx, requesterID)
		if err != nil {
			return err
		}
		name := requester.Username
		if requester.Name != nil && *requester.Name != "" {
			name = *requester.Name
		}
		return h.emailService.SendJoinRequestReceived(*leader.Email, name, project.Title, h.frontendURL+"/notifications")
	})
}

func (h *JoinRequestHandler) mailRequester(request *models.JoinRequest) {
	if h.emailService == nil || request.Requester == nil || request.Requester.Email == nil {
		return
	}
	title := ""
	if request.Project != nil {
		title = request.Project.Title
	}
	to := *request.Requester.Email
	link := h.projectLink(request.ProjectID)
	status := request.Status
	h.async(func(ctx context.Context) error {
		return h.emailService.SendJoinRequestReviewed(to, title, status, link)
	})
}

func (h *JoinRequestHandler) async(fn func(ctx context.Context) error) {
	h.mail.Add(1)
	go func() {
		defer h.mail.Done()
		ctx, cancel := context.WithTimeout(context.Background(), emailTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			logger.Warn().Err(err).Msg("failed to send notification email")
		}
	}()
}
