package handlers

import (
	"context"
	"time"

	"github.com/dimitrije/teamup-api/internal/models"
	"github.com/dimitrije/teamup-api/internal/oauth"
	"github.com/dimitrije/teamup-api/internal/services"
	"github.com/dimitrije/teamup-api/internal/sse"
	"github.com/google/uuid"
)

// ProfileServiceInterface defines the methods used by handlers from ProfileService
type ProfileServiceInterface interface {
	FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	GetCurrent(ctx context.Context, callerID uuid.UUID) (*models.Profile, error)
	Update(ctx context.Context, callerID uuid.UUID, u models.ProfileUpdate) (*models.Profile, error)
}

// ProjectServiceInterface defines the methods used by handlers from ProjectService
type ProjectServiceInterface interface {
	Create(ctx context.Context, leaderID uuid.UUID, in models.ProjectInput) (*models.Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	ListWithUserStatus(ctx context.Context, callerID uuid.UUID) ([]models.ProjectWithRole, error)
	ListForUser(ctx context.Context, callerID uuid.UUID) ([]models.ProjectWithRole, error)
	GetWithMembers(ctx context.Context, id, callerID uuid.UUID) (*models.ProjectDetails, error)
	Update(ctx context.Context, id, callerID uuid.UUID, patch models.ProjectPatch) (*models.Project, error)
	Delete(ctx context.Context, id, callerID uuid.UUID) error
	Leave(ctx context.Context, id, callerID uuid.UUID) error
	RemoveMember(ctx context.Context, id, leaderID, memberID uuid.UUID) error
}

// JoinRequestServiceInterface defines the methods used by handlers from JoinRequestService
type JoinRequestServiceInterface interface {
	Create(ctx context.Context, projectID, callerID uuid.UUID, message *string) (*models.JoinRequest, bool, error)
	ListSent(ctx context.Context, userID uuid.UUID) ([]models.JoinRequest, error)
	ListReceived(ctx context.Context, leaderID uuid.UUID) ([]models.JoinRequest, error)
	Review(ctx context.Context, requestID uuid.UUID, status string, reviewerID uuid.UUID) (*models.JoinRequest, error)
}

// TokenServiceInterface defines the methods used by handlers from TokenService
type TokenServiceInterface interface {
	StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	ValidateRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
}

// JWTServiceInterface defines the methods used by handlers from JWTService
type JWTServiceInterface interface {
	GenerateTokenPair(userID uuid.UUID, username string) (*services.TokenPair, error)
	ValidateRefreshToken(token string) (uuid.UUID, error)
	RefreshExpiry() time.Duration
}

// HubInterface defines the methods used by handlers from the SSE hub
type HubInterface interface {
	Register(client *sse.Client)
	Unregister(client *sse.Client)
	SubscribeToProject(clientID string, userID, projectID uuid.UUID) bool
	UnsubscribeFromProject(clientID string, userID, projectID uuid.UUID) bool
	NotifyJoinRequestCreated(leaderID, requestID, projectID, requesterID uuid.UUID)
	NotifyJoinRequestReviewed(requesterID, requestID, projectID uuid.UUID, status string)
	NotifyProjectUpdated(projectID uuid.UUID)
	NotifyProjectDeleted(projectID uuid.UUID)
	NotifyMemberJoined(projectID, userID uuid.UUID)
	NotifyMemberLeft(projectID, userID uuid.UUID)
}

// EmailServiceInterface defines the methods used by handlers from EmailService
type EmailServiceInterface interface {
	SendJoinRequestReceived(to, requesterName, projectTitle, link string) error
	SendJoinRequestReviewed(to, projectTitle, status, link string) error
}
