package testutil

import (
	"context"
	"time"

	"github.com/dimitrije/teamup-api/internal/models"
	"github.com/dimitrije/teamup-api/internal/oauth"
	"github.com/dimitrije/teamup-api/internal/services"
	"github.com/dimitrije/teamup-api/internal/sse"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockProfileService mocks the ProfileService
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.Profile, error) {
	args := m.Called(ctx, info)
	return profileOrNil(args.Get(0)), args.Error(1)
}

func (m *MockProfileService) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, id)
	return profileOrNil(args.Get(0)), args.Error(1)
}

func (m *MockProfileService) GetCurrent(ctx context.Context, callerID uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, callerID)
	return profileOrNil(args.Get(0)), args.Error(1)
}

func (m *MockProfileService) Update(ctx context.Context, callerID uuid.UUID, u models.ProfileUpdate) (*models.Profile, error) {
	args := m.Called(ctx, callerID, u)
	return profileOrNil(args.Get(0)), args.Error(1)
}

func profileOrNil(v any) *models.Profile {
	p, _ := v.(*models.Profile)
	return p
}

// MockProjectService mocks the ProjectService
type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) Create(ctx context.Context, leaderID uuid.UUID, in models.ProjectInput) (*models.Project, error) {
	args := m.Called(ctx, leaderID, in)
	return projectOrNil(args.Get(0)), args.Error(1)
}

func (m *MockProjectService) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	args := m.Called(ctx, id)
	return projectOrNil(args.Get(0)), args.Error(1)
}

func (m *MockProjectService) ListWithUserStatus(ctx context.Context, callerID uuid.UUID) ([]models.ProjectWithRole, error) {
	args := m.Called(ctx, callerID)
	projects, _ := args.Get(0).([]models.ProjectWithRole)
	return projects, args.Error(1)
}

func (m *MockProjectService) ListForUser(ctx context.Context, callerID uuid.UUID) ([]models.ProjectWithRole, error) {
	args := m.Called(ctx, callerID)
	projects, _ := args.Get(0).([]models.ProjectWithRole)
	return projects, args.Error(1)
}

func (m *MockProjectService) GetWithMembers(ctx context.Context, id, callerID uuid.UUID) (*models.ProjectDetails, error) {
	args := m.Called(ctx, id, callerID)
	details, _ := args.Get(0).(*models.ProjectDetails)
	return details, args.Error(1)
}

func (m *MockProjectService) Update(ctx context.Context, id, callerID uuid.UUID, patch models.ProjectPatch) (*models.Project, error) {
	args := m.Called(ctx, id, callerID, patch)
	return projectOrNil(args.Get(0)), args.Error(1)
}

func (m *MockProjectService) Delete(ctx context.Context, id, callerID uuid.UUID) error {
	args := m.Called(ctx, id, callerID)
	return args.Error(0)
}

func (m *MockProjectService) Leave(ctx context.Context, id, callerID uuid.UUID) error {
	args := m.Called(ctx, id, callerID)
	return args.Error(0)
}

func (m *MockProjectService) RemoveMember(ctx context.Context, id, leaderID, memberID uuid.UUID) error {
	args := m.Called(ctx, id, leaderID, memberID)
	return args.Error(0)
}

func projectOrNil(v any) *models.Project {
	p, _ := v.(*models.Project)
	return p
}

// MockJoinRequestService mocks the JoinRequestService
type MockJoinRequestService struct {
	mock.Mock
}

func (m *MockJoinRequestService) Create(ctx context.Context, projectID, callerID uuid.UUID, message *string) (*models.JoinRequest, bool, error) {
	args := m.Called(ctx, projectID, callerID, message)
	request, _ := args.Get(0).(*models.JoinRequest)
	return request, args.Bool(1), args.Error(2)
}

func (m *MockJoinRequestService) ListSent(ctx context.Context, userID uuid.UUID) ([]models.JoinRequest, error) {
	args := m.Called(ctx, userID)
	requests, _ := args.Get(0).([]models.JoinRequest)
	return requests, args.Error(1)
}

func (m *MockJoinRequestService) ListReceived(ctx context.Context, leaderID uuid.UUID) ([]models.JoinRequest, error) {
	args := m.Called(ctx, leaderID)
	requests, _ := args.Get(0).([]models.JoinRequest)
	return requests, args.Error(1)
}

func (m *MockJoinRequestService) Review(ctx context.Context, requestID uuid.UUID, status string, reviewerID uuid.UUID) (*models.JoinRequest, error) {
	args := m.Called(ctx, requestID, status, reviewerID)
	request, _ := args.Get(0).(*models.JoinRequest)
	return request, args.Error(1)
}

// MockTokenService mocks the TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, tokenHash, expiresAt)
	return args.Error(0)
}

func (m *MockTokenService) ValidateRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	args := m.Called(ctx, tokenHash)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockTokenService) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

func (m *MockTokenService) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockTokenService) CleanupExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockJWTService mocks the JWTService
type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateTokenPair(userID uuid.UUID, username string) (*services.TokenPair, error) {
	args := m.Called(userID, username)
	pair, _ := args.Get(0).(*services.TokenPair)
	return pair, args.Error(1)
}

func (m *MockJWTService) ValidateRefreshToken(token string) (uuid.UUID, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockJWTService) RefreshExpiry() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}

// MockHub mocks the SSE hub
type MockHub struct {
	mock.Mock
}

func (m *MockHub) Register(client *sse.Client) {
	m.Called(client)
}

func (m *MockHub) Unregister(client *sse.Client) {
	m.Called(client)
}

func (m *MockHub) SubscribeToProject(clientID string, userID, projectID uuid.UUID) bool {
	args := m.Called(clientID, userID, projectID)
	return args.Bool(0)
}

func (m *MockHub) UnsubscribeFromProject(clientID string, userID, projectID uuid.UUID) bool {
	args := m.Called(clientID, userID, projectID)
	return args.Bool(0)
}

func (m *MockHub) NotifyJoinRequestCreated(leaderID, requestID, projectID, requesterID uuid.UUID) {
	m.Called(leaderID, requestID, projectID, requesterID)
}

func (m *MockHub) NotifyJoinRequestReviewed(requesterID, requestID, projectID uuid.UUID, status string) {
	m.Called(requesterID, requestID, projectID, status)
}

func (m *MockHub) NotifyProjectUpdated(projectID uuid.UUID) {
	m.Called(projectID)
}

func (m *MockHub) NotifyProjectDeleted(projectID uuid.UUID) {
	m.Called(projectID)
}

func (m *MockHub) NotifyMemberJoined(projectID, userID uuid.UUID) {
	m.Called(projectID, userID)
}

func (m *MockHub) NotifyMemberLeft(projectID, userID uuid.UUID) {
	m.Called(projectID, userID)
}

// MockEmailService mocks the EmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendJoinRequestReceived(to, requesterName, projectTitle, link string) error {
	args := m.Called(to, requesterName, projectTitle, link)
	return args.Error(0)
}

func (m *MockEmailService) SendJoinRequestReviewed(to, projectTitle, status, link string) error {
	args := m.Called(to, projectTitle, status, link)
	return args.Error(0)
}

// MockOAuthProvider mocks an OAuth provider
type MockOAuthProvider struct {
	mock.Mock
}

func (m *MockOAuthProvider) GetConsentURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockOAuthProvider) ExchangeCode(ctx context.Context, code string) (*oauth.UserInfo, error) {
	args := m.Called(ctx, code)
	info, _ := args.Get(0).(*oauth.UserInfo)
	return info, args.Error(1)
}

func (m *MockOAuthProvider) Name() string {
	args := m.Called()
	return args.String(0)
}
