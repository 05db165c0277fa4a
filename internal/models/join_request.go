package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	JoinRequestPending  = "pending"
	JoinRequestApproved = "approved"
	JoinRequestRejected = "rejected"
)

type JoinRequest struct {
	ID         uuid.UUID  `json:"id"`
	ProjectID  uuid.UUID  `json:"project_id"`
	UserID     uuid.UUID  `json:"user_id"`
	Message    *string    `json:"message"`
	Status     string     `json:"status"`
	ReviewedBy *uuid.UUID `json:"reviewed_by"`
	ReviewedAt *time.Time `json:"reviewed_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	Project   *Project `json:"project,omitempty"`
	Requester *Profile `json:"requester,omitempty"`
}

func (r *JoinRequest) IsPending() bool {
	return r.Status == JoinRequestPending
}
