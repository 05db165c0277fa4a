package dto

import "github.com/dimitrije/teamup-api/internal/models"

type JoinRequestListResponse struct {
	Requests []models.JoinRequest `json:"requests"`
}

// JoinRequestResponse wraps a join request with whether this call created it.
type JoinRequestResponse struct {
	Request models.JoinRequest `json:"request"`
	Created bool               `json:"created"`
}
