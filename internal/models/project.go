package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Role is the viewer's relation to a project. RoleNone serializes as null.
type Role string

const (
	RoleNone    Role = ""
	RoleLeader  Role = "leader"
	RoleMember  Role = "member"
	RolePending Role = "pending"
)

func (r Role) MarshalJSON() ([]byte, error) {
	if r == RoleNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(r))
}

func (r *Role) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = RoleNone
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*r = Role(s)
	return nil
}

type Project struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	LookingFor  []string  `json:"looking_for"`
	MaxTeamSize int       `json:"max_team_size"`
	LeaderID    uuid.UUID `json:"leader"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ProjectMember struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	UserID    uuid.UUID `json:"user_id"`
	Role      Role      `json:"role"`
	JoinedAt  time.Time `json:"joined_at"`
	Profile   *Profile  `json:"profile,omitempty"`
}

// ProjectWithRole is a project annotated with the viewer's role.
type ProjectWithRole struct {
	Project
	UserRole Role `json:"user_role"`
}

type ProjectDetails struct {
	Project
	LeaderProfile      *Profile        `json:"leader_profile"`
	Members            []ProjectMember `json:"members"`
	UserRole           Role            `json:"user_role"`
	MembersUnavailable bool            `json:"members_unavailable,omitempty"`
}

// ProjectInput is a validated create request.
type ProjectInput struct {
	Title       string
	Description string
	Tags        []string
	LookingFor  []string
	MaxTeamSize int
}

// ProjectPatch is a validated partial update. Nil fields are left untouched;
// Tags pointing at an empty slice clears the tags.
type ProjectPatch struct {
	Title       *string
	Description *string
	Tags        *[]string
	LookingFor  []string
	MaxTeamSize *int
}
