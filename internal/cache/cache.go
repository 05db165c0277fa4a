// Package cache holds the project listing cache. Cache failures are never
// fatal: a failed read is a miss and a failed write is dropped.
package cache

import (
	"context"

	"github.com/dimitrije/teamup-api/internal/models"
)

type ProjectCache interface {
	GetProjects(ctx context.Context) ([]models.Project, bool)
	SetProjects(ctx context.Context, projects []models.Project)
	Invalidate(ctx context.Context)
}

// Noop is used when no Redis is configured.
type Noop struct{}

func (Noop) GetProjects(context.Context) ([]models.Project, bool) { return nil, false }
func (Noop) SetProjects(context.Context, []models.Project)        {}
func (Noop) Invalidate(context.Context)                           {}
