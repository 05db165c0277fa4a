package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dimitrije/teamup-api/internal/logger"
	"github.com/dimitrije/teamup-api/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix   = "cache:"
	projectsKey = keyPrefix + "projects:all"
)

// Connect parses a redis:// URL and pings the server.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) GetProjects(ctx context.Context) ([]models.Project, bool) {
	data, err := r.client.Get(ctx, projectsKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn().Err(err).Str("key", projectsKey).Msg("cache read failed")
		}
		return nil, false
	}

	var projects []models.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		logger.Warn().Err(err).Str("key", projectsKey).Msg("cache entry corrupt")
		return nil, false
	}
	return projects, true
}

func (r *Redis) SetProjects(ctx context.Context, projects []models.Project) {
	if projects == nil {
		projects = []models.Project{}
	}
	data, err := json.Marshal(projects)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, projectsKey, data, r.ttl).Err(); err != nil {
		logger.Warn().Err(err).Str("key", projectsKey).Msg("cache write failed")
	}
}

func (r *Redis) Invalidate(ctx context.Context) {
	if err := r.client.Del(ctx, projectsKey).Err(); err != nil {
		logger.Warn().Err(err).Str("key", projectsKey).Msg("cache invalidate failed")
	}
}
