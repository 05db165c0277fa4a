package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dimitrije/teamup-api/internal/database"
	"github.com/dimitrije/teamup-api/internal/models"
	"github.com/dimitrije/teamup-api/internal/oauth"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	usernameConstraint     = "profiles_username_key"
	providerConstraint     = "profiles_provider_provider_id_key"
	maxUsernameAttempts    = 20
	usernameBaseMaxLength  = 28
	usernameMinLength      = 3
	fallbackUsernamePrefix = "user"
)

var profileColumns = []string{
	"id", "email", "username", "name", "bio", "skills",
	"linkedin_link", "github_link", "twitter_link", "portfolio_url",
	"branch", "batch_year", "avatar_url", "profile_completed",
	"provider", "provider_id", "created_at", "updated_at",
}

func profileSelect(alias string) string { return columnList(profileColumns, alias) }

func profileDest(p *models.Profile) []any {
	return []any{
		&p.ID, &p.Email, &p.Username, &p.Name, &p.Bio, &p.Skills,
		&p.LinkedinLink, &p.GithubLink, &p.TwitterLink, &p.PortfolioURL,
		&p.Branch, &p.BatchYear, &p.AvatarURL, &p.ProfileCompleted,
		&p.Provider, &p.ProviderID, &p.CreatedAt, &p.UpdatedAt,
	}
}

type ProfileService struct {
	db *database.DB
}

func NewProfileService(db *database.DB) *ProfileService {
	return &ProfileService{db: db}
}

func (s *ProfileService) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	return getProfile(ctx, s.db.Pool, id)
}

// GetCurrent is GetByID for the authenticated caller.
func (s *ProfileService) GetCurrent(ctx context.Context, callerID uuid.UUID) (*models.Profile, error) {
	if callerID == uuid.Nil {
		return nil, ErrProfileNotFound
	}
	return s.GetByID(ctx, callerID)
}

// Update writes only the fields present in the update, marks the profile as
// completed and returns the stored row. Empty strings are stored as NULL.
func (s *ProfileService) Update(ctx context.Context, callerID uuid.UUID, u models.ProfileUpdate) (*models.Profile, error) {
	sets := []string{}
	args := []any{}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if u.Username != nil {
		add("username", *u.Username)
	}
	optional := []struct {
		column string
		value  *string
	}{
		{"name", u.Name},
		{"bio", u.Bio},
		{"linkedin_link", u.LinkedinLink},
		{"github_link", u.GithubLink},
		{"twitter_link", u.TwitterLink},
		{"portfolio_url", u.PortfolioURL},
		{"branch", u.Branch},
		{"avatar_url", u.AvatarURL},
	}
	for _, o := range optional {
		if o.value != nil {
			add(o.column, nullableString(*o.value))
		}
	}
	if u.Skills != nil {
		add("skills", u.Skills)
	}
	if u.BatchYear != nil {
		add("batch_year", *u.BatchYear)
	}

	sets = append(sets, "profile_completed = TRUE", "updated_at = NOW()")
	args = append(args, callerID)

	query := fmt.Sprintf(`UPDATE profiles SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), profileSelect(""))

	var p models.Profile
	err := s.db.Pool.QueryRow(ctx, query, args...).Scan(profileDest(&p)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if isUniqueViolation(err, usernameConstraint) {
		return nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &p, nil
}

// FindOrCreateFromOAuth returns the profile bound to the provider identity,
// creating it on first login with a unique username.
func (s *ProfileService) FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.Profile, error) {
	p, err := s.findByProvider(ctx, info.Provider, info.ID)
	if err == nil {
		return s.refreshFromOAuth(ctx, p, info), nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return nil, err
	}

	base := BaseUsername(info)
	for attempt := 1; attempt <= maxUsernameAttempts; attempt++ {
		candidate := base
		if attempt > 1 {
			candidate = fmt.Sprintf("%s-%d", base, attempt)
		}

		var created models.Profile
		err := s.db.Pool.QueryRow(ctx, `
			INSERT INTO profiles (email, username, name, avatar_url, provider, provider_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+profileSelect(""),
			nullableString(info.Email), candidate, nullableString(info.Name),
			nullableString(info.AvatarURL), info.Provider, info.ID,
		).Scan(profileDest(&created)...)

		switch {
		case err == nil:
			return &created, nil
		case isUniqueViolation(err, usernameConstraint):
			continue
		case isUniqueViolation(err, providerConstraint):
			// A concurrent login created it first.
			return s.findByProvider(ctx, info.Provider, info.ID)
		default:
			return nil, fmt.Errorf("failed to create profile: %w", err)
		}
	}

	return nil, fmt.Errorf("failed to create profile: %w", ErrUsernameTaken)
}

func (s *ProfileService) findByProvider(ctx context.Context, provider, providerID string) (*models.Profile, error) {
	var p models.Profile
	err := s.db.Pool.QueryRow(ctx,
		`SELECT `+profileSelect("")+` FROM profiles WHERE provider = $1 AND provider_id = $2`,
		provider, providerID,
	).Scan(profileDest(&p)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	return &p, nil
}

// refreshFromOAuth keeps the e-mail in sync and fills a missing avatar. The
// name belongs to the user once the profile exists.
func (s *ProfileService) refreshFromOAuth(ctx context.Context, p *models.Profile, info *oauth.UserInfo) *models.Profile {
	emailChanged := info.Email != "" && (p.Email == nil || *p.Email != info.Email)
	avatarMissing := p.AvatarURL == nil && info.AvatarURL != ""
	if !emailChanged && !avatarMissing {
		return p
	}

	if emailChanged {
		email := info.Email
		p.Email = &email
	}
	if avatarMissing {
		avatar := info.AvatarURL
		p.AvatarURL = &avatar
	}

	_, _ = s.db.Pool.Exec(ctx, `
		UPDATE profiles SET email = $1, avatar_url = $2, updated_at = NOW()
		WHERE id = $3
	`, p.Email, p.AvatarURL, p.ID)
	return p
}

var usernameInvalidChars = regexp.MustCompile(`[^a-z0-9_.-]+`)

// BaseUsername derives a username from the provider login, the e-mail local
// part or the display name, in that order.
func BaseUsername(info *oauth.UserInfo) string {
	source := info.Username
	if source == "" && info.Email != "" {
		source, _, _ = strings.Cut(info.Email, "@")
	}
	if source == "" {
		source = info.Name
	}

	name := strings.ToLower(strings.TrimSpace(source))
	name = strings.ReplaceAll(name, " ", "-")
	name = usernameInvalidChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "-._")

	if len(name) > usernameBaseMaxLength {
		name = name[:usernameBaseMaxLength]
	}
	if len(name) < usernameMinLength {
		name = fallbackUsernamePrefix + name
	}
	return name
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
