package repository

import (
	"context"

	"reviewdesk/internal/domain/entity"
)

type PreferenceRepository interface {
	GetByUser(ctx context.Context, userID string) (*entity.UserPreferences, error)
	Update(ctx context.Context, userID string, prefs *entity.UserPreferences) (*entity.UserPreferences, error)
}
