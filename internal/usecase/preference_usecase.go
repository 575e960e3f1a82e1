package usecase

import (
	"context"
	"sync"

	"reviewdesk/internal/domain/entity"
	"reviewdesk/internal/domain/repository"
	"reviewdesk/pkg/logger"
)

// PreferenceUseCase caches the reviewer's notification and chat
// preferences. The local copy is replaced only after the backend
// accepts an update.
type PreferenceUseCase struct {
	repo   repository.PreferenceRepository
	userID string

	mu          sync.Mutex
	preferences *entity.UserPreferences
}

func NewPreferenceUseCase(repo repository.PreferenceRepository, userID string) *PreferenceUseCase {
	return &PreferenceUseCase{
		repo:   repo,
		userID: userID,
	}
}

func (uc *PreferenceUseCase) Load(ctx context.Context) (*entity.UserPreferences, error) {
	preferences, err := uc.repo.GetByUser(ctx, uc.userID)
	if err != nil {
		logger.Error("Failed to load preferences: %v", err)
		return nil, err
	}

	uc.mu.Lock()
	uc.preferences = preferences
	uc.mu.Unlock()
	return preferences, nil
}

func (uc *PreferenceUseCase) Preferences() *entity.UserPreferences {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.preferences == nil {
		return nil
	}
	snapshot := *uc.preferences
	return &snapshot
}

func (uc *PreferenceUseCase) Update(ctx context.Context, preferences *entity.UserPreferences) (*entity.UserPreferences, error) {
	updated, err := uc.repo.Update(ctx, uc.userID, preferences)
	if err != nil {
		logger.Error("Failed to update preferences: %v", err)
		return nil, err
	}

	uc.mu.Lock()
	uc.preferences = updated
	uc.mu.Unlock()
	return updated, nil
}
