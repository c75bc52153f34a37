package usecase

import (
	"context"

	"notekeeper/model"
	"notekeeper/repository"
	"notekeeper/services"
)

// UserService is the user directory: it maps verified identities to local
// user records, creating them on first sight.
type UserService struct {
	Repo *repository.UserRepo
}

func NewUserService(repo *repository.UserRepo) *UserService {
	return &UserService{Repo: repo}
}

// ResolveFromClaims finds the local record for a verified identity, creating
// it on first authentication. Existing users get their last-login stamped;
// the unique index on the subject id guarantees at most one record per
// identity even under concurrent first requests.
func (svc *UserService) ResolveFromClaims(ctx context.Context, claims *services.Claims, device string) (*model.User, error) {
	user, err := svc.Repo.FindByFirebaseUID(ctx, claims.SubjectID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return svc.Repo.CreateFromClaims(ctx, claims)
	}

	if err := svc.Repo.UpdateLastLogin(ctx, claims.SubjectID, device); err != nil {
		return nil, err
	}
	return user, nil
}

func (svc *UserService) GetByID(ctx context.Context, userID string) (*model.User, error) {
	return svc.Repo.FindByUserID(ctx, userID)
}

func (svc *UserService) UpdatePreferences(ctx context.Context, userID string, prefs model.UserPreferences) error {
	return svc.Repo.UpdatePreferences(ctx, userID, prefs)
}

// Deactivate soft-disables the account; subsequent requests fail the
// active-status gate.
func (svc *UserService) Deactivate(ctx context.Context, userID string) error {
	return svc.Repo.Deactivate(ctx, userID)
}
