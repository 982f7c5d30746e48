package repository

import (
	"context"

	"samaka/internal/domain/model"
)

type UserRepository interface {
	FindByID(ctx context.Context, id int64) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	Create(ctx context.Context, u model.User) (int64, error)
	SetPhoneVerified(ctx context.Context, userID int64) error
}

// 漁師の入金先プロフィール。
type FishermanProfileRepository interface {
	FindByUserID(ctx context.Context, userID int64) (model.FishermanProfile, error)
	Update(ctx context.Context, p model.FishermanProfile) error
}
