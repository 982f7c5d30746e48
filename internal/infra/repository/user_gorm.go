package repository

import (
	"context"
	"errors"

	"samaka/internal/domain/model"
	repo "samaka/internal/repository"

	"gorm.io/gorm"
)

type UserGormRepository struct {
	db *gorm.DB
}

// DI
// main.goでこれをnewしてusecaseに注入します。
func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

// IDでユーザーを1件取得
func (r *UserGormRepository) FindByID(ctx context.Context, id int64) (model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, repo.ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

// emailでユーザーを1件取得
func (r *UserGormRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, repo.ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

// Create はユーザーを新規作成
func (r *UserGormRepository) Create(ctx context.Context, u model.User) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&u).Error; err != nil {
		return 0, err
	}
	return u.ID, nil
}

// 電話番号確認済みフラグを立てる
func (r *UserGormRepository) SetPhoneVerified(ctx context.Context, userID int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		Update("phone_verified", true)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

type FishermanProfileGormRepository struct {
	db *gorm.DB
}

func NewFishermanProfileGormRepository(db *gorm.DB) *FishermanProfileGormRepository {
	return &FishermanProfileGormRepository{db: db}
}

func (r *FishermanProfileGormRepository) FindByUserID(ctx context.Context, userID int64) (model.FishermanProfile, error) {
	var p model.FishermanProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.FishermanProfile{}, repo.ErrNotFound
	}
	if err != nil {
		return model.FishermanProfile{}, err
	}
	return p, nil
}

func (r *FishermanProfileGormRepository) Update(ctx context.Context, p model.FishermanProfile) error {
	res := r.db.WithContext(ctx).
		Model(&model.FishermanProfile{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"phone":                   p.Phone,
			"location":                p.Location,
			"is_verified":             p.IsVerified,
			"mpesa_phone":             p.MpesaPhone,
			"mpesa_payment_type":      p.MpesaPaymentType,
			"mpesa_till_number":       p.MpesaTillNumber,
			"mpesa_paybill_number":    p.MpesaPaybillNumber,
			"mpesa_account_reference": p.MpesaAccountReference,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
