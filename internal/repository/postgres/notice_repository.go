package postgres

import (
	"context"
	"errors"

	"golfProShop/domain"

	"gorm.io/gorm"
)

type NoticeRepository struct {
	DB *gorm.DB
}

func NewNoticeRepository(db *gorm.DB) *NoticeRepository {
	return &NoticeRepository{
		DB: db,
	}
}

func (r *NoticeRepository) Create(ctx context.Context, notice *domain.Notice) error {
	return r.DB.WithContext(ctx).Create(notice).Error
}

func (r *NoticeRepository) FindByID(ctx context.Context, id uint) (domain.Notice, error) {
	var notice domain.Notice
	err := r.DB.WithContext(ctx).Where("id=?", id).First(&notice).Error
	if err != nil {
		return domain.Notice{}, err
	}

	return notice, nil
}

func (r *NoticeRepository) FindAll(ctx context.Context, kind string) ([]domain.Notice, error) {
	query := r.DB.WithContext(ctx).Model(&domain.Notice{})
	if kind != "" {
		query = query.Where("kind=?", kind)
	}

	var notices []domain.Notice
	err := query.Order("is_pinned DESC, created_at DESC").Find(&notices).Error
	if err != nil {
		return nil, err
	}

	return notices, nil
}

func (r *NoticeRepository) Update(ctx context.Context, notice *domain.Notice) error {
	row := r.DB.WithContext(ctx).Where("id=?", notice.ID).Updates(notice)
	if row.Error != nil {
		return row.Error
	}
	if row.RowsAffected == 0 {
		return errors.New("notice not found")
	}

	return nil
}

func (r *NoticeRepository) Delete(ctx context.Context, id uint) error {
	row := r.DB.WithContext(ctx).Where("id=?", id).Delete(&domain.Notice{})
	if row.Error != nil {
		return row.Error
	}
	if row.RowsAffected == 0 {
		return errors.New("notice not found")
	}

	return nil
}
