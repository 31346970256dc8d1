package postgres

import (
	"context"
	"errors"

	"golfProShop/domain"

	"gorm.io/gorm"
)

type PaymentsRepository struct {
	DB *gorm.DB
}

func NewPaymentsRepository(db *gorm.DB) *PaymentsRepository {
	return &PaymentsRepository{
		DB: db,
	}
}

func (r *PaymentsRepository) CreatePayment(ctx context.Context, data domain.Payment) (domain.Payment, error) {
	err := r.DB.WithContext(ctx).Create(&data).Error
	if err != nil {
		return domain.Payment{}, err
	}

	return data, nil
}

func (r *PaymentsRepository) GetAllPayments(ctx context.Context) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&payments).Error
	if err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *PaymentsRepository) GetPayment(ctx context.Context, paymentID int) (domain.Payment, error) {
	var payment domain.Payment
	err := r.DB.WithContext(ctx).Where("id=?", paymentID).First(&payment).Error
	if err != nil {
		return domain.Payment{}, err
	}

	return payment, nil
}

func (r *PaymentsRepository) UpdatePayment(ctx context.Context, data domain.Payment) error {
	row := r.DB.WithContext(ctx).Where("id=?", data.ID).Updates(&data)
	if row.Error != nil {
		return row.Error
	}
	if row.RowsAffected == 0 {
		return errors.New("payment not found")
	}

	return nil
}
