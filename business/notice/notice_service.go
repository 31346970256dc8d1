package notice

import (
	"context"
	"errors"

	"golfProShop/domain"
	"golfProShop/pkg/logger"
)

type NoticeRepository interface {
	Create(ctx context.Context, notice *domain.Notice) error
	FindByID(ctx context.Context, id uint) (domain.Notice, error)
	FindAll(ctx context.Context, kind string) ([]domain.Notice, error)
	Update(ctx context.Context, notice *domain.Notice) error
	Delete(ctx context.Context, id uint) error
}

type noticeService struct {
	noticeRepo NoticeRepository
}

func NewNoticeService(noticeRepo NoticeRepository) *noticeService {
	return &noticeService{
		noticeRepo: noticeRepo,
	}
}

func validKind(kind string) bool {
	return kind == domain.NoticeKindNotice || kind == domain.NoticeKindFAQ
}

func (s *noticeService) GetNotices(ctx context.Context, kind string) ([]domain.Notice, error) {
	if kind != "" && !validKind(kind) {
		return nil, errors.New("kind must be notice or faq")
	}

	notices, err := s.noticeRepo.FindAll(ctx, kind)
	if err != nil {
		logger.Error("Failed to find notices", err)
		return nil, err
	}

	return notices, nil
}

func (s *noticeService) GetNoticeByID(ctx context.Context, id uint) (domain.Notice, error) {
	if id == 0 {
		return domain.Notice{}, errors.New("invalid notice id")
	}

	notice, err := s.noticeRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to find notice by id", err)
		return domain.Notice{}, err
	}

	return notice, nil
}

func (s *noticeService) CreateNotice(ctx context.Context, notice *domain.Notice) error {
	if notice.Title == "" {
		return errors.New("title is required")
	}
	if notice.Kind == "" {
		notice.Kind = domain.NoticeKindNotice
	}
	if !validKind(notice.Kind) {
		return errors.New("kind must be notice or faq")
	}

	if err := s.noticeRepo.Create(ctx, notice); err != nil {
		logger.Error("Failed to create notice", err)
		return err
	}

	return nil
}

func (s *noticeService) UpdateNotice(ctx context.Context, notice *domain.Notice) error {
	if notice.ID == 0 {
		return errors.New("notice ID is required")
	}
	if notice.Title == "" {
		return errors.New("title is required")
	}
	if notice.Kind != "" && !validKind(notice.Kind) {
		return errors.New("kind must be notice or faq")
	}

	existing, err := s.noticeRepo.FindByID(ctx, notice.ID)
	if err != nil {
		logger.Error("Notice not found for update", err)
		return err
	}
	if notice.Kind == "" {
		notice.Kind = existing.Kind
	}
	notice.CreatedAt = existing.CreatedAt

	if err := s.noticeRepo.Update(ctx, notice); err != nil {
		logger.Error("Failed to update notice", err)
		return err
	}

	return nil
}

func (s *noticeService) DeleteNotice(ctx context.Context, id uint) error {
	if id == 0 {
		return errors.New("invalid notice id")
	}

	if _, err := s.noticeRepo.FindByID(ctx, id); err != nil {
		logger.Error("Notice not found for delete", err)
		return err
	}

	if err := s.noticeRepo.Delete(ctx, id); err != nil {
		logger.Error("Failed to delete notice", err)
		return err
	}

	return nil
}
