package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"

	"github.com/0xHy0kR1/LF-backend/internal/metrics"
	"github.com/0xHy0kR1/LF-backend/internal/model"
	"github.com/0xHy0kR1/LF-backend/internal/repository"
)

// Answer outcomes reported to metrics.
const (
	answerCorrect    = "correct"
	answerWrong      = "wrong"
	answerNoQuestion = "no_question"
)

// ImageSigner mints read URLs for image keys.
type ImageSigner interface {
	SignImageURL(ctx context.Context, key string) (string, error)
}

// ItemDetail is the disclosed view of an item. OwnerID is only set after a
// correct security answer.
type ItemDetail struct {
	Email       string
	ItemName    string
	Description string
	Category    string
	Location    string
	ImageURL    string
	OwnerID     string
}

// View is the result of a view request: either the gating question or the full detail.
type View struct {
	Question string
	Detail   *ItemDetail
}

// Gated reports whether the caller must answer a question first.
func (v *View) Gated() bool {
	return v.Detail == nil
}

// DisclosureService mediates read access to item details for non-owners.
type DisclosureService struct {
	items         ItemStore
	users         UserStore
	notifications NotificationLog
	signer        ImageSigner
	logger        *slog.Logger
	metrics       metrics.Recorder
}

// NewDisclosureService creates a new DisclosureService.
func NewDisclosureService(items ItemStore, users UserStore, notifications NotificationLog, signer ImageSigner, logger *slog.Logger, recorder metrics.Recorder) *DisclosureService {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &DisclosureService{
		items:         items,
		users:         users,
		notifications: notifications,
		signer:        signer,
		logger:        logger.With("component", "service.disclosure"),
		metrics:       recorder,
	}
}

// RequestView returns only the question text for gated items and the full
// detail, including the owner's email, for items without a question.
func (s *DisclosureService) RequestView(ctx context.Context, itemID string) (*View, error) {
	item, err := s.getItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if item.HasSecurityQuestion() {
		return &View{Question: item.SecurityQuestion.Question}, nil
	}

	owner, err := s.getOwner(ctx, item)
	if err != nil {
		return nil, err
	}

	detail, err := s.detail(ctx, item, owner)
	if err != nil {
		return nil, err
	}
	return &View{Detail: detail}, nil
}

// AnswerSecurityQuestion compares the submitted answer case-insensitively. On a
// match it appends one notification for the owner and returns the full detail.
// Every correct answer appends a new notification.
func (s *DisclosureService) AnswerSecurityQuestion(ctx context.Context, itemID, answer string) (*ItemDetail, error) {
	item, err := s.getItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if !item.HasSecurityQuestion() {
		s.metrics.IncSecurityAnswer(answerNoQuestion)
		s.logger.Info("security_answer_rejected", "item_id", item.ID, "reason", answerNoQuestion)
		return nil, ErrIncorrectAnswer
	}

	submitted := model.NormalizeAnswer(answer)
	stored := model.NormalizeAnswer(item.SecurityQuestion.Answer)
	if submitted == "" || subtle.ConstantTimeCompare([]byte(submitted), []byte(stored)) != 1 {
		s.metrics.IncSecurityAnswer(answerWrong)
		s.logger.Info("security_answer_rejected", "item_id", item.ID, "reason", answerWrong)
		return nil, ErrIncorrectAnswer
	}

	owner, err := s.getOwner(ctx, item)
	if err != nil {
		return nil, err
	}

	n := &model.Notification{
		ItemID:  item.ID,
		UserID:  owner.ID,
		Message: model.AnsweredNotificationMessage,
	}
	if err := s.notifications.AppendNotification(ctx, n); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	detail, err := s.detail(ctx, item, owner)
	if err != nil {
		return nil, err
	}
	detail.OwnerID = owner.ID

	s.metrics.IncSecurityAnswer(answerCorrect)
	s.logger.Info("security_answer_accepted", "item_id", item.ID, "notification_id", n.ID)
	return detail, nil
}

func (s *DisclosureService) detail(ctx context.Context, item *model.LostItem, owner *model.User) (*ItemDetail, error) {
	d := &ItemDetail{
		Email:       owner.Email,
		ItemName:    item.Title,
		Description: item.Description,
		Category:    item.Category,
		Location:    item.Location,
	}
	if item.ImageKey != "" {
		u, err := s.signer.SignImageURL(ctx, item.ImageKey)
		if err != nil {
			return nil, err
		}
		d.ImageURL = u
	}
	return d, nil
}

func (s *DisclosureService) getItem(ctx context.Context, itemID string) (*model.LostItem, error) {
	item, err := s.items.GetItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

func (s *DisclosureService) getOwner(ctx context.Context, item *model.LostItem) (*model.User, error) {
	owner, err := s.users.GetUserByID(ctx, item.OwnerID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return owner, nil
}
