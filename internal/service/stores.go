package service

import (
	"context"
	"time"

	"github.com/0xHy0kR1/LF-backend/internal/model"
	"github.com/0xHy0kR1/LF-backend/internal/repository"
)

// UserStore persists user accounts. Implemented by *repository.Repository.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// ItemStore persists lost items. Implemented by *repository.Repository.
type ItemStore interface {
	CreateItem(ctx context.Context, item *model.LostItem) error
	GetItemByID(ctx context.Context, id string) (*model.LostItem, error)
	ListItems(ctx context.Context, filter repository.ItemFilter) ([]*model.LostItem, error)
	UpdateItem(ctx context.Context, item *model.LostItem) error
	DeleteItem(ctx context.Context, id string) error
}

// NotificationLog is the append-only per-item notification log.
type NotificationLog interface {
	AppendNotification(ctx context.Context, n *model.Notification) error
	ListNotifications(ctx context.Context, itemID string) ([]*model.Notification, error)
}

// BlobStore holds item images. Delete of a missing key succeeds.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	SignedReadURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// ImageResizer bounds image bytes before storage and reports the output content type.
type ImageResizer interface {
	Resize(data []byte) ([]byte, string, error)
}

// OrphanQueue records blob keys whose cleanup must be retried. Implemented by *kv.Store.
type OrphanQueue interface {
	RecordOrphan(ctx context.Context, key string) error
	PopOrphans(ctx context.Context, n int64) ([]string, error)
	CountOrphans(ctx context.Context) (int64, error)
}
