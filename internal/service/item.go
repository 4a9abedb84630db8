package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/0xHy0kR1/LF-backend/internal/blob"
	"github.com/0xHy0kR1/LF-backend/internal/imaging"
	"github.com/0xHy0kR1/LF-backend/internal/metrics"
	"github.com/0xHy0kR1/LF-backend/internal/model"
	"github.com/0xHy0kR1/LF-backend/internal/repository"
)

// Orphan reasons reported to logs and metrics.
const (
	orphanDeleteFailed   = "delete_failed"
	orphanRollbackFailed = "rollback_failed"
)

const (
	defaultSignedURLTTL    = time.Hour
	defaultSignConcurrency = 8
)

// ItemConfig tunes ItemService.
type ItemConfig struct {
	SignedURLTTL    time.Duration
	SignConcurrency int
	// LegacyFoundListing makes ListFound return every item, like ListLost.
	LegacyFoundListing bool
}

// ItemDeps are the collaborators of ItemService. Orphans may be nil.
type ItemDeps struct {
	Items         ItemStore
	Notifications NotificationLog
	Blobs         BlobStore
	Resizer       ImageResizer
	Orphans       OrphanQueue
	Logger        *slog.Logger
	Metrics       metrics.Recorder
}

// ItemService manages the lost item lifecycle. Every mutation checks ownership
// before touching the blob store or the item store.
type ItemService struct {
	items         ItemStore
	notifications NotificationLog
	blobs         BlobStore
	resizer       ImageResizer
	orphans       OrphanQueue
	logger        *slog.Logger
	metrics       metrics.Recorder
	cfg           ItemConfig
	now           func() time.Time
	newKey        func() (string, error)
}

// NewItemService creates a new ItemService.
func NewItemService(deps ItemDeps, cfg ItemConfig) *ItemService {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewNoop()
	}
	if cfg.SignedURLTTL <= 0 {
		cfg.SignedURLTTL = defaultSignedURLTTL
	}
	if cfg.SignConcurrency <= 0 {
		cfg.SignConcurrency = defaultSignConcurrency
	}
	return &ItemService{
		items:         deps.Items,
		notifications: deps.Notifications,
		blobs:         deps.Blobs,
		resizer:       deps.Resizer,
		orphans:       deps.Orphans,
		logger:        deps.Logger.With("component", "service.item"),
		metrics:       deps.Metrics,
		cfg:           cfg,
		now:           func() time.Time { return time.Now().UTC() },
		newKey:        blob.NewKey,
	}
}

// Upload is an image received from a client.
type Upload struct {
	Data        []byte
	ContentType string
}

// CreateItemInput defines input for posting a lost item.
// SecurityQuestion is the raw JSON form field; empty means none.
type CreateItemInput struct {
	OwnerID          string
	Title            string
	Description      string
	Category         string
	Location         string
	SecurityQuestion string
	Image            *Upload
}

// Create stores the resized image under a fresh key and persists the item as lost.
// If the record write fails the new blob is removed again.
func (s *ItemService) Create(ctx context.Context, input CreateItemInput) (*model.LostItem, error) {
	if input.OwnerID == "" {
		return nil, ErrUnauthenticated
	}
	if input.Image == nil || len(input.Image.Data) == 0 {
		return nil, ErrNoFile
	}

	for _, f := range []struct{ name, value string }{
		{"title", input.Title},
		{"description", input.Description},
		{"category", input.Category},
		{"location", input.Location},
	} {
		if err := validateItemField(f.name, f.value); err != nil {
			return nil, err
		}
	}

	sq, err := ParseSecurityQuestion(input.SecurityQuestion)
	if err != nil {
		return nil, err
	}

	key, err := s.storeImage(ctx, input.Image)
	if err != nil {
		return nil, err
	}

	now := s.now()
	item := &model.LostItem{
		ID:               ulid.Make().String(),
		OwnerID:          input.OwnerID,
		Title:            strings.TrimSpace(input.Title),
		Description:      strings.TrimSpace(input.Description),
		Category:         strings.TrimSpace(input.Category),
		Location:         strings.TrimSpace(input.Location),
		SecurityQuestion: sq,
		ImageKey:         key,
		IsLost:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.items.CreateItem(ctx, item); err != nil {
		s.discardBlob(ctx, key, orphanRollbackFailed)
		return nil, err
	}

	s.metrics.IncItemCreated()
	s.logger.Info("item_created",
		"item_id", item.ID,
		"owner_id", item.OwnerID,
		"has_security_question", item.HasSecurityQuestion(),
	)

	return item, nil
}

// UpdateItemInput defines a partial update. Empty strings mean "not provided".
type UpdateItemInput struct {
	ItemID           string
	UserID           string
	Title            string
	Description      string
	Category         string
	Location         string
	SecurityQuestion string
	Image            *Upload
}

// Update applies the provided fields. Input is fully validated before anything is written.
// A replacement image is uploaded under a new key before the record is saved; the old
// blob is deleted afterwards on a best-effort basis.
func (s *ItemService) Update(ctx context.Context, input UpdateItemInput) (*model.LostItem, error) {
	current, err := s.ownedItem(ctx, input.ItemID, input.UserID)
	if err != nil {
		return nil, err
	}

	updated := current.Clone()

	for _, f := range []struct {
		name  string
		value string
		dst   *string
	}{
		{"title", input.Title, &updated.Title},
		{"description", input.Description, &updated.Description},
		{"category", input.Category, &updated.Category},
		{"location", input.Location, &updated.Location},
	} {
		if strings.TrimSpace(f.value) == "" {
			continue
		}
		if err := validateItemField(f.name, f.value); err != nil {
			return nil, err
		}
		*f.dst = strings.TrimSpace(f.value)
	}

	if strings.TrimSpace(input.SecurityQuestion) != "" {
		sq, err := ParseSecurityQuestion(input.SecurityQuestion)
		if err != nil {
			return nil, err
		}
		updated.SecurityQuestion = sq
	}

	replacingImage := input.Image != nil && len(input.Image.Data) > 0
	if replacingImage {
		key, err := s.storeImage(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		updated.ImageKey = key
	}

	updated.UpdatedAt = s.now()

	if err := s.items.UpdateItem(ctx, updated); err != nil {
		if replacingImage {
			s.discardBlob(ctx, updated.ImageKey, orphanRollbackFailed)
		}
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	if replacingImage {
		s.discardBlob(ctx, current.ImageKey, orphanDeleteFailed)
	}

	s.metrics.IncItemUpdated()
	s.logger.Info("item_updated",
		"item_id", updated.ID,
		"image_replaced", replacingImage,
	)

	return updated, nil
}

// Delete removes the item's image and then the item. A failed image delete is
// queued for the sweeper and does not block the record delete.
func (s *ItemService) Delete(ctx context.Context, itemID, userID string) error {
	item, err := s.ownedItem(ctx, itemID, userID)
	if err != nil {
		return err
	}

	s.discardBlob(ctx, item.ImageKey, orphanDeleteFailed)

	if err := s.items.DeleteItem(ctx, item.ID); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return ErrItemNotFound
		}
		return err
	}

	s.metrics.IncItemDeleted()
	s.logger.Info("item_deleted", "item_id", item.ID)
	return nil
}

// MarkAsFound flips an item to found. Calling it on a found item is a no-op.
func (s *ItemService) MarkAsFound(ctx context.Context, itemID, userID string) (*model.LostItem, error) {
	item, err := s.ownedItem(ctx, itemID, userID)
	if err != nil {
		return nil, err
	}

	if !item.IsLost {
		return item, nil
	}

	item.IsLost = false
	item.UpdatedAt = s.now()
	if err := s.items.UpdateItem(ctx, item); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	s.metrics.IncItemMarkedFound()
	s.logger.Info("item_marked_found", "item_id", item.ID)
	return item, nil
}

// ListedItem is an item with a freshly signed image URL.
type ListedItem struct {
	Item     *model.LostItem
	ImageURL string
}

// ListLost returns every item, newest first.
func (s *ItemService) ListLost(ctx context.Context) ([]ListedItem, error) {
	return s.list(ctx, repository.ItemFilter{})
}

// ListFound returns items marked as found, or every item when LegacyFoundListing is set.
func (s *ItemService) ListFound(ctx context.Context) ([]ListedItem, error) {
	if s.cfg.LegacyFoundListing {
		return s.list(ctx, repository.ItemFilter{})
	}
	isLost := false
	return s.list(ctx, repository.ItemFilter{IsLost: &isLost})
}

// list signs image URLs concurrently, bounded by SignConcurrency.
// Items without an image key are logged and skipped.
func (s *ItemService) list(ctx context.Context, filter repository.ItemFilter) ([]ListedItem, error) {
	items, err := s.items.ListItems(ctx, filter)
	if err != nil {
		return nil, err
	}

	urls := make([]string, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.SignConcurrency)

	for i, item := range items {
		if item.ImageKey == "" {
			s.logger.Error("item_missing_image", "item_id", item.ID)
			continue
		}
		g.Go(func() error {
			u, err := s.SignImageURL(gctx, item.ImageKey)
			if err != nil {
				return err
			}
			urls[i] = u
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]ListedItem, 0, len(items))
	for i, item := range items {
		if item.ImageKey == "" {
			continue
		}
		out = append(out, ListedItem{Item: item, ImageURL: urls[i]})
	}
	return out, nil
}

// Notifications returns an item's notification log. Owner only.
func (s *ItemService) Notifications(ctx context.Context, itemID, userID string) ([]*model.Notification, error) {
	if _, err := s.ownedItem(ctx, itemID, userID); err != nil {
		return nil, err
	}
	return s.notifications.ListNotifications(ctx, itemID)
}

// SignImageURL mints a read URL for an image key. URLs expire, so callers never cache them.
func (s *ItemService) SignImageURL(ctx context.Context, key string) (string, error) {
	start := time.Now()
	u, err := s.blobs.SignedReadURL(ctx, key, s.cfg.SignedURLTTL)
	s.metrics.ObserveSignDuration(time.Since(start))
	if err != nil {
		return "", fmt.Errorf("sign image url: %w", err)
	}
	return u, nil
}

// ownedItem loads an item and checks the caller owns it.
func (s *ItemService) ownedItem(ctx context.Context, itemID, userID string) (*model.LostItem, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	item, err := s.items.GetItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	if !item.IsOwnedBy(userID) {
		s.logger.Warn("item_access_denied", "item_id", item.ID, "user_id", userID)
		return nil, ErrForbidden
	}
	return item, nil
}

// storeImage resizes the upload and writes it under a new random key.
func (s *ItemService) storeImage(ctx context.Context, up *Upload) (string, error) {
	data, contentType, err := s.resizer.Resize(up.Data)
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedImage) {
			return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
		}
		return "", fmt.Errorf("resize image: %w", err)
	}

	key, err := s.newKey()
	if err != nil {
		return "", err
	}

	if err := s.blobs.Put(ctx, key, data, contentType); err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return key, nil
}

// discardBlob deletes a blob best-effort. Failures are logged as orphans and
// queued for the sweeper.
func (s *ItemService) discardBlob(ctx context.Context, key, reason string) {
	if key == "" {
		return
	}

	// Cleanup must outlive a cancelled request.
	ctx = context.WithoutCancel(ctx)

	err := s.blobs.Delete(ctx, key)
	if err == nil {
		return
	}

	s.metrics.IncOrphanedBlob(reason)
	s.logger.Error("blob_orphaned",
		"blob_key", key,
		"reason", reason,
		"error", err,
	)

	if s.orphans == nil {
		return
	}
	if qerr := s.orphans.RecordOrphan(ctx, key); qerr != nil {
		s.logger.Error("orphan_record_failed", "blob_key", key, "error", qerr)
	}
}
