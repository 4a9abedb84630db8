// Package fakes provides in-memory implementations of the service store interfaces.
package fakes

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/0xHy0kR1/LF-backend/internal/model"
	"github.com/0xHy0kR1/LF-backend/internal/repository"
)

// Store is an in-memory users, items and notification log store with the
// same error contract as repository.Repository.
type Store struct {
	mu         sync.Mutex
	users      map[string]*model.User
	items      map[string]*model.LostItem
	notes      map[string][]*model.Notification
	nextNoteID int64
	writes     int

	// Injected failures.
	CreateItemErr error
	UpdateItemErr error
	DeleteItemErr error
	AppendErr     error
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		users: make(map[string]*model.User),
		items: make(map[string]*model.LostItem),
		notes: make(map[string][]*model.Notification),
	}
}

// Writes returns how many successful item or notification writes happened.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// CreateUser implements service.UserStore.
func (s *Store) CreateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return repository.ErrEmailExists
		}
		if u.Username == user.Username {
			return repository.ErrUsernameExists
		}
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

// GetUserByID implements service.UserStore.
func (s *Store) GetUserByID(_ context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// GetUserByEmail implements service.UserStore.
func (s *Store) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// DeleteUser removes a user, leaving their items in place.
func (s *Store) DeleteUser(id string) {
	s.mu.Lock()
	delete(s.users, id)
	s.mu.Unlock()
}

// UserCount returns the number of stored users.
func (s *Store) UserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// CreateItem implements service.ItemStore.
func (s *Store) CreateItem(_ context.Context, item *model.LostItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.CreateItemErr != nil {
		return s.CreateItemErr
	}
	s.items[item.ID] = item.Clone()
	s.writes++
	return nil
}

// GetItemByID implements service.ItemStore.
func (s *Store) GetItemByID(_ context.Context, id string) (*model.LostItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return nil, repository.ErrItemNotFound
	}
	return item.Clone(), nil
}

// ListItems implements service.ItemStore. Newest first.
func (s *Store) ListItems(_ context.Context, filter repository.ItemFilter) ([]*model.LostItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*model.LostItem
	for _, item := range s.items {
		if filter.IsLost != nil && item.IsLost != *filter.IsLost {
			continue
		}
		out = append(out, item.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// UpdateItem implements service.ItemStore.
func (s *Store) UpdateItem(_ context.Context, item *model.LostItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.UpdateItemErr != nil {
		return s.UpdateItemErr
	}
	existing, ok := s.items[item.ID]
	if !ok {
		return repository.ErrItemNotFound
	}
	cp := item.Clone()
	cp.OwnerID = existing.OwnerID
	cp.CreatedAt = existing.CreatedAt
	s.items[item.ID] = cp
	s.writes++
	return nil
}

// DeleteItem implements service.ItemStore. The item's notification log goes with it.
func (s *Store) DeleteItem(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.DeleteItemErr != nil {
		return s.DeleteItemErr
	}
	if _, ok := s.items[id]; !ok {
		return repository.ErrItemNotFound
	}
	delete(s.items, id)
	delete(s.notes, id)
	s.writes++
	return nil
}

// PutItem stores an item directly, bypassing write accounting.
func (s *Store) PutItem(item *model.LostItem) {
	s.mu.Lock()
	s.items[item.ID] = item.Clone()
	s.mu.Unlock()
}

// ItemCount returns the number of stored items.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// AppendNotification implements service.NotificationLog.
func (s *Store) AppendNotification(_ context.Context, n *model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.AppendErr != nil {
		return s.AppendErr
	}
	if _, ok := s.items[n.ItemID]; !ok {
		return repository.ErrItemNotFound
	}
	s.nextNoteID++
	n.ID = s.nextNoteID
	n.CreatedAt = time.Now().UTC()
	cp := *n
	s.notes[n.ItemID] = append(s.notes[n.ItemID], &cp)
	s.writes++
	return nil
}

// ListNotifications implements service.NotificationLog.
func (s *Store) ListNotifications(_ context.Context, itemID string) ([]*model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*model.Notification, 0, len(s.notes[itemID]))
	for _, n := range s.notes[itemID] {
		cp := *n
		out = append(out, &cp)
	}
	return out, nil
}
