package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xHy0kR1/LF-backend/internal/metrics"
	"github.com/0xHy0kR1/LF-backend/internal/model"
	"github.com/0xHy0kR1/LF-backend/internal/testutil/fakes"
)

type disclosureEnv struct {
	svc     *DisclosureService
	items   *ItemService
	store   *fakes.Store
	metrics *metrics.InMemoryRecorder
}

func newDisclosureEnv(t *testing.T) *disclosureEnv {
	t.Helper()
	store := fakes.NewStore()
	rec := metrics.NewInMemory()
	items := NewItemService(ItemDeps{
		Items:         store,
		Notifications: store,
		Blobs:         fakes.NewBlobs(),
		Resizer:       &fakes.Resizer{},
		Metrics:       rec,
	}, ItemConfig{})

	require.NoError(t, store.CreateUser(context.Background(), &model.User{
		ID:        ownerID,
		Username:  "owner",
		Email:     "owner@example.com",
		CreatedAt: time.Now(),
	}))

	return &disclosureEnv{
		svc:     NewDisclosureService(store, store, store, items, nil, rec),
		items:   items,
		store:   store,
		metrics: rec,
	}
}

func (e *disclosureEnv) post(t *testing.T, question string) *model.LostItem {
	t.Helper()
	in := validCreateInput()
	in.SecurityQuestion = question
	item, err := e.items.Create(context.Background(), in)
	require.NoError(t, err)
	return item
}

func TestDisclosure_GatedViewRevealsOnlyQuestion(t *testing.T) {
	env := newDisclosureEnv(t)
	item := env.post(t, `{"question":"Brand?","answer":"Totes"}`)

	view, err := env.svc.RequestView(context.Background(), item.ID)
	require.NoError(t, err)

	assert.True(t, view.Gated())
	assert.Equal(t, "Brand?", view.Question)
	assert.Nil(t, view.Detail)
}

func TestDisclosure_UngatedViewRevealsDetail(t *testing.T) {
	env := newDisclosureEnv(t)
	item := env.post(t, "")

	view, err := env.svc.RequestView(context.Background(), item.ID)
	require.NoError(t, err)
	require.False(t, view.Gated())

	d := view.Detail
	assert.Equal(t, "owner@example.com", d.Email)
	assert.Equal(t, item.Title, d.ItemName)
	assert.Equal(t, item.Location, d.Location)
	assert.Equal(t, item.ImageKey, fakes.KeyFromURL(d.ImageURL))
	assert.Empty(t, d.OwnerID)
}

func TestDisclosure_ViewMissingItem(t *testing.T) {
	env := newDisclosureEnv(t)

	_, err := env.svc.RequestView(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrItemNotFound)

	_, err = env.svc.AnswerSecurityQuestion(context.Background(), "missing", "x")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestDisclosure_CorrectAnswerAppendsNotification(t *testing.T) {
	env := newDisclosureEnv(t)
	item := env.post(t, `{"question":"Brand?","answer":"Totes"}`)
	ctx := context.Background()

	for _, answer := range []string{"totes", "  TOTES "} {
		detail, err := env.svc.AnswerSecurityQuestion(ctx, item.ID, answer)
		require.NoError(t, err)
		assert.Equal(t, "owner@example.com", detail.Email)
		assert.Equal(t, ownerID, detail.OwnerID)
		assert.NotEmpty(t, detail.ImageURL)
	}

	log, err := env.store.ListNotifications(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, log, 2, "every correct answer appends")
	for _, n := range log {
		assert.Equal(t, ownerID, n.UserID)
		assert.Equal(t, model.AnsweredNotificationMessage, n.Message)
	}
	assert.Less(t, log[0].ID, log[1].ID)
	assert.EqualValues(t, 2, env.metrics.Snapshot().SecurityAnswers["correct"])
}

func TestDisclosure_WrongAnswer(t *testing.T) {
	env := newDisclosureEnv(t)
	item := env.post(t, `{"question":"Brand?","answer":"Totes"}`)
	ctx := context.Background()

	for _, answer := range []string{"nope", "", "tote"} {
		_, err := env.svc.AnswerSecurityQuestion(ctx, item.ID, answer)
		assert.ErrorIs(t, err, ErrIncorrectAnswer, "answer %q", answer)
	}

	log, err := env.store.ListNotifications(ctx, item.ID)
	require.NoError(t, err)
	assert.Empty(t, log)
	assert.EqualValues(t, 3, env.metrics.Snapshot().SecurityAnswers["wrong"])
}

func TestDisclosure_AnswerWithoutQuestionIsIncorrect(t *testing.T) {
	env := newDisclosureEnv(t)
	item := env.post(t, "")

	_, err := env.svc.AnswerSecurityQuestion(context.Background(), item.ID, "anything")
	assert.ErrorIs(t, err, ErrIncorrectAnswer)
	assert.Equal(t, 1, env.store.Writes(), "only the create was written")
}

func TestDisclosure_OwnerMissing(t *testing.T) {
	env := newDisclosureEnv(t)
	gated := env.post(t, `{"question":"Brand?","answer":"Totes"}`)
	open := env.post(t, "")
	env.store.DeleteUser(ownerID)
	ctx := context.Background()

	_, err := env.svc.AnswerSecurityQuestion(ctx, gated.ID, "totes")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = env.svc.RequestView(ctx, open.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	log, _ := env.store.ListNotifications(ctx, gated.ID)
	assert.Empty(t, log)
}

func TestDisclosure_NotificationAppendFailure(t *testing.T) {
	env := newDisclosureEnv(t)
	item := env.post(t, `{"question":"Brand?","answer":"Totes"}`)
	env.store.AppendErr = errors.New("db down")

	_, err := env.svc.AnswerSecurityQuestion(context.Background(), item.ID, "totes")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrIncorrectAnswer)
}
