// Package mocks provides testify mocks for the interfaces the checker and
// bot depend on.
package mocks

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"
	"gopkg.in/telebot.v4"

	"github.com/marvko/vendtrack/internal/models"
)

// Fetcher is a mock of checker.Fetcher.
type Fetcher struct {
	mock.Mock
}

func (m *Fetcher) FetchPage(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// PageParser is a mock of checker.PageParser.
type PageParser struct {
	mock.Mock
}

func (m *PageParser) ParseSnapshot(
	ctx context.Context,
	page io.Reader,
	locationID, locationName string,
	fetchedAt time.Time,
) (*models.Snapshot, error) {
	args := m.Called(ctx, page, locationID, locationName, fetchedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Snapshot), args.Error(1)
}

// SnapshotRepository is a mock of sqlite.SnapshotRepository.
type SnapshotRepository struct {
	mock.Mock
}

func (m *SnapshotRepository) GetState(ctx context.Context, locationID string) (*models.State, error) {
	args := m.Called(ctx, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.State), args.Error(1)
}

func (m *SnapshotRepository) UpdateState(ctx context.Context, state *models.State) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

// SubscriptionRepository is a mock of sqlite.SubscriptionRepository.
type SubscriptionRepository struct {
	mock.Mock
}

func (m *SubscriptionRepository) SubscribeChat(ctx context.Context, chatID int64) error {
	return m.Called(ctx, chatID).Error(0)
}

func (m *SubscriptionRepository) UnsubscribeChat(ctx context.Context, chatID int64) error {
	return m.Called(ctx, chatID).Error(0)
}

func (m *SubscriptionRepository) GetSubscribedChats(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// API is a mock of bot.API.
type API struct {
	mock.Mock
}

// NewAPI creates a mock bound to the test, with expectations asserted on
// cleanup.
func NewAPI(t interface {
	mock.TestingT
	Cleanup(func())
}) *API {
	m := &API{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *API) Handle(endpoint interface{}, h telebot.HandlerFunc, _ ...telebot.MiddlewareFunc) {
	m.Called(endpoint, h)
}

func (m *API) Start() {
	m.Called()
}

func (m *API) Stop() {
	m.Called()
}

func (m *API) Send(to telebot.Recipient, what interface{}, _ ...interface{}) (*telebot.Message, error) {
	args := m.Called(to, what)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*telebot.Message), args.Error(1)
}
