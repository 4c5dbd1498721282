package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pawpremium/pkg/audit"
)

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) Store(ctx context.Context, event audit.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type ctxKey struct{}

type ipKey struct{}

func TestLogger_Log(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC)
	storage := audit.NewMemoryStorage()
	l := audit.NewLogger(storage,
		audit.WithClock(func() time.Time { return now }),
		audit.WithRequestIDExtractor(func(ctx context.Context) (string, bool) {
			id, ok := ctx.Value(ctxKey{}).(string)
			return id, ok
		}),
		audit.WithIPExtractor(func(ctx context.Context) (string, bool) {
			ip, ok := ctx.Value(ipKey{}).(string)
			return ip, ok
		}),
	)

	ctx := context.WithValue(context.Background(), ctxKey{}, "req-1")
	ctx = context.WithValue(ctx, ipKey{}, "192.0.2.1")
	require.NoError(t, l.Log(ctx, "premium.grant",
		audit.WithActor("root@example.com"),
		audit.WithUserID("u1"),
		audit.WithResource("user", "u1"),
		audit.WithMetadata("reason", "support"),
	))

	events, err := storage.Query(ctx, audit.Criteria{Action: "premium.grant"})
	require.NoError(t, err)
	require.Len(t, events, 1)

	e := events[0]
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, audit.ResultSuccess, e.Result)
	assert.Equal(t, "root@example.com", e.Actor)
	assert.Equal(t, "u1", e.UserID)
	assert.Equal(t, "req-1", e.RequestID)
	assert.Equal(t, "192.0.2.1", e.IP)
	assert.Equal(t, now, e.CreatedAt)
	assert.Equal(t, "support", e.Metadata["reason"])
}

func TestLogger_LogError(t *testing.T) {
	t.Parallel()

	storage := audit.NewMemoryStorage()
	l := audit.NewLogger(storage)
	ctx := context.Background()

	require.NoError(t, l.LogError(ctx, "subscription.cancel", errors.New("store down"),
		audit.WithResult(audit.ResultFailure)))

	events, err := storage.Query(ctx, audit.Criteria{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.ResultFailure, events[0].Result)
	assert.Equal(t, "store down", events[0].Error)
}

func TestLogger_Validation(t *testing.T) {
	t.Parallel()

	storage := &mockStorage{}
	l := audit.NewLogger(storage)

	err := l.Log(context.Background(), "")
	assert.ErrorIs(t, err, audit.ErrEventValidation)
	storage.AssertNotCalled(t, "Store", mock.Anything, mock.Anything)

	assert.Panics(t, func() { audit.NewLogger(nil) })
}

func TestLogger_StorageError(t *testing.T) {
	t.Parallel()

	storage := &mockStorage{}
	storage.On("Store", mock.Anything, mock.MatchedBy(func(e audit.Event) bool {
		return e.Action == "trial.cancel"
	})).Return(audit.ErrStorageNotAvailable).Once()

	l := audit.NewLogger(storage)
	err := l.Log(context.Background(), "trial.cancel")
	assert.ErrorIs(t, err, audit.ErrStorageNotAvailable)
	storage.AssertExpectations(t)
}

func TestMemoryStorage_Query(t *testing.T) {
	t.Parallel()

	storage := audit.NewMemoryStorage()
	ctx := context.Background()
	for i, action := range []string{"a", "b", "a", "a"} {
		require.NoError(t, storage.Store(ctx, audit.Event{ID: string(rune('0' + i)), Action: action, UserID: "u1"}))
	}

	events, err := storage.Query(ctx, audit.Criteria{Action: "a", Limit: 2})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "3", events[0].ID)
	assert.Equal(t, "2", events[1].ID)

	events, err = storage.Query(ctx, audit.Criteria{UserID: "u2"})
	require.NoError(t, err)
	assert.Empty(t, events)
}
