package logger_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pawpremium/pkg/logger"
)

func TestGroup(t *testing.T) {
	attr := logger.Group("req", slog.String("id", "1"), slog.Int("n", 2))
	require.Equal(t, "req", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "id", g[0].Key)
	assert.Equal(t, "n", g[1].Key)
}

func TestErrors(t *testing.T) {
	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, err1, g[0].Value.Any())
	assert.Equal(t, err2, g[1].Value.Any())

	empty := logger.Errors(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestError(t *testing.T) {
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	empty := logger.Error(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestUserID(t *testing.T) {
	attr := logger.UserID("123")
	require.Equal(t, "user_id", attr.Key)
	assert.Equal(t, "123", attr.Value.Any())
}

func TestSubscriptionID(t *testing.T) {
	attr := logger.SubscriptionID("sub_1")
	require.Equal(t, "subscription_id", attr.Key)
	assert.Equal(t, "sub_1", attr.Value.String())

	assert.True(t, logger.SubscriptionID("").Equal(slog.Attr{}))
}

func TestSessionID(t *testing.T) {
	attr := logger.SessionID("cs_1")
	require.Equal(t, "session_id", attr.Key)
	assert.Equal(t, "cs_1", attr.Value.String())
}

func TestActor(t *testing.T) {
	attr := logger.Actor("admin@example.com")
	require.Equal(t, "actor", attr.Key)
	assert.True(t, logger.Actor("").Equal(slog.Attr{}))
}

func TestRequestID(t *testing.T) {
	attr := logger.RequestID("abc")
	require.Equal(t, "request_id", attr.Key)
	assert.Equal(t, "abc", attr.Value.Any())
}

func TestOperation(t *testing.T) {
	attr := logger.Operation("cancel_subscription")
	require.Equal(t, "operation", attr.Key)
	assert.Equal(t, "cancel_subscription", attr.Value.String())
}

func TestProviderCode(t *testing.T) {
	attr := logger.ProviderCode("resource_missing")
	require.Equal(t, "provider_code", attr.Key)
	assert.Equal(t, "resource_missing", attr.Value.String())

	assert.True(t, logger.ProviderCode("").Equal(slog.Attr{}))
}
