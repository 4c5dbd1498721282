package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pawpremium/handler"
	"github.com/dmitrymomot/pawpremium/pkg/binder"
)

type mockResponse struct {
	statusCode int
	body       string
	renderErr  error
}

func (m mockResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if m.renderErr != nil {
		return m.renderErr
	}
	w.WriteHeader(m.statusCode)
	_, _ = w.Write([]byte(m.body))
	return nil
}

type userRequest struct {
	UserID string `json:"userId"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorDetail {
	t.Helper()
	var body handler.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestWrap(t *testing.T) {
	t.Parallel()

	t.Run("basic handler without options", func(t *testing.T) {
		t.Parallel()
		h := handler.HandlerFunc[handler.Context, string](func(ctx handler.Context, req string) handler.Response {
			assert.NotNil(t, ctx.Request())
			assert.Empty(t, req)
			return mockResponse{statusCode: http.StatusOK, body: "success"}
		})

		rec := httptest.NewRecorder()
		handler.Wrap(h)(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "success", rec.Body.String())
	})

	t.Run("render error becomes 500 envelope", func(t *testing.T) {
		t.Parallel()
		h := handler.HandlerFunc[handler.Context, string](func(handler.Context, string) handler.Response {
			return mockResponse{renderErr: errors.New("render failed")}
		})

		rec := httptest.NewRecorder()
		handler.Wrap(h)(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "internal_error", decodeError(t, rec).Code)
	})

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()
		h := handler.HandlerFunc[handler.Context, string](func(handler.Context, string) handler.Response {
			return nil
		})

		rec := httptest.NewRecorder()
		handler.Wrap(h)(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("binder populates request", func(t *testing.T) {
		t.Parallel()
		h := handler.HandlerFunc[handler.Context, userRequest](func(_ handler.Context, req userRequest) handler.Response {
			return handler.JSON(map[string]string{"userId": req.UserID})
		})
		wrapped := handler.Wrap(h, handler.WithBinder[handler.Context, userRequest](binder.JSON()))

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"userId":"u1"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		wrapped(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"userId":"u1"}`, rec.Body.String())
	})

	t.Run("binder error is a 400", func(t *testing.T) {
		t.Parallel()
		called := false
		h := handler.HandlerFunc[handler.Context, userRequest](func(handler.Context, userRequest) handler.Response {
			called = true
			return handler.JSON(nil)
		})
		wrapped := handler.Wrap(h, handler.WithBinder[handler.Context, userRequest](binder.JSON()))

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"userId":`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		wrapped(rec, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "bad_request", decodeError(t, rec).Code)
	})

	t.Run("not applicable binders are skipped", func(t *testing.T) {
		t.Parallel()
		skip := func(*http.Request, any) error { return binder.ErrBinderNotApplicable }
		h := handler.HandlerFunc[handler.Context, userRequest](func(handler.Context, userRequest) handler.Response {
			return mockResponse{statusCode: http.StatusAccepted}
		})

		rec := httptest.NewRecorder()
		handler.Wrap(h, handler.WithBinders[handler.Context, userRequest](skip))(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusAccepted, rec.Code)
	})

	t.Run("decorators run outermost first", func(t *testing.T) {
		t.Parallel()
		var order []string
		deco := func(name string) handler.Decorator[handler.Context, string] {
			return func(next handler.HandlerFunc[handler.Context, string]) handler.HandlerFunc[handler.Context, string] {
				return func(ctx handler.Context, req string) handler.Response {
					order = append(order, name)
					return next(ctx, req)
				}
			}
		}
		h := handler.HandlerFunc[handler.Context, string](func(handler.Context, string) handler.Response {
			order = append(order, "handler")
			return mockResponse{statusCode: http.StatusOK}
		})

		rec := httptest.NewRecorder()
		handler.Wrap(h, handler.WithDecorators(deco("outer"), deco("inner")))(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, []string{"outer", "inner", "handler"}, order)
	})
}

func TestJSON(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	err := handler.JSON(map[string]any{"success": true}, handler.WithJSONStatus(http.StatusCreated)).
		Render(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
}

func TestJSONError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{"http error", handler.NewHTTPError(http.StatusForbidden, "subscription_mismatch", "not yours"), http.StatusForbidden, "subscription_mismatch", "not yours"},
		{"wrapped http error", errors.Join(errors.New("cause"), handler.ErrNotFound), http.StatusNotFound, "not_found", "Not Found"},
		{"plain error hides detail", errors.New("db password wrong"), http.StatusInternalServerError, "internal_error", "Internal Server Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			require.NoError(t, handler.JSONError(tt.err).Render(rec, httptest.NewRequest(http.MethodGet, "/", nil)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			detail := decodeError(t, rec)
			assert.Equal(t, tt.wantCode, detail.Code)
			assert.Equal(t, tt.wantMessage, detail.Message)
		})
	}
}

var errDomain = errors.New("domain failure")

func TestNewErrorHandler(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	classify := func(err error) (handler.HTTPError, bool) {
		if errors.Is(err, errDomain) {
			return handler.ErrConflict.Wrap(err), true
		}
		return handler.HTTPError{}, false
	}
	errorHandler := handler.NewErrorHandler[handler.Context](log, classify)

	rec := httptest.NewRecorder()
	errorHandler(handler.NewContext(rec, httptest.NewRequest(http.MethodPost, "/x", nil)), errDomain)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "domain failure", decodeError(t, rec).Message)
	assert.Contains(t, buf.String(), `"level":"WARN"`)

	buf.Reset()
	rec = httptest.NewRecorder()
	errorHandler(handler.NewContext(rec, httptest.NewRequest(http.MethodPost, "/x", nil)), errors.New("secret"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret")
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
	assert.Contains(t, buf.String(), "secret")
}
