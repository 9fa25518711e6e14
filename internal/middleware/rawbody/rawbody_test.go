package rawbody

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CapturesExactBytes(t *testing.T) {
	// Whitespace and key order must survive untouched.
	payload := "{\n  \"b\": 1,   \"a\": [ 2 ]\n}"

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var captured []byte
	var reread []byte
	h := New(Config{})(func(c echo.Context) error {
		var ok bool
		captured, ok = FromContext(c)
		require.True(t, ok)

		var err error
		reread, err = io.ReadAll(c.Request().Body)
		require.NoError(t, err)
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, h(c))
	assert.Equal(t, payload, string(captured))
	assert.Equal(t, payload, string(reread))
}

func TestNew_RejectsOversizedBody(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(strings.Repeat("x", 32)))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var handlerErr error
	called := false
	h := New(Config{
		Limit: 16,
		ErrorHandler: func(c echo.Context, err error) error {
			handlerErr = err
			return c.String(http.StatusBadRequest, "Webhook Error: "+err.Error())
		},
	})(func(c echo.Context) error {
		called = true
		return nil
	})

	require.NoError(t, h(c))
	assert.False(t, called)
	assert.True(t, errors.Is(handlerErr, ErrBodyTooLarge))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Webhook Error: request body too large")
}

func TestNew_DefaultErrorHandler(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(strings.Repeat("x", 32)))
	c := e.NewContext(req, httptest.NewRecorder())

	err := New(Config{Limit: 8})(func(c echo.Context) error { return nil })(c)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusRequestEntityTooLarge, he.Code)
}

func TestFromContext_Missing(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), httptest.NewRecorder())

	_, ok := FromContext(c)
	assert.False(t, ok)
}
