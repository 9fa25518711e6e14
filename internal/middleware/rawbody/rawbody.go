package rawbody

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ContextKey is the echo context key holding the captured body.
const ContextKey = "raw_body"

// DefaultLimit matches the body cap Stripe's own webhook samples use.
const DefaultLimit int64 = 65536

// ErrBodyTooLarge is passed to ErrorHandler when the body exceeds Limit.
var ErrBodyTooLarge = errors.New("request body too large")

// Config defines the config for the raw body middleware.
type Config struct {
	// Limit is the maximum number of bytes read. Zero means DefaultLimit.
	Limit int64
	// ErrorHandler renders read failures. Defaults to an echo.HTTPError.
	ErrorHandler func(c echo.Context, err error) error
}

// New captures the request body exactly as received, before anything can
// decode or re-encode it, and makes it available through FromContext.
// The request body is restored so downstream readers still see the bytes.
func New(config Config) echo.MiddlewareFunc {
	limit := config.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	onError := config.ErrorHandler
	if onError == nil {
		onError = defaultErrorHandler
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			reader := http.MaxBytesReader(c.Response(), req.Body, limit)

			body, err := io.ReadAll(reader)
			if err != nil {
				var maxErr *http.MaxBytesError
				if errors.As(err, &maxErr) {
					return onError(c, fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, maxErr.Limit))
				}
				return onError(c, fmt.Errorf("error reading request body: %w", err))
			}

			c.Set(ContextKey, body)
			req.Body = io.NopCloser(bytes.NewReader(body))
			return next(c)
		}
	}
}

// FromContext returns the captured body, or false when the middleware did
// not run for this route.
func FromContext(c echo.Context) ([]byte, bool) {
	body, ok := c.Get(ContextKey).([]byte)
	return body, ok
}

func defaultErrorHandler(_ echo.Context, err error) error {
	if errors.Is(err, ErrBodyTooLarge) {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, err.Error())
	}
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}
