package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-Id"

// Transport stamps outgoing requests with the CLI user agent and a request ID
// and logs each round trip at debug level.
type Transport struct {
	Base      http.RoundTripper
	Logger    *zap.Logger
	UserAgent string
}

func NewTransport(base http.RoundTripper, logger *zap.Logger, userAgent string) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Transport{
		Base:      base,
		Logger:    logger,
		UserAgent: userAgent,
	}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())

	if t.UserAgent != "" {
		req.Header.Set("User-Agent", t.UserAgent)
	}

	if req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, uuid.NewString())
	}

	start := time.Now()
	log := t.Logger.With(
		zap.String("method", req.Method),
		zap.String("url", req.URL.Redacted()),
		zap.String("request_id", req.Header.Get(RequestIDHeader)),
	)

	resp, err := t.Base.RoundTrip(req)
	if err != nil {
		log.Debug("request failed", zap.Duration("elapsed", time.Since(start)), zap.Error(err))

		return nil, err
	}

	log.Debug("request completed", zap.Int("status", resp.StatusCode), zap.Duration("elapsed", time.Since(start)))

	return resp, nil
}
