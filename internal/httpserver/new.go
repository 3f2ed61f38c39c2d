package httpserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	lineDelivery "line-calendar-bot/internal/assistant/delivery/line"
	"line-calendar-bot/pkg/log"
)

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin  *gin.Engine
	l    log.Logger
	port int
	mode string

	// LINE webhook
	lineHandler lineDelivery.Handler

	// Per-source throttle for the webhook route
	limiter *rateLimiter
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger log.Logger
	Port   int
	Mode   string

	// LINE webhook
	LineHandler lineDelivery.Handler

	// WebhookRequestsPerMinute caps webhook traffic per source IP.
	// Zero falls back to defaultWebhookRequestsPerMinute.
	WebhookRequestsPerMinute int
}

const defaultWebhookRequestsPerMinute = 120

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	rpm := cfg.WebhookRequestsPerMinute
	if rpm <= 0 {
		rpm = defaultWebhookRequestsPerMinute
	}

	srv := &HTTPServer{
		l:           logger,
		gin:         gin.Default(),
		port:        cfg.Port,
		mode:        cfg.Mode,
		lineHandler: cfg.LineHandler,
		limiter:     newRateLimiter(rpm),
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (srv HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	return nil
}
