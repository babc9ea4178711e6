package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sandevgo/aimee/internal/config"
	"github.com/sandevgo/aimee/internal/core"
	"github.com/sandevgo/aimee/internal/providers/llm"
	"github.com/sandevgo/aimee/pkg/log"
)

// InboundHandler processes one inbound SMS and returns the reply text;
// empty means "acknowledge without replying".
type InboundHandler interface {
	HandleInbound(ctx context.Context, phone, body, providerID string) string
}

// ModeController is the operator control surface over the AI router.
type ModeController interface {
	SwitchMode(mode core.Mode) error
	Status() llm.Status
}

// ServiceStatus reports which collaborators are configured, surfaced
// on the health endpoint.
type ServiceStatus struct {
	Twilio   bool `json:"twilio"`
	AI       bool `json:"ai"`
	Database bool `json:"database"`
}

type Server struct {
	srv      *http.Server
	handler  InboundHandler
	mode     ModeController
	budget   time.Duration
	services ServiceStatus
}

func NewServer(ctx context.Context, cfg *config.AppConfig, h InboundHandler, mode ModeController, services ServiceStatus) *Server {
	s := &Server{
		handler:  h,
		mode:     mode,
		budget:   cfg.WebhookBudget,
		services: services,
	}

	r := chi.NewRouter()
	r.Use(RequestID())
	r.Use(RequestLogger())
	r.Use(Recovery())

	// The SMS webhook is authenticated upstream by Twilio and carries
	// its own timeout budget; the limiter guards everything else.
	r.Post("/sms", s.handleSMS)

	r.Group(func(g chi.Router) {
		g.Use(RateLimit(NewClientLimiter(1, 10)))
		g.Get("/", s.handleRoot)
		g.Get("/health", s.handleHealth)
		g.Get("/admin/mode", s.handleModeStatus)
		g.Post("/admin/mode", s.handleSwitchMode)
	})

	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}
	return s
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", s.srv.Addr).Msg("starting http server")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	// The parent context is already cancelled at shutdown time; give
	// in-flight requests their own grace window.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}
