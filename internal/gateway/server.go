// Package gateway is the honeypot's HTTP front door: the message ingest
// endpoint, the operator session API, the Prometheus exposition endpoint,
// and a push-only WebSocket feed of engine lifecycle events.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/agent"
	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/config"
	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/hooks"
	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/logging"
	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/store"
)

// ErrClientClosed is returned when sending on a closed feed connection.
var ErrClientClosed = errors.New("client connection closed")

// feedEvents are the engine lifecycle events pushed to the operator feed.
var feedEvents = []string{
	hooks.EventSessionCreated,
	hooks.EventMessageReceived,
	hooks.EventScamDetected,
	hooks.EventAgentReplied,
	hooks.EventCallbackSent,
	hooks.EventCallbackFailed,
	hooks.EventSessionExpired,
}

// Server serves the honeypot HTTP and WebSocket surface.
type Server struct {
	cfg     config.GatewayConfig
	log     *logging.Logger
	engine  *agent.Controller
	store   store.Store
	hooks   *hooks.Manager
	clients *ClientRegistry
	metrics *Metrics

	limiter  *rate.Limiter
	replays  *cache.Cache
	eventSeq atomic.Int64

	upgrader    websocket.Upgrader
	authLimiter *authRateLimiter

	handler    http.Handler
	httpServer *http.Server
}

// New creates a gateway server and wires engine events into the feed and
// the metrics counters. hm may be nil; the feed then stays silent.
func New(cfg config.GatewayConfig, engine *agent.Controller, st store.Store, hm *hooks.Manager, log *logging.Logger) *Server {
	s := &Server{
		cfg:         cfg,
		log:         log.Sub("gateway"),
		engine:      engine,
		store:       st,
		hooks:       hm,
		clients:     NewClientRegistry(log.Sub("feed")),
		replays:     cache.New(idempotencyTTL, 10*time.Minute),
		authLimiter: newAuthRateLimiter(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     checkWebSocketOrigin(cfg.AllowedOrigins),
		},
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = int(cfg.RateLimit)
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	s.metrics = NewMetrics(st, s.clients)
	s.handler = s.buildRouter()
	s.subscribeHooks()
	return s
}

// subscribeHooks connects engine lifecycle events to the operator feed and
// the metrics counters.
func (s *Server) subscribeHooks() {
	if s.hooks == nil {
		return
	}

	for _, event := range feedEvents {
		s.hooks.On(event, "gateway-feed", s.broadcastEvent)
	}

	s.hooks.On(hooks.EventCallbackSent, "gateway-metrics", func(context.Context, hooks.Payload) error {
		s.metrics.Callbacks.WithLabelValues("sent").Inc()
		return nil
	})
	s.hooks.On(hooks.EventCallbackFailed, "gateway-metrics", func(context.Context, hooks.Payload) error {
		s.metrics.Callbacks.WithLabelValues("failed").Inc()
		return nil
	})
	s.hooks.On(hooks.EventAgentReplied, "gateway-metrics", func(_ context.Context, p hooks.Payload) error {
		if ms, ok := p.Data["durationMs"].(int64); ok {
			s.metrics.ReplyLatency.Observe(float64(ms) / 1000)
		}
		return nil
	})
}

// broadcastEvent pushes one hook payload to every connected feed client.
func (s *Server) broadcastEvent(_ context.Context, p hooks.Payload) error {
	s.clients.Broadcast(NewEventFrame(p.Event, p.Data, s.eventSeq.Add(1)))
	return nil
}

// checkWebSocketOrigin validates WebSocket Origin headers. With no origins
// configured, only same-origin or non-browser clients (no Origin header)
// connect. Configured origins must match exactly, or be "*".
func checkWebSocketOrigin(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}

// Handler returns the assembled HTTP handler. Exposed for tests and for
// embedding the gateway under an outer mux.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
}

// Start listens and serves until the context is cancelled, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := s.Addr()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.log.Info().
		Str("addr", ln.Addr().String()).
		Bool("operatorAuth", s.cfg.AuthToken != "").
		Bool("ingestAuth", s.cfg.IngestToken != "").
		Msg("gateway listening")

	if s.hooks != nil {
		s.hooks.Emit(ctx, hooks.EventGatewayStart, map[string]any{
			"addr": ln.Addr().String(),
		})
	}

	go func() {
		<-ctx.Done()
		s.log.Info().Msg("shutting down gateway")
		if s.hooks != nil {
			s.hooks.Emit(context.Background(), hooks.EventGatewayStop, nil)
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.clients.CloseAll()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// handleFeed authenticates and upgrades an operator feed connection. The
// feed is push-only; the read loop exists to consume control frames and
// notice the disconnect.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	if !s.authLimiter.allow(r.RemoteAddr) {
		s.log.Warn().Str("remote", r.RemoteAddr).Msg("feed connection rate limited")
		s.metrics.Rejected.WithLabelValues("rate_limited").Inc()
		writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many failed authentication attempts")
		return
	}
	if !authorized(r, s.cfg.AuthToken) {
		s.authLimiter.recordFailure(r.RemoteAddr)
		s.metrics.Rejected.WithLabelValues("unauthorized").Inc()
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing bearer token")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	conn.SetReadLimit(1024)

	client := NewFeedClient(conn, s.log.Sub("feed"))
	s.clients.Add(client)
	defer func() {
		s.clients.Remove(client.ConnID)
		client.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) &&
				!errors.Is(err, net.ErrClosed) {
				s.log.Debug().Err(err).Str("connId", client.ConnID).Msg("feed read ended")
			}
			return
		}
	}
}
