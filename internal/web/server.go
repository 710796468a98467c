package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vitos/trade_journal/internal/domain"
	"github.com/vitos/trade_journal/internal/usecase"
	"go.uber.org/zap"
)

type Server struct {
	router    *http.ServeMux
	server    *http.Server
	upgrader  websocket.Upgrader
	repo      domain.TradeRepository
	feed      domain.TradeFeed
	session   *usecase.EditSession
	dashboard *usecase.DashboardService
	now       func() time.Time
	logger    *zap.Logger
}

func NewServer(
	port int,
	repo domain.TradeRepository,
	feed domain.TradeFeed,
	session *usecase.EditSession,
	dashboard *usecase.DashboardService,
	logger *zap.Logger,
) *Server {
	s := &Server{
		router:    http.NewServeMux(),
		upgrader:  websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024},
		repo:      repo,
		feed:      feed,
		session:   session,
		dashboard: dashboard,
		now:       time.Now,
		logger:    logger,
	}
	s.routes()
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.router,
	}
	return s
}

func (s *Server) routes() {
	// Trades
	s.router.HandleFunc("GET /api/trades", s.handleListTrades)
	s.router.HandleFunc("GET /api/trades/{id}", s.handleGetTrade)
	s.router.HandleFunc("DELETE /api/trades/{id}", s.handleDeleteTrade)
	s.router.HandleFunc("DELETE /api/trades", s.handleDeleteAllTrades)

	// Dashboard
	s.router.HandleFunc("GET /api/dashboard", s.handleDashboard)

	// Edit session
	s.router.HandleFunc("GET /api/edit", s.handleGetEdit)
	s.router.HandleFunc("POST /api/edit", s.handleNewTrade)
	s.router.HandleFunc("POST /api/edit/save", s.handleSaveEdit)
	s.router.HandleFunc("POST /api/edit/{id}", s.handleLoadTrade)
	s.router.HandleFunc("PATCH /api/edit", s.handleApplyIntents)
	s.router.HandleFunc("DELETE /api/edit", s.handleAbandonEdit)

	// Live streams
	s.router.HandleFunc("GET /ws/trades", s.handleWSTrades)
	s.router.HandleFunc("GET /ws/trades/{id}", s.handleWSTrade)
	s.router.HandleFunc("GET /ws/dashboard", s.handleWSDashboard)
	s.router.HandleFunc("GET /ws/edit", s.handleWSEdit)

	// Status
	s.router.HandleFunc("GET /status", s.handleStatus)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// SetClock replaces the time source used for derived "today" fields.
// Call it before the server starts handling requests.
func (s *Server) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Server) Start() error {
	s.logger.Info("Starting web server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
