package web

import (
	"context"
	"net/http"
	"time"

	"github.com/vitos/trade_journal/internal/domain"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

func (s *Server) handleWSTrades(w http.ResponseWriter, r *http.Request) {
	serveStream(s, w, r, s.feed.WatchTrades, func(trades []*domain.TradeSave) any {
		return newTradeViews(trades, s.now())
	})
}

// handleWSTrade streams one trade; null while it does not exist.
func (s *Server) handleWSTrade(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	watch := func(ctx context.Context) <-chan *domain.TradeSave {
		return s.feed.WatchTrade(ctx, id)
	}
	serveStream(s, w, r, watch, func(t *domain.TradeSave) any {
		return newTradeView(t, s.now())
	})
}

func (s *Server) handleWSDashboard(w http.ResponseWriter, r *http.Request) {
	serveStream(s, w, r, s.dashboard.Watch, func(info domain.DashboardInfo) any {
		return info
	})
}

func (s *Server) handleWSEdit(w http.ResponseWriter, r *http.Request) {
	serveStream(s, w, r, s.session.Subscribe, func(t *domain.TradeSave) any {
		return newTradeView(t, s.now())
	})
}

// serveStream upgrades the connection and writes every value of the
// subscription as a JSON message until the client goes away.
func serveStream[T any](s *Server, w http.ResponseWriter, r *http.Request, subscribe func(context.Context) <-chan T, render func(T) any) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("WS upgrade failed", zap.String("path", r.URL.Path), zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Client messages are ignored; a read error means the peer is gone.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	s.logger.Debug("WS client connected", zap.String("path", r.URL.Path))
	for v := range subscribe(ctx) {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(render(v)); err != nil {
			s.logger.Debug("WS write error", zap.String("path", r.URL.Path), zap.Error(err))
			return
		}
	}
	s.logger.Debug("WS client disconnected", zap.String("path", r.URL.Path))
}
