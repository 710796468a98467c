package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vitos/trade_journal/internal/usecase"
	"github.com/vitos/trade_journal/internal/web"
	"go.uber.org/zap"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and WebSocket API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	formula, err := usecase.ParseTodayFormula(a.cfg.Dashboard.TodayFormula)
	if err != nil {
		return err
	}

	session := usecase.NewEditSession(a.store, a.log)
	dashboard := usecase.NewDashboardService(a.store, a.store, formula, a.log)

	port := a.cfg.Server.Port
	if servePort != 0 {
		port = servePort
	}
	server := web.NewServer(port, a.store, a.store, session, dashboard, a.log)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errc := make(chan error, 1)
	go func() {
		errc <- server.Start()
	}()

	select {
	case err := <-errc:
		if err != nil {
			a.log.Error("Server failed", zap.Error(err))
			return err
		}
		return nil
	case <-stop:
	}

	a.log.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		a.log.Error("Shutdown failed", zap.Error(err))
	}

	// A trade left in edit is not persisted on exit.
	if t := session.Current(); t != nil {
		a.log.Warn("Unsaved trade dropped on shutdown", zap.String("id", t.ID))
	}
	return nil
}
