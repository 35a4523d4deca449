package server

import (
	// Go Internal Packages
	"context"
	"errors"
	"net/http"
	"time"

	// External Packages
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server is the HTTP front of the screening gate.
type Server struct {
	logger *zap.Logger
	server *http.Server
}

func New(logger *zap.Logger, addr string, isProdMode bool, payments *PaymentsHandler) *Server {
	if isProdMode {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	payments.RegisterRoutes(engine)

	return &Server{
		logger: logger,
		server: &http.Server{Addr: addr, Handler: engine},
	}
}

// Start serves until the context is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.server.Addr))
		if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}
