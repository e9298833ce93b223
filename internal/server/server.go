package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/rs/cors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Mohsinsiddi/w3gate/internal/config"
	"github.com/Mohsinsiddi/w3gate/internal/logger"
)

// Server exposes a Handler over JSON-RPC on HTTP.
type Server struct {
	rpc     *rpc.Server
	handler http.Handler
	log     *zap.Logger
}

// New registers the wallet and eth namespaces for h. corsOrigins lists the
// origins browsers may call from; empty disables CORS headers.
func New(h Handler, corsOrigins []string, log *zap.Logger) (*Server, error) {
	srv := rpc.NewServer()
	if err := srv.RegisterName("wallet", &WalletAPI{h: h}); err != nil {
		return nil, fmt.Errorf("registering wallet namespace: %w", err)
	}
	if err := srv.RegisterName("eth", &EthAPI{h: h}); err != nil {
		return nil, fmt.Errorf("registering eth namespace: %w", err)
	}
	return &Server{
		rpc:     srv,
		handler: newCorsHandler(srv, corsOrigins),
		log:     logger.OrNop(log).With(zap.String("component", "server")),
	}, nil
}

// Handler returns the HTTP handler serving JSON-RPC.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Dispatch runs one raw JSON-RPC body, single or batch, through the same
// server an HTTP client reaches, as if sent from origin. It returns the raw
// response body, which is empty when body held only notifications.
func (s *Server) Dispatch(ctx context.Context, body []byte, origin string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "/", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if origin != "" {
		req.Header.Set("Origin", origin)
	}

	rec := httptest.NewRecorder()
	s.rpc.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		return nil, fmt.Errorf("request refused: %s: %s", http.StatusText(rec.Code), strings.TrimSpace(rec.Body.String()))
	}
	return rec.Body.Bytes(), nil
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. It returns nil after a clean shutdown.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpSrv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: config.ReadHeaderTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("serving JSON-RPC", zap.String("addr", ln.Addr().String()))
		errc <- httpSrv.Serve(ln)
	}()

	select {
	case err := <-errc:
		s.rpc.Stop()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	err := httpSrv.Shutdown(shutdownCtx)
	s.rpc.Stop()
	if serveErr := <-errc; !errors.Is(serveErr, http.ErrServerClosed) {
		err = multierr.Append(err, serveErr)
	}
	s.log.Info("server stopped", zap.Error(err))
	return err
}

func newCorsHandler(srv http.Handler, allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		return srv
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodPost, http.MethodGet},
		AllowedHeaders: []string{"*"},
		MaxAge:         600,
	})
	return c.Handler(srv)
}
