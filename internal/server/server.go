// Package server exposes sessions over websockets. Every connection gets
// its own session, so bindings never leak between clients.
package server

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"ember/internal/config"
	"ember/internal/session"
)

const shutdownTimeout = 5 * time.Second

// Reply is the JSON document sent back for each message.
type Reply struct {
	ID     string   `json:"id"`
	Output string   `json:"output"`
	Errors []string `json:"errors"`
	Status string   `json:"status"`
}

type Server struct {
	cfg      config.Config
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func New(cfg config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		cfg:    cfg,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// Handler routes /ws and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})
	return mux
}

// Serve listens on the configured address until ctx is cancelled, then
// shuts down and closes open websocket connections.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", s.cfg.Server.Addr)
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("server listening", slog.String("addr", ln.Addr().String()))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "serve")
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.closeConns()
		s.logger.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) track(conn *websocket.Conn) {
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) untrack(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}

func (s *Server) closeConns() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		conn.Close()
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}
	s.track(conn)
	defer func() {
		s.untrack(conn)
		conn.Close()
	}()

	conn.SetReadLimit(s.cfg.Server.ReadLimit)
	remote := conn.RemoteAddr().String()
	logger := s.logger.With(slog.String("remote", remote))
	logger.Debug("client connected")

	var out bytes.Buffer
	sess := session.New(s.cfg, &out, logger)

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("client read failed", slog.Any("error", err))
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		out.Reset()
		res := sess.Exec(remote, string(data))
		if err := conn.WriteJSON(replyFor(res, out.String())); err != nil {
			logger.Warn("client write failed", slog.Any("error", err))
			return
		}
	}
}

func replyFor(res session.Result, output string) Reply {
	reply := Reply{
		ID:     res.RunID.String(),
		Output: output,
		Errors: []string{},
		Status: string(res.Status()),
	}
	for _, err := range res.Errors() {
		reply.Errors = append(reply.Errors, err.Error())
	}
	return reply
}
