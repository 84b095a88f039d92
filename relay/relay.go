// Package relay provides the TCP server scaffolding shared by the
// transcription and synthesis relays: an accept loop with one goroutine
// per connection, an optional concurrency limit and per-connection
// deadline, and a registry of live connections.
package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Handler processes one accepted connection from header to reply. The
// relay closes the connection afterwards; the handler reports how the
// exchange ended and the accept loop does the logging.
type Handler func(ctx context.Context, conn net.Conn) error

// Config controls a relay listener. Zero MaxConns means unbounded
// concurrency; zero ConnTimeout means no deadline.
type Config struct {
	Addr        string
	MaxConns    int
	ConnTimeout time.Duration
}

// Conn describes one live connection in the registry.
type Conn struct {
	ID         uuid.UUID
	RemoteAddr string
	AcceptedAt time.Time
}

// Registry tracks connections currently being handled.
type Registry struct {
	mu    sync.RWMutex
	conns map[uuid.UUID]*Conn
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[uuid.UUID]*Conn)}
}

func (r *Registry) add(c *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[c.ID] = c
}

func (r *Registry) remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, id)
}

// Active returns a snapshot of the live connections.
func (r *Registry) Active() []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Conn, 0, len(r.conns))
	for _, c := range r.conns {
		out = append(out, *c)
	}
	return out
}

// Serve listens on cfg.Addr and dispatches each accepted connection to
// handler on its own goroutine. It returns when ctx is cancelled or the
// listener fails.
func Serve(ctx context.Context, cfg Config, registry *Registry, handler Handler) error {
	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Addr, err)
	}
	return ServeListener(ctx, cfg, listener, registry, handler)
}

// ServeListener is Serve with a caller-supplied listener. The listener
// is closed when ctx is cancelled.
func ServeListener(ctx context.Context, cfg Config, listener net.Listener, registry *Registry, handler Handler) error {
	slog.Info("Relay listening", "address", listener.Addr().String())

	go func() {
		<-ctx.Done()
		slog.Debug("Relay shutting down")
		listener.Close()
	}()

	var slots chan struct{}
	if cfg.MaxConns > 0 {
		slots = make(chan struct{}, cfg.MaxConns)
	}

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			slog.Error("Failed to accept connection", "error", err)
			continue
		}

		if slots != nil {
			slots <- struct{}{}
		}

		entry := &Conn{
			ID:         uuid.New(),
			RemoteAddr: conn.RemoteAddr().String(),
			AcceptedAt: time.Now(),
		}
		registry.add(entry)

		go func() {
			defer func() {
				conn.Close()
				registry.remove(entry.ID)
				if slots != nil {
					<-slots
				}
				slog.Debug("Connection closed", "connID", entry.ID, "remoteAddr", entry.RemoteAddr)
			}()

			if cfg.ConnTimeout > 0 {
				if err := conn.SetDeadline(time.Now().Add(cfg.ConnTimeout)); err != nil {
					slog.Error("Failed to set connection deadline", "error", err, "connID", entry.ID)
					return
				}
			}

			slog.Debug("New connection", "connID", entry.ID, "remoteAddr", entry.RemoteAddr)
			if err := handler(ctx, conn); err != nil {
				slog.Error("Connection handler failed",
					"error", err,
					"connID", entry.ID,
					"remoteAddr", entry.RemoteAddr)
			}
		}()
	}
}
