package relay

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func startRelay(t *testing.T, cfg Config, handler Handler) (string, *Registry, context.CancelFunc) {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	registry := NewRegistry()
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := ServeListener(ctx, cfg, listener, registry, handler); err != nil {
			t.Errorf("relay failed: %v", err)
		}
	}()

	t.Cleanup(func() {
		cancel()
		<-done
	})

	return listener.Addr().String(), registry, cancel
}

func TestServeDispatchesConnections(t *testing.T) {
	var handled atomic.Int32
	addr, _, _ := startRelay(t, Config{}, func(_ context.Context, conn net.Conn) error {
		handled.Add(1)
		buf := make([]byte, 8)
		n, _ := conn.Read(buf)
		_, err := conn.Write(buf[:n])
		return err
	})

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conn, err := net.Dial("tcp", addr)
			if err != nil {
				t.Errorf("dial failed: %v", err)
				return
			}
			defer conn.Close()

			conn.Write([]byte("ping"))
			buf := make([]byte, 8)
			n, err := conn.Read(buf)
			if err != nil || string(buf[:n]) != "ping" {
				t.Errorf("unexpected echo %q, err %v", buf[:n], err)
			}
		}()
	}
	wg.Wait()

	if handled.Load() != 3 {
		t.Fatalf("expected 3 handled connections, got %d", handled.Load())
	}
}

func TestServeMaxConns(t *testing.T) {
	release := make(chan struct{})
	var peak, current atomic.Int32

	addr, _, _ := startRelay(t, Config{MaxConns: 1}, func(_ context.Context, conn net.Conn) error {
		cur := current.Add(1)
		defer current.Add(-1)
		for {
			prev := peak.Load()
			if cur <= prev || peak.CompareAndSwap(prev, cur) {
				break
			}
		}
		<-release
		conn.Write([]byte("ok"))
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conn, err := net.Dial("tcp", addr)
			if err != nil {
				t.Errorf("dial failed: %v", err)
				return
			}
			defer conn.Close()
			buf := make([]byte, 2)
			conn.Read(buf)
		}()
	}

	// Let the first handler start, then unblock them all one by one.
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	if peak.Load() != 1 {
		t.Fatalf("expected at most 1 concurrent handler, saw %d", peak.Load())
	}
}

func TestServeDeadline(t *testing.T) {
	addr, _, _ := startRelay(t, Config{ConnTimeout: 50 * time.Millisecond}, func(_ context.Context, conn net.Conn) error {
		// Block on a read the client never satisfies; the deadline
		// must end it.
		buf := make([]byte, 1)
		_, err := conn.Read(buf)
		return err
	})

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	buf := make([]byte, 1)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, err := conn.Read(buf); err == nil {
		t.Fatal("expected the relay to close the connection")
	}
}

func TestRegistryTracksConnections(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})

	addr, reg, _ := startRelay(t, Config{}, func(_ context.Context, conn net.Conn) error {
		close(entered)
		<-release
		return nil
	})

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	<-entered
	active := reg.Active()
	if len(active) != 1 {
		t.Fatalf("expected 1 active connection, got %d", len(active))
	}
	if active[0].RemoteAddr == "" {
		t.Fatal("expected remote address to be recorded")
	}
	close(release)

	deadline := time.Now().Add(2 * time.Second)
	for len(reg.Active()) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("connection never left the registry")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
