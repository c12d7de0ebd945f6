// Package transport implements L1 (spec.md §4.1): owning the TCP
// socket, an optional TLS wrap, and the accept loop that hands each new
// connection to a caller-supplied worker. It does no PDU-level parsing;
// everything above this layer only ever sees a net.Conn.
package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rs/zerolog"

	"github.com/dulengine/dul/dulerr"
)

// DialOptions configures Connect. TLSConfig nil means a plain TCP
// connection; LocalAddr nil lets the OS pick the outbound address.
type DialOptions struct {
	TLSConfig *tls.Config
	LocalAddr net.Addr
	Timeout   time.Duration
}

// Connect opens a TCP connection to addr, wrapping it in TLS when
// opts.TLSConfig is set, and returns the duplex byte channel the DUL
// reactor reads and writes PDUs on (spec.md §4.1's `connect`).
func Connect(ctx context.Context, addr string, opts DialOptions) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: opts.Timeout, LocalAddr: opts.LocalAddr}

	var (
		conn net.Conn
		err  error
	)
	if opts.TLSConfig != nil {
		tlsDialer := &tls.Dialer{NetDialer: dialer, Config: opts.TLSConfig}
		conn, err = tlsDialer.DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, &dulerr.ConnectionFailure{Addr: addr, Err: err}
	}
	return conn, nil
}

// ServeOptions configures Serve. TLSConfig nil serves plain TCP.
type ServeOptions struct {
	TLSConfig *tls.Config
	// Backlog is advisory; Go's net package does not expose listen
	// backlog tuning, so this is accepted for API parity with spec.md
	// §4.1's `serve(addr, tls_config?, backlog, on_accept)` and is
	// otherwise unused.
	Backlog int
	Logger  zerolog.Logger
}

// OnAccept is invoked once per accepted connection, in its own task
// (spec.md §5: "an acceptor spawns one such task per accepted
// connection"). It owns conn for the lifetime of the association; it
// must close conn before returning.
type OnAccept func(ctx context.Context, conn net.Conn)

// Serve binds addr, listens, and invokes onAccept for every accepted
// connection until ctx is cancelled or the listener fails
// unrecoverably (spec.md §4.1's `serve`; §5's "the server loop itself
// is another task"). It blocks until every spawned connection task has
// returned.
func Serve(ctx context.Context, addr string, opts ServeOptions, onAccept OnAccept) error {
	var (
		listener net.Listener
		err      error
	)
	if opts.TLSConfig != nil {
		listener, err = tls.Listen("tcp", addr, opts.TLSConfig)
	} else {
		listener, err = net.Listen("tcp", addr)
	}
	if err != nil {
		return &dulerr.ConnectionFailure{Addr: addr, Err: err}
	}
	return ServeListener(ctx, listener, opts, onAccept)
}

// ServeListener is Serve for a caller-supplied listener (e.g. one bound
// to an ephemeral port for tests).
func ServeListener(ctx context.Context, listener net.Listener, opts ServeOptions, onAccept OnAccept) error {
	log := opts.Logger

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		<-gctx.Done()
		return listener.Close()
	})

	log.Info().Str("addr", listener.Addr().String()).Msg("transport: listening")

	for {
		conn, err := listener.Accept()
		if err != nil {
			if gctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				log.Warn().Err(err).Msg("transport: accept timeout, retrying")
				continue
			}
			cancel()
			_ = group.Wait()
			return fmt.Errorf("transport: accept failed: %w", err)
		}

		group.Go(func() error {
			onAccept(gctx, conn)
			return nil
		})
	}

	return group.Wait()
}
