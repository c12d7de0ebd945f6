package transport_test

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/dulengine/dul/transport"
)

func TestServeListenerInvokesOnAcceptPerConnection(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	accepted := make(chan struct{}, 1)

	done := make(chan error, 1)
	go func() {
		done <- transport.ServeListener(ctx, listener, transport.ServeOptions{Logger: zerolog.Nop()}, func(_ context.Context, conn net.Conn) {
			defer conn.Close()
			buf := make([]byte, 4)
			_, _ = io.ReadFull(conn, buf)
			accepted <- struct{}{}
		})
	}()

	conn, err := transport.Connect(context.Background(), listener.Addr().String(), transport.DialOptions{Timeout: time.Second})
	require.NoError(t, err)
	_, err = conn.Write([]byte("ping"))
	require.NoError(t, err)

	select {
	case <-accepted:
	case <-time.After(2 * time.Second):
		t.Fatal("onAccept was never invoked")
	}

	conn.Close()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("ServeListener did not return after context cancellation")
	}
}

func TestConnectToClosedPortFails(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	_, err = transport.Connect(context.Background(), addr, transport.DialOptions{Timeout: time.Second})
	require.Error(t, err)
}
