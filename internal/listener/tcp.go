package listener

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
)

// TcpListener serves the raw line protocol over plain TCP.
type TcpListener struct {
	port uint16
	cm   *ConnectionManager
}

func NewTcpListener(port uint16, cm *ConnectionManager) *TcpListener {
	return &TcpListener{
		port: port,
		cm:   cm,
	}
}

func (l *TcpListener) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", l.port))
	if err != nil {
		return fmt.Errorf("listening on port %d: %w", l.port, err)
	}

	slog.InfoContext(ctx, "listening for tcp", "port", l.port)
	return serve(ctx, listener, l.handleConnection)
}

func (l *TcpListener) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	slog.InfoContext(ctx, "tcp connection established", "remote", conn.RemoteAddr())
	l.cm.AcceptConnection(ctx, conn)
}

// serve accepts connections until ctx ends, then cancels the ones still open
// and waits for their handlers to return.
func serve(ctx context.Context, listener net.Listener, handle func(context.Context, net.Conn)) error {
	connCtx, cancelConns := context.WithCancel(context.WithoutCancel(ctx))
	var wg sync.WaitGroup

	// Close the listener when the parent context is canceled
	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			// Check if shutdown was requested
			select {
			case <-ctx.Done():
				cancelConns()
				wg.Wait()
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				cancelConns()
				wg.Wait()
				return fmt.Errorf("accepting connections: %w", err)
			}
			slog.ErrorContext(ctx, "accepting connection", "error", err)
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			handle(connCtx, conn)
		}()
	}
}
