package listener

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const wsWriteTimeout = 5 * time.Second

// WebsocketListener serves sessions to browser clients. Each text message
// from the client is one line; each write to the client is one message.
type WebsocketListener struct {
	port uint16
	path string
	cm   *ConnectionManager

	upgrader websocket.Upgrader

	wg          sync.WaitGroup
	connCtx     context.Context
	cancelConns context.CancelFunc
}

func NewWebsocketListener(port uint16, path string, cm *ConnectionManager) *WebsocketListener {
	if path == "" {
		path = "/ws"
	}
	connCtx, cancel := context.WithCancel(context.Background())
	return &WebsocketListener{
		port: port,
		path: path,
		cm:   cm,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 4 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		connCtx:     connCtx,
		cancelConns: cancel,
	}
}

func (l *WebsocketListener) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle(l.path, l.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", l.port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		l.Stop()
	}()

	slog.InfoContext(ctx, "listening for websocket", "port", l.port, "path", l.path)

	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving websocket on port %d: %w", l.port, err)
	}
	return nil
}

// Handler upgrades requests and runs a session on each connection.
func (l *WebsocketListener) Handler() http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		conn, err := l.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			slog.WarnContext(r.Context(), "websocket upgrade", "remote", r.RemoteAddr, "error", err)
			return
		}
		defer conn.Close()

		l.wg.Add(1)
		defer l.wg.Done()

		slog.InfoContext(r.Context(), "websocket connection established", "remote", conn.RemoteAddr())
		l.cm.AcceptConnection(l.connCtx, newWSReadWriter(conn))

		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
	})
}

// Stop cancels every open connection and waits for their sessions to end.
func (l *WebsocketListener) Stop() {
	l.cancelConns()
	l.wg.Wait()
}

// wsReadWriter presents a websocket connection as a byte stream. Each
// incoming message is followed by a newline.
type wsReadWriter struct {
	conn *websocket.Conn
	cur  io.Reader
	eol  bool
}

func newWSReadWriter(conn *websocket.Conn) *wsReadWriter {
	return &wsReadWriter{conn: conn}
}

func (w *wsReadWriter) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for {
		if w.eol {
			w.eol = false
			p[0] = '\n'
			return 1, nil
		}

		if w.cur == nil {
			typ, r, err := w.conn.NextReader()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					return 0, io.EOF
				}
				return 0, err
			}
			if typ != websocket.TextMessage {
				continue
			}
			w.cur = r
		}

		n, err := w.cur.Read(p)
		if errors.Is(err, io.EOF) {
			w.cur = nil
			w.eol = true
			err = nil
		}
		if n > 0 || err != nil {
			return n, err
		}
	}
}

func (w *wsReadWriter) Write(p []byte) (int, error) {
	_ = w.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := w.conn.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}
