package listener

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pixil98/go-testutil"
	"golang.org/x/crypto/ssh"

	"github.com/pixil98/go-survive/internal/session"
)

// echoRunner answers each line with "echo: <line>" until "bye".
type echoRunner struct {
	mu    sync.Mutex
	lines []string
	err   error
}

func (r *echoRunner) RunSession(ctx context.Context, conn io.ReadWriter) error {
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := scanner.Text()
		r.mu.Lock()
		r.lines = append(r.lines, line)
		r.mu.Unlock()
		if line == "bye" {
			break
		}
		if _, err := io.WriteString(conn, "echo: "+line+"\n"); err != nil {
			return err
		}
	}
	return r.err
}

func (r *echoRunner) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

// chunkReader returns one chunk per Read call.
type chunkReader struct {
	chunks []string
	out    bytes.Buffer
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if len(c.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, c.chunks[0])
	c.chunks = c.chunks[1:]
	return n, nil
}

func (c *chunkReader) Write(p []byte) (int, error) {
	return c.out.Write(p)
}

func TestCRLFReadWriter_Read(t *testing.T) {
	tests := map[string]struct {
		chunks []string
		exp    string
	}{
		"crlf": {
			chunks: []string{"look\r\n"},
			exp:    "look\n",
		},
		"bare cr": {
			chunks: []string{"look\rmap\r"},
			exp:    "look\nmap\n",
		},
		"lf only": {
			chunks: []string{"look\n"},
			exp:    "look\n",
		},
		"crlf split across reads": {
			chunks: []string{"look\r", "\nmap\r\n"},
			exp:    "look\nmap\n",
		},
		"blank lines kept": {
			chunks: []string{"\r\n\r\n"},
			exp:    "\n\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			rw := newCRLFReadWriter(&chunkReader{chunks: tt.chunks})
			got, err := io.ReadAll(rw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "read", string(got), tt.exp)
		})
	}
}

func TestCRLFReadWriter_Write(t *testing.T) {
	inner := &chunkReader{}
	rw := newCRLFReadWriter(inner)

	n, err := rw.Write([]byte("one\ntwo\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "n", n, 8)
	testutil.AssertEqual(t, "written", inner.out.String(), "one\r\ntwo\r\n")
}

func TestConnectionManager_AcceptConnection(t *testing.T) {
	tests := map[string]struct {
		err error
	}{
		"clean exit":        {},
		"too many sessions": {err: session.ErrTooManySessions},
		"session failure":   {err: io.ErrUnexpectedEOF},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			runner := &echoRunner{err: tt.err}
			cm := NewConnectionManager(runner)

			conn := &chunkReader{chunks: []string{"hello\n", "bye\n"}}
			cm.AcceptConnection(context.Background(), conn)

			testutil.AssertEqual(t, "lines", strings.Join(runner.seen(), ","), "hello,bye")
			testutil.AssertEqual(t, "output", conn.out.String(), "echo: hello\n")
		})
	}
}

func TestServe_TcpRoundTrip(t *testing.T) {
	runner := &echoRunner{}
	l := NewTcpListener(0, NewConnectionManager(runner))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, ln, l.handleConnection) }()

	conn, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	reader := bufio.NewReader(conn)
	if _, err := io.WriteString(conn, "look\r\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := reader.ReadString('\n')
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	testutil.AssertEqual(t, "reply", got, "echo: look\n")

	conn.Close()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve() unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not stop")
	}
}

func TestWebsocketListener_RoundTrip(t *testing.T) {
	runner := &echoRunner{}
	l := NewWebsocketListener(0, "", NewConnectionManager(runner))

	srv := httptest.NewServer(l.Handler())
	defer srv.Close()
	defer l.Stop()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	for _, line := range []string{"look", "map 2"} {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
			t.Fatalf("write: %v", err)
		}
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		testutil.AssertEqual(t, "reply", string(msg), "echo: "+line+"\n")
	}

	testutil.AssertEqual(t, "lines", strings.Join(runner.seen(), ","), "look,map 2")
}

func TestSshListener_RoundTrip(t *testing.T) {
	hostKey, err := LoadOrCreateHostKey("")
	if err != nil {
		t.Fatalf("host key: %v", err)
	}

	runner := &echoRunner{}
	l := NewSshListener(0, NewConnectionManager(runner), hostKey)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = serve(ctx, ln, l.handleConnection) }()

	client, err := ssh.Dial("tcp", ln.Addr().String(), &ssh.ClientConfig{
		User:            "anyone",
		HostKeyCallback: ssh.FixedHostKey(hostKey.PublicKey()),
		Timeout:         2 * time.Second,
	})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	sess, err := client.NewSession()
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	defer sess.Close()

	stdin, err := sess.StdinPipe()
	if err != nil {
		t.Fatalf("stdin: %v", err)
	}
	stdout, err := sess.StdoutPipe()
	if err != nil {
		t.Fatalf("stdout: %v", err)
	}
	if err := sess.Shell(); err != nil {
		t.Fatalf("shell: %v", err)
	}

	if _, err := io.WriteString(stdin, "look\r"); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := bufio.NewReader(stdout).ReadString('\n')
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	testutil.AssertEqual(t, "reply", got, "echo: look\r\n")
}

func TestLoadOrCreateHostKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "host_key")

	first, err := LoadOrCreateHostKey(path)
	if err != nil {
		t.Fatalf("creating key: %v", err)
	}
	second, err := LoadOrCreateHostKey(path)
	if err != nil {
		t.Fatalf("loading key: %v", err)
	}

	testutil.AssertEqual(t, "same key",
		string(first.PublicKey().Marshal()), string(second.PublicKey().Marshal()))
}

func TestLoadOrCreateHostKey_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "host_key")
	if err := os.WriteFile(path, []byte("not a key"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := LoadOrCreateHostKey(path)
	testutil.AssertErrorContains(t, err, "parsing host key")
}

func TestSshListener_RepeatedShellRequest(t *testing.T) {
	hostKey, err := LoadOrCreateHostKey("")
	if err != nil {
		t.Fatalf("host key: %v", err)
	}

	runner := &echoRunner{}
	l := NewSshListener(0, NewConnectionManager(runner), hostKey)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = serve(ctx, ln, l.handleConnection) }()

	client, err := ssh.Dial("tcp", ln.Addr().String(), &ssh.ClientConfig{
		User:            "anyone",
		HostKeyCallback: ssh.FixedHostKey(hostKey.PublicKey()),
		Timeout:         2 * time.Second,
	})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	ch, reqs, err := client.OpenChannel("session", nil)
	if err != nil {
		t.Fatalf("open channel: %v", err)
	}
	defer ch.Close()
	go ssh.DiscardRequests(reqs)

	ok, err := ch.SendRequest("shell", true, nil)
	if err != nil {
		t.Fatalf("first shell: %v", err)
	}
	testutil.AssertEqual(t, "first shell accepted", ok, true)

	ok, err = ch.SendRequest("shell", true, nil)
	if err != nil {
		t.Fatalf("second shell: %v", err)
	}
	testutil.AssertEqual(t, "second shell accepted", ok, false)

	// The session carries on after the refused request.
	if _, err := io.WriteString(ch, "look\r"); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := bufio.NewReader(ch).ReadString('\n')
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	testutil.AssertEqual(t, "reply", got, "echo: look\r\n")
}
