package server

import (
	"bufio"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"conway/internal/command"
	"conway/internal/core"
	"conway/pkg/life"
)

type client struct {
	t    *testing.T
	conn net.Conn
	r    *bufio.Reader
}

func startServer(t *testing.T, opts Options) (string, context.CancelFunc, <-chan error) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	d := command.NewDispatcher(&command.Builder{Alive: '*', Backend: life.BackendDense, Size: core.Size{W: 5, H: 5}})
	srv := New(d, opts)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()
	t.Cleanup(cancel)
	return ln.Addr().String(), cancel, done
}

func dial(t *testing.T, addr string) *client {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return &client{t: t, conn: conn, r: bufio.NewReader(conn)}
}

func (c *client) send(line string) {
	c.t.Helper()
	if _, err := c.conn.Write([]byte(line + "\n")); err != nil {
		c.t.Fatal(err)
	}
}

func (c *client) readLine() string {
	c.t.Helper()
	c.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	line, err := c.r.ReadString('\n')
	if err != nil {
		c.t.Fatalf("read: %v", err)
	}
	return strings.TrimRight(line, "\n")
}

func (c *client) readFrame() string {
	c.t.Helper()
	var lines []string
	for {
		line := c.readLine()
		if line == FrameSep {
			return strings.Join(lines, "\n")
		}
		if strings.HasPrefix(line, "error: ") {
			c.t.Fatalf("unexpected error reply %q", line)
		}
		lines = append(lines, line)
	}
}

func TestHandshakeRequired(t *testing.T) {
	addr, _, _ := startServer(t, Options{})
	c := dial(t, addr)

	c.send("tick")
	if got, want := c.readLine(), "error: setup incomplete: client must send `new-grid` to initialize the game grid"; got != want {
		t.Fatalf("reply=%q, expected %q", got, want)
	}
	c.send("new-grid")
	if got, want := c.readLine(), "error: missing value for `new-grid`"; got != want {
		t.Fatalf("reply=%q, expected %q", got, want)
	}
	c.send("%%%")
	if got, want := c.readLine(), "error: invalid syntax: could not parse message"; got != want {
		t.Fatalf("reply=%q, expected %q", got, want)
	}
	c.send("new-grid --sample nope")
	if got := c.readLine(); !strings.HasPrefix(got, "error: invalid value for `new-grid`") {
		t.Fatalf("reply=%q, expected an invalid value error", got)
	}
	c.send("new-grid .....")
	if got := c.readFrame(); got != "....." {
		t.Fatalf("frame=%q, expected a single dead row", got)
	}
}

func TestTickOverTheWire(t *testing.T) {
	addr, _, _ := startServer(t, Options{})
	c := dial(t, addr)

	c.send("new-grid ...../..*../..*../..*../.....")
	if got, want := c.readFrame(), ".....\n..*..\n..*..\n..*..\n....."; got != want {
		t.Fatalf("initial frame=%q, expected %q", got, want)
	}

	c.send("tick")
	if got, want := c.readFrame(), ".....\n.....\n.***.\n.....\n....."; got != want {
		t.Fatalf("frame=%q, expected %q", got, want)
	}

	c.send("tick 0")
	if got, want := c.readLine(), "error: invalid value for `tick`: expected a positive integer"; got != want {
		t.Fatalf("reply=%q, expected %q", got, want)
	}
	c.send("fly")
	if got, want := c.readLine(), "error: invalid command `fly`"; got != want {
		t.Fatalf("reply=%q, expected %q", got, want)
	}

	c.send("status")
	status := c.readFrame()
	if !strings.Contains(status, "generation=1") {
		t.Fatalf("status=%q, expected generation=1", status)
	}
}

func TestPlaybackPushesFrames(t *testing.T) {
	addr, _, _ := startServer(t, Options{Delay: time.Hour})
	c := dial(t, addr)

	c.send("new-grid ...../..*../..*../..*../.....")
	c.readFrame()
	c.send("set-delay 0.001")
	c.readFrame()

	c.send("toggle-playback")
	c.readFrame()
	horizontal := ".....\n.....\n.***.\n.....\n....."
	vertical := ".....\n..*..\n..*..\n..*..\n....."
	for i := 0; i < 3; i++ {
		got := c.readFrame()
		if got != horizontal && got != vertical {
			t.Fatalf("pushed frame %d is not a blinker phase: %q", i, got)
		}
	}
	c.send("quit")
}

func TestShutdownClosesConnections(t *testing.T) {
	addr, cancel, done := startServer(t, Options{})
	c := dial(t, addr)
	c.send("new-grid *")
	c.readFrame()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}

	c.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, err := c.r.ReadString('\n'); err == nil {
		t.Fatal("expected the connection to be closed")
	}
}

func TestAddr(t *testing.T) {
	t.Setenv("PORT", "")
	if got := Addr("localhost:8765"); got != "localhost:8765" {
		t.Fatalf("Addr=%q", got)
	}
	t.Setenv("PORT", "9000")
	if got := Addr("localhost:8765"); got != ":9000" {
		t.Fatalf("Addr=%q", got)
	}
}
