// Package server exposes sessions over a line-based TCP protocol.
//
// Each connection owns one session. The client must first send
// "new-grid BODY"; after that every command from the command package is
// accepted. Replies are either a single "error: ..." line or a frame: the
// rendered grid followed by a line holding FrameSep. While playback runs the
// server pushes a frame after every generation.
package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"conway/internal/command"
	"conway/internal/game"
)

// FrameSep terminates every grid frame.
const FrameSep = "%"

// Options configures a Server.
type Options struct {
	// Delay is the initial playback delay of each session.
	Delay time.Duration
	// WriteTimeout bounds each write to a client. Zero disables it.
	WriteTimeout time.Duration
	Logger       *log.Logger
}

// Server accepts connections and runs one session per client.
type Server struct {
	dispatcher *command.Dispatcher
	opts       Options
	logger     *log.Logger
}

// New returns a server that executes commands with d.
func New(d *command.Dispatcher, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Server{dispatcher: d, opts: opts, logger: logger}
}

// ListenAndServe listens on addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	s.logger.Printf("[Server] listening on %s", ln.Addr())
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done or accepting fails. It
// closes ln and every open connection before returning.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-ctx.Done()
		return ln.Close()
	})
	g.Go(func() error {
		for {
			conn, err := ln.Accept()
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("accept: %w", err)
			}
			g.Go(func() error {
				if err := s.handle(ctx, conn); err != nil {
					s.logger.Printf("[Server] %s: %v", conn.RemoteAddr(), err)
				}
				return nil
			})
		}
	})
	err := g.Wait()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

func (s *Server) handle(ctx context.Context, nc net.Conn) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, func() { nc.Close() })
	defer stop()
	defer nc.Close()

	s.logger.Printf("[Server] %s connected", nc.RemoteAddr())
	defer s.logger.Printf("[Server] %s disconnected", nc.RemoteAddr())

	c := &conn{nc: nc, w: bufio.NewWriter(nc), timeout: s.opts.WriteTimeout}
	var sess *game.Session
	defer func() {
		if sess != nil {
			// Unblock a playback push stuck on a slow client before waiting for it.
			nc.Close()
			sess.Close()
		}
	}()

	sc := bufio.NewScanner(nc)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		msg, err := command.Parse(line)
		if err != nil {
			if err := c.sendError(err); err != nil {
				return err
			}
			continue
		}

		if sess == nil {
			sess, err = s.setup(msg, c)
			if err != nil {
				if err := c.sendError(err); err != nil {
					return err
				}
				continue
			}
			if err := c.sendFrame(sess.Render()); err != nil {
				return err
			}
			continue
		}

		reply, err := s.dispatcher.Dispatch(ctx, sess, msg)
		switch {
		case errors.Is(err, command.ErrQuit):
			return nil
		case err != nil:
			err = c.sendError(err)
		default:
			err = c.sendFrame(reply)
		}
		if err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}

// setup builds the first grid of a connection from a new-grid message.
func (s *Server) setup(msg command.Message, c *conn) (*game.Session, error) {
	if msg.Name != command.NewGrid {
		return nil, command.SetupIncomplete()
	}
	if msg.Body == "" {
		return nil, &command.Error{Kind: command.KindMissingValue, Command: command.NewGrid}
	}
	g, err := s.dispatcher.Builder().Build(msg.Body)
	if err != nil {
		return nil, &command.Error{Kind: command.KindInvalidValue, Command: command.NewGrid, Err: err}
	}
	return game.NewSession(g, game.Options{
		Delay:  s.opts.Delay,
		Logger: s.logger,
		OnFrame: func(frame string) {
			if err := c.sendFrame(frame); err != nil {
				s.logger.Printf("[Server] push frame: %v", err)
			}
		},
	})
}

// conn serializes writes from the command loop and the playback goroutine.
type conn struct {
	mu      sync.Mutex
	nc      net.Conn
	w       *bufio.Writer
	timeout time.Duration
}

func (c *conn) writeLines(lines ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timeout > 0 {
		if err := c.nc.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
			return err
		}
	}
	for _, line := range lines {
		if _, err := c.w.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return c.w.Flush()
}

func (c *conn) sendFrame(frame string) error {
	return c.writeLines(append(strings.Split(frame, "\n"), FrameSep)...)
}

func (c *conn) sendError(err error) error {
	return c.writeLines(command.Reply(err))
}

// Addr returns the listen address from the PORT environment variable, or def
// when it is unset.
func Addr(def string) string {
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return def
}
