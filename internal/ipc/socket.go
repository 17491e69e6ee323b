package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/padwatch/internal/engine"
	"github.com/charmbracelet/log"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// subscriberQueue is how many frames a subscriber may fall behind before
	// it is dropped
	subscriberQueue = 16
	writeTimeout    = time.Second
)

// Server broadcasts engine events to every process connected to its Unix
// socket. It is a write-only stream: clients never send anything.
type Server struct {
	mu         sync.Mutex
	listener   net.Listener
	socketPath string
	version    string
	logger     *log.Logger
	subs       map[*subscriber]struct{}
	wg         sync.WaitGroup
	cancel     context.CancelFunc
	running    bool
}

type subscriber struct {
	conn   net.Conn
	frames chan *structpb.Struct
	once   sync.Once
}

func (s *subscriber) close() {
	s.once.Do(func() {
		close(s.frames)
	})
}

// NewServer creates a server for socketPath
func NewServer(socketPath, version string, logger *log.Logger) *Server {
	return &Server{
		socketPath: socketPath,
		version:    version,
		logger:     logger,
		subs:       make(map[*subscriber]struct{}),
	}
}

// SocketPath returns the path the server listens on
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start starts the socket server
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	// Remove a stale socket left by a crashed instance
	if err := os.RemoveAll(s.socketPath); err != nil {
		return fmt.Errorf("failed to remove existing socket: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.socketPath), 0755); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create socket listener: %w", err)
	}

	// Set socket permissions (user only)
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.listener = listener
	s.running = true

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go s.acceptConnections(ctx)

	s.logger.Infof("IPC event socket listening at %s", s.socketPath)
	return nil
}

// Stop closes every subscriber and removes the socket file
func (s *Server) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.cancel()
	s.listener.Close()
	for sub := range s.subs {
		sub.close()
		delete(s.subs, sub)
	}
	s.mu.Unlock()

	s.wg.Wait()
	os.RemoveAll(s.socketPath)
	s.logger.Info("IPC event socket stopped")
}

// Subscribers returns how many clients are connected
func (s *Server) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Handle is an engine.Handler that broadcasts ev
func (s *Server) Handle(ev engine.Event) {
	msg, err := EncodeEvent(ev)
	if err != nil {
		s.logger.Error("Failed to encode event", "err", err)
		return
	}
	s.Broadcast(msg)
}

// Broadcast queues msg for every subscriber. A subscriber whose queue is full
// is disconnected.
func (s *Server) Broadcast(msg *structpb.Struct) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for sub := range s.subs {
		select {
		case sub.frames <- msg:
		default:
			s.logger.Warn("IPC subscriber too slow, dropping it")
			sub.close()
			delete(s.subs, sub)
		}
	}
}

func (s *Server) acceptConnections(ctx context.Context) {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Errorf("Failed to accept connection: %v", err)
			continue
		}

		sub := &subscriber{conn: conn, frames: make(chan *structpb.Struct, subscriberQueue)}
		if hello, err := NewHello(s.version); err == nil {
			sub.frames <- hello
		}

		s.mu.Lock()
		if !s.running {
			s.mu.Unlock()
			conn.Close()
			return
		}
		s.subs[sub] = struct{}{}
		s.mu.Unlock()

		s.wg.Add(1)
		go s.serve(sub)
	}
}

// serve writes queued frames until the subscriber is closed or a write fails
func (s *Server) serve(sub *subscriber) {
	defer s.wg.Done()
	defer sub.conn.Close()

	s.logger.Debug("IPC subscriber connected")
	for msg := range sub.frames {
		sub.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := writeFrame(sub.conn, msg); err != nil {
			s.logger.Debugf("IPC subscriber gone: %v", err)
			s.remove(sub)
			return
		}
	}
}

func (s *Server) remove(sub *subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[sub]; ok {
		sub.close()
		delete(s.subs, sub)
	}
}
