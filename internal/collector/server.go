// Package collector accepts producer connections and forwards every decoded
// record to a sink, one goroutine per connection.
package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/tinytelemetry/shiplog/internal/codec"
	"github.com/tinytelemetry/shiplog/internal/framing"
	"github.com/tinytelemetry/shiplog/internal/model"
)

const (
	// DefaultAddr is the listen address used when none is configured.
	DefaultAddr = "127.0.0.1:15000"

	// DefaultMaxFrameSize caps the payload length a peer may announce (4MB).
	DefaultMaxFrameSize = 4 * 1024 * 1024

	// NoFrameLimit disables the payload cap.
	NoFrameLimit = -1

	// acceptRetryDelay throttles the accept loop on persistent errors
	// such as an exhausted fd table.
	acceptRetryDelay = 50 * time.Millisecond
)

// State is the lifecycle position of a Server.
type State int32

const (
	StateNew State = iota
	StateBound
	StateListening
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateBound:
		return "bound"
	case StateListening:
		return "listening"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// ServerConfig holds tunable parameters for the collector.
type ServerConfig struct {
	// MaxFrameSize caps announced payload lengths. Zero selects
	// DefaultMaxFrameSize, a negative value disables the cap.
	MaxFrameSize int
	Logger       *log.Logger
}

// Stats is a point-in-time snapshot of collector counters.
type Stats struct {
	State               string    `json:"state"`
	ActiveConnections   int64     `json:"active_connections"`
	AcceptedConnections uint64    `json:"accepted_connections"`
	Records             uint64    `json:"records"`
	MalformedFrames     uint64    `json:"malformed_frames"`
	TransportErrors     uint64    `json:"transport_errors"`
	StartedAt           time.Time `json:"started_at"`
}

// Server listens for framed LogRecord payloads over TCP.
type Server struct {
	addr         string
	sink         model.RecordSink
	maxFrameSize int
	logger       *log.Logger

	listener  net.Listener
	state     atomic.Int32
	quit      chan struct{}
	stopOnce  sync.Once
	acceptWG  sync.WaitGroup
	startedAt time.Time

	mu    sync.Mutex
	conns map[string]net.Conn

	active          atomic.Int64
	accepted        atomic.Uint64
	records         atomic.Uint64
	malformedFrames atomic.Uint64
	transportErrors atomic.Uint64
}

// NewServer creates a collector that forwards records to sink. Default addr
// is DefaultAddr.
func NewServer(addr string, sink model.RecordSink, conf ...ServerConfig) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	maxFrameSize := DefaultMaxFrameSize
	logger := log.Default()
	if len(conf) > 0 {
		switch {
		case conf[0].MaxFrameSize > 0:
			maxFrameSize = conf[0].MaxFrameSize
		case conf[0].MaxFrameSize < 0:
			maxFrameSize = 0
		}
		if conf[0].Logger != nil {
			logger = conf[0].Logger
		}
	}
	return &Server{
		addr:         addr,
		sink:         sink,
		maxFrameSize: maxFrameSize,
		logger:       logger,
		quit:         make(chan struct{}),
		conns:        make(map[string]net.Conn),
	}
}

// Start binds the listening socket with address reuse enabled and begins
// accepting connections in the background. A bind failure is returned.
func (s *Server) Start() error {
	if s.State() != StateNew {
		return fmt.Errorf("collector: start: server is %s", s.State())
	}

	lc := net.ListenConfig{Control: reuseAddrControl}
	listener, err := lc.Listen(context.Background(), "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("collector: listen %s: %w", s.addr, err)
	}
	s.listener = listener
	s.startedAt = time.Now()
	s.state.Store(int32(StateBound))

	s.acceptWG.Add(1)
	s.state.Store(int32(StateListening))
	go s.acceptLoop()

	s.logger.Printf("collector: listening on %s", listener.Addr())
	return nil
}

func (s *Server) acceptLoop() {
	defer s.acceptWG.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.quit:
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Printf("collector: accept error: %v", err)
			time.Sleep(acceptRetryDelay)
			continue
		}

		id := uuid.NewString()
		if !s.track(id, conn) {
			conn.Close()
			return
		}
		s.accepted.Add(1)
		go s.handleConnection(id, conn)
	}
}

func (s *Server) handleConnection(id string, conn net.Conn) {
	defer s.untrack(id, conn)

	remote := conn.RemoteAddr()
	s.logger.Printf("collector: accepted connection %s from %s", id, remote)

	reader := framing.NewReader(conn, s.maxFrameSize)
	for {
		payload, err := reader.ReadFrame()
		if err != nil {
			s.logReadError(id, remote, err)
			return
		}

		record, err := codec.Decode(payload)
		if err != nil {
			s.malformedFrames.Add(1)
			s.logger.Printf("collector: closing connection %s from %s: %v", id, remote, err)
			return
		}

		s.records.Add(1)
		s.sink.Emit(record)
	}
}

func (s *Server) logReadError(id string, remote net.Addr, err error) {
	select {
	case <-s.quit:
		s.logger.Printf("collector: connection %s from %s closed on shutdown", id, remote)
		return
	default:
	}

	switch {
	case errors.Is(err, framing.ErrConnectionClosed):
		s.logger.Printf("collector: connection %s from %s closed by peer", id, remote)
	case errors.Is(err, framing.ErrFrameTooLarge):
		s.malformedFrames.Add(1)
		s.logger.Printf("collector: closing connection %s from %s: %v", id, remote, err)
	default:
		s.transportErrors.Add(1)
		s.logger.Printf("collector: read error on connection %s from %s: %v", id, remote, err)
	}
}

func (s *Server) track(id string, conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.State() == StateClosed {
		return false
	}
	s.conns[id] = conn
	s.active.Add(1)
	return true
}

func (s *Server) untrack(id string, conn net.Conn) {
	conn.Close()
	s.mu.Lock()
	if _, ok := s.conns[id]; ok {
		delete(s.conns, id)
		s.active.Add(-1)
	}
	s.mu.Unlock()
}

// Stop closes the listener and every live connection, then waits for the
// accept loop to exit. Connection handlers are not waited for; they unwind
// on their own once their socket is closed. Stop is idempotent.
func (s *Server) Stop() error {
	var err error
	s.stopOnce.Do(func() {
		close(s.quit)

		s.mu.Lock()
		s.state.Store(int32(StateClosed))
		conns := make([]net.Conn, 0, len(s.conns))
		for _, c := range s.conns {
			conns = append(conns, c)
		}
		s.mu.Unlock()

		if s.listener != nil {
			if cerr := s.listener.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) {
				err = fmt.Errorf("collector: close listener: %w", cerr)
			}
		}
		for _, c := range conns {
			c.Close()
		}
		s.acceptWG.Wait()
		s.logger.Printf("collector: stopped (%d connections closed)", len(conns))
	})
	return err
}

// State returns the current lifecycle state.
func (s *Server) State() State {
	return State(s.state.Load())
}

// Stats returns a snapshot of the collector counters.
func (s *Server) Stats() Stats {
	return Stats{
		State:               s.State().String(),
		ActiveConnections:   s.active.Load(),
		AcceptedConnections: s.accepted.Load(),
		Records:             s.records.Load(),
		MalformedFrames:     s.malformedFrames.Load(),
		TransportErrors:     s.transportErrors.Load(),
		StartedAt:           s.startedAt,
	}
}

// Addr returns the active listen address.
// Before Start, it returns the configured address.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}
