// Package producer ships LogRecords to a collector over one persistent TCP
// connection, reconnecting after a fixed delay whenever the transport fails.
package producer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"net"
	"sync/atomic"
	"time"

	"github.com/tinytelemetry/shiplog/internal/codec"
	"github.com/tinytelemetry/shiplog/internal/framing"
	"github.com/tinytelemetry/shiplog/internal/model"
)

const (
	DefaultAddr         = "127.0.0.1:15000"
	DefaultDialTimeout  = 5 * time.Second
	DefaultWriteTimeout = 10 * time.Second
	DefaultMinInterval  = 500 * time.Millisecond
	DefaultMaxInterval  = 2 * time.Second
)

var errSourceExhausted = errors.New("record source exhausted")

// State is the connection state of a Client.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Config holds the producer's connection parameters.
type Config struct {
	// Addr is the collector address. Default DefaultAddr.
	Addr string
	// ReconnectDelay is the fixed pause before every reconnect attempt.
	// There is no growth and no jitter. Default model.DefaultReconnectDelay.
	ReconnectDelay time.Duration
	// DialTimeout bounds one connect attempt. Default DefaultDialTimeout.
	DialTimeout time.Duration
	// WriteTimeout bounds one frame write. Zero selects DefaultWriteTimeout,
	// a negative value disables the deadline.
	WriteTimeout time.Duration
	// Interval returns the pause after each sent record. Default
	// RandomInterval(DefaultMinInterval, DefaultMaxInterval).
	Interval func() time.Duration
	// OnSent, when set, is called after each record is written.
	OnSent func(model.LogRecord)
	Logger *log.Logger
}

func (c Config) withDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.ReconnectDelay <= 0 {
		c.ReconnectDelay = model.DefaultReconnectDelay
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = DefaultDialTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	if c.Interval == nil {
		c.Interval = RandomInterval(DefaultMinInterval, DefaultMaxInterval)
	}
	if c.Logger == nil {
		c.Logger = log.Default()
	}
	return c
}

// RandomInterval returns an Interval drawing uniformly from [lo, hi).
// When hi <= lo it always returns lo.
func RandomInterval(lo, hi time.Duration) func() time.Duration {
	return func() time.Duration {
		if hi <= lo {
			return lo
		}
		return lo + rand.N(hi-lo)
	}
}

// FixedInterval returns an Interval that always returns d.
func FixedInterval(d time.Duration) func() time.Duration {
	return func() time.Duration { return d }
}

// Stats counts producer activity.
type Stats struct {
	Sent     uint64
	Dropped  uint64
	Connects uint64
	Failures uint64
}

// Client owns one outbound connection and sends records sequentially.
type Client struct {
	cfg    Config
	source model.RecordSource

	state    atomic.Int32
	sent     atomic.Uint64
	dropped  atomic.Uint64
	connects atomic.Uint64
	failures atomic.Uint64
}

// New creates a client pulling records from source.
func New(cfg Config, source model.RecordSource) *Client {
	return &Client{cfg: cfg.withDefaults(), source: source}
}

// Run connects and ships records until ctx is cancelled or the source is
// exhausted, then returns nil. Transport failures never end Run: the
// connection is dropped and re-established after ReconnectDelay. A record
// whose write fails is counted as dropped and not resent.
func (c *Client) Run(ctx context.Context) error {
	defer c.setState(StateStopped)

	dialer := net.Dialer{Timeout: c.cfg.DialTimeout}
	for {
		if ctx.Err() != nil {
			return nil
		}

		c.setState(StateConnecting)
		conn, err := dialer.DialContext(ctx, "tcp", c.cfg.Addr)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.failures.Add(1)
			c.setState(StateDisconnected)
			c.cfg.Logger.Printf("producer: connect %s: %v, retrying in %s", c.cfg.Addr, err, c.cfg.ReconnectDelay)
			if !sleep(ctx, c.cfg.ReconnectDelay) {
				return nil
			}
			continue
		}

		c.connects.Add(1)
		c.setState(StateConnected)
		c.cfg.Logger.Printf("producer: connected to %s", c.cfg.Addr)

		err = c.sendLoop(ctx, conn)
		conn.Close()
		if errors.Is(err, errSourceExhausted) {
			c.cfg.Logger.Printf("producer: record source exhausted, stopping")
			return nil
		}
		if err == nil || ctx.Err() != nil {
			return nil
		}

		c.failures.Add(1)
		c.setState(StateDisconnected)
		c.cfg.Logger.Printf("producer: %v, reconnecting in %s", err, c.cfg.ReconnectDelay)
		if !sleep(ctx, c.cfg.ReconnectDelay) {
			return nil
		}
	}
}

// sendLoop writes records until a write fails, the source runs dry or ctx is
// done. It returns nil only on cancellation.
func (c *Client) sendLoop(ctx context.Context, conn net.Conn) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		record, ok := c.source.Next()
		if !ok {
			return errSourceExhausted
		}
		if err := c.send(conn, record); err != nil {
			c.dropped.Add(1)
			return err
		}
		c.sent.Add(1)
		if c.cfg.OnSent != nil {
			c.cfg.OnSent(record)
		}
		if !sleep(ctx, c.cfg.Interval()) {
			return nil
		}
	}
}

func (c *Client) send(conn net.Conn, record model.LogRecord) error {
	if c.cfg.WriteTimeout > 0 {
		if err := conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout)); err != nil {
			return fmt.Errorf("set write deadline: %w", err)
		}
	}
	if err := framing.WriteFrame(conn, codec.Encode(record)); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	return nil
}

func (c *Client) setState(s State) { c.state.Store(int32(s)) }

// State returns the current connection state.
func (c *Client) State() State { return State(c.state.Load()) }

// Stats returns a snapshot of the client counters.
func (c *Client) Stats() Stats {
	return Stats{
		Sent:     c.sent.Load(),
		Dropped:  c.dropped.Load(),
		Connects: c.connects.Load(),
		Failures: c.failures.Load(),
	}
}

// sleep waits for d or until ctx is done. It reports whether ctx is still
// live.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
