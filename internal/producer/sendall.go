package producer

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/tinytelemetry/shiplog/internal/model"
)

// SendAll dials cfg.Addr once and sends records in order, pausing between
// them. It stops at the first failure and never reconnects. It returns the
// number of records written.
func SendAll(ctx context.Context, cfg Config, records []model.LogRecord, pause time.Duration) (int, error) {
	cfg = cfg.withDefaults()

	dialer := net.Dialer{Timeout: cfg.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", cfg.Addr)
	if err != nil {
		return 0, fmt.Errorf("producer: dial %s: %w", cfg.Addr, err)
	}
	defer conn.Close()
	cfg.Logger.Printf("producer: connected to %s", cfg.Addr)

	c := &Client{cfg: cfg}
	for i, record := range records {
		if i > 0 && !sleep(ctx, pause) {
			return i, ctx.Err()
		}
		if err := c.send(conn, record); err != nil {
			return i, fmt.Errorf("producer: %w", err)
		}
		if cfg.OnSent != nil {
			cfg.OnSent(record)
		}
	}
	return len(records), nil
}
