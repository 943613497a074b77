package main

import (
	"time"

	"github.com/tinytelemetry/shiplog/internal/model"
	"github.com/tinytelemetry/shiplog/internal/producer"
)

const (
	defaultHost           = model.DefaultHost
	defaultPort           = model.DefaultPort
	defaultReconnectDelay = model.DefaultReconnectDelay
	defaultDialTimeout    = producer.DefaultDialTimeout
	defaultWriteTimeout   = producer.DefaultWriteTimeout
	defaultMinInterval    = producer.DefaultMinInterval
	defaultMaxInterval    = producer.DefaultMaxInterval
	defaultLogger         = model.DefaultSource
	defaultFixedPause     = 2 * time.Second

	modeRandom = "random"
	modeFixed  = "fixed"
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	ReconnectDelay time.Duration `mapstructure:"reconnect-delay"`
	DialTimeout    time.Duration `mapstructure:"dial-timeout"`
	WriteTimeout   time.Duration `mapstructure:"write-timeout"`
	MinInterval    time.Duration `mapstructure:"min-interval"`
	MaxInterval    time.Duration `mapstructure:"max-interval"`
	Logger         string        `mapstructure:"logger"`
	Mode           string        `mapstructure:"mode"`
	Count          int           `mapstructure:"count"`
	Addr           string        `mapstructure:"-"` // derived from host and port
	ConfigPath     string        `mapstructure:"-"` // not from config file
}

func (c appConfig) producerConfig() producer.Config {
	return producer.Config{
		Addr:           c.Addr,
		ReconnectDelay: c.ReconnectDelay,
		DialTimeout:    c.DialTimeout,
		WriteTimeout:   c.WriteTimeout,
		Interval:       producer.RandomInterval(c.MinInterval, c.MaxInterval),
	}
}
