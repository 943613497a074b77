package main

import (
	"github.com/tinytelemetry/shiplog/internal/collector"
	"github.com/tinytelemetry/shiplog/internal/model"
	"github.com/tinytelemetry/shiplog/internal/tui"
)

const (
	defaultBindHost     = model.DefaultHost
	defaultPort         = model.DefaultPort
	defaultMaxFrameSize = collector.DefaultMaxFrameSize
	defaultAPIPort      = 15001
	defaultTUIBuffer    = tui.DefaultCapacity

	sinkConsole = "console"
	sinkTUI     = "tui"
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	MaxFrameSize int    `mapstructure:"max-frame-size"`
	Sink         string `mapstructure:"sink"`
	Color        bool   `mapstructure:"color"`
	APIEnabled   bool   `mapstructure:"api-enabled"`
	APIPort      int    `mapstructure:"api-port"`
	TUIBuffer    int    `mapstructure:"tui-buffer"`
	Addr         string `mapstructure:"-"` // derived from host and port
	APIAddr      string `mapstructure:"-"`
	ConfigPath   string `mapstructure:"-"` // not from config file
}

// frameLimit maps the configured max-frame-size onto collector.ServerConfig,
// where 0 in the config file means no cap.
func (c appConfig) frameLimit() int {
	if c.MaxFrameSize == 0 {
		return collector.NoFrameLimit
	}
	return c.MaxFrameSize
}
