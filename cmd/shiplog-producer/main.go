package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/viper"
	"github.com/tinytelemetry/shiplog/internal/model"
	"github.com/tinytelemetry/shiplog/internal/producer"
	"github.com/tinytelemetry/shiplog/internal/recordgen"
	"github.com/tinytelemetry/shiplog/internal/sink"
)

// Build variables - set by ldflags during build.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	var configPath string
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/shiplog/producer.yml)")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("Shiplog Producer - Log Shipper\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runProducer(ctx, cfg, log.Default()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runProducer ships records until ctx is done or the configured records have
// been sent.
func runProducer(ctx context.Context, cfg appConfig, logger *log.Logger) error {
	pcfg := cfg.producerConfig()
	pcfg.Logger = logger
	pcfg.OnSent = func(r model.LogRecord) {
		logger.Printf("producer: sent %s", sink.FormatRecord(r))
	}

	switch cfg.Mode {
	case modeFixed:
		records := recordgen.DemoRecords(cfg.Logger)
		n, err := producer.SendAll(ctx, pcfg, records, defaultFixedPause)
		if err != nil && ctx.Err() == nil {
			return err
		}
		logger.Printf("producer: sent %d of %d records", n, len(records))
		return nil

	default:
		client := producer.New(pcfg, recordgen.NewRandom(cfg.Logger, cfg.Count))
		err := client.Run(ctx)
		st := client.Stats()
		logger.Printf("producer: stopped, sent=%d dropped=%d connects=%d failures=%d",
			st.Sent, st.Dropped, st.Connects, st.Failures)
		return err
	}
}

func loadConfig(configPath string) (appConfig, error) {
	var cfg appConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("SHIPLOG")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("host", defaultHost)
	v.SetDefault("port", defaultPort)
	v.SetDefault("reconnect-delay", defaultReconnectDelay)
	v.SetDefault("dial-timeout", defaultDialTimeout)
	v.SetDefault("write-timeout", defaultWriteTimeout)
	v.SetDefault("min-interval", defaultMinInterval)
	v.SetDefault("max-interval", defaultMaxInterval)
	v.SetDefault("logger", defaultLogger)
	v.SetDefault("mode", modeRandom)
	v.SetDefault("count", 0)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "shiplog", "producer.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	cfg.ConfigPath = v.ConfigFileUsed()
	if _, err := os.Stat(cfg.ConfigPath); err != nil {
		cfg.ConfigPath = ""
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return cfg, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	for _, d := range []struct {
		key string
		val int64
	}{
		{"reconnect-delay", int64(cfg.ReconnectDelay)},
		{"dial-timeout", int64(cfg.DialTimeout)},
		{"min-interval", int64(cfg.MinInterval)},
		{"max-interval", int64(cfg.MaxInterval)},
	} {
		if d.val < 0 {
			return cfg, fmt.Errorf("invalid %s: must not be negative", d.key)
		}
	}
	if cfg.MaxInterval < cfg.MinInterval {
		return cfg, fmt.Errorf("invalid max-interval: %s is below min-interval %s", cfg.MaxInterval, cfg.MinInterval)
	}
	if cfg.Count < 0 {
		return cfg, fmt.Errorf("invalid count: %d", cfg.Count)
	}
	switch cfg.Mode {
	case modeRandom, modeFixed:
	default:
		return cfg, fmt.Errorf("invalid mode %q (want %s or %s)", cfg.Mode, modeRandom, modeFixed)
	}

	cfg.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	return cfg, nil
}
