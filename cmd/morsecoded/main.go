// morsecoded keys text from stdin out as Morse pulses and prints the
// decoded symbol stream on stdout.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	morsecode "github.com/iamkaransharma/morsecode-driver"
	"github.com/iamkaransharma/morsecode-driver/internal/config"
	"github.com/iamkaransharma/morsecode-driver/internal/emitter"
	"github.com/iamkaransharma/morsecode-driver/internal/health"
)

const drainBufferSize = 4096

func main() {
	configPath := flag.String("config", "", "Path to configuration file (optional)")
	dotTimeMS := flag.Int("dottime", 0, "Dot time in ms, overrides the config file")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	cfg, err := loadConfig(*configPath, *dotTimeMS)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.Info("morsecoded starting",
		"instance_id", cfg.InstanceID,
		"dot_time_ms", cfg.DotTimeMS,
		"queue_capacity", cfg.QueueCapacity,
		"signal_backend", cfg.Signal.Backend)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig, mq, err := buildSignal(ctx, cfg)
	if err != nil {
		slog.Error("failed to set up signal backend", "error", err)
		os.Exit(1)
	}
	if mq != nil {
		defer mq.Close()
	}

	dev := morsecode.New(morsecode.Config{
		Signal:        sig,
		DotTime:       cfg.DotTime(),
		QueueCapacity: cfg.QueueCapacity,
	})

	started := time.Now()
	if cfg.Health.Addr != "" {
		hs := health.NewServer(cfg.Health.Addr, func() health.Status {
			return probe(cfg, dev, mq, started)
		})
		hs.Start()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer shutdownCancel()
			if err := hs.Shutdown(shutdownCtx); err != nil {
				slog.Warn("health endpoint shutdown failed", "error", err)
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigCh
		slog.Info("shutdown signal received", "signal", s.String())
		cancel()
	}()

	go drainLoop(ctx, dev, mq, cfg.DotTime())

	runStdin(ctx, dev)

	// Final drain so symbols keyed just before shutdown are not lost.
	flushOnce(dev, mq)
	slog.Info("morsecoded exiting")
}

// loadConfig reads the config file when given, otherwise starts from
// defaults. The -dottime flag overrides either and passes through the
// same range validation as the file value.
func loadConfig(path string, dotTimeMS int) (*config.Config, error) {
	var cfg *config.Config
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}
	if dotTimeMS != 0 {
		cfg.DotTimeMS = dotTimeMS
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// buildSignal constructs the configured pulse sink. The MQTT emitter is
// returned separately so the drain loop can forward symbol batches to it.
func buildSignal(ctx context.Context, cfg *config.Config) (morsecode.Signal, *emitter.MQTT, error) {
	switch cfg.Signal.Backend {
	case config.BackendNone:
		return morsecode.Discard, nil, nil
	case config.BackendLog:
		return emitter.NewLogSignal(slog.Default()), nil, nil
	case config.BackendMQTT:
		mq := emitter.NewMQTT(cfg.MQTT, cfg.InstanceID)
		if err := mq.Connect(ctx); err != nil {
			return nil, nil, err
		}
		return mq, mq, nil
	}
	return nil, nil, errors.New("unreachable signal backend")
}

// runStdin feeds stdin lines into the device until EOF or cancellation.
func runStdin(ctx context.Context, dev *morsecode.Device) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		n, err := dev.WriteContext(ctx, line)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("write failed", "error", err, "consumed", n)
			continue
		}
		slog.Debug("line keyed", "bytes", n)
	}
	if err := scanner.Err(); err != nil {
		slog.Error("stdin read failed", "error", err)
	}
}

// drainLoop periodically drains the decoded symbol stream to stdout and,
// when an MQTT emitter is attached, to the symbols topic.
func drainLoop(ctx context.Context, dev *morsecode.Device, mq *emitter.MQTT, dot time.Duration) {
	interval := 8 * dot
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			flushOnce(dev, mq)
		}
	}
}

// flushOnce drains whatever is queued right now.
func flushOnce(dev *morsecode.Device, mq *emitter.MQTT) {
	buf := make([]byte, drainBufferSize)
	n, err := dev.ReadContext(context.Background(), buf)
	if err != nil {
		slog.Error("drain failed", "error", err)
		return
	}
	if n == 0 {
		return
	}
	if _, err := os.Stdout.Write(buf[:n]); err != nil {
		slog.Error("stdout write failed", "error", err)
	}
	if mq != nil {
		if err := mq.PublishSymbols(buf[:n]); err != nil {
			slog.Warn("symbol batch publish failed", "error", err)
		}
	}
}

// probe assembles the health snapshot.
func probe(cfg *config.Config, dev *morsecode.Device, mq *emitter.MQTT, started time.Time) health.Status {
	stats := dev.Stats()
	st := health.Status{
		Status:          "healthy",
		InstanceID:      cfg.InstanceID,
		UptimeSeconds:   int64(time.Since(started).Seconds()),
		DotTimeMS:       dev.DotTime().Milliseconds(),
		QueueDepth:      stats.QueueDepth,
		QueueCapacity:   stats.QueueCapacity,
		SymbolsEnqueued: stats.Queue.Enqueued,
		SymbolsDropped:  stats.Queue.Dropped,
		SymbolsDrained:  stats.Queue.Drained,
		DropRate:        morsecode.DropRate(stats),
		LettersKeyed:    stats.Keyer.Letters,
		PulsesEmitted:   stats.Keyer.Pulses,
	}
	if mq != nil {
		st.MQTTConnected = mq.Connected()
	}
	if stats.Queue.Dropped > 0 || (mq != nil && !mq.Connected()) {
		st.Status = "degraded"
	}
	return st
}
