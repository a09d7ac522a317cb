package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/tactica/tactica-core/internal/config"
	"github.com/tactica/tactica-core/internal/game"
	"github.com/tactica/tactica-core/internal/game/match"
	"github.com/tactica/tactica-core/internal/game/script"
	"github.com/tactica/tactica-core/internal/series"
)

var version = "dev" // set via ldflags during build

func main() {
	proc, err := config.LoadProcess()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read environment: %v\n", err)
		os.Exit(1)
	}

	configPath := flag.String("config", proc.ConfigPath, "path to configuration file")
	firstSeed := flag.Uint("seed", uint(proc.MatchSeed), "seed of the first match")
	count := flag.Int("count", proc.MatchCount, "number of matches to play")
	steps := flag.Int("steps", script.DefaultStepLimit, "step limit per match")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	proc.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting headless run",
		zap.String("version", version),
		zap.String("config", *configPath),
		zap.Uint("first_seed", *firstSeed),
		zap.Int("count", *count),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := game.NewEngine(logger.Named("engine"))
	defer engine.Close()

	stats := newStats()
	handle := stats.Attach(engine.Events(), "")
	defer engine.Events().Unsubscribe(handle)

	seriesMgr := series.NewManager(logger)
	s := seriesMgr.CreateSeries("headless", uint32(*firstSeed), *count)

	if err := run(ctx, logger, engine, s, cfg.Options(), *steps); err != nil {
		logger.Error("headless run failed", zap.Error(err))
		os.Exit(1)
	}

	stats.log(logger)

	snap := s.Snapshot()
	for _, st := range snap.Standings {
		logger.Info("standing",
			zap.String("player", string(st.Player)),
			zap.Int("wins", st.Wins),
			zap.Int("losses", st.Losses),
			zap.Int("points", st.Points),
		)
	}
	if snap.Unverified > 0 {
		logger.Error("replays diverged", zap.Int("matches", snap.Unverified))
		os.Exit(2)
	}
	logger.Info("headless run finished", zap.String("series_id", snap.ID), zap.String("state", snap.State.String()))
}

// run plays every seed of the series on the engine concurrently.
func run(ctx context.Context, logger *zap.Logger, engine *game.Engine, s *series.Series, base match.Options, limit int) error {
	if err := s.Start(); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for _, seed := range s.Seeds() {
		g.Go(func() error {
			opts := base
			opts.Seed = &seed
			res, err := playOne(ctx, engine, opts, limit)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			logger.Info("match finished",
				zap.Uint32("seed", seed),
				zap.String("match_id", res.MatchID),
				zap.String("winner", string(res.Winner)),
				zap.Int("turn", res.Turns),
				zap.Int("steps", res.Steps),
				zap.String("checksum", res.Checksum),
				zap.Bool("verified", res.Verified),
			)
			engine.EndMatch(res.MatchID)
			return s.Record(res)
		})
	}
	return g.Wait()
}

// playOne hosts a match on the engine and steps it with the scripted policy
// until someone wins, then verifies the replay.
func playOne(ctx context.Context, engine *game.Engine, opts match.Options, limit int) (series.Result, error) {
	id, state, err := engine.StartMatch(opts)
	if err != nil {
		return series.Result{}, err
	}

	apply := func(in match.Intent) (match.Result, bool) {
		res, err := engine.Apply(id, in)
		return res, err == nil
	}
	state, steps, err := script.Drive(ctx, state, apply, limit)
	if err != nil {
		return series.Result{}, err
	}

	sum, err := engine.Checksum(id)
	if err != nil {
		return series.Result{}, err
	}
	return series.Result{
		Seed:     state.Seed,
		MatchID:  id,
		Winner:   *state.Winner,
		Turns:    state.Turn,
		Steps:    steps,
		Checksum: sum,
		Verified: engine.Verify(id) == nil,
	}, nil
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
