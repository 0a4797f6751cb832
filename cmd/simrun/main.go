// Package main provides a headless driver that plays one run of the
// simulation with an autopilot and persists the earned credits.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/neonsurge/internal/clock"
	"github.com/cory-johannsen/neonsurge/internal/config"
	"github.com/cory-johannsen/neonsurge/internal/economy"
	"github.com/cory-johannsen/neonsurge/internal/game/content"
	"github.com/cory-johannsen/neonsurge/internal/game/dice"
	"github.com/cory-johannsen/neonsurge/internal/game/event"
	"github.com/cory-johannsen/neonsurge/internal/game/geom"
	"github.com/cory-johannsen/neonsurge/internal/game/physics"
	"github.com/cory-johannsen/neonsurge/internal/game/sim"
	"github.com/cory-johannsen/neonsurge/internal/observability"
	"github.com/cory-johannsen/neonsurge/internal/storage/backend"
	"github.com/cory-johannsen/neonsurge/internal/storage/secure"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	ticks := flag.Int("ticks", 3600, "number of frames to simulate; ignored with -realtime")
	realtime := flag.Bool("realtime", false, "pace frames at the configured tick rate until the player dies or the process is interrupted")
	seed := flag.Uint64("seed", 0, "seed for a reproducible run; 0 draws from crypto/rand")
	unlockAll := flag.Bool("unlock-all", false, "unlock every weapon at run start")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	catalogue := content.Default()
	if cfg.Simulation.ContentDir != "" {
		catalogue, err = content.Load(cfg.Simulation.ContentDir)
		if err != nil {
			logger.Fatal("loading content", zap.String("dir", cfg.Simulation.ContentDir), zap.Error(err))
		}
	}

	src := dice.NewCryptoSource()
	if *seed != 0 {
		src = dice.NewSeededSource(*seed)
	}
	roller := dice.NewLoggedRoller(src, logger)

	kv, closeKV, err := backend.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("opening persistence backend", zap.Error(err))
	}
	defer closeKV()
	store, err := secure.New(kv, cfg.Persistence, clock.New(), logger)
	if err != nil {
		logger.Fatal("creating secure store", zap.Error(err))
	}
	econ := economy.Load(ctx, store, cfg.Persistence.CreditsKey)
	logger.Info("credits loaded", zap.Int("total_credits", econ.TotalCredits))

	bus := event.NewBus()
	bus.SubscribeAll(func(e event.Event) { logEvent(logger, e) })

	space := physics.NewSpace(geom.Bounds{Width: cfg.Simulation.MapWidth, Height: cfg.Simulation.MapHeight})
	world, err := sim.New(sim.Options{
		Config:    cfg,
		Catalogue: catalogue,
		Physics:   space,
		Roller:    roller,
		Bus:       bus,
		Economy:   econ,
		Logger:    logger,
		Start:     start,
	})
	if err != nil {
		logger.Fatal("creating world", zap.Error(err))
	}
	if *unlockAll {
		for _, id := range catalogue.WeaponIDs() {
			world.Player().UnlockWeapon(id)
		}
	}

	skills := make([]string, 0, len(catalogue.Skills()))
	for _, s := range catalogue.Skills() {
		skills = append(skills, s.ID)
	}
	loop := sim.NewLoop(world, newAutopilot(world, space, skills), cfg.Simulation.TickInterval(), logger)

	kills := 0
	if *realtime {
		if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("loop stopped", zap.Error(err))
		}
	} else {
		for i := 0; i < *ticks && ctx.Err() == nil; i++ {
			r := loop.Step()
			kills += r.Kills
			if r.Over {
				break
			}
		}
	}

	// Credits are saved even for an interrupted run.
	if !econ.Save(context.WithoutCancel(ctx), store) {
		logger.Warn("credits not saved", zap.String("key", econ.Key()))
	}

	p := world.Player()
	logger.Info("run summary",
		zap.Bool("game_over", world.Over()),
		zap.Int("score", world.Score()),
		zap.Int("kills", kills),
		zap.Int("level", p.Ledger.Level),
		zap.Int("difficulty", world.Director().DifficultyLevel()),
		zap.Int("run_credits", econ.RunCredits),
		zap.Int("total_credits", econ.TotalCredits),
		zap.Strings("items", p.Pickups()),
		zap.Duration("simulated", world.Now().Sub(start)),
		zap.Duration("elapsed", time.Since(start)),
	)
}

func logEvent(logger *zap.Logger, e event.Event) {
	fields := []zap.Field{zap.String("event", string(e.Kind))}
	switch e.Kind {
	case event.ScoreChanged, event.BossDefeated:
		fields = append(fields, zap.Int("score", e.Score))
	case event.LevelUp:
		fields = append(fields, zap.Int("level", e.Level), zap.Float64("max_health", e.MaxHealth))
	case event.BossSpawned, event.BossHealthChanged:
		fields = append(fields, zap.Float64("health", e.Health), zap.Float64("max_health", e.MaxHealth))
	case event.BossPhaseChanged:
		fields = append(fields, zap.Int("phase", e.Phase))
	case event.DifficultyIncrease:
		fields = append(fields, zap.Int("level", e.Level))
	case event.CreditsChanged:
		fields = append(fields, zap.Int("credits", e.Credits))
	case event.ItemPickedUp:
		fields = append(fields, zap.String("item", e.Item))
	case event.GameOver:
		fields = append(fields, zap.Int("score", e.Score), zap.Int("level", e.Level), zap.Int("credits", e.Credits))
	}
	// Score and boss health change on most frames.
	if e.Kind == event.ScoreChanged || e.Kind == event.BossHealthChanged {
		logger.Debug("event", fields...)
		return
	}
	logger.Info("event", fields...)
}
