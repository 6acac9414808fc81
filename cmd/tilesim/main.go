package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/tilesim/server/internal/animtile"
	"github.com/tilesim/server/internal/config"
	"github.com/tilesim/server/internal/core/event"
	coresys "github.com/tilesim/server/internal/core/system"
	"github.com/tilesim/server/internal/handler"
	"github.com/tilesim/server/internal/metrics"
	"github.com/tilesim/server/internal/persist"
	"github.com/tilesim/server/internal/scripting"
	"github.com/tilesim/server/internal/system"
	"github.com/tilesim/server/internal/tile"
	"github.com/tilesim/server/internal/viewport"
	"github.com/tilesim/server/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              tilesim  v0.1.0              \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mserver:\033[0m %s\n\n", serverName)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main simulation logic ─────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/tilesim.toml"
	if p := os.Getenv("TILESIM_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name)

	// 3. Load the map and build the world state
	printSection("map")
	tiles, initial, err := tile.LoadMap(cfg.Map.Path)
	if err != nil {
		return fmt.Errorf("load map: %w", err)
	}
	printStat("tiles", tiles.Size())

	bus := event.NewBus()
	worldState := world.NewState(tiles, bus)
	dirty := viewport.NewDirtySet(bus)

	// 4. Optional database: restore the animated set from the last snapshot
	var (
		repo    *persist.AnimatedTileRepo
		restore = initial
	)
	if cfg.Database.Enabled {
		printSection("database")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")

		version, err := persist.RunMigrations(ctx, db.Pool)
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printStat("schema version", int(version))

		repo = persist.NewAnimatedTileRepo(db)
		saved, err := repo.Load(ctx)
		if err != nil {
			return fmt.Errorf("load animated tiles: %w", err)
		}
		if len(saved) > 0 {
			restore = saved
		}
	}

	skipped := worldState.Restore(restore)
	for _, t := range skipped {
		log.Warn("skipping non-animatable tile",
			zap.Uint32("tile", uint32(t)),
			zap.Stringer("category", tiles.Category(t)))
	}
	printStat("animated tiles", worldState.Animated().Len())

	// 5. Scripting
	deps := &handler.Deps{World: worldState, Log: log}
	if cfg.Scripting.Enabled {
		luaEngine, err := scripting.NewEngine(cfg.Scripting.Dir, log)
		if err != nil {
			return fmt.Errorf("lua engine: %w", err)
		}
		defer luaEngine.Close()
		luaEngine.Bind(worldState)
		deps.Scripting = luaEngine
		printOK("Lua scripts loaded")
	}
	fmt.Println()

	// 6. Metrics
	var opts []animtile.Option
	if cfg.Metrics.BindAddress != "" {
		m := metrics.New()
		opts = append(opts, animtile.WithObserver(m))
		srv := &http.Server{Addr: cfg.Metrics.BindAddress, Handler: m.Handler()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server stopped", zap.Error(err))
			}
		}()
		defer srv.Close()
	}

	// 7. Create systems and register with runner
	dispatcher := animtile.NewDispatcher(worldState.Animated(), tiles, handler.NewHandlers(deps), opts...)

	runner := coresys.NewRunner()
	runner.Register(system.NewAnimationSystem(worldState, dispatcher, log))
	runner.Register(system.NewRedrawSystem(bus, dirty, log))
	var persistSys *system.PersistenceSystem
	if repo != nil {
		persistSys = system.NewPersistenceSystem(worldState, repo, log, cfg.Simulation.SaveIntervalTicks)
		runner.Register(persistSys)
	}

	// 8. Start simulation loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Simulation.TickRate)
	defer ticker.Stop()

	printSection("ready")
	if cfg.Metrics.BindAddress != "" {
		printReady(fmt.Sprintf("metrics on %s", cfg.Metrics.BindAddress))
	}
	printReady(fmt.Sprintf("simulation loop started (tick: %s)", cfg.Simulation.TickRate))
	fmt.Println()

	shutdown := func(reason string) error {
		log.Info("stopping simulation",
			zap.String("reason", reason),
			zap.Uint64("ticks", runner.Ticks()),
			zap.Int("animated", worldState.Animated().Len()))
		if persistSys != nil {
			if err := persistSys.SaveNow(); err != nil {
				return fmt.Errorf("final save: %w", err)
			}
		}
		return nil
	}

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Simulation.TickRate)
			if cfg.Simulation.MaxTicks > 0 && runner.Ticks() >= cfg.Simulation.MaxTicks {
				return shutdown("tick limit reached")
			}
		case sig := <-shutdownCh:
			return shutdown(sig.String())
		}
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
