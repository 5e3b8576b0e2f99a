// Package bridge wires every subsystem package into one running
// process and sequences its startup/shutdown. There is no HTTP control
// surface here; Run starts the compositing and Art-Net pipeline and
// blocks until canceled or signaled.
package bridge

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"lumenbridge/pkg/artnet"
	"lumenbridge/pkg/clip"
	"lumenbridge/pkg/diag"
	"lumenbridge/pkg/layer"
	"lumenbridge/pkg/log"
	"lumenbridge/pkg/output"
	"lumenbridge/pkg/player"
	"lumenbridge/pkg/storage"
)

// shutdownTimeout bounds how long Run waits for goroutines to exit
// after cancellation before giving up.
const shutdownTimeout = 5 * time.Second

// hookList lets tests and embedders observe or override construction
// without Run itself growing test-only branches.
type hookList struct {
	env    func(*storage.ConfigEnv)
	config func(*storage.BridgeConfig)
	wired  func(*App)
}

func defaultHooks() *hookList {
	return &hookList{
		env:    func(*storage.ConfigEnv) {},
		config: func(*storage.BridgeConfig) {},
		wired:  func(*App) {},
	}
}

// App holds every long-lived subsystem handle Run constructs, exposed
// so embedders (tests, a future CLI) can reach into the running
// process without Run itself exposing package-level globals.
type App struct {
	Log    *log.Logger
	DB     *log.DB
	Diag   *diag.Monitor
	Env    *storage.ConfigEnv
	Config *storage.BridgeConfig

	Clips   *clip.Registry
	Players *player.Manager

	ArtNetRouter *artnet.Router
	ArtNetSender artnet.Sender

	Storage *storage.Manager
	General *storage.ConfigGeneral

	PreviewWorkers []*output.Worker

	wg *sync.WaitGroup
}

// storagePurgeInterval bounds how often Storage.PurgeLoop checks the
// clip media cache's disk usage.
const storagePurgeInterval = 10 * time.Minute

// Run loads envPath, wires every subsystem, and blocks until an
// OS signal or a fatal startup/run error occurs, then runs a
// cancellation-and-timeout-bounded shutdown.
func Run(envPath string) error {
	app, cleanup, err := newApp(envPath, defaultHooks())
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancelCtx := context.WithCancel(context.Background())
	defer cancelCtx()

	fatal := make(chan error, 1)
	go func() { fatal <- app.start(ctx) }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err = <-fatal:
	case sig := <-stop:
		app.Log.Info().Src("bridge").Msgf("received %v, stopping", sig)
	}

	app.shutdown()
	cancelCtx()

	done := make(chan struct{})
	go func() {
		app.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownTimeout):
		app.Log.Warn().Src("bridge").Msg("shutdown timed out waiting for goroutines")
	}

	return err
}

func newApp(envPath string, hooks *hookList) (*App, func(), error) {
	envYAML, err := os.ReadFile(envPath)
	if err != nil {
		return nil, nil, fmt.Errorf("bridge: could not read env.yaml: %w", err)
	}
	env, err := storage.NewConfigEnv(envPath, envYAML)
	if err != nil {
		return nil, nil, fmt.Errorf("bridge: could not load environment config: %w", err)
	}
	hooks.env(env)

	if err := env.PrepareEnvironment(); err != nil {
		return nil, nil, fmt.Errorf("bridge: could not prepare environment: %w", err)
	}

	configPath := filepath.Join(env.ConfigDir, "config.json")
	config, err := storage.NewBridgeConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("bridge: could not load config.json: %w", err)
	}
	hooks.config(config)

	general, err := storage.NewConfigGeneral(env.ConfigDir)
	if err != nil {
		return nil, nil, fmt.Errorf("bridge: could not load general config: %w", err)
	}

	wg := &sync.WaitGroup{}
	logger := log.NewLogger(wg)

	db := log.NewDB(filepath.Join(env.ConfigDir, "logs.db"), wg)

	diagMonitor := diag.New(logger)

	storageManager := storage.NewManager(env.StorageDir, general, logger)

	clips := clip.NewRegistry()

	cfg := config.Get()
	previewMaster := defaultMasterLayer(clips)
	artnetMaster := defaultMasterLayer(clips)

	previewW, previewH := resolvePreviewResolution(cfg.Video.PlayerResolution)
	previewPlayer := player.New("preview", previewW, previewH, clips, layer.NewStack(previewMaster), logger, wg)

	artnetW, artnetH := previewW, previewH
	artnetPlayer := player.New("artnet", artnetW, artnetH, clips, layer.NewStack(artnetMaster), logger, wg)

	sender, err := artnet.NewUDPSender()
	if err != nil {
		return nil, nil, fmt.Errorf("bridge: could not open Art-Net UDP socket: %w", err)
	}
	router := artnet.NewRouter(sender, logger)
	artnetPlayer.Sinks = append(artnetPlayer.Sinks, router)

	app := &App{
		Log:          logger,
		DB:           db,
		Diag:         diagMonitor,
		Env:          env,
		Config:       config,
		Clips:        clips,
		Players:      &player.Manager{Preview: previewPlayer, ArtNet: artnetPlayer},
		ArtNetRouter: router,
		ArtNetSender: sender,
		Storage:      storageManager,
		General:      general,
		wg:           wg,
	}
	hooks.wired(app)

	return app, func() { sender.Close() }, nil
}

// defaultMasterLayer creates a black solid-color clip as a fresh
// player's master layer, so a fresh install boots to a clean canvas.
func defaultMasterLayer(clips *clip.Registry) layer.Layer {
	c := clips.Create("generator.solid-color", 0)
	return layer.Layer{
		ID:             "master",
		ClipUUID:       c.ID,
		BlendMode:      0,
		OpacityPercent: 100,
		Mix:            1,
		Enabled:        true,
	}
}

func resolvePreviewResolution(r storage.PlayerResolution) (int, int) {
	switch r.Preset {
	case "custom":
		w, h := r.CustomWidth, r.CustomHeight
		if w <= 0 || h <= 0 {
			return 1920, 1080
		}
		return w, h
	case "720p":
		return 1280, 720
	case "1440p":
		return 2560, 1440
	case "2160p":
		return 3840, 2160
	default:
		return 1920, 1080
	}
}

func (a *App) start(ctx context.Context) error {
	if err := a.DB.Init(ctx); err != nil {
		return fmt.Errorf("bridge: could not open log database: %w", err)
	}

	go a.Log.Start(ctx)
	go a.Log.LogToStdout(ctx)
	go a.DB.SaveEntries(ctx, a.Log)
	go a.Diag.Run(ctx)
	go a.Storage.PurgeLoop(ctx, storagePurgeInterval)

	if dsn := os.Getenv("LUMENBRIDGE_SENTRY_DSN"); dsn != "" {
		if err := log.MirrorToSentry(ctx, a.Log, dsn); err != nil {
			a.Log.Warn().Src("bridge").Msgf("sentry mirror disabled: %v", err)
		}
	}

	a.Log.Info().Src("bridge").Msg("starting")

	if err := a.Players.StartAll(ctx); err != nil {
		return fmt.Errorf("bridge: could not start players: %w", err)
	}

	for _, w := range a.PreviewWorkers {
		if err := w.Start(ctx); err != nil {
			return fmt.Errorf("bridge: could not start output worker: %w", err)
		}
	}

	<-ctx.Done()
	return ctx.Err()
}

// AddPreviewOutput starts a new preview output worker resolving frames
// from the preview player (one worker per output sink). Exposed for
// session-state rehydration and future control-plane wiring even
// though that plane itself is out of scope here.
func (a *App) AddPreviewOutput(ctx context.Context, w *output.Worker) error {
	if err := w.Start(ctx); err != nil {
		return err
	}
	a.PreviewWorkers = append(a.PreviewWorkers, w)
	return nil
}

// shutdown stops every player and output worker in dependency order:
// output workers first (they read the players' last canvas, so they
// must stop consuming before the players stop producing), then the
// players.
func (a *App) shutdown() {
	for _, w := range a.PreviewWorkers {
		w.Stop()
	}
	a.Players.StopAll()
	a.Log.Info().Src("bridge").Msg("stopped")
}

// ClipByOutputSource looks up the clip named by an output's "clip:<uuid>"
// source expression in the registry, returning an error for unknown IDs.
// output.ParseSource only parses the UUID and does not call this.
func (a *App) ClipByOutputSource(id uuid.UUID) (*clip.Clip, error) {
	return a.Clips.Get(id)
}
