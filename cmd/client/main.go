package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/buxx/rollgui2-sub000/internal/config"
	"github.com/buxx/rollgui2-sub000/internal/debug"
	"github.com/buxx/rollgui2-sub000/internal/engine"
	"github.com/buxx/rollgui2-sub000/internal/recording"
	"github.com/buxx/rollgui2-sub000/internal/render"
	"github.com/buxx/rollgui2-sub000/internal/render/term"
	"github.com/buxx/rollgui2-sub000/internal/transport"
	"github.com/buxx/rollgui2-sub000/internal/version"
	"github.com/buxx/rollgui2-sub000/pkg/logger"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Флаги: только учетные данные для автовхода.
	var login, password string
	flag.StringVar(&login, "login", "", "Login used to connect automatically")
	flag.StringVar(&login, "l", "", "Shorthand for --login")
	flag.StringVar(&password, "password", "", "Password used to connect automatically")
	flag.StringVar(&password, "p", "", "Shorthand for --password")
	flag.Parse()

	// 2. Конфиг: значения по умолчанию, файл, окружение.
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal("Config error: ", err)
	}
	cfg = cfg.WithCredentials(login, password)
	if err := cfg.Validate(); err != nil {
		logger.Log.Fatal("Invalid config: ", err)
	}

	// Терминал занят экраном: без файла логи глушатся.
	if cfg.LogFile != "" {
		if err := logger.ToFile(cfg.LogFile); err != nil {
			logger.Log.Fatal("Log file error: ", err)
		}
	} else if cfg.Renderer == config.RendererTerm {
		logger.Discard()
	}

	logger.Log.Info("Starting rollgui...")
	logger.Log.Info(version.String())

	hc, err := transport.NewHTTPClient(cfg.ServerURL, "", "", cfg.HTTPTimeout.D())
	if err != nil {
		logger.Log.Fatal("HTTP client error: ", err)
	}
	client := engine.NewClient(hc.WithUserAgent(version.UserAgent()))
	if cfg.RecordDir != "" {
		records, err := recording.NewService(cfg.RecordDir)
		if err != nil {
			logger.Log.Fatal("Recording error: ", err)
		}
		client = engine.WithRecording(client, records)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Debug сервер (по желанию).
	var publisher engine.Publisher
	if cfg.DebugAddr != "" {
		store := debug.NewStore()
		publisher = store
		srv := debug.New(cfg.DebugAddr, store)
		go func() {
			if err := srv.Run(ctx); err != nil {
				logger.Log.Error("Debug server error: ", err)
			}
		}()
	}

	// 4. Рендерер.
	var renderer engine.Renderer
	switch cfg.Renderer {
	case config.RendererHeadless:
		renderer = render.NewHeadless()
	default:
		screen, err := term.NewScreen()
		if err != nil {
			logger.Log.Fatal("Terminal error: ", err)
		}
		t, err := term.New(screen, stop, cfg.IsMobile)
		if err != nil {
			logger.Log.Fatal("Terminal error: ", err)
		}
		defer t.Close()
		renderer = t
	}

	// 5. Цикл кадров до выхода или сигнала.
	host := engine.NewHost(engine.HostConfig{
		Client: client,
		Settings: engine.Settings{
			TileWidth:       cfg.TileWidth,
			TileHeight:      cfg.TileHeight,
			LoadZoneTimeout: cfg.LoadZoneTimeout.D(),
		},
		FrameEvery: cfg.FrameEvery.D(),
		TickEvery:  cfg.SpriteTickEvery.D(),
		Login:      cfg.Login,
		Password:   cfg.Password,
		Renderer:   renderer,
		Publisher:  publisher,
	})
	if err := host.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Log.Error("Client stopped: ", err)
	}

	logger.Log.Info("Done.")
}
