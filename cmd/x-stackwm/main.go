package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ItsNotGoodName/x-stackwm/internal/backend"
	"github.com/ItsNotGoodName/x-stackwm/internal/backend/headless"
	"github.com/ItsNotGoodName/x-stackwm/internal/backend/x11"
	"github.com/ItsNotGoodName/x-stackwm/internal/build"
	"github.com/ItsNotGoodName/x-stackwm/internal/bus"
	"github.com/ItsNotGoodName/x-stackwm/internal/config"
	"github.com/ItsNotGoodName/x-stackwm/internal/core"
	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
	"github.com/ItsNotGoodName/x-stackwm/internal/server"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/joho/godotenv"
	"github.com/phsym/console-slog"
)

type Options struct {
	Debug    bool   `doc:"enable debug"`
	Host     string `doc:"host to listen on"`
	Port     int    `doc:"port to listen on, 0 disables the API" default:"8080"`
	Config   string `doc:"config file" default:".x-stackwm.yaml"`
	Headless bool   `doc:"run without a display"`
}

func main() {
	godotenv.Load()

	cli := humacli.New(func(hooks humacli.Hooks, options *Options) {
		if options.Debug {
			InitLogger(slog.LevelDebug)
		} else {
			InitLogger(slog.LevelInfo)
		}

		OnServe(hooks, func(ctx context.Context) error {
			bus.SetContext(ctx)

			configFilePath, err := filepath.Abs(options.Config)
			if err != nil {
				return err
			}

			store, err := config.NewStore(config.NewYAML(configFilePath))
			if err != nil {
				return err
			}

			if err := config.Normalize(&store); err != nil {
				return err
			}

			cfg, err := store.GetConfig()
			if err != nil {
				return err
			}

			b, err := openBackend(ctx, cfg.Output, options.Headless)
			if err != nil {
				return err
			}
			defer b.Close()

			compositor, err := server.New(cfg, b)
			if err != nil {
				return err
			}

			address := ""
			if options.Port != 0 {
				address = core.Address(options.Host, options.Port)
			}

			return compositor.Serve(ctx, address)
		})
	})

	cli.Root().Version = build.Current.Version

	cli.Run()
}

func openBackend(ctx context.Context, cfg config.Output, headlessMode bool) (backend.Backend, error) {
	size := geom.Size{W: cfg.Width, H: cfg.Height}.ToPhysical(geom.Uniform(cfg.Scale))
	if headlessMode {
		return headless.New(size), nil
	}
	x, err := x11.Open(ctx, x11.Options{
		Title: "x-stackwm",
		Size:  size,
	})
	if err != nil {
		return nil, err
	}
	return x, nil
}

func InitLogger(level slog.Level) {
	slog.SetDefault(slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
		Level: level,
	})))
}

func OnServe(hooks humacli.Hooks, serveFn func(ctx context.Context) error) {
	stopC := make(chan struct{})
	hooks.OnStart(func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		errC := make(chan error, 1)

		go func() { errC <- serveFn(ctx) }()

		select {
		case <-stopC:
			cancel()
		case err := <-errC:
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Fatal(err)
			}
			return
		}

		<-errC
		<-stopC
	})
	hooks.OnStop(func() {
		stopC <- struct{}{}
		stopC <- struct{}{}
	})
}
