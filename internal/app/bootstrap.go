package app

import (
	"fmt"
	"strings"

	"skillsync/internal/config"
	"skillsync/internal/delivery/http/middleware"
	"skillsync/internal/delivery/http/routes"
	v1 "skillsync/internal/delivery/http/routes/v1"
	"skillsync/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// Bootstrap builds the container, wires every route, and starts the
// notification hub. The returned cleanup closes the container.
func Bootstrap(cfg config.Config) (*App, func() error, error) {
	container, err := NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}

	f := fiber.New(fiber.Config{
		AppName: cfg.App.AppName,
	})

	errMw := middleware.NewErrorMiddleware(container.Logger)
	accessMw := middleware.NewAccessLogMiddleware(container.Logger)
	authMw := middleware.NewAuthMiddleware(container.JWT)

	f.Use(errMw.Middleware())
	f.Use(accessMw.Middleware())

	go container.Hub.Run()

	deps := v1.Deps{
		Config:   cfg,
		DB:       container.DB,
		Cache:    container.Cache,
		Notifier: ws.NewNotifier(container.Hub),
		JWT:      container.JWT,
		AuthMw:   authMw,
		Logger:   container.Logger,
	}
	wsHandler := ws.NewHandler(container.Hub, container.Logger)

	routes.NewRegistry(deps, wsHandler).Register(f)

	app := &App{Fiber: f, Container: container}
	return app, container.Close, nil
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
