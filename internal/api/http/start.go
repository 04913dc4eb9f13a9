package http

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/konselapp/konsel_backend/config"
	"github.com/konselapp/konsel_backend/internal/api/http/router"
	"github.com/konselapp/konsel_backend/internal/app"
)

// Start wires the full application graph and runs it until interrupted.
func Start(cfg *config.Config, timeout time.Duration) {
	fx.New(
		fx.Supply(cfg),
		app.InfraModule,
		app.ServiceModule,
		app.WorkerModule,
		router.Module,
		Module,

		// NewServer registers the listener via a lifecycle hook; invoking
		// the app forces its construction.
		fx.Invoke(func(*fiber.App) {}),

		fx.StopTimeout(timeout),
		fx.WithLogger(func() fxevent.Logger { return fxevent.NopLogger }),
	).Run()
}
