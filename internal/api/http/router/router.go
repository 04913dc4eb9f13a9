package router

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	"github.com/konselapp/konsel_backend/config"
	"github.com/konselapp/konsel_backend/internal/api/http/handler"
	"github.com/konselapp/konsel_backend/internal/api/http/middleware"
	"github.com/konselapp/konsel_backend/internal/service/assistant"
	"github.com/konselapp/konsel_backend/internal/service/behavior"
	"github.com/konselapp/konsel_backend/internal/service/consultation"
	"github.com/konselapp/konsel_backend/internal/service/forum"
	"github.com/konselapp/konsel_backend/internal/service/notification"
	"github.com/konselapp/konsel_backend/internal/service/schedule"
	"github.com/konselapp/konsel_backend/internal/service/testsession"
	"github.com/konselapp/konsel_backend/internal/service/user"
	"github.com/konselapp/konsel_backend/internal/service/whatsapp"
	"github.com/konselapp/konsel_backend/pkg/authorize"
	pasetotoken "github.com/konselapp/konsel_backend/pkg/paseto"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg             *config.Config
	Auth            authorize.IAuthorization
	UserSvc         user.Service
	ConsultationSvc consultation.Service
	TestSvc         testsession.Service
	AssistantSvc    assistant.Service
	WhatsAppSvc     whatsapp.Service
	NotificationSvc notification.Service
	BehaviorSvc     behavior.Service
	ScheduleSvc     schedule.Service
	ForumSvc        forum.Service
	PasetoMgr       *pasetotoken.Manager
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

func (r *Router) Register(app *fiber.App) {
	r.registerSystemRoutes(app)

	authRequired := middleware.AuthRequired(r.p.PasetoMgr, r.p.UserSvc)
	requirePerm := func(res authorize.Resource, act authorize.Action) fiber.Handler {
		return middleware.RequirePermission(r.p.Auth, res, act)
	}

	authH := handler.NewAuthHandler(r.p.UserSvc)
	userH := handler.NewUserHandler(r.p.UserSvc)
	consultationH := handler.NewConsultationHandler(r.p.ConsultationSvc)
	testH := handler.NewTestHandler(r.p.TestSvc)
	assistantH := handler.NewAssistantHandler(r.p.AssistantSvc)
	whatsappH := handler.NewWhatsAppHandler(r.p.WhatsAppSvc)
	notificationH := handler.NewNotificationHandler(r.p.NotificationSvc)
	behaviorH := handler.NewBehaviorHandler(r.p.BehaviorSvc)
	scheduleH := handler.NewScheduleHandler(r.p.ScheduleSvc)
	forumH := handler.NewForumHandler(r.p.ForumSvc)

	// The web client calls the assistant at this exact path, outside the
	// versioned prefix, from any origin.
	app.Post("/api/enhanced-ai-chat",
		cors.New(cors.Config{AllowOrigins: []string{"*"}}),
		authRequired,
		assistantH.Chat,
	)

	api := app.Group("/api/v1")

	r.registerAuthRoutes(api, authH, authRequired)
	r.registerUserRoutes(api, userH, behaviorH, authRequired, requirePerm)
	r.registerConsultationRoutes(api, consultationH, authRequired, requirePerm)
	r.registerTestRoutes(api, testH, authRequired)
	r.registerAssistantRoutes(api, assistantH, authRequired, requirePerm)
	r.registerWhatsAppRoutes(api, whatsappH, authRequired, requirePerm)
	r.registerNotificationRoutes(api, notificationH, authRequired)
	r.registerScheduleRoutes(api, scheduleH, authRequired, requirePerm)
	r.registerForumRoutes(api, forumH, authRequired)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool { return authorize.IsPolicyHealthy() },
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.Cfg.Observability.Enabled && r.p.Cfg.Observability.Metrics.Enabled {
		path := r.p.Cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}
}
