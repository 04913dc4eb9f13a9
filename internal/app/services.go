package app

import (
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/fx"

	"github.com/konselapp/konsel_backend/config"
	"github.com/konselapp/konsel_backend/internal/gateway"
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
	"github.com/konselapp/konsel_backend/pkg/email"
	"github.com/konselapp/konsel_backend/pkg/llm"
	pasetotoken "github.com/konselapp/konsel_backend/pkg/paseto"
	"github.com/konselapp/konsel_backend/pkg/sessionmgr"
	"github.com/redis/go-redis/v9"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvideUserService,
		ProvideConsultationService,
		ProvideTestSessionService,
		ProvideAssistantService,
		ProvideWhatsAppService,
		ProvideNotificationService,
		ProvideBehaviorService,
		ProvideScheduleService,
		ProvideForumService,
		ProvidePasetoManager,
		ProvideSessionManager,
		ProvideSessionStore,
	),
)

func ProvideSessionManager(cfg *config.Config) *sessionmgr.Manager {
	lifetime := time.Duration(cfg.Authentication.SessionTTLMinutes) * time.Minute
	idle := time.Duration(cfg.Authentication.IdleTimeoutMinutes) * time.Minute
	return sessionmgr.New(lifetime, idle, nil)
}

func ProvideSessionStore(rdb *redis.Client) user.SessionStore {
	return user.NewRedisSessionStore(rdb)
}

func ProvideUserService(
	gw gateway.Gateway,
	sessions user.SessionStore,
	policy *sessionmgr.Manager,
	tokens *pasetotoken.Manager,
	authz authorize.IAuthorization,
	mailer *email.Client,
	nc *nats.Conn,
	cfg *config.Config,
) user.Service {
	return user.New(gw, sessions, policy, tokens, authz, user.Options{
		Mailer:    mailer,
		NATS:      nc,
		AccessTTL: time.Duration(cfg.Authentication.Paseto.AccessTTLMinutes) * time.Minute,
		BaseURL:   cfg.Server.Domain,
		Logger:    slog.Default(),
	})
}

func ProvideConsultationService(gw gateway.Gateway, nc *nats.Conn, cfg *config.Config) consultation.Service {
	return consultation.New(gw, nc, cfg.Consultation.ResolutionMarkers)
}

func ProvideTestSessionService(gw gateway.Gateway) testsession.Service {
	return testsession.New(gw)
}

func ProvideAssistantService(
	gw gateway.Gateway,
	providers []llm.ChatProvider,
	search llm.SearchProvider,
	cfg *config.Config,
) assistant.Service {
	topics := make([]assistant.Topic, 0, len(cfg.Assistant.Topics))
	for _, t := range cfg.Assistant.Topics {
		topics = append(topics, assistant.Topic{Name: t.Name, Keywords: t.Keywords})
	}
	return assistant.New(gw, providers, search, assistant.Options{
		SystemInstruction: cfg.Assistant.SystemInstruction,
		NoCredentialReply: cfg.Assistant.NoCredentialReply,
		ProviderErrReply:  cfg.Assistant.ProviderErrReply,
		Topics:            topics,
	}, slog.Default())
}

func ProvideWhatsAppService(gw gateway.Gateway, cfg *config.Config) whatsapp.Service {
	delay := time.Duration(cfg.WhatsApp.DispatchDelayMs) * time.Millisecond
	return whatsapp.New(gw, cfg.WhatsApp.CountryCode, delay, nil, nil, slog.Default())
}

func ProvideNotificationService(gw gateway.Gateway) notification.Service {
	return notification.New(gw)
}

func ProvideBehaviorService(gw gateway.Gateway) behavior.Service {
	return behavior.New(gw)
}

func ProvideScheduleService(gw gateway.Gateway) schedule.Service {
	return schedule.New(gw)
}

func ProvideForumService(gw gateway.Gateway) forum.Service {
	return forum.New(gw)
}

func ProvidePasetoManager(cfg *config.Config) (*pasetotoken.Manager, error) {
	return pasetotoken.NewPasetoManager(cfg)
}
