package app

import (
	"context"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/konselapp/konsel_backend/config"
	"github.com/konselapp/konsel_backend/internal/gateway"
	"github.com/konselapp/konsel_backend/pkg/authorize"
	"github.com/konselapp/konsel_backend/pkg/email"
	"github.com/konselapp/konsel_backend/pkg/llm"
	"github.com/konselapp/konsel_backend/pkg/observability"
	redispkg "github.com/konselapp/konsel_backend/pkg/redis"
)

// InfraModule provides all infrastructure dependencies.
var InfraModule = fx.Module("infra",
	fx.Provide(ProvideGateway),
	fx.Provide(ProvideRedis),
	fx.Provide(ProvideAuthorization),
	fx.Provide(ProvideEmailClient),
	fx.Provide(ProvideChatProviders),
	fx.Provide(ProvideSearchProvider),
	fx.Provide(ProvideOTel),
	fx.Provide(ProvideNatsClient),
)

// ProvideGateway builds the HTTP client for the remote collection store.
// All persistence goes through it; the backend holds no database connection.
func ProvideGateway(cfg *config.Config) gateway.Gateway {
	return gateway.NewHTTPGateway(cfg.Gateway, slog.Default())
}

func ProvideRedis(lc fx.Lifecycle, cfg *config.Config) (*redis.Client, error) {
	rdb, err := redispkg.NewRedisFromCentral(cfg.Redis)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing Redis connection")
			return rdb.Close()
		},
	})
	return rdb, nil
}

// ProvideAuthorization builds the Casbin stack. Policies are held in memory
// and seeded on startup; role grants are re-issued when accounts are created
// or changed.
func ProvideAuthorization(lc fx.Lifecycle, cfg *config.Config) (authorize.IAuthorization, error) {
	enforcer, err := authorize.NewEnforcer(cfg.Authorization.CasbinModelPath)
	if err != nil {
		return nil, err
	}
	baseAuth, err := authorize.NewAuthorization(enforcer)
	if err != nil {
		return nil, err
	}

	var auth authorize.IAuthorization = baseAuth
	if cfg.Authorization.EnableAudit {
		auth = authorize.NewAuditedAuthorization(baseAuth, slog.Default())
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := authorize.SeedDefaultPolicies(ctx, auth); err != nil {
				authorize.MarkPolicyHealth(false)
				return err
			}
			authorize.MarkPolicyHealth(true)
			return nil
		},
	})
	return auth, nil
}

func ProvideEmailClient(cfg *config.Config) (*email.Client, error) {
	return email.NewFromCentral(cfg.Email)
}

// ProvideChatProviders lists the AI completion backends. The assistant
// reorders per request (openai unless the caller asks for gemini) and skips
// credential-less providers at call time.
func ProvideChatProviders(cfg *config.Config) []llm.ChatProvider {
	return []llm.ChatProvider{
		llm.NewOpenAIProvider(cfg.Assistant.OpenAIKey, cfg.Assistant.OpenAIModel),
		llm.NewGeminiProvider(cfg.Assistant.GeminiKey, cfg.Assistant.GeminiModel),
	}
}

func ProvideSearchProvider(cfg *config.Config) llm.SearchProvider {
	return llm.NewSerpSearch(cfg.Assistant.SerpAPIKey, cfg.Assistant.SearchLang)
}

func ProvideNatsClient(lc fx.Lifecycle, cfg *config.Config) (*nats.Conn, error) {
	nc, err := nats.Connect(cfg.Nats.URL)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("draining NATS connection")
			return nc.Drain()
		},
	})
	return nc, nil
}

func ProvideOTel(lc fx.Lifecycle, cfg *config.Config) (*observability.Provider, error) {
	if !cfg.Observability.Enabled {
		return nil, nil
	}
	provider, err := observability.InitTelemetry(context.Background(), observability.Config{
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: cfg.Observability.ServiceVersion,
		Environment:    cfg.Server.Environment,
		OTLPEndpoint:   cfg.Observability.Tracing.OTLPEndpoint,
		OTLPInsecure:   cfg.Observability.Tracing.OTLPInsecure,
		SamplingRate:   cfg.Observability.Tracing.SamplingRate,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("observability initialized",
		"tracing", cfg.Observability.Tracing.Enabled,
		"metrics", cfg.Observability.Metrics.Enabled,
	)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("shutting down observability providers")
			return provider.Shutdown(ctx)
		},
	})
	return provider, nil
}
