package router

import (
	adminapp "github.com/careerbridge/careerbridge-api/internal/application"
	"github.com/careerbridge/careerbridge-api/internal/container"
	metricsinfra "github.com/careerbridge/careerbridge-api/internal/infrastructure/metrics"
	"github.com/careerbridge/careerbridge-api/internal/infrastructure/notify"
	pginfra "github.com/careerbridge/careerbridge-api/internal/infrastructure/postgres"
	handlers "github.com/careerbridge/careerbridge-api/internal/interface/http"
	"github.com/careerbridge/careerbridge-api/internal/router/modules"
)

type AdminModuleDeps struct {
	Admin     *handlers.AdminHandler
	Analytics *handlers.AnalyticsHandler
	Auth      *handlers.AuthHandler
}

func buildAdminDeps() AdminModuleDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()
	rdb := container.GetRedis()

	accounts := pginfra.NewAccountRepository(pool)
	jobs := pginfra.NewJobPostingRepository(pool)
	analytics := pginfra.NewAnalyticsRepository(pool)

	broadcaster := adminapp.NewBroadcaster(accounts, notify.NewRedisNotifier(rdb), logger)

	adminSvc := adminapp.NewAdminService(accounts, jobs, broadcaster, notify.NewRabbitEmailQueue(container.GetRabbitPub()), logger)
	adminSvc.ES = container.GetES()
	adminSvc.ESAccountsIndex = cfg.ESAccountsIndex
	adminSvc.GCS = container.GetGCS()
	adminSvc.GCSBucket = cfg.GCSBucket

	analyticsSvc := adminapp.NewAnalyticsService(
		analytics,
		metricsinfra.NewSource(pool, rdb, container.GetRabbitPub()),
		rdb,
		logger,
		cfg.AnalyticsProbeTimeout,
		cfg.AnalyticsCacheTTL,
	)

	authSvc := adminapp.NewAuthService(accounts, container.GetJWT(), rdb, logger)

	return AdminModuleDeps{
		Admin:     handlers.NewAdminHandler(adminSvc, logger),
		Analytics: handlers.NewAnalyticsHandler(analyticsSvc, logger),
		Auth:      handlers.NewAuthHandler(authSvc, logger, cfg.CookieDomain, cfg.CookieSecure),
	}
}

// InitModules initializes all application modules and registers them with the
// router registry. Called once during startup.
func InitModules(r *Registry) {
	deps := buildAdminDeps()
	r.Add(modules.NewAuthModule(deps.Auth, container.GetJWT()))
	r.Add(modules.NewAdminModule(deps.Admin, deps.Analytics, container.GetJWT()))
	r.Add(modules.NewDebugModule())
}
