package di

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync"

	"nexafaucet/internal/adapters/inbound/http/controllers"
	httpRouter "nexafaucet/internal/adapters/inbound/http/router"
	hcaptchaverifier "nexafaucet/internal/adapters/outbound/captcha/hcaptcha"
	"nexafaucet/internal/adapters/outbound/docs"
	discordnotification "nexafaucet/internal/adapters/outbound/notification/discord"
	postgresqlbootstrap "nexafaucet/internal/adapters/outbound/persistence/postgresql/bootstrap"
	postgresqlcooldown "nexafaucet/internal/adapters/outbound/persistence/postgresql/cooldown"
	postgresqlshared "nexafaucet/internal/adapters/outbound/persistence/postgresql/shared"
	redisstore "nexafaucet/internal/adapters/outbound/persistence/redis"
	sqlitestore "nexafaucet/internal/adapters/outbound/persistence/sqlite"
	devtestwallet "nexafaucet/internal/adapters/outbound/wallet/devtest"
	rostrumwallet "nexafaucet/internal/adapters/outbound/wallet/rostrum"
	portsin "nexafaucet/internal/application/ports/in"
	portsout "nexafaucet/internal/application/ports/out"
	"nexafaucet/internal/application/use_cases"
	"nexafaucet/internal/domain/policies"
	"nexafaucet/internal/infrastructure/config"
	"nexafaucet/internal/infrastructure/httpserver"
	"nexafaucet/internal/infrastructure/keylock"
)

type Container struct {
	Database                     *sql.DB
	Server                       *httpserver.Server
	InitializePersistenceUseCase portsin.InitializePersistenceUseCase
}

type WalletGatewayBuilder func(cfg config.Config, logger *log.Logger) portsout.WalletGateway

var walletGatewayBuilders = map[string]WalletGatewayBuilder{
	"devtest": func(cfg config.Config, logger *log.Logger) portsout.WalletGateway {
		return devtestwallet.NewGateway(devtestwallet.Config{
			InitialBalanceSats: cfg.DevtestBalanceSats,
		}, logger)
	},
	"rostrum": func(cfg config.Config, logger *log.Logger) portsout.WalletGateway {
		return rostrumwallet.NewGateway(rostrumwallet.Config{
			BaseURL: cfg.WalletServiceURL,
			Timeout: cfg.WalletTimeout,
		}, logger)
	},
}

var walletGatewayBuildersMu sync.RWMutex

func RegisterWalletGatewayBuilder(mode string, builder WalletGatewayBuilder) {
	normalizedMode := strings.ToLower(strings.TrimSpace(mode))
	if normalizedMode == "" || builder == nil {
		return
	}

	walletGatewayBuildersMu.Lock()
	defer walletGatewayBuildersMu.Unlock()
	walletGatewayBuilders[normalizedMode] = builder
}

func Build(cfg config.Config, logger *log.Logger) (Container, error) {
	walletGateway, walletErr := buildWalletGateway(cfg, logger)
	if walletErr != nil {
		return Container{}, walletErr
	}

	container := Container{}

	var cooldownStore portsout.CooldownStore
	switch cfg.CooldownStore {
	case "postgres":
		databasePool := postgresqlshared.NewDatabasePool(cfg.DatabaseURL, logger)
		cooldownStore = postgresqlcooldown.NewRepository(databasePool, cfg.CooldownWindow, logger)
		persistenceGateway := postgresqlbootstrap.NewGateway(
			cfg.DatabaseURL,
			cfg.DatabaseTarget,
			cfg.MigrationsPath,
			logger,
		)
		container.Database = databasePool
		container.InitializePersistenceUseCase = use_cases.NewInitializePersistenceUseCase(persistenceGateway)
	case "sqlite":
		store, openErr := sqlitestore.Open(cfg.SQLitePath, cfg.CooldownWindow, logger)
		if openErr != nil {
			return Container{}, fmt.Errorf("open sqlite cooldown store: %w", openErr)
		}
		cooldownStore = store
	case "redis":
		store, connectErr := redisstore.New(redisstore.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, cfg.CooldownWindow, logger)
		if connectErr != nil {
			return Container{}, fmt.Errorf("connect redis cooldown store: %w", connectErr)
		}
		cooldownStore = store
	default:
		return Container{}, fmt.Errorf("unsupported cooldown store: %s", cfg.CooldownStore)
	}

	var notificationSink portsout.NotificationSink
	if cfg.DiscordWebhookURL == "" {
		notificationSink = discordnotification.NewNoopSink()
	} else {
		notificationSink = discordnotification.NewGateway(discordnotification.Config{
			WebhookURL: cfg.DiscordWebhookURL,
			Timeout:    cfg.NotifyTimeout,
		}, logger)
	}

	var captchaVerifier portsout.CaptchaVerifier
	if cfg.HCaptchaSecret == "" {
		captchaVerifier = hcaptchaverifier.NewDisabledVerifier()
	} else {
		captchaVerifier = hcaptchaverifier.NewVerifier(hcaptchaverifier.Config{
			Secret: cfg.HCaptchaSecret,
		}, logger)
	}

	cooldownPolicy := policies.CooldownPolicy{
		Window:             cfg.CooldownWindow,
		DispenseAmountSats: cfg.DispenseAmountSats,
	}

	healthUseCase := use_cases.NewGetHealthUseCase()
	openAPIReadModel := docs.NewFileOpenAPISpecReadModel(cfg.OpenAPISpecPath)
	openAPIUseCase := use_cases.NewGetOpenAPISpecUseCase(openAPIReadModel)
	dispenseUseCase := use_cases.NewDispenseUseCase(
		cooldownPolicy,
		cooldownStore,
		walletGateway,
		notificationSink,
		captchaVerifier,
		keylock.New(),
		use_cases.NewSystemClock(),
		cfg.NotifyTimeout,
		logger,
	)
	getBalanceUseCase := use_cases.NewGetBalanceUseCase(walletGateway)
	listRecentUseCase := use_cases.NewListRecentDispensesUseCase(cooldownStore)
	clearCooldownsUseCase := use_cases.NewClearCooldownsUseCase(cooldownStore, logger)

	healthController := controllers.NewHealthController(healthUseCase, logger)
	swaggerController := controllers.NewSwaggerController(openAPIUseCase, logger)
	faucetController := controllers.NewFaucetController(dispenseUseCase, logger)
	statusController := controllers.NewStatusController(getBalanceUseCase, listRecentUseCase, logger)
	adminController := controllers.NewAdminController(clearCooldownsUseCase, cfg.AdminToken, logger)

	router := httpRouter.New(httpRouter.Dependencies{
		HealthController:  healthController,
		SwaggerController: swaggerController,
		FaucetController:  faucetController,
		StatusController:  statusController,
		AdminController:   adminController,
	})

	container.Server = httpserver.New(cfg.Address(), router, logger)

	return container, nil
}

func buildWalletGateway(cfg config.Config, logger *log.Logger) (portsout.WalletGateway, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.WalletMode))

	walletGatewayBuildersMu.RLock()
	builder, exists := walletGatewayBuilders[mode]
	walletGatewayBuildersMu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("unsupported wallet mode: %s", cfg.WalletMode)
	}

	return builder(cfg, logger), nil
}
