package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort                     = "8080"
	defaultOpenAPISpec              = "api/openapi.yaml"
	defaultShutdownTimeout          = 10 * time.Second
	defaultDBReadinessTimeout       = 30 * time.Second
	defaultDBReadinessRetryInterval = 2 * time.Second
	defaultMigrationsPath           = "internal/adapters/outbound/persistence/postgresql/migrations"

	defaultCooldownWindow     = 24 * time.Hour
	defaultDispenseAmountSats = 1_000_000
	defaultCooldownStore      = "postgres"
	defaultSQLitePath         = "faucet.db"
	defaultWalletMode         = "devtest"
	defaultWalletTimeout      = 15 * time.Second
	defaultDevtestBalanceSats = 100_000_000
	defaultNotifyTimeout      = 5 * time.Second
)

type ConfigError struct {
	Code     string
	Message  string
	Metadata map[string]string
}

func (e *ConfigError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

type Config struct {
	Port            string
	OpenAPISpecPath string
	ShutdownTimeout time.Duration

	CooldownWindow     time.Duration
	DispenseAmountSats int64

	CooldownStore            string
	DatabaseURL              string
	DatabaseTarget           string
	DBReadinessTimeout       time.Duration
	DBReadinessRetryInterval time.Duration
	MigrationsPath           string
	SQLitePath               string
	RedisAddr                string
	RedisPassword            string
	RedisDB                  int

	WalletMode         string
	WalletServiceURL   string
	WalletTimeout      time.Duration
	DevtestBalanceSats int64

	DiscordWebhookURL string
	NotifyTimeout     time.Duration
	HCaptchaSecret    string
	AdminToken        string
}

func LoadConfig() (Config, *ConfigError) {
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	openAPISpecPath := os.Getenv("OPENAPI_SPEC_PATH")
	if openAPISpecPath == "" {
		openAPISpecPath = defaultOpenAPISpec
	}

	dispenseAmount, amountErr := parsePositiveInt64("FAUCET_AMOUNT", defaultDispenseAmountSats)
	if amountErr != nil {
		return Config{}, amountErr
	}

	cooldownWindow, windowErr := parsePositiveDurationMS("COOLDOWN_MS", defaultCooldownWindow)
	if windowErr != nil {
		return Config{}, windowErr
	}

	cooldownStore := strings.ToLower(strings.TrimSpace(os.Getenv("COOLDOWN_STORE")))
	if cooldownStore == "" {
		cooldownStore = defaultCooldownStore
	}
	switch cooldownStore {
	case "postgres", "sqlite", "redis":
	default:
		return Config{}, &ConfigError{
			Code:    "CONFIG_COOLDOWN_STORE_INVALID",
			Message: "COOLDOWN_STORE must be one of postgres, sqlite, redis",
			Metadata: map[string]string{
				"cooldown_store": cooldownStore,
			},
		}
	}

	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	databaseTarget := ""
	if cooldownStore == "postgres" {
		if databaseURL == "" {
			return Config{}, &ConfigError{
				Code:    "CONFIG_DATABASE_URL_REQUIRED",
				Message: "DATABASE_URL is required for the postgres cooldown store",
			}
		}

		parsedTarget, parseErr := parseDatabaseTarget(databaseURL)
		if parseErr != nil {
			return Config{}, parseErr
		}
		databaseTarget = parsedTarget
	}

	sqlitePath := strings.TrimSpace(os.Getenv("SQLITE_PATH"))
	if sqlitePath == "" {
		sqlitePath = defaultSQLitePath
	}

	redisAddr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if cooldownStore == "redis" && redisAddr == "" {
		return Config{}, &ConfigError{
			Code:    "CONFIG_REDIS_ADDR_REQUIRED",
			Message: "REDIS_ADDR is required for the redis cooldown store",
		}
	}

	redisDB := 0
	if rawRedisDB := strings.TrimSpace(os.Getenv("REDIS_DB")); rawRedisDB != "" {
		parsed, err := strconv.Atoi(rawRedisDB)
		if err != nil || parsed < 0 {
			return Config{}, &ConfigError{
				Code:    "CONFIG_REDIS_DB_INVALID",
				Message: "REDIS_DB must be a non-negative integer",
			}
		}
		redisDB = parsed
	}

	walletMode := strings.ToLower(strings.TrimSpace(os.Getenv("WALLET_MODE")))
	if walletMode == "" {
		walletMode = defaultWalletMode
	}
	switch walletMode {
	case "devtest", "rostrum":
	default:
		return Config{}, &ConfigError{
			Code:    "CONFIG_WALLET_MODE_INVALID",
			Message: "WALLET_MODE must be devtest or rostrum",
			Metadata: map[string]string{
				"wallet_mode": walletMode,
			},
		}
	}

	walletServiceURL := strings.TrimSpace(os.Getenv("WALLET_SERVICE_URL"))
	if walletMode == "rostrum" && walletServiceURL == "" {
		return Config{}, &ConfigError{
			Code:    "CONFIG_WALLET_SERVICE_URL_REQUIRED",
			Message: "WALLET_SERVICE_URL is required for rostrum wallet mode",
		}
	}

	walletTimeout, walletTimeoutErr := parsePositiveDurationMS("WALLET_TIMEOUT_MS", defaultWalletTimeout)
	if walletTimeoutErr != nil {
		return Config{}, walletTimeoutErr
	}

	devtestBalance, devtestBalanceErr := parsePositiveInt64("DEVTEST_WALLET_BALANCE", defaultDevtestBalanceSats)
	if devtestBalanceErr != nil {
		return Config{}, devtestBalanceErr
	}

	notifyTimeout, notifyTimeoutErr := parsePositiveDurationMS("NOTIFY_TIMEOUT_MS", defaultNotifyTimeout)
	if notifyTimeoutErr != nil {
		return Config{}, notifyTimeoutErr
	}

	return Config{
		Port:            port,
		OpenAPISpecPath: openAPISpecPath,
		ShutdownTimeout: defaultShutdownTimeout,

		CooldownWindow:     cooldownWindow,
		DispenseAmountSats: dispenseAmount,

		CooldownStore:            cooldownStore,
		DatabaseURL:              databaseURL,
		DatabaseTarget:           databaseTarget,
		DBReadinessTimeout:       defaultDBReadinessTimeout,
		DBReadinessRetryInterval: defaultDBReadinessRetryInterval,
		MigrationsPath:           migrationsPath(),
		SQLitePath:               sqlitePath,
		RedisAddr:                redisAddr,
		RedisPassword:            os.Getenv("REDIS_PASSWORD"),
		RedisDB:                  redisDB,

		WalletMode:         walletMode,
		WalletServiceURL:   walletServiceURL,
		WalletTimeout:      walletTimeout,
		DevtestBalanceSats: devtestBalance,

		DiscordWebhookURL: strings.TrimSpace(os.Getenv("DISCORD_WEBHOOK_URL")),
		NotifyTimeout:     notifyTimeout,
		HCaptchaSecret:    strings.TrimSpace(os.Getenv("HCAPTCHA_SECRET")),
		AdminToken:        strings.TrimSpace(os.Getenv("FAUCET_ADMIN_TOKEN")),
	}, nil
}

func (c Config) Address() string {
	return ":" + c.Port
}

func migrationsPath() string {
	path := strings.TrimSpace(os.Getenv("MIGRATIONS_PATH"))
	if path == "" {
		return defaultMigrationsPath
	}
	return path
}

func parsePositiveInt64(envName string, fallback int64) (int64, *ConfigError) {
	raw := strings.TrimSpace(os.Getenv(envName))
	if raw == "" {
		return fallback, nil
	}

	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || parsed <= 0 {
		return 0, &ConfigError{
			Code:    "CONFIG_" + envName + "_INVALID",
			Message: envName + " must be a positive integer",
		}
	}

	return parsed, nil
}

func parsePositiveDurationMS(envName string, fallback time.Duration) (time.Duration, *ConfigError) {
	raw := strings.TrimSpace(os.Getenv(envName))
	if raw == "" {
		return fallback, nil
	}

	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || parsed <= 0 {
		return 0, &ConfigError{
			Code:    "CONFIG_" + envName + "_INVALID",
			Message: envName + " must be a positive integer of milliseconds",
		}
	}

	return time.Duration(parsed) * time.Millisecond, nil
}

func parseDatabaseTarget(databaseURL string) (string, *ConfigError) {
	parsed, err := url.Parse(databaseURL)
	if err != nil {
		return "", &ConfigError{
			Code:    "CONFIG_DATABASE_URL_INVALID",
			Message: "DATABASE_URL is invalid",
		}
	}

	switch parsed.Scheme {
	case "postgres", "postgresql":
	default:
		return "", &ConfigError{
			Code:    "CONFIG_DATABASE_URL_SCHEME_INVALID",
			Message: "DATABASE_URL must use postgres or postgresql scheme",
		}
	}

	if parsed.Host == "" {
		return "", &ConfigError{
			Code:    "CONFIG_DATABASE_URL_HOST_MISSING",
			Message: "DATABASE_URL host is required",
		}
	}

	databaseName := strings.TrimPrefix(parsed.Path, "/")
	if databaseName == "" {
		return "", &ConfigError{
			Code:    "CONFIG_DATABASE_NAME_MISSING",
			Message: "DATABASE_URL database name is required",
		}
	}

	return parsed.Host + "/" + databaseName, nil
}
