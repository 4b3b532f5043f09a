package bootstrap

import (
	"context"
	"database/sql"
	stderrors "errors"
	"log"
	"path/filepath"

	portsout "nexafaucet/internal/application/ports/out"
	apperrors "nexafaucet/internal/shared_kernel/errors"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Gateway brings the PostgreSQL backend to a usable state at startup: wait
// for the database to accept connections, then apply schema migrations.
type Gateway struct {
	databaseURL    string
	databaseTarget string
	migrationsPath string
	logger         *log.Logger
}

var _ portsout.PersistenceBootstrapGateway = (*Gateway)(nil)

func NewGateway(databaseURL string, databaseTarget string, migrationsPath string, logger *log.Logger) *Gateway {
	return &Gateway{
		databaseURL:    databaseURL,
		databaseTarget: databaseTarget,
		migrationsPath: migrationsPath,
		logger:         logger,
	}
}

func (g *Gateway) CheckReadiness(ctx context.Context) *apperrors.AppError {
	db, err := sql.Open("pgx", g.databaseURL)
	if err != nil {
		g.logf("database connection initialization failed target=%s error=%v", g.databaseTarget, err)
		return apperrors.NewInternal(
			"DB_CONNECT_INIT_FAILED",
			"failed to initialize database connection",
			map[string]any{"database_target": g.databaseTarget},
		)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		g.logf("database readiness check failed target=%s error=%v", g.databaseTarget, err)
		return apperrors.NewInternal(
			"DB_CONNECT_FAILED",
			"failed to connect to database",
			map[string]any{"database_target": g.databaseTarget},
		)
	}

	g.logf("database readiness check succeeded target=%s", g.databaseTarget)
	return nil
}

func (g *Gateway) RunMigrations(ctx context.Context) *apperrors.AppError {
	if err := ctx.Err(); err != nil {
		return apperrors.NewInternal(
			"DB_MIGRATION_CONTEXT_CANCELED",
			"migration context canceled",
			map[string]any{"database_target": g.databaseTarget},
		)
	}

	migrationsAbsPath, err := filepath.Abs(g.migrationsPath)
	if err != nil {
		return apperrors.NewInternal(
			"DB_MIGRATION_PATH_RESOLVE_FAILED",
			"failed to resolve migration path",
			map[string]any{"migrations_path": g.migrationsPath},
		)
	}

	sourceURL := "file://" + filepath.ToSlash(migrationsAbsPath)
	migrationRunner, err := migrate.New(sourceURL, g.databaseURL)
	if err != nil {
		return apperrors.NewInternal(
			"DB_MIGRATION_SETUP_FAILED",
			"failed to initialize migration runner",
			map[string]any{
				"database_target": g.databaseTarget,
				"migrations_path": g.migrationsPath,
			},
		)
	}

	defer func() {
		sourceErr, dbErr := migrationRunner.Close()
		if sourceErr != nil {
			g.logf("migration source close warning path=%s error=%v", g.migrationsPath, sourceErr)
		}
		if dbErr != nil {
			g.logf("migration db close warning target=%s error=%v", g.databaseTarget, dbErr)
		}
	}()

	err = migrationRunner.Up()
	if err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
		g.logf("database migrations failed target=%s error=%v", g.databaseTarget, err)
		return apperrors.NewInternal(
			"DB_MIGRATION_APPLY_FAILED",
			"failed to apply migrations",
			map[string]any{
				"database_target": g.databaseTarget,
				"migrations_path": g.migrationsPath,
			},
		)
	}

	if stderrors.Is(err, migrate.ErrNoChange) {
		g.logf("database migrations up to date target=%s", g.databaseTarget)
	} else {
		g.logf("database migrations applied target=%s", g.databaseTarget)
	}

	return nil
}

func (g *Gateway) logf(format string, args ...any) {
	if g.logger == nil {
		return
	}
	g.logger.Printf(format, args...)
}
