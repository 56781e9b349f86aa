//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"lendloop/cmd/bootstrap/components"
	"lendloop/internal/infra/db"
	"lendloop/internal/pkg/config"
	"lendloop/tests/common/dbtest"

	"github.com/docker/go-connections/nat"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
)

// One postgres container is shared by every suite in the process; each
// process creates its own database on it, so test packages can run in
// parallel without touching each other's rows.

const (
	pgUser     = "test"
	pgPassword = "testpass"
	pgPort     = "5432/tcp"
)

var (
	pgOnce      sync.Once
	pgContainer testcontainers.Container
)

// SharedSuite is embedded by every e2e suite. SetupSubTest truncates all
// tables, so each s.Run starts from an empty database.
type SharedSuite struct {
	suite.Suite
	Router *gin.Engine
	DB     *pgxpool.Pool
	Config config.Config
}

func (s *SharedSuite) SetupSuite() {
	t := s.T()
	gin.SetMode(gin.TestMode)

	host, port := postgresHostPort(t)
	pool, dbCfg := newProcessDatabase(t, host, port)

	s.DB = pool
	s.Router, s.Config = startApp(t, pool, dbCfg)
}

func (s *SharedSuite) SetupSubTest() {
	require.NoError(s.T(), dbtest.ResetDB(s.DB), "database reset failed")
}

func postgresHostPort(t *testing.T) (string, nat.Port) {
	pgOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()

		req := testcontainers.ContainerRequest{
			Image:        "postgres:17",
			ExposedPorts: []string{pgPort},
			Env: map[string]string{
				"POSTGRES_USER":     pgUser,
				"POSTGRES_PASSWORD": pgPassword,
				"POSTGRES_DB":       "postgres",
			},
			// throwaway data: trade durability for test speed
			Tmpfs: map[string]string{"/var/lib/postgresql/data": "rw,size=512m"},
			Cmd: []string{
				"postgres",
				"-c", "fsync=off",
				"-c", "full_page_writes=off",
				"-c", "synchronous_commit=off",
				"-c", "max_connections=200",
			},
			WaitingFor: wait.ForSQL(pgPort, "pgx", func(host string, port nat.Port) string {
				return adminDSN(host, port)
			}).WithStartupTimeout(60 * time.Second),
			// no fixed Name: test packages run as parallel processes and
			// each brings up its own container
			Labels: map[string]string{"purpose": "e2e-tests"},
		}

		var err error
		pgContainer, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: req,
			Started:          true,
		})
		require.NoError(t, err, "postgres container failed to start")

		t.Cleanup(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := pgContainer.Terminate(ctx); err != nil {
				slog.Warn("postgres container termination failed", "error", err.Error())
			}
		})
	})

	ctx := context.Background()
	port, err := pgContainer.MappedPort(ctx, nat.Port(pgPort))
	require.NoError(t, err)
	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	return host, port
}

func adminDSN(host string, port nat.Port) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
		pgUser, pgPassword, host, port.Port())
}

func newProcessDatabase(t *testing.T, host string, port nat.Port) (*pgxpool.Pool, config.DBConfig) {
	dbName := "lendloop_" + strings.ReplaceAll(uuid.New().String(), "-", "")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	admin, err := pgxpool.New(ctx, adminDSN(host, port))
	require.NoError(t, err, "admin connection failed")
	defer admin.Close()

	// CREATE DATABASE can lose a race against another process; retry briefly
	for attempt := 0; ; attempt++ {
		_, err = admin.Exec(ctx, "CREATE DATABASE "+dbName)
		if err == nil || attempt >= 4 {
			break
		}
		time.Sleep(time.Duration(attempt+1) * 500 * time.Millisecond)
	}
	require.NoError(t, err, "test database creation failed")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		drop, err := pgxpool.New(ctx, adminDSN(host, port))
		if err != nil {
			slog.Warn("test database cleanup connection failed", "database", dbName, "error", err.Error())
			return
		}
		defer drop.Close()
		if _, err := drop.Exec(ctx, "DROP DATABASE IF EXISTS "+dbName); err != nil {
			slog.Warn("test database drop failed", "database", dbName, "error", err.Error())
		}
	})

	dbCfg := config.DBConfig{
		Host:     host,
		Port:     port.Port(),
		User:     pgUser,
		Password: pgPassword,
		DBName:   dbName,
		SSLMode:  "disable",
	}

	pool, closePool, err := db.Connect(dbCfg)
	require.NoError(t, err, "test database connection failed")
	t.Cleanup(closePool)

	require.NoError(t, applyMigrations(pool), "migrations failed")
	return pool, dbCfg
}

// applyMigrations locates the schema file relative to whichever package
// directory `go test` runs from.
func applyMigrations(pool *pgxpool.Pool) error {
	const schema = "migrations/001_initial_schema.sql"

	var (
		sql []byte
		err error
	)
	for _, dir := range []string{".", "..", "../..", "../../.."} {
		sql, err = os.ReadFile(filepath.Join(dir, schema))
		if err == nil {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", schema, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("apply %s: %w", schema, err)
	}
	return nil
}

// startApp builds the real fx graph on top of the test database and pulls
// the router out of it, so e2e requests flow through the production wiring.
func startApp(t *testing.T, pool *pgxpool.Pool, dbCfg config.DBConfig) (*gin.Engine, config.Config) {
	var (
		router *gin.Engine
		cfg    config.Config
	)

	app := fx.New(
		fx.Provide(
			func() *pgxpool.Pool { return pool },
			func() config.Config {
				c := config.NewTestConfig()
				c.DB = dbCfg
				return c
			},
			func() *gin.Engine { return gin.New() },
		),
		components.PersistenceModule,
		components.UseCaseModule,
		components.HandlerModule,
		fx.Populate(&router, &cfg),
		fx.NopLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, app.Start(ctx), "fx app failed to start")
	require.NotNil(t, router, "router not populated")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Stop(ctx); err != nil {
			slog.Warn("fx app stop failed", "error", err.Error())
		}
	})

	return router, cfg
}
