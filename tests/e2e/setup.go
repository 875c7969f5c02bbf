//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"parking-reservation/cmd/bootstrap"
	"parking-reservation/cmd/bootstrap/components"
	"parking-reservation/internal/infra/db"
	"parking-reservation/internal/pkg/config"
	"parking-reservation/tests/common/dbtest"

	"github.com/docker/go-connections/nat"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
)

const (
	testUser     = "test"
	testPassword = "testpass"

	postgresPort = "5432/tcp"
	redisPort    = "6379/tcp"
)

var (
	postgresOnce      sync.Once
	postgresContainer testcontainers.Container

	redisOnce      sync.Once
	redisContainer testcontainers.Container
)

type ContainerInfo struct {
	Host string
	Port nat.Port
}

// Option adjusts the test config before the fx app is built.
type Option func(t *testing.T, cfg *config.Config)

// WithRateLimit starts a Redis container and turns the token bucket on with a
// small capacity and no refill inside the test's lifetime.
func WithRateLimit(capacity int) Option {
	return func(t *testing.T, cfg *config.Config) {
		info := startRedisOnce(t)
		cfg.Redis.Addr = fmt.Sprintf("%s:%s", info.Host, info.Port.Port())
		cfg.RateLimit.Enabled = true
		cfg.RateLimit.Capacity = capacity
		cfg.RateLimit.RefillTokens = 1
		cfg.RateLimit.RefillInterval = time.Hour
		cfg.RateLimit.TTL = time.Hour
		cfg.RateLimit.Prefix = "rl-" + uuid.NewString()[:8]
	}
}

type app struct {
	router *gin.Engine
	cfg    config.Config
	redis  *redis.Client
}

func setupE2EEnvironment(t *testing.T, opts ...Option) (*pgxpool.Pool, app) {
	gin.SetMode(gin.TestMode)

	pool, dbConfig := prepareDatabase(t, startPostgresOnce(t))

	cfg := config.NewTestConfig()
	cfg.DB = dbConfig
	for _, opt := range opts {
		opt(t, &cfg)
	}

	built, fxApp := buildE2EApp(t, pool, cfg)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := fxApp.Stop(ctx); err != nil {
			slog.Warn("fxアプリケーションの停止に失敗しました", "error", err.Error())
		}
	})

	return pool, built
}

// 実行ごとに専用のデータベースを作る
func prepareDatabase(t *testing.T, info ContainerInfo) (*pgxpool.Pool, config.DBConfig) {
	dbName := "parking_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	adminDSN := fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
		testUser, testPassword, info.Host, info.Port.Port())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	adminPool, err := pgxpool.New(ctx, adminDSN)
	require.NoError(t, err, "管理者接続に失敗")
	defer adminPool.Close()

	var createErr error
	for attempt := range 5 {
		if attempt > 0 {
			time.Sleep(min(time.Duration(attempt)*500*time.Millisecond, 3*time.Second))
			slog.Warn("データベース作成を再試行中", "attempt", attempt+1, "error", createErr.Error())
		}
		if _, createErr = adminPool.Exec(ctx, "CREATE DATABASE "+dbName); createErr == nil {
			break
		}
	}
	require.NoError(t, createErr, "テスト用データベースの作成に失敗")

	t.Cleanup(func() {
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cleanupCancel()
		cleanupPool, err := pgxpool.New(cleanupCtx, adminDSN)
		if err != nil {
			slog.Warn("クリーンアップ用の接続に失敗しました", "database", dbName, "error", err.Error())
			return
		}
		defer cleanupPool.Close()
		if _, err := cleanupPool.Exec(cleanupCtx, "DROP DATABASE IF EXISTS "+dbName+" WITH (FORCE)"); err != nil {
			slog.Warn("テストデータベースの削除に失敗しました", "database", dbName, "error", err.Error())
		}
	})

	dbConfig := config.DBConfig{
		Host:     info.Host,
		Port:     info.Port.Port(),
		User:     testUser,
		Password: testPassword,
		DBName:   dbName,
		SSLMode:  "disable",
		TimeZone: "UTC",
		MaxConns: 30,
	}

	pool, _, err := db.Connect(dbConfig)
	require.NoError(t, err, "データベース接続に失敗")
	t.Cleanup(pool.Close)

	require.NoError(t, applyMigrations(pool), "マイグレーションに失敗")
	require.NoError(t, dbtest.SeedReferenceData(pool), "参照データの投入に失敗")

	return pool, dbConfig
}

// applyMigrations runs every migrations/*.sql file in name order. The atlas
// CLI used by cmd/migrate is not required inside the test container setup.
func applyMigrations(pool *pgxpool.Pool) error {
	dir, err := findMigrationsDir()
	if err != nil {
		return err
	}

	fsys := os.DirFS(dir)
	files, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}
	sort.Strings(files)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, name := range files {
		sqlContent, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		if _, err := pool.Exec(ctx, string(sqlContent)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", name, err)
		}
	}
	return nil
}

// go test runs inside the package directory, so walk up to the repo root.
func findMigrationsDir() (string, error) {
	for _, candidate := range []string{
		"migrations",
		filepath.Join("..", "migrations"),
		filepath.Join("..", "..", "migrations"),
		filepath.Join("..", "..", "..", "migrations"),
	} {
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("migrations directory not found")
}

func buildE2EApp(t *testing.T, pool *pgxpool.Pool, cfg config.Config) (app, *fx.App) {
	var built app

	fxApp := fx.New(
		fx.Provide(func() *pgxpool.Pool { return pool }),
		fx.Provide(func() config.Config { return cfg }),
		fx.Provide(func() *gin.Engine { return gin.New() }),
		bootstrap.LoggerModule,
		bootstrap.JWTModule,
		bootstrap.RedisModule,
		// Kafka stays disabled; the outbox rows are asserted directly in the DB
		bootstrap.KafkaModule,
		components.PersistenceModule,
		components.UseCaseModule,
		components.HandlerModule,
		fx.Populate(&built.router, &built.cfg, &built.redis),
		fx.NopLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, fxApp.Start(ctx), "fxアプリケーションの起動に失敗")
	require.NotNil(t, built.router, "Routerのセットアップに失敗")

	return built, fxApp
}

func startContainer(t *testing.T, req testcontainers.ContainerRequest) testcontainers.Container {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "%s コンテナの起動に失敗", req.Image)
	return c
}

func startPostgresOnce(t *testing.T) ContainerInfo {
	postgresOnce.Do(func() {
		postgresContainer = startContainer(t, testcontainers.ContainerRequest{
			Image:        "postgres:17",
			ExposedPorts: []string{postgresPort},
			Env: map[string]string{
				"POSTGRES_USER":     testUser,
				"POSTGRES_PASSWORD": testPassword,
				"POSTGRES_DB":       "postgres",
			},
			// データをRAMに載せてI/Oを削減
			Tmpfs: map[string]string{"/var/lib/postgresql/data": "rw,size=512m"},
			Cmd: []string{
				"postgres",
				"-c", "fsync=off",
				"-c", "full_page_writes=off",
				"-c", "synchronous_commit=off",
				"-c", "shared_buffers=256MB",
				"-c", "max_connections=200",
				"-c", "log_statement=none",
			},
			WaitingFor: wait.ForSQL(postgresPort, "pgx", func(host string, port nat.Port) string {
				return fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
					testUser, testPassword, host, port.Port())
			}).WithStartupTimeout(60 * time.Second),
			Labels: map[string]string{"purpose": "parking-e2e"},
		})
	})
	require.NotNil(t, postgresContainer, "PostgreSQLコンテナが起動していません")

	info, err := containerHostPort(postgresContainer, postgresPort)
	require.NoError(t, err, "PostgreSQLコンテナ情報の取得に失敗")
	return info
}

func startRedisOnce(t *testing.T) ContainerInfo {
	redisOnce.Do(func() {
		redisContainer = startContainer(t, testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{redisPort},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
			Labels:       map[string]string{"purpose": "parking-e2e"},
		})
	})
	require.NotNil(t, redisContainer, "Redisコンテナが起動していません")

	info, err := containerHostPort(redisContainer, redisPort)
	require.NoError(t, err, "Redisコンテナ情報の取得に失敗")
	return info
}

func containerHostPort(c testcontainers.Container, port string) (ContainerInfo, error) {
	ctx := context.Background()
	mappedPort, err := c.MappedPort(ctx, nat.Port(port))
	if err != nil {
		return ContainerInfo{}, err
	}
	host, err := c.Host(ctx)
	if err != nil {
		return ContainerInfo{}, err
	}
	return ContainerInfo{Host: host, Port: mappedPort}, nil
}

// SharedSuite gives each e2e package its own database and fx app. Set Options
// before suite.Run to opt into extra infrastructure.
type SharedSuite struct {
	suite.Suite
	Router  *gin.Engine
	DB      *pgxpool.Pool
	Config  config.Config
	Redis   *redis.Client
	Options []Option
}

func (s *SharedSuite) SetupSuite() {
	pool, built := setupE2EEnvironment(s.T(), s.Options...)
	s.DB = pool
	s.Router = built.router
	s.Config = built.cfg
	s.Redis = built.redis
}

// 各サブテストの前にテーブルとレート制限の状態を初期化する
func (s *SharedSuite) SetupSubTest() {
	require.NoError(s.T(), dbtest.ResetDB(s.DB), "Failed to reset database state")
	if s.Redis != nil {
		require.NoError(s.T(), s.Redis.FlushDB(context.Background()).Err(), "Failed to flush redis")
	}
}
