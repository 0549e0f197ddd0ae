package db

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// testPool — shared connection pool для всех tests в package db
var testPool *pgxpool.Pool

// TestMain поднимает PostgreSQL testcontainer один раз на пакет.
// В режиме -short контейнер не запускается, интеграционные тесты пропускаются.
func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}
	os.Exit(runWithPostgres(m))
}

func runWithPostgres(m *testing.M) int {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		log.Fatalf("starting postgres container: %v", err)
	}
	defer func() {
		_ = container.Terminate(ctx)
	}()

	host, err := container.Host(ctx)
	if err != nil {
		log.Fatalf("getting container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		log.Fatalf("getting container port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	// порт открывается раньше, чем postgres принимает запросы
	database, err := Connect(ctx, dsn, 10)
	if err != nil {
		log.Fatalf("connecting to test db: %v", err)
	}
	defer database.Close()
	testPool = database.Pool()

	if err := RunMigrations(ctx, dsn); err != nil {
		log.Fatalf("running migrations: %v", err)
	}

	return m.Run()
}

// setupTestDB возвращает shared pool и очищает таблицы для изоляции.
func setupTestDB(tb testing.TB) *pgxpool.Pool {
	tb.Helper()
	if testPool == nil {
		tb.Skip("integration test: needs docker, skipped in -short mode")
	}

	ctx := context.Background()
	queries := []string{
		"TRUNCATE hit_sequences CASCADE",
		"TRUNCATE damage_runs CASCADE",
		"TRUNCATE records",
	}
	for _, query := range queries {
		if _, err := testPool.Exec(ctx, query); err != nil {
			tb.Logf("cleanup warning: %v", err) // non-fatal
		}
	}

	return testPool
}
