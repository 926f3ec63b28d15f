// Package dbtest поднимает PostgreSQL для интеграционных тестов.
// TEST_DB_DSN позволяет использовать уже запущенную базу вместо контейнера.
package dbtest

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"

	mydb "catalog/internal/db"
)

var (
	once    sync.Once
	shared  *gorm.DB
	initErr error
)

var tables = "access_tokens, users, images, post_type, posts, types, category_product, products, categories"

// New отдаёт чистую мигрированную базу; без docker тест пропускается
func New(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test skipped in -short mode")
	}
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		testcontainers.SkipIfProviderIsNotHealthy(t)
	}

	once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if dsn == "" {
			ctr, err := postgres.Run(ctx,
				"postgres:16-alpine",
				postgres.WithDatabase("catalog"),
				postgres.WithUsername("catalog"),
				postgres.WithPassword("password"),
				postgres.BasicWaitStrategies(),
			)
			if err != nil {
				initErr = err
				return
			}
			dsn, initErr = ctr.ConnectionString(ctx, "sslmode=disable")
			if initErr != nil {
				return
			}
		}
		shared, initErr = mydb.Open(dsn, false)
		if initErr != nil {
			return
		}
		initErr = mydb.Migrate(ctx, shared)
	})
	require.NoError(t, initErr)

	require.NoError(t, shared.Exec("TRUNCATE "+tables+" RESTART IDENTITY CASCADE").Error)
	return shared
}
