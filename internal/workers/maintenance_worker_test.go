package workers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type countingMaintenance struct {
	runs atomic.Int32
}

func (m *countingMaintenance) CleanupUnusedTags(*gorm.DB) (int64, error)         { return 0, nil }
func (m *countingMaintenance) CleanExpiredRefreshTokens(*gorm.DB) (int64, error) { return 0, nil }
func (m *countingMaintenance) PruneRateLimiter() int                             { return 0 }

func (m *countingMaintenance) RunAll(ctx context.Context, db *gorm.DB) {
	m.runs.Add(1)
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.TempDir()+"/worker.db"), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestMaintenanceWorker_RunsOnTickerUntilCancelled(t *testing.T) {
	service := &countingMaintenance{}
	worker := NewMaintenanceWorker(openTestDB(t), service, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := worker.Start(ctx)

	require.Eventually(t, func() bool { return service.runs.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}

	stopped := service.runs.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, service.runs.Load())
}

func TestNewMaintenanceWorker_DefaultInterval(t *testing.T) {
	worker := NewMaintenanceWorker(nil, &countingMaintenance{}, 0)
	assert.Equal(t, time.Hour, worker.interval)
}
