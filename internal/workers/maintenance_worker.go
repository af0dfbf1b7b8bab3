package workers

import (
	"context"
	"time"

	"archived_backend/internal/logger"
	"archived_backend/internal/services"

	"gorm.io/gorm"
)

const maintenanceWorkerName = "maintenance_worker"

type MaintenanceWorker struct {
	db       *gorm.DB
	service  services.MaintenanceService
	interval time.Duration
}

func NewMaintenanceWorker(db *gorm.DB, service services.MaintenanceService, interval time.Duration) *MaintenanceWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &MaintenanceWorker{
		db:       db,
		service:  service,
		interval: interval,
	}
}

// Start запускает фоновые задачи обслуживания до отмены ctx.
// Возвращаемый канал закрывается, когда горутина завершилась.
func (w *MaintenanceWorker) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.run(ctx)
	}()
	return done
}

func (w *MaintenanceWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.WorkerLog(maintenanceWorkerName, "start", nil, "interval", w.interval.String())

	for {
		select {
		case <-ctx.Done():
			logger.WorkerLog(maintenanceWorkerName, "stop", nil)
			return
		case <-ticker.C:
			w.service.RunAll(ctx, w.db.WithContext(ctx))
		}
	}
}
