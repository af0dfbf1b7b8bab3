package services

import (
	"context"

	"archived_backend/internal/logger"
	"archived_backend/internal/metrics"
	"archived_backend/internal/storage"
)

// removeStoredFiles удаляет файлы по их публичным URL.
// Вызывается после коммита, ошибки только логируются.
func removeStoredFiles(ctx context.Context, store storage.Storage, urls []string) {
	for _, url := range urls {
		name := storage.NameFromURL(url)
		if name == "" {
			continue
		}
		if err := store.Delete(ctx, name); err != nil {
			metrics.StorageDeleteErrors.Inc()
			logger.CtxWithError(ctx, "Failed to delete stored file", err, "file", name)
			continue
		}
		logger.CtxDebug(ctx, "Deleted stored file", "file", name)
	}
}

// sameIDSet - true, если requested содержит ровно те же ID, что current, без повторов
func sameIDSet(current, requested []uint) bool {
	if len(current) != len(requested) {
		return false
	}
	want := make(map[uint]bool, len(current))
	for _, id := range current {
		want[id] = true
	}
	for _, id := range requested {
		if !want[id] {
			return false
		}
		delete(want, id)
	}
	return len(want) == 0
}
