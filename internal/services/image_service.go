package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"archived_backend/internal/imageprocessor"
	"archived_backend/internal/logger"
	"archived_backend/internal/metrics"
	"archived_backend/internal/models"
	"archived_backend/internal/repositories"
	"archived_backend/internal/services/dto"
	"archived_backend/internal/storage"
	"archived_backend/pkg/apperrors"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// tempIDPrefix - плейсхолдер нового файла в new_images_order ("new-0", "new-1", ...)
const tempIDPrefix = "new-"

type ImageService interface {
	ListImages(db *gorm.DB, ownerID, itemID uint) ([]*dto.ImageResponse, error)
	UploadImages(ctx context.Context, db *gorm.DB, ownerID, itemID uint, files []*multipart.FileHeader) ([]*dto.ImageResponse, error)

	// UpdateImages удаляет, добавляет и переупорядочивает изображения одной транзакцией
	UpdateImages(ctx context.Context, db *gorm.DB, ownerID, itemID uint, req *dto.UpdateImagesRequest) ([]*dto.ImageResponse, error)
	DeleteImage(ctx context.Context, db *gorm.DB, ownerID, imageID uint) error
}

// UploadConfig - ограничения на загружаемые файлы
type UploadConfig struct {
	MaxFileSize       int64
	AllowedExtensions []string
}

func (c *UploadConfig) isAllowed(ext string) bool {
	for _, allowed := range c.AllowedExtensions {
		if strings.EqualFold(allowed, ext) {
			return true
		}
	}
	return false
}

type imageService struct {
	itemRepo  repositories.ItemRepository
	imageRepo repositories.ImageRepository
	storage   storage.Storage
	processor *imageprocessor.Processor
	config    UploadConfig
}

func NewImageService(
	itemRepo repositories.ItemRepository,
	imageRepo repositories.ImageRepository,
	storage storage.Storage,
	processor *imageprocessor.Processor,
	config UploadConfig,
) ImageService {
	return &imageService{
		itemRepo:  itemRepo,
		imageRepo: imageRepo,
		storage:   storage,
		processor: processor,
		config:    config,
	}
}

// preparedFile - проверенный (и при необходимости пережатый) файл, готовый к сохранению
type preparedFile struct {
	name        string
	data        []byte
	contentType string
}

func (s *imageService) ListImages(db *gorm.DB, ownerID, itemID uint) ([]*dto.ImageResponse, error) {
	item, err := verifyItem(db, s.itemRepo, ownerID, itemID)
	if err != nil {
		return nil, err
	}
	return dto.NewImageResponses(item.Images), nil
}

func (s *imageService) UploadImages(ctx context.Context, db *gorm.DB, ownerID, itemID uint, files []*multipart.FileHeader) ([]*dto.ImageResponse, error) {
	if len(files) == 0 {
		return nil, apperrors.ErrNoFilesProvided
	}

	if _, err := verifyItem(db, s.itemRepo, ownerID, itemID); err != nil {
		return nil, err
	}

	prepared, err := s.prepareFiles(files)
	if err != nil {
		return nil, err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	order, err := s.imageRepo.NextOrder(tx, itemID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	saved := make([]string, 0, len(prepared))
	for i, file := range prepared {
		image, err := s.storeImage(ctx, tx, itemID, order+i, file)
		if err != nil {
			removeStoredFiles(ctx, s.storage, saved)
			return nil, err
		}
		saved = append(saved, image.ImageURL)
	}

	if err := s.itemRepo.Touch(tx, itemID); err != nil {
		removeStoredFiles(ctx, s.storage, saved)
		return nil, apperrors.InternalError(err)
	}

	images, err := s.imageRepo.ListByItem(tx, itemID)
	if err != nil {
		removeStoredFiles(ctx, s.storage, saved)
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		removeStoredFiles(ctx, s.storage, saved)
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Images uploaded", "item_id", itemID, "count", len(saved))
	return dto.NewImageResponses(images), nil
}

func (s *imageService) UpdateImages(ctx context.Context, db *gorm.DB, ownerID, itemID uint, req *dto.UpdateImagesRequest) ([]*dto.ImageResponse, error) {
	if _, err := verifyItem(db, s.itemRepo, ownerID, itemID); err != nil {
		return nil, err
	}

	// 1. Файлы
	prepared, err := s.prepareFiles(req.NewFiles)
	if err != nil {
		return nil, err
	}

	// 2. Существующие ID в порядке должны принадлежать предмету
	currentIDs, err := s.imageRepo.IDsByItem(db, itemID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	current := idSet(currentIDs)

	order, err := parseImageOrder(req.Order)
	if err != nil {
		return nil, err
	}
	var invalid []uint
	for _, entry := range order {
		if !entry.isNew() && !current[entry.id] {
			invalid = append(invalid, entry.id)
		}
	}
	if len(invalid) > 0 {
		return nil, apperrors.ErrInvalidImageIDs(uniqueSorted(invalid))
	}

	// 3. Удаляемые изображения должны существовать
	toDelete, err := s.imageRepo.FindByIDsForItem(db, req.DeletedImageIDs, itemID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	deleted := make(map[uint]bool, len(toDelete))
	deletedURLs := make([]string, 0, len(toDelete))
	for _, img := range toDelete {
		deleted[img.ID] = true
		deletedURLs = append(deletedURLs, img.ImageURL)
	}
	var missing []uint
	for _, id := range req.DeletedImageIDs {
		if !deleted[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.ErrImagesNotFound(uniqueSorted(missing))
	}

	// 4. Плейсхолдеры и удаленные ID в порядке
	for _, entry := range order {
		if entry.isNew() {
			if entry.newIndex < 0 || entry.newIndex >= len(prepared) {
				return nil, apperrors.ErrUnknownTempID(entry.raw)
			}
			continue
		}
		if deleted[entry.id] {
			return nil, apperrors.ErrInvalidImageOrderID(entry.id)
		}
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.imageRepo.DeleteByIDs(tx, req.DeletedImageIDs); err != nil {
		return nil, apperrors.InternalError(err)
	}

	nextOrder, err := s.imageRepo.NextOrder(tx, itemID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	saved := make([]string, 0, len(prepared))
	newIDs := make([]uint, 0, len(prepared))
	for i, file := range prepared {
		image, err := s.storeImage(ctx, tx, itemID, nextOrder+i, file)
		if err != nil {
			removeStoredFiles(ctx, s.storage, saved)
			return nil, err
		}
		saved = append(saved, image.ImageURL)
		newIDs = append(newIDs, image.ID)
	}

	for position, entry := range order {
		id := entry.id
		if entry.isNew() {
			id = newIDs[entry.newIndex]
		}
		if err := s.imageRepo.UpdateOrder(tx, id, position); err != nil {
			removeStoredFiles(ctx, s.storage, saved)
			return nil, apperrors.InternalError(err)
		}
	}

	if err := s.itemRepo.Touch(tx, itemID); err != nil {
		removeStoredFiles(ctx, s.storage, saved)
		return nil, apperrors.InternalError(err)
	}

	images, err := s.imageRepo.ListByItem(tx, itemID)
	if err != nil {
		removeStoredFiles(ctx, s.storage, saved)
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		removeStoredFiles(ctx, s.storage, saved)
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Item images updated",
		"item_id", itemID,
		"deleted", len(deletedURLs),
		"added", len(saved),
	)
	removeStoredFiles(ctx, s.storage, deletedURLs)
	return dto.NewImageResponses(images), nil
}

func (s *imageService) DeleteImage(ctx context.Context, db *gorm.DB, ownerID, imageID uint) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	image, err := s.imageRepo.FindByID(tx, imageID)
	if err != nil {
		if errors.Is(err, repositories.ErrImageNotFound) {
			return apperrors.ErrImageNotFound
		}
		return apperrors.InternalError(err)
	}

	if _, err := verifyItem(tx, s.itemRepo, ownerID, image.ItemID); err != nil {
		return err
	}

	if err := s.imageRepo.Delete(tx, image.ID); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.itemRepo.Touch(tx, image.ItemID); err != nil {
		return apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	removeStoredFiles(ctx, s.storage, []string{image.ImageURL})
	return nil
}

// =======================
// Файлы
// =======================

// prepareFiles проверяет расширения и размер; изображения больше лимита пережимаются в JPEG
func (s *imageService) prepareFiles(files []*multipart.FileHeader) ([]preparedFile, error) {
	prepared := make([]preparedFile, 0, len(files))

	for _, fh := range files {
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		if !s.config.isAllowed(ext) {
			return nil, apperrors.ErrFileTypeNotAllowed(ext, s.config.AllowedExtensions)
		}

		data, err := readFileHeader(fh)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}

		name := fh.Filename
		if int64(len(data)) > s.config.MaxFileSize {
			if !imageprocessor.IsImageExtension(ext) {
				return nil, apperrors.ErrFileTooLarge(fh.Filename, s.config.MaxFileSize)
			}
			compressed, err := s.processor.CompressToFit(data, s.config.MaxFileSize)
			if err != nil {
				return nil, apperrors.ErrImageCompressionFailed(fh.Filename, err)
			}
			metrics.ImagesCompressed.Inc()
			data = compressed
			name = imageprocessor.JPEGFilename(fh.Filename)
		}

		detected := mimetype.Detect(data)
		if imageprocessor.IsImageExtension(ext) && !strings.HasPrefix(detected.String(), "image/") {
			return nil, apperrors.ErrNotAnImage(fh.Filename, detected.String())
		}

		prepared = append(prepared, preparedFile{
			name:        name,
			data:        data,
			contentType: detected.String(),
		})
	}

	return prepared, nil
}

// storeImage сохраняет файл под случайным именем и создает запись ItemImage
func (s *imageService) storeImage(ctx context.Context, db *gorm.DB, itemID uint, order int, file preparedFile) (*models.ItemImage, error) {
	name := strings.ReplaceAll(uuid.NewString(), "-", "") + strings.ToLower(filepath.Ext(file.name))

	if err := s.storage.Save(ctx, name, bytes.NewReader(file.data), file.contentType); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeExternalServiceError, "upload", "Failed to store file", http.StatusInternalServerError)
	}

	url, err := s.storage.GetURL(ctx, name)
	if err != nil {
		_ = s.storage.Delete(ctx, name)
		return nil, apperrors.InternalError(err)
	}

	image := &models.ItemImage{
		ImageURL:   url,
		ItemID:     itemID,
		ImageOrder: order,
	}
	if err := s.imageRepo.Create(db, image); err != nil {
		_ = s.storage.Delete(ctx, name)
		return nil, apperrors.InternalError(err)
	}

	metrics.ImagesStored.Inc()
	return image, nil
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file %s: %w", fh.Filename, err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

// =======================
// Порядок изображений
// =======================

type orderEntry struct {
	raw      string
	id       uint
	newIndex int // -1 для существующих изображений
}

func (e orderEntry) isNew() bool {
	return e.newIndex != -1
}

// parseImageOrder разбирает new_images_order: числа - существующие ID, "new-<i>" - новые файлы.
// Некорректный плейсхолдер получает newIndex = -2 и отклоняется как неизвестный.
func parseImageOrder(raw []string) ([]orderEntry, error) {
	entries := make([]orderEntry, 0, len(raw))
	for _, value := range raw {
		value = strings.TrimSpace(value)

		if strings.HasPrefix(value, "new") {
			idx := -2
			if n, err := strconv.Atoi(strings.TrimPrefix(value, tempIDPrefix)); err == nil && strings.HasPrefix(value, tempIDPrefix) && n >= 0 {
				idx = n
			}
			entries = append(entries, orderEntry{raw: value, newIndex: idx})
			continue
		}

		id, err := strconv.ParseUint(value, 10, 64)
		if err != nil || id == 0 {
			return nil, apperrors.ErrMalformedImageOrderEntry(value)
		}
		entries = append(entries, orderEntry{raw: value, id: uint(id), newIndex: -1})
	}
	return entries, nil
}

func idSet(ids []uint) map[uint]bool {
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func uniqueSorted(ids []uint) []uint {
	set := idSet(ids)
	out := make([]uint, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
