package services

import (
	"context"
	"errors"
	"strings"

	"archived_backend/internal/logger"
	"archived_backend/internal/models"
	"archived_backend/internal/repositories"
	"archived_backend/internal/services/dto"
	"archived_backend/internal/storage"
	"archived_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ItemService interface {
	GetItem(db *gorm.DB, ownerID, itemID uint) (*dto.ItemResponse, error)
	UpdateItem(db *gorm.DB, ownerID, itemID uint, req *dto.ItemRequest) (*dto.ItemResponse, error)
	DeleteItem(ctx context.Context, db *gorm.DB, ownerID, itemID uint) error

	// Tags
	GetTags(db *gorm.DB, ownerID, itemID uint) ([]*dto.TagResponse, error)
	AddTags(db *gorm.DB, ownerID, itemID uint, req *dto.AddTagsRequest) ([]*dto.TagResponse, error)
	ClearTags(db *gorm.DB, ownerID, itemID uint) ([]*dto.TagResponse, error)
}

type itemService struct {
	itemRepo  repositories.ItemRepository
	tagRepo   repositories.TagRepository
	imageRepo repositories.ImageRepository
	storage   storage.Storage
}

func NewItemService(
	itemRepo repositories.ItemRepository,
	tagRepo repositories.TagRepository,
	imageRepo repositories.ImageRepository,
	storage storage.Storage,
) ItemService {
	return &itemService{
		itemRepo:  itemRepo,
		tagRepo:   tagRepo,
		imageRepo: imageRepo,
		storage:   storage,
	}
}

func (s *itemService) GetItem(db *gorm.DB, ownerID, itemID uint) (*dto.ItemResponse, error) {
	item, err := verifyItem(db, s.itemRepo, ownerID, itemID)
	if err != nil {
		return nil, err
	}
	return dto.NewItemResponse(item), nil
}

func (s *itemService) UpdateItem(db *gorm.DB, ownerID, itemID uint, req *dto.ItemRequest) (*dto.ItemResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	item, err := verifyItem(tx, s.itemRepo, ownerID, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.itemRepo.Update(tx, item, req.Name, req.Description); err != nil {
		return nil, apperrors.InternalError(err)
	}

	updated, err := verifyItem(tx, s.itemRepo, ownerID, itemID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewItemResponse(updated), nil
}

func (s *itemService) DeleteItem(ctx context.Context, db *gorm.DB, ownerID, itemID uint) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if _, err := verifyItem(tx, s.itemRepo, ownerID, itemID); err != nil {
		return err
	}

	urls, err := s.imageRepo.URLsByItem(tx, itemID)
	if err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.itemRepo.Delete(tx, itemID); err != nil {
		return apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Item deleted", "item_id", itemID, "images", len(urls))
	removeStoredFiles(ctx, s.storage, urls)
	return nil
}

// =======================
// Tags
// =======================

func (s *itemService) GetTags(db *gorm.DB, ownerID, itemID uint) ([]*dto.TagResponse, error) {
	item, err := verifyItem(db, s.itemRepo, ownerID, itemID)
	if err != nil {
		return nil, err
	}
	return dto.NewTagResponses(item.Tags), nil
}

// AddTags находит или создает теги по имени и привязывает их к предмету.
// Пустые имена пропускаются, повторные привязки игнорируются.
func (s *itemService) AddTags(db *gorm.DB, ownerID, itemID uint, req *dto.AddTagsRequest) ([]*dto.TagResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if _, err := verifyItem(tx, s.itemRepo, ownerID, itemID); err != nil {
		return nil, err
	}

	tagIDs := make([]uint, 0, len(req.Tags))
	for _, name := range normalizeTagNames(req.Tags) {
		tag, err := s.tagRepo.FindOrCreate(tx, name)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		tagIDs = append(tagIDs, tag.ID)
	}

	if err := s.itemRepo.LinkTags(tx, itemID, tagIDs); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.itemRepo.Touch(tx, itemID); err != nil {
		return nil, apperrors.InternalError(err)
	}

	tags, err := s.tagRepo.ListByItem(tx, itemID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewTagResponses(tags), nil
}

// ClearTags отвязывает все теги. Сами теги остаются до очистки неиспользуемых.
func (s *itemService) ClearTags(db *gorm.DB, ownerID, itemID uint) ([]*dto.TagResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if _, err := verifyItem(tx, s.itemRepo, ownerID, itemID); err != nil {
		return nil, err
	}

	if err := s.itemRepo.ClearTags(tx, itemID); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.itemRepo.Touch(tx, itemID); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return []*dto.TagResponse{}, nil
}

// verifyItem - предмет существует и лежит в коллекции пользователя, иначе 404
func verifyItem(db *gorm.DB, itemRepo repositories.ItemRepository, ownerID, itemID uint) (*models.Item, error) {
	item, err := itemRepo.FindByIDForOwner(db, itemID, ownerID)
	if err != nil {
		if errors.Is(err, repositories.ErrItemNotFound) {
			return nil, apperrors.ErrItemNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return item, nil
}

// normalizeTagNames обрезает пробелы, убирает пустые и повторяющиеся имена
func normalizeTagNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
