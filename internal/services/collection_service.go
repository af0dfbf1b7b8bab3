package services

import (
	"context"
	"errors"

	"archived_backend/internal/logger"
	"archived_backend/internal/models"
	"archived_backend/internal/repositories"
	"archived_backend/internal/services/dto"
	"archived_backend/internal/storage"
	"archived_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type CollectionService interface {
	// Коллекции пользователя
	ListCollections(db *gorm.DB, ownerID uint) ([]*dto.CollectionResponse, error)
	CreateCollection(db *gorm.DB, ownerID uint, req *dto.CollectionRequest) (*dto.CollectionResponse, error)
	ReorderCollections(db *gorm.DB, ownerID uint, ids []uint) ([]*dto.CollectionResponse, error)

	// Отдельная коллекция
	GetCollection(db *gorm.DB, ownerID, collectionID uint) (*dto.CollectionResponse, error)
	UpdateCollection(db *gorm.DB, ownerID, collectionID uint, req *dto.CollectionRequest) (*dto.CollectionResponse, error)
	DeleteCollection(ctx context.Context, db *gorm.DB, ownerID, collectionID uint) error

	// Предметы коллекции
	ListItems(db *gorm.DB, ownerID, collectionID uint) ([]*dto.ItemResponse, error)
	CreateItem(db *gorm.DB, ownerID, collectionID uint, req *dto.ItemRequest) (*dto.ItemResponse, error)
	ReorderItems(db *gorm.DB, ownerID, collectionID uint, req *dto.ItemOrderRequest) ([]*dto.ItemResponse, error)
}

type collectionService struct {
	collectionRepo repositories.CollectionRepository
	itemRepo       repositories.ItemRepository
	imageRepo      repositories.ImageRepository
	storage        storage.Storage
}

func NewCollectionService(
	collectionRepo repositories.CollectionRepository,
	itemRepo repositories.ItemRepository,
	imageRepo repositories.ImageRepository,
	storage storage.Storage,
) CollectionService {
	return &collectionService{
		collectionRepo: collectionRepo,
		itemRepo:       itemRepo,
		imageRepo:      imageRepo,
		storage:        storage,
	}
}

func (s *collectionService) ListCollections(db *gorm.DB, ownerID uint) ([]*dto.CollectionResponse, error) {
	collections, err := s.collectionRepo.ListByOwner(db, ownerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewCollectionResponses(collections), nil
}

func (s *collectionService) CreateCollection(db *gorm.DB, ownerID uint, req *dto.CollectionRequest) (*dto.CollectionResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	order, err := s.collectionRepo.NextOrder(tx, ownerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	collection := &models.Collection{
		Name:            req.Name,
		Description:     req.Description,
		OwnerID:         ownerID,
		CollectionOrder: order,
	}
	if err := s.collectionRepo.Create(tx, collection); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewCollectionResponse(collection), nil
}

// ReorderCollections - collection_order = позиция ID в списке
func (s *collectionService) ReorderCollections(db *gorm.DB, ownerID uint, ids []uint) ([]*dto.CollectionResponse, error) {
	if len(ids) == 0 {
		return nil, apperrors.ErrNoCollectionOrders
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	current, err := s.collectionRepo.IDsByOwner(tx, ownerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !sameIDSet(current, ids) {
		return nil, apperrors.ErrCollectionOrderMismatch
	}

	if err := s.collectionRepo.UpdateOrder(tx, ownerID, ids); err != nil {
		return nil, apperrors.InternalError(err)
	}

	collections, err := s.collectionRepo.ListByOwner(tx, ownerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewCollectionResponses(collections), nil
}

func (s *collectionService) GetCollection(db *gorm.DB, ownerID, collectionID uint) (*dto.CollectionResponse, error) {
	collection, err := s.verifyCollection(db, ownerID, collectionID)
	if err != nil {
		return nil, err
	}
	return dto.NewCollectionResponse(collection), nil
}

func (s *collectionService) UpdateCollection(db *gorm.DB, ownerID, collectionID uint, req *dto.CollectionRequest) (*dto.CollectionResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	collection, err := s.verifyCollection(tx, ownerID, collectionID)
	if err != nil {
		return nil, err
	}

	if err := s.collectionRepo.Update(tx, collection, req.Name, req.Description); err != nil {
		return nil, apperrors.InternalError(err)
	}

	updated, err := s.verifyCollection(tx, ownerID, collectionID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewCollectionResponse(updated), nil
}

func (s *collectionService) DeleteCollection(ctx context.Context, db *gorm.DB, ownerID, collectionID uint) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if _, err := s.verifyCollection(tx, ownerID, collectionID); err != nil {
		return err
	}

	urls, err := s.imageRepo.URLsByCollection(tx, collectionID)
	if err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.collectionRepo.Delete(tx, collectionID); err != nil {
		return apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Collection deleted", "collection_id", collectionID, "images", len(urls))
	removeStoredFiles(ctx, s.storage, urls)
	return nil
}

func (s *collectionService) ListItems(db *gorm.DB, ownerID, collectionID uint) ([]*dto.ItemResponse, error) {
	collection, err := s.verifyCollection(db, ownerID, collectionID)
	if err != nil {
		return nil, err
	}
	return dto.NewItemResponses(collection.Items), nil
}

func (s *collectionService) CreateItem(db *gorm.DB, ownerID, collectionID uint, req *dto.ItemRequest) (*dto.ItemResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if _, err := s.verifyCollection(tx, ownerID, collectionID); err != nil {
		return nil, err
	}

	order, err := s.itemRepo.NextOrder(tx, collectionID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	item := &models.Item{
		Name:         req.Name,
		Description:  req.Description,
		CollectionID: collectionID,
		ItemOrder:    order,
	}
	if err := s.itemRepo.Create(tx, item); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.collectionRepo.Touch(tx, collectionID); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewItemResponse(item), nil
}

// ReorderItems - item_order = позиция ID в списке
func (s *collectionService) ReorderItems(db *gorm.DB, ownerID, collectionID uint, req *dto.ItemOrderRequest) ([]*dto.ItemResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if _, err := s.verifyCollection(tx, ownerID, collectionID); err != nil {
		return nil, err
	}

	current, err := s.itemRepo.IDsByCollection(tx, collectionID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !sameIDSet(current, req.ItemIDs) {
		return nil, apperrors.ErrItemOrderMismatch
	}

	if err := s.itemRepo.UpdateOrder(tx, collectionID, req.ItemIDs); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.collectionRepo.Touch(tx, collectionID); err != nil {
		return nil, apperrors.InternalError(err)
	}

	items, err := s.itemRepo.ListByCollection(tx, collectionID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewItemResponses(items), nil
}

// verifyCollection - коллекция существует и принадлежит пользователю, иначе 404
func (s *collectionService) verifyCollection(db *gorm.DB, ownerID, collectionID uint) (*models.Collection, error) {
	collection, err := s.collectionRepo.FindByIDForOwner(db, collectionID, ownerID)
	if err != nil {
		if errors.Is(err, repositories.ErrCollectionNotFound) {
			return nil, apperrors.ErrCollectionNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return collection, nil
}
