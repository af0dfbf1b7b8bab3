package services

import (
	"errors"
	"strings"

	"archived_backend/internal/models"
	"archived_backend/internal/repositories"
	"archived_backend/internal/services/dto"
	"archived_backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const shareStatusDisabled = "disabled"

type ShareService interface {
	// CreateOrEnable создает ссылку, включает существующую или меняет ее токен при rotate
	CreateOrEnable(db *gorm.DB, ownerID, collectionID uint, rotate bool) (*dto.ShareResponse, error)
	Disable(db *gorm.DB, ownerID, collectionID uint) (*dto.ShareStatusResponse, error)

	// Публичный доступ по токену
	GetSharedCollection(db *gorm.DB, token string) (*dto.CollectionResponse, error)
	GetSharedItem(db *gorm.DB, token string, itemID uint) (*dto.ItemResponse, error)
}

type shareService struct {
	shareRepo      repositories.ShareRepository
	collectionRepo repositories.CollectionRepository
	itemRepo       repositories.ItemRepository
	shareURL       func(token string) string
}

func NewShareService(
	shareRepo repositories.ShareRepository,
	collectionRepo repositories.CollectionRepository,
	itemRepo repositories.ItemRepository,
	shareURL func(token string) string,
) ShareService {
	return &shareService{
		shareRepo:      shareRepo,
		collectionRepo: collectionRepo,
		itemRepo:       itemRepo,
		shareURL:       shareURL,
	}
}

func (s *shareService) CreateOrEnable(db *gorm.DB, ownerID, collectionID uint, rotate bool) (*dto.ShareResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if _, err := s.collectionRepo.FindByIDForOwner(tx, collectionID, ownerID); err != nil {
		if errors.Is(err, repositories.ErrCollectionNotFound) {
			return nil, apperrors.ErrCollectionNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	share, err := s.shareRepo.FindByCollection(tx, collectionID)
	switch {
	case errors.Is(err, repositories.ErrShareNotFound):
		share = &models.CollectionShare{
			CollectionID: collectionID,
			Token:        newShareToken(),
			IsEnabled:    true,
		}
		if err := s.shareRepo.Create(tx, share); err != nil {
			return nil, apperrors.InternalError(err)
		}
	case err != nil:
		return nil, apperrors.InternalError(err)
	default:
		if rotate {
			share.Token = newShareToken()
		}
		share.IsEnabled = true
		if err := s.shareRepo.Save(tx, share); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.ShareResponse{
		Token:     share.Token,
		URL:       s.shareURL(share.Token),
		IsEnabled: share.IsEnabled,
	}, nil
}

func (s *shareService) Disable(db *gorm.DB, ownerID, collectionID uint) (*dto.ShareStatusResponse, error) {
	share, err := s.shareRepo.FindByCollectionForOwner(db, collectionID, ownerID)
	if err != nil {
		if errors.Is(err, repositories.ErrShareNotFound) {
			return nil, apperrors.ErrShareLinkNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	share.IsEnabled = false
	if err := s.shareRepo.Save(db, share); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.ShareStatusResponse{Status: shareStatusDisabled}, nil
}

func (s *shareService) GetSharedCollection(db *gorm.DB, token string) (*dto.CollectionResponse, error) {
	share, err := s.findEnabled(db, token)
	if err != nil {
		return nil, err
	}

	collection, err := s.collectionRepo.FindByID(db, share.CollectionID)
	if err != nil {
		if errors.Is(err, repositories.ErrCollectionNotFound) {
			return nil, apperrors.NewNotFoundError("share", "Collection not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return dto.NewCollectionResponse(collection), nil
}

func (s *shareService) GetSharedItem(db *gorm.DB, token string, itemID uint) (*dto.ItemResponse, error) {
	share, err := s.findEnabled(db, token)
	if err != nil {
		return nil, err
	}

	item, err := s.itemRepo.FindInCollection(db, itemID, share.CollectionID)
	if err != nil {
		if errors.Is(err, repositories.ErrItemNotFound) {
			return nil, apperrors.ErrSharedItemNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return dto.NewItemResponse(item), nil
}

func (s *shareService) findEnabled(db *gorm.DB, token string) (*models.CollectionShare, error) {
	share, err := s.shareRepo.FindEnabledByToken(db, token)
	if err != nil {
		if errors.Is(err, repositories.ErrShareNotFound) {
			return nil, apperrors.ErrShareLinkInvalid
		}
		return nil, apperrors.InternalError(err)
	}
	return share, nil
}

func newShareToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
