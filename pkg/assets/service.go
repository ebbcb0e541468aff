package assets

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type AssetService interface {
	Create(ctx context.Context, req AssetRequest) (AssetResponse, error)
	FindAll(ctx context.Context, name, serialNumber string, status *Status) ([]AssetResponse, error)
	FindByID(ctx context.Context, id uuid.UUID) (AssetResponse, error)
	Update(ctx context.Context, id uuid.UUID, req AssetRequest) (AssetResponse, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

type assetService struct {
	repo AssetRepository
	log  logrus.FieldLogger
}

func NewAssetService(repo AssetRepository, log logrus.FieldLogger) AssetService {
	return &assetService{repo: repo, log: log}
}

// Create rejects a serial number already in use. A unique violation from
// the store is reported the same way as a failed pre-check.
func (s *assetService) Create(ctx context.Context, req AssetRequest) (AssetResponse, error) {
	var saved Asset
	err := s.repo.InTx(ctx, func(repo AssetRepository) error {
		exists, err := repo.ExistsBySerialNumber(ctx, req.SerialNumber)
		if err != nil {
			return err
		}
		if exists {
			return duplicateSerial(req.SerialNumber)
		}

		saved, err = repo.Save(ctx, ToEntity(req))
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return AssetResponse{}, duplicateSerial(req.SerialNumber)
		}
		return AssetResponse{}, err
	}

	s.log.WithFields(logrus.Fields{"asset_id": saved.ID, "serial_number": saved.SerialNumber}).Info("asset created")
	return ToResponse(saved), nil
}

func (s *assetService) FindAll(ctx context.Context, name, serialNumber string, status *Status) ([]AssetResponse, error) {
	items, err := s.repo.FindAll(ctx, AssetFilters{Name: name, SerialNumber: serialNumber, Status: status})
	if err != nil {
		return nil, err
	}
	return ToResponses(items), nil
}

func (s *assetService) FindByID(ctx context.Context, id uuid.UUID) (AssetResponse, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrAssetNotFound) {
			return AssetResponse{}, notFound(id)
		}
		return AssetResponse{}, err
	}
	return ToResponse(a), nil
}

// Update replaces every field of the asset with the request. Only the id
// and the creation time survive from the stored row.
func (s *assetService) Update(ctx context.Context, id uuid.UUID, req AssetRequest) (AssetResponse, error) {
	var saved Asset
	err := s.repo.InTx(ctx, func(repo AssetRepository) error {
		existing, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, ErrAssetNotFound) {
				return notFound(id)
			}
			return err
		}

		taken, err := repo.ExistsBySerialNumberExcluding(ctx, req.SerialNumber, id)
		if err != nil {
			return err
		}
		if taken {
			return duplicateSerial(req.SerialNumber)
		}

		replacement := ToEntity(req)
		replacement.ID = existing.ID
		replacement.CreatedAt = existing.CreatedAt

		saved, err = repo.Save(ctx, replacement)
		// Deleted after the lookup above.
		if errors.Is(err, ErrAssetNotFound) {
			return notFound(id)
		}
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return AssetResponse{}, duplicateSerial(req.SerialNumber)
		}
		return AssetResponse{}, err
	}

	s.log.WithFields(logrus.Fields{"asset_id": saved.ID, "serial_number": saved.SerialNumber}).Info("asset updated")
	return ToResponse(saved), nil
}

func (s *assetService) DeleteByID(ctx context.Context, id uuid.UUID) error {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrDeleteAssetNotFound, id)
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		// Lost a race with another delete.
		if errors.Is(err, ErrAssetNotFound) {
			return fmt.Errorf("%w: %s", ErrDeleteAssetNotFound, id)
		}
		return err
	}

	s.log.WithField("asset_id", id).Info("asset deleted")
	return nil
}

func notFound(id uuid.UUID) error {
	return fmt.Errorf("%w: %s", ErrAssetNotFound, id)
}

func duplicateSerial(serialNumber string) error {
	return fmt.Errorf("%w: %s", ErrDuplicateSerialNumber, serialNumber)
}
