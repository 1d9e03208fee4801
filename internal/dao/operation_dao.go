package dao

import (
	"errors"

	"knoxshield/internal/models"
	apperrors "knoxshield/pkg/errors"

	"gorm.io/gorm"
)

// HistoryLimit is how many operations ListOperations returns.
const HistoryLimit = 50

type OperationDAO interface {
	SaveOperation(op *models.Operation) error
	GetOperation(id string) (*models.Operation, error)
	ListOperations() ([]models.Operation, error)
	ListOperationsWithPagination(page, limit int) ([]models.Operation, int64, error)
	UpdateOperation(op *models.Operation) error
	DeleteOperation(id string) error
}

type operationDAO struct {
	db *gorm.DB
}

func NewOperationDAO(db *gorm.DB) OperationDAO {
	return &operationDAO{db: db}
}

func (dao *operationDAO) SaveOperation(op *models.Operation) error {
	return dao.db.Create(op).Error
}

func (dao *operationDAO) UpdateOperation(op *models.Operation) error {
	return dao.db.Save(op).Error
}

func (dao *operationDAO) GetOperation(id string) (*models.Operation, error) {
	var op models.Operation
	if err := dao.db.Where("id = ?", id).First(&op).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOperationNotFound
		}
		return nil, err
	}
	return &op, nil
}

func (dao *operationDAO) ListOperations() ([]models.Operation, error) {
	var ops []models.Operation
	if err := dao.db.Order("created_at desc").Limit(HistoryLimit).Find(&ops).Error; err != nil {
		return nil, err
	}
	return ops, nil
}

func (dao *operationDAO) ListOperationsWithPagination(page, limit int) ([]models.Operation, int64, error) {
	var ops []models.Operation
	var total int64

	page, limit = normalizePage(page, limit)
	offset := (page - 1) * limit

	if err := dao.db.Model(&models.Operation{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := dao.db.Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&ops).Error; err != nil {
		return nil, 0, err
	}

	return ops, total, nil
}

func (dao *operationDAO) DeleteOperation(id string) error {
	result := dao.db.Where("id = ?", id).Delete(&models.Operation{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrOperationNotFound
	}
	return nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
