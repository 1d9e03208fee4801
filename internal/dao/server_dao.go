package dao

import (
	"errors"

	"knoxshield/internal/models"
	apperrors "knoxshield/pkg/errors"

	"gorm.io/gorm"
)

type ServerDAO interface {
	SaveServer(server *models.VPNServer) error
	GetServer(id string) (*models.VPNServer, error)
	ListServers() ([]models.VPNServer, error)
	DeleteServer(id string) error
}

type serverDAO struct {
	db *gorm.DB
}

func NewServerDAO(db *gorm.DB) ServerDAO {
	return &serverDAO{db: db}
}

func (dao *serverDAO) SaveServer(server *models.VPNServer) error {
	return dao.db.Save(server).Error
}

func (dao *serverDAO) GetServer(id string) (*models.VPNServer, error) {
	var server models.VPNServer
	if err := dao.db.Where("id = ?", id).First(&server).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrServerNotFound
		}
		return nil, err
	}
	return &server, nil
}

// ListServers returns servers in import order.
func (dao *serverDAO) ListServers() ([]models.VPNServer, error) {
	var servers []models.VPNServer
	if err := dao.db.Order("import_date asc").Find(&servers).Error; err != nil {
		return nil, err
	}
	return servers, nil
}

func (dao *serverDAO) DeleteServer(id string) error {
	result := dao.db.Where("id = ?", id).Delete(&models.VPNServer{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrServerNotFound
	}
	return nil
}
