package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"giveback/internal/models/db_models"
)

type ProjectRepositoryInterface interface {
	GetProjectByID(projectID string, ctx context.Context) (*db_models.Project, error)
	GetActiveProjects(page int, pageSize int, ctx context.Context) ([]db_models.Project, error)
}

func NewProjectRepository(db *gorm.DB) ProjectRepositoryInterface {
	return &ProjectRepository{db: db}
}

type ProjectRepository struct {
	db *gorm.DB
}

func (p *ProjectRepository) GetProjectByID(projectID string, ctx context.Context) (*db_models.Project, error) {
	var project db_models.Project
	err := p.db.WithContext(ctx).Where("id = ?", projectID).First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &project, nil
}

func (p *ProjectRepository) GetActiveProjects(page int, pageSize int, ctx context.Context) ([]db_models.Project, error) {
	var projects []db_models.Project
	err := p.db.WithContext(ctx).
		Where("is_active = TRUE").
		Scopes(func(db *gorm.DB) *gorm.DB {
			offset := (page - 1) * pageSize
			return db.Offset(offset).Limit(pageSize)
		}).
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}
