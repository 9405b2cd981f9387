package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"giveback/internal/impact"
	"giveback/internal/models/db_models"
	"giveback/internal/models/response_models"
	"giveback/internal/repositories"
	"giveback/pkg/utils"
)

const defaultPointsMultiplier = 10

type ImpactServiceInterface interface {
	// ConfigForProject normalizes the project's raw impact document into the
	// canonical config, applying the multiplier default.
	ConfigForProject(project *db_models.Project) impact.Config
	// BuildSnapshots produces one snapshot per supported language, or
	// ErrNoImpactData when the project carries no usable impact config.
	BuildSnapshots(project *db_models.Project, amount float64, points int64) (map[impact.Lang]impact.Snapshot, error)
	PreviewCTA(projectID string, amount float64, lang impact.Lang, ctx context.Context) (*response_models.ImpactPreviewResponse, error)
	// ListActiveProjects backs the browse page; HasImpactData on each entry
	// tells the client whether an impact preview is available.
	ListActiveProjects(page int, pageSize int, ctx context.Context) ([]response_models.ProjectResponse, error)
}

type ImpactService struct {
	projectRepo repositories.ProjectRepositoryInterface
}

func NewImpactService(projectRepo repositories.ProjectRepositoryInterface) ImpactServiceInterface {
	return &ImpactService{projectRepo: projectRepo}
}

func (s *ImpactService) ConfigForProject(project *db_models.Project) impact.Config {
	var row map[string]any
	if len(project.ImpactConfig) > 0 {
		if err := json.Unmarshal(project.ImpactConfig, &row); err != nil {
			log.WithFields(log.Fields{"project_id": project.ID}).
				WithError(err).Warn("unparseable impact config document")
		}
	}
	cfg := impact.NormalizeConfigRow(row)

	// The multiplier column wins over anything in the document.
	cfg.PointsMultiplier = project.PointsMultiplier
	if cfg.PointsMultiplier == 0 {
		cfg.PointsMultiplier = defaultPointsMultiplier
	}
	return cfg
}

func (s *ImpactService) BuildSnapshots(project *db_models.Project, amount float64, points int64) (map[impact.Lang]impact.Snapshot, error) {
	cfg := s.ConfigForProject(project)
	if !impact.Usable(cfg) {
		return nil, utils.ErrNoImpactData
	}

	params := impact.CTAParams{
		ProjectTitle: project.Title,
		Amount:       amount,
		Points:       points,
	}

	snapshots := make(map[impact.Lang]impact.Snapshot, 2)
	for _, lang := range []impact.Lang{impact.LangEN, impact.LangDE} {
		snap, err := impact.BuildSnapshot(cfg, amount, lang, params)
		if err != nil {
			return nil, err
		}
		snapshots[lang] = snap
	}
	return snapshots, nil
}

func (s *ImpactService) ListActiveProjects(page int, pageSize int, ctx context.Context) ([]response_models.ProjectResponse, error) {
	projects, err := s.projectRepo.GetActiveProjects(page, pageSize, ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	out := make([]response_models.ProjectResponse, 0, len(projects))
	for i := range projects {
		p := &projects[i]
		cfg := s.ConfigForProject(p)
		out = append(out, response_models.ProjectResponse{
			ID:               p.ID.String(),
			Title:            p.Title,
			PointsMultiplier: cfg.PointsMultiplier,
			HasImpactData:    impact.Usable(cfg),
		})
	}
	return out, nil
}

func (s *ImpactService) PreviewCTA(projectID string, amount float64, lang impact.Lang, ctx context.Context) (*response_models.ImpactPreviewResponse, error) {
	if amount <= 0 {
		return nil, utils.ErrInvalidAmount
	}

	project, err := s.projectRepo.GetProjectByID(projectID, ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if project == nil {
		return nil, utils.ErrProjectNotFound
	}

	cfg := s.ConfigForProject(project)
	if !impact.Usable(cfg) {
		return nil, utils.ErrNoImpactData
	}

	points := int64(math.Floor(amount * cfg.PointsMultiplier))
	snap, err := impact.BuildSnapshot(cfg, amount, lang, impact.CTAParams{
		ProjectTitle: project.Title,
		Amount:       amount,
		Points:       points,
	})
	if err != nil {
		return nil, err
	}

	return &response_models.ImpactPreviewResponse{
		ProjectID:        projectID,
		Amount:           amount,
		CalculatedImpact: snap.CalculatedImpact,
		ImpactPoints:     points,
		CTAText:          snap.GeneratedTextCTA,
	}, nil
}
