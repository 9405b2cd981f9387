package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"giveback/internal/impact"
	"giveback/internal/services"
	"giveback/pkg/utils"
)

type ProjectController struct {
	impactService services.ImpactServiceInterface
}

func NewProjectController(impactService services.ImpactServiceInterface) *ProjectController {
	return &ProjectController{impactService: impactService}
}

// ListProjects godoc
// @Summary List active projects
// @Tags Projects
// @Produce json
// @Param page query int false "Page (1-based)"
// @Param page_size query int false "Page size"
// @Success 200 {object} utils.APIResponse
// @Router /projects [get]
func (p *ProjectController) ListProjects(c *gin.Context) {
	page, pageSize := pagination(c)
	projects, err := p.impactService.ListActiveProjects(page, pageSize, c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, projects, "")
}

// GetImpactPreview godoc
// @Summary Preview the impact of a donation amount
// @Description Renders the localized call-to-action text for the browse page
// @Tags Projects
// @Produce json
// @Param id path string true "Project ID"
// @Param amount query number true "Donation amount"
// @Param lang query string false "Language (en or de)"
// @Success 200 {object} utils.APIResponse
// @Router /projects/{id}/impact-preview [get]
func (p *ProjectController) GetImpactPreview(c *gin.Context) {
	amount, err := strconv.ParseFloat(c.Query("amount"), 64)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "amount must be a number")
		return
	}

	lang := impact.LangEN
	if c.Query("lang") == string(impact.LangDE) {
		lang = impact.LangDE
	}

	preview, err := p.impactService.PreviewCTA(c.Param("id"), amount, lang, c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, preview, "")
}
