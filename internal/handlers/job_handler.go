package handlers

import (
	"net/http"

	"jobboard_backend/internal/dto"
	"jobboard_backend/internal/middleware"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	*BaseHandler
	jobService services.JobService
}

func NewJobHandler(base *BaseHandler, jobService services.JobService) *JobHandler {
	return &JobHandler{
		BaseHandler: base,
		jobService:  jobService,
	}
}

func (h *JobHandler) RegisterRoutes(rg *gin.RouterGroup, authMw gin.HandlerFunc) {
	employerOnly := middleware.RequireRoles(models.UserRoleEmployer)

	jobs := rg.Group("/jobs")
	{
		jobs.GET("", h.Aggregate)
		jobs.GET("/search", h.Search)
		jobs.GET("/employer", authMw, employerOnly, h.ListMine)
		jobs.POST("", authMw, employerOnly, h.Create)
		jobs.GET("/:id", h.GetByID)
		jobs.PATCH("/:id/status", authMw, employerOnly, h.UpdateStatus)
		jobs.DELETE("/:id", authMw, employerOnly, h.Delete)
	}
}

// Aggregate godoc
// @Summary Агрегированный поиск вакансий
// @Description Локальные активные вакансии и внешние (Google Jobs) параллельно. Всегда 200: упавшая ветка пустая, статус в metadata.sources.
// @Tags jobs
// @Produce json
// @Param query query string false "Поисковый запрос"
// @Param location query string false "Локация"
// @Param limit query int false "Лимит локальных вакансий"
// @Success 200 {object} dto.AggregateResponse
// @Router /jobs [get]
func (h *JobHandler) Aggregate(c *gin.Context) {
	var q dto.JobSearchQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	c.JSON(http.StatusOK, h.jobService.Aggregate(c.Request.Context(), &q))
}

// Search godoc
// @Summary Поиск по локальным вакансиям
// @Tags jobs
// @Produce json
// @Param query query string false "Текст (title, company, description)"
// @Param location query string false "Локация"
// @Param type query string false "Тип занятости" Enums(Full-time, Part-time, Contract, Temporary)
// @Param limit query int false "Лимит"
// @Success 200 {array} models.Job
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /jobs/search [get]
func (h *JobHandler) Search(c *gin.Context) {
	var q dto.JobSearchQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	jobs, err := h.jobService.Search(c.Request.Context(), &q)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, jobs)
}

// ListMine godoc
// @Summary Вакансии текущего работодателя
// @Description Все статусы, вместе с откликами.
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Job
// @Failure 403 {object} apperrors.ErrorResponse
// @Router /jobs/employer [get]
func (h *JobHandler) ListMine(c *gin.Context) {
	identity, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	jobs, err := h.jobService.ListMine(c.Request.Context(), identity)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, jobs)
}

// Create godoc
// @Summary Создать вакансию
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateJobRequest true "Вакансия"
// @Success 201 {object} models.Job
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Router /jobs [post]
func (h *JobHandler) Create(c *gin.Context) {
	identity, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	var req dto.CreateJobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.jobService.Create(c.Request.Context(), identity, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, job)
}

// GetByID godoc
// @Summary Вакансия по ID
// @Tags jobs
// @Produce json
// @Param id path string true "ID вакансии"
// @Success 200 {object} models.Job
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /jobs/{id} [get]
func (h *JobHandler) GetByID(c *gin.Context) {
	job, err := h.jobService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// UpdateStatus godoc
// @Summary Изменить статус вакансии
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID вакансии"
// @Param request body dto.UpdateJobStatusRequest true "Новый статус"
// @Success 200 {object} models.Job
// @Failure 403 {object} apperrors.ErrorResponse "Чужая вакансия"
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /jobs/{id}/status [patch]
func (h *JobHandler) UpdateStatus(c *gin.Context) {
	identity, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	var req dto.UpdateJobStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.jobService.UpdateStatus(c.Request.Context(), identity, c.Param("id"), req.Status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// Delete godoc
// @Summary Удалить вакансию
// @Tags jobs
// @Security BearerAuth
// @Param id path string true "ID вакансии"
// @Success 204
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /jobs/{id} [delete]
func (h *JobHandler) Delete(c *gin.Context) {
	identity, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	if err := h.jobService.Delete(c.Request.Context(), identity, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
