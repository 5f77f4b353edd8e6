package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"jobboard_backend/internal/dto"
	"jobboard_backend/internal/middleware"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/services"
	"jobboard_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// multipartOverhead - запас на поля формы сверх лимита файла
const multipartOverhead int64 = 1 << 20

type ApplicationHandler struct {
	*BaseHandler
	applicationService services.ApplicationService
	maxUpload          int64
}

func NewApplicationHandler(base *BaseHandler, applicationService services.ApplicationService, maxUpload int64) *ApplicationHandler {
	return &ApplicationHandler{
		BaseHandler:        base,
		applicationService: applicationService,
		maxUpload:          maxUpload,
	}
}

func (h *ApplicationHandler) RegisterRoutes(rg *gin.RouterGroup, authMw gin.HandlerFunc) {
	employerOnly := middleware.RequireRoles(models.UserRoleEmployer)
	jobseekerOnly := middleware.RequireRoles(models.UserRoleJobseeker)

	rg.POST("/jobs/:id/apply", authMw, jobseekerOnly, h.Apply)
	rg.PATCH("/jobs/:id/applications/:appId/status", authMw, employerOnly, h.UpdateStatus)

	applications := rg.Group("/applications", authMw)
	{
		applications.GET("/employer", employerOnly, h.ListForEmployer)
		applications.GET("/me", jobseekerOnly, h.ListMine)
	}
}

// Apply godoc
// @Summary Откликнуться на вакансию
// @Description JSON или multipart/form-data. Файл в поле resume (pdf, doc, docx, до 5MB); без файла берётся резюме из профиля.
// @Tags applications
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID вакансии"
// @Param resume formData file false "Файл резюме"
// @Param coverLetter formData string false "Сопроводительное письмо"
// @Param phoneNumber formData string false "Телефон"
// @Success 201 {object} dto.SubmitApplicationResponse
// @Failure 400 {object} apperrors.ErrorResponse "Нет резюме или неверный файл"
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse "Вакансия закрыта"
// @Router /jobs/{id}/apply [post]
func (h *ApplicationHandler) Apply(c *gin.Context) {
	identity, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	var (
		req  dto.SubmitApplicationRequest
		file *multipart.FileHeader
	)

	if isMultipart(c) {
		var err error
		if file, err = readMultipartFile(c, "resume", h.maxUpload); err != nil {
			h.HandleServiceError(c, err)
			return
		}
	}

	if c.Request.ContentLength != 0 || isMultipart(c) {
		if !h.BindAndValidate_JSON(c, &req) {
			return
		}
	}

	response, err := h.applicationService.Submit(c.Request.Context(), identity, c.Param("id"), &req, file)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	response.ResumeURL = AbsoluteURL(c, response.ResumeURL)
	c.JSON(http.StatusCreated, response)
}

// UpdateStatus godoc
// @Summary Изменить статус отклика
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID вакансии"
// @Param appId path string true "ID отклика"
// @Param request body dto.UpdateApplicationStatusRequest true "Новый статус"
// @Success 200 {object} models.Application
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /jobs/{id}/applications/{appId}/status [patch]
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	identity, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	var req dto.UpdateApplicationStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	app, err := h.applicationService.UpdateStatus(c.Request.Context(), identity, c.Param("id"), c.Param("appId"), req.Status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

// ListForEmployer godoc
// @Summary Отклики на вакансии работодателя
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.ApplicationView
// @Router /applications/employer [get]
func (h *ApplicationHandler) ListForEmployer(c *gin.Context) {
	identity, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	views, err := h.applicationService.ListForEmployer(c.Request.Context(), identity)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.absolutize(c, views))
}

// ListMine godoc
// @Summary Мои отклики
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.ApplicationView
// @Router /applications/me [get]
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	identity, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	views, err := h.applicationService.ListMine(c.Request.Context(), identity)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.absolutize(c, views))
}

func (h *ApplicationHandler) absolutize(c *gin.Context, views []dto.ApplicationView) []dto.ApplicationView {
	for i := range views {
		views[i].ResumeURL = AbsoluteURL(c, views[i].ResumeURL)
	}
	return views
}

// readMultipartFile разбирает multipart с ограничением размера. Отсутствие файла не ошибка.
func readMultipartFile(c *gin.Context, field string, maxUpload int64) (*multipart.FileHeader, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUpload+multipartOverhead)

	file, err := c.FormFile(field)
	if err == nil {
		return file, nil
	}
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return nil, apperrors.ErrFileTooLarge
	}
	return nil, apperrors.NewBadRequestError("Invalid multipart form: " + err.Error())
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}
