package handlers

import (
	"net/http"

	"jobboard_backend/internal/dto"
	"jobboard_backend/internal/services"
	"jobboard_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	*BaseHandler
	resumeService services.ResumeService
	maxUpload     int64
}

func NewUploadHandler(base *BaseHandler, resumeService services.ResumeService, maxUpload int64) *UploadHandler {
	return &UploadHandler{
		BaseHandler:   base,
		resumeService: resumeService,
		maxUpload:     maxUpload,
	}
}

func (h *UploadHandler) RegisterRoutes(rg *gin.RouterGroup, authMw gin.HandlerFunc) {
	upload := rg.Group("/upload", authMw)
	{
		upload.POST("/resume", h.UploadResume)
	}
}

// UploadResume godoc
// @Summary Загрузить резюме в профиль
// @Description pdf, doc или docx до 5MB. URL сохраняется в profile.resume.
// @Tags upload
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param resume formData file true "Файл резюме"
// @Success 200 {object} dto.ResumeUploadResponse
// @Failure 400 {object} apperrors.ErrorResponse "Неверный тип или размер файла"
// @Router /upload/resume [post]
func (h *UploadHandler) UploadResume(c *gin.Context) {
	identity, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	file, err := readMultipartFile(c, "resume", h.maxUpload)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	if file == nil {
		h.HandleServiceError(c, apperrors.NewBadRequestError("No file uploaded"))
		return
	}

	result, err := h.resumeService.UploadToProfile(c.Request.Context(), identity, file)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ResumeUploadResponse{
		ResumeURL: AbsoluteURL(c, result.URL),
		Message:   "Resume uploaded successfully",
	})
}
