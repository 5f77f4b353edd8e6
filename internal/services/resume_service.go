package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/dto"
	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/storage"
	"jobboard_backend/pkg/apperrors"

	"github.com/gabriel-vasile/mimetype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ResumePrefix - каталог резюме в хранилище. По нему работает janitor.
const ResumePrefix = "resumes/"

const DefaultMaxResumeSize int64 = 5 << 20

type resumeFormat struct {
	contentType string
	// sniffed - допустимые результаты mimetype для расширения
	sniffed []string
}

var resumeFormats = map[string]resumeFormat{
	".pdf": {
		contentType: "application/pdf",
		sniffed:     []string{"application/pdf"},
	},
	".doc": {
		contentType: "application/msword",
		sniffed:     []string{"application/msword", "application/x-ole-storage"},
	},
	".docx": {
		contentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		sniffed: []string{
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			"application/zip",
		},
	},
}

type ResumeService interface {
	// Upload проверяет и сохраняет файл. Профиль не меняется.
	Upload(ctx context.Context, ownerID primitive.ObjectID, file *multipart.FileHeader) (*dto.UploadResult, error)
	// UploadToProfile сохраняет файл и записывает URL в profile.resume.
	UploadToProfile(ctx context.Context, identity *auth.Identity, file *multipart.FileHeader) (*dto.UploadResult, error)
}

type ResumeServiceImpl struct {
	storage  storage.Storage
	userRepo repositories.UserRepository
	maxSize  int64
	now      func() time.Time
}

func NewResumeService(store storage.Storage, userRepo repositories.UserRepository, maxSize int64) ResumeService {
	if maxSize <= 0 {
		maxSize = DefaultMaxResumeSize
	}
	return &ResumeServiceImpl{
		storage:  store,
		userRepo: userRepo,
		maxSize:  maxSize,
		now:      time.Now,
	}
}

func (s *ResumeServiceImpl) Upload(ctx context.Context, ownerID primitive.ObjectID, file *multipart.FileHeader) (*dto.UploadResult, error) {
	if file == nil {
		return nil, apperrors.NewBadRequestError("No file uploaded")
	}

	// Вся валидация до записи
	if file.Size > s.maxSize {
		return nil, apperrors.ErrFileTooLarge.WithDetails(map[string]int64{"maxSize": s.maxSize})
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	format, ok := resumeFormats[ext]
	if !ok {
		return nil, apperrors.ErrInvalidFileType
	}

	src, err := file.Open()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	defer src.Close()

	detected, err := mimetype.DetectReader(src)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !matchesAny(detected, format.sniffed) {
		logger.CtxWarn(ctx, "Resume content does not match extension",
			"ext", ext, "detected", detected.String(), "owner_id", ownerID.Hex())
		return nil, apperrors.ErrInvalidFileType
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, apperrors.InternalError(err)
	}

	path := fmt.Sprintf("%s%d-%s", ResumePrefix, s.now().UnixNano(), sanitizeFilename(file.Filename))
	if err := s.storage.Save(ctx, path, src, format.contentType); err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("failed to save resume: %w", err))
	}

	logger.CtxInfo(ctx, "Resume uploaded", "path", path, "size", file.Size, "owner_id", ownerID.Hex())

	return &dto.UploadResult{
		URL:         s.storage.GetURL(path),
		Path:        path,
		Size:        file.Size,
		ContentType: format.contentType,
	}, nil
}

func (s *ResumeServiceImpl) UploadToProfile(ctx context.Context, identity *auth.Identity, file *multipart.FileHeader) (*dto.UploadResult, error) {
	if identity == nil {
		return nil, apperrors.NewUnauthorizedError("User not authenticated")
	}

	result, err := s.Upload(ctx, identity.UserID, file)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.SetResume(ctx, identity.UserID, result.URL); err != nil {
		// файл останется сиротой, его подберёт janitor
		logger.CtxWithError(ctx, "Failed to record resume on profile", err, "path", result.Path)
		return nil, mapRepoError(err)
	}
	return result, nil
}

func matchesAny(m *mimetype.MIME, types []string) bool {
	for _, t := range types {
		if m.Is(t) {
			return true
		}
	}
	return false
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// sanitizeFilename оставляет только базовое имя из безопасных символов.
func sanitizeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	ext := strings.ToLower(filepath.Ext(base))
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	stem = strings.Trim(unsafeFilenameChars.ReplaceAllString(stem, "_"), "._")
	if stem == "" {
		stem = "resume"
	}
	if len(stem) > 100 {
		stem = stem[:100]
	}
	return stem + ext
}
