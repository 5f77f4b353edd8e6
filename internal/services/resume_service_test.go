package services

import (
	"context"
	"strings"
	"testing"

	"jobboard_backend/internal/models"
	"jobboard_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestResumeService_Validation(t *testing.T) {
	f := newFixture(t)
	owner := primitive.NewObjectID()

	tests := []struct {
		name    string
		file    string
		content []byte
		want    *apperrors.AppError
	}{
		{"pdf", "cv.pdf", pdfContent, nil},
		{"docx as zip container", "cv.DOCX", []byte("PK\x03\x04\x14\x00\x06\x00\x08\x00\x00\x00!\x00"), nil},
		{"executable extension", "cv.exe", pdfContent, apperrors.ErrInvalidFileType},
		{"text disguised as pdf", "cv.pdf", []byte("just some plain text, not a document"), apperrors.ErrInvalidFileType},
		{"pdf disguised as doc", "cv.doc", pdfContent, apperrors.ErrInvalidFileType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.resumes.Upload(context.Background(), owner, fileHeader(t, tt.file, tt.content))
			if tt.want != nil {
				assert.True(t, apperrors.Is(err, tt.want), err)
				return
			}
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(res.Path, ResumePrefix))
			assert.Equal(t, "/uploads/"+res.Path, res.URL)
			assert.Equal(t, int64(len(tt.content)), res.Size)
		})
	}

	objects, err := f.store.List(context.Background(), ResumePrefix)
	require.NoError(t, err)
	assert.Len(t, objects, 2)
}

func TestResumeService_TooLargeWritesNothing(t *testing.T) {
	f := newFixture(t)
	svc := NewResumeService(f.store, f.users, 16)

	_, err := svc.Upload(context.Background(), primitive.NewObjectID(), fileHeader(t, "cv.pdf", pdfContent))
	assert.True(t, apperrors.Is(err, apperrors.ErrFileTooLarge))

	objects, err := f.store.List(context.Background(), ResumePrefix)
	require.NoError(t, err)
	assert.Empty(t, objects)
}

func TestResumeService_UploadToProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seeker := f.register(t, "sam@example.com", models.UserRoleJobseeker)

	res, err := f.resumes.UploadToProfile(ctx, seeker, fileHeader(t, "cv.pdf", pdfContent))
	require.NoError(t, err)

	user, err := f.users.FindByID(ctx, seeker.UserID)
	require.NoError(t, err)
	assert.Equal(t, res.URL, user.Profile.Resume)
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"My CV.pdf":            "My_CV.pdf",
		"../../etc/passwd.doc": "passwd.doc",
		`C:\Users\me\cv.DOCX`:  "cv.docx",
		"....pdf":              "resume.pdf",
		"résumé (final).pdf":   "r_sum_final.pdf",
	}
	for in, want := range tests {
		assert.Equal(t, want, sanitizeFilename(in), in)
	}
}
