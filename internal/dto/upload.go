package dto

// UploadResult - результат сохранения файла резюме.
type UploadResult struct {
	URL         string `json:"url"`
	Path        string `json:"path"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
}

type ResumeUploadResponse struct {
	ResumeURL string `json:"resumeUrl"`
	Message   string `json:"message"`
}
