package apperrors

// ErrorCode - тип для кодов ошибок
type ErrorCode string

// Общие, не-доменные коды ошибок
const (
	// Системные и неизвестные ошибки
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"

	// Общие ошибки бизнес-логики
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeInvalidStatus    ErrorCode = "INVALID_STATUS"

	// Аутентификация и Авторизация
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbiddenRole      ErrorCode = "FORBIDDEN_ROLE"
	CodeDuplicateEmail     ErrorCode = "DUPLICATE_EMAIL"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"

	// Загрузка резюме
	CodeInvalidFileType ErrorCode = "INVALID_FILE_TYPE"
	CodeFileTooLarge    ErrorCode = "FILE_TOO_LARGE"

	// Отклики
	CodeMissingResume ErrorCode = "MISSING_RESUME"
	CodeJobNotActive  ErrorCode = "JOB_NOT_ACTIVE"

	// Внешний поиск вакансий. Наружу не отдаётся, ветка external просто пустая.
	CodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
)
