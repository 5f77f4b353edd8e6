package apperrors

import (
	"net/http"
)

/*
Предопределенные ошибки домена доски вакансий.
Сравнивать через apperrors.Is: совпадение идёт по Code и Domain.
*/

// --- Auth ---

// ErrForbiddenRole - роль пользователя не допускает операцию.
var ErrForbiddenRole = New(
	CodeForbiddenRole,
	"auth",
	"Your role is not allowed to perform this operation",
	http.StatusForbidden,
)

// ErrDuplicateEmail - email уже зарегистрирован.
var ErrDuplicateEmail = New(
	CodeDuplicateEmail,
	"auth",
	"User already exists",
	http.StatusBadRequest,
)

// ErrInvalidCredentials - неверный email или пароль. Одинаковая для обоих случаев.
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

// ErrInvalidToken - неверный или просроченный токен.
var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

// ErrUserNotFound - пользователь из токена больше не существует.
var ErrUserNotFound = New(
	CodeNotFound,
	"user",
	"User not found",
	http.StatusNotFound,
)

// --- Jobs ---

var ErrJobNotFound = New(
	CodeNotFound,
	"job",
	"Job not found",
	http.StatusNotFound,
)

var ErrApplicationNotFound = New(
	CodeNotFound,
	"application",
	"Application not found",
	http.StatusNotFound,
)

// ErrJobNotActive - на закрытую или черновую вакансию откликнуться нельзя.
var ErrJobNotActive = New(
	CodeJobNotActive,
	"job",
	"Job is not accepting applications",
	http.StatusConflict,
)

// ErrMissingResume - нет ни нового файла, ни резюме в профиле.
var ErrMissingResume = New(
	CodeMissingResume,
	"application",
	"Resume is required: upload a file or add one to your profile",
	http.StatusBadRequest,
)

// --- Uploads ---

var ErrFileTooLarge = New(
	CodeFileTooLarge,
	"upload",
	"File size exceeds the allowed limit",
	http.StatusBadRequest,
)

var ErrInvalidFileType = New(
	CodeInvalidFileType,
	"upload",
	"Only PDF, DOC and DOCX files are allowed",
	http.StatusBadRequest,
)

// --- Inventory ---

var ErrInventoryItemNotFound = New(
	CodeNotFound,
	"inventory",
	"Item not found",
	http.StatusNotFound,
)

// --- External search ---

// ErrUpstreamUnavailable - внешний провайдер недоступен. Агрегатор её глотает.
var ErrUpstreamUnavailable = New(
	CodeUpstreamUnavailable,
	"jobsearch",
	"External job provider unavailable",
	http.StatusBadGateway,
)
