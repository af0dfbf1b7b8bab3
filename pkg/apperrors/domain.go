package apperrors

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// =========================================================================
// Auth
// =========================================================================

var ErrUsernameRegistered = New(
	CodeAlreadyExists,
	"auth",
	"Username already registered",
	http.StatusBadRequest,
)

var ErrEmailRegistered = New(
	CodeAlreadyExists,
	"auth",
	"Email already registered",
	http.StatusBadRequest,
)

// ErrInvalidCredentials - неверная пара логин/пароль при выдаче токена
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Incorrect username or password",
	http.StatusUnauthorized,
)

// ErrInvalidRefreshToken - refresh-токен не прошел проверку, отозван или истек
var ErrInvalidRefreshToken = New(
	CodeInvalidToken,
	"auth",
	"Could not validate refresh token",
	http.StatusUnauthorized,
)

// ErrInvalidAccessToken - bearer-токен невалиден или пользователь удален
var ErrInvalidAccessToken = New(
	CodeInvalidToken,
	"auth",
	"Could not validate credentials",
	http.StatusUnauthorized,
)

// =========================================================================
// Users
// =========================================================================

var ErrIncorrectPassword = New(
	CodeInvalidCredentials,
	"user",
	"Incorrect password",
	http.StatusUnauthorized,
)

var ErrUsernameTaken = New(
	CodeAlreadyExists,
	"user",
	"Username already taken",
	http.StatusBadRequest,
)

// =========================================================================
// Collections & Items
// =========================================================================

var ErrCollectionNotFound = NewNotFoundError("collection", "Collection not found or you don't have access to it")

var ErrItemNotFound = NewNotFoundError("item", "Item not found or you don't have access to it")

var ErrNoCollectionOrders = NewBadRequestError("No collection orders provided")

var ErrCollectionOrderMismatch = NewBadRequestError("Collection IDs in order update must match exactly with current collections")

var ErrItemOrderMismatch = NewBadRequestError("Item IDs in order update must match exactly with current collection items")

// =========================================================================
// Images & Uploads
// =========================================================================

var ErrImageNotFound = NewNotFoundError("image", "Image not found")

var ErrNoFilesProvided = NewBadRequestError("No files provided")

// ErrFileTypeNotAllowed - расширение файла не входит в разрешенный список
func ErrFileTypeNotAllowed(ext string, allowed []string) *AppError {
	return New(
		CodeValidationFailed,
		"upload",
		fmt.Sprintf("File type %s not allowed. Allowed types: %s", ext, strings.Join(allowed, ", ")),
		http.StatusBadRequest,
	)
}

// ErrImageCompressionFailed - файл превышает лимит и не декодируется как изображение
func ErrImageCompressionFailed(filename string, err error) *AppError {
	return Wrap(err, CodeValidationFailed, "upload", fmt.Sprintf("Failed to compress image %s", filename), http.StatusBadRequest)
}

// ErrFileTooLarge - файл больше лимита и не является изображением, которое можно пережать
func ErrFileTooLarge(filename string, maxBytes int64) *AppError {
	return New(
		CodeValidationFailed,
		"upload",
		fmt.Sprintf("File %s too large. Maximum size is %dMB", filename, maxBytes/(1024*1024)),
		http.StatusBadRequest,
	)
}

// ErrNotAnImage - содержимое файла не совпадает с графическим расширением
func ErrNotAnImage(filename, detected string) *AppError {
	return New(
		CodeValidationFailed,
		"upload",
		fmt.Sprintf("File %s is not a valid image (detected %s)", filename, detected),
		http.StatusBadRequest,
	)
}

func ErrInvalidImageIDs(ids []uint) *AppError {
	return NewBadRequestError(fmt.Sprintf("Invalid image IDs in order: %s", joinIDs(ids)))
}

func ErrImagesNotFound(ids []uint) *AppError {
	return NewNotFoundError("image", fmt.Sprintf("Images not found or you don't have access to them: %s", joinIDs(ids)))
}

func ErrUnknownTempID(tempID string) *AppError {
	return NewBadRequestError(fmt.Sprintf("Unknown temp ID: %s", tempID))
}

func ErrInvalidImageOrderID(id uint) *AppError {
	return NewBadRequestError(fmt.Sprintf("Invalid image ID in order: %d", id))
}

func ErrMalformedImageOrderEntry(entry string) *AppError {
	return NewBadRequestError(fmt.Sprintf("Invalid entry in image order: %q", entry))
}

// =========================================================================
// Share links
// =========================================================================

var ErrShareLinkInvalid = NewNotFoundError("share", "Invalid or disabled share link")

var ErrShareLinkNotFound = NewNotFoundError("share", "Share link not found")

var ErrSharedItemNotFound = NewNotFoundError("share", "Item not found in shared collection")

// =========================================================================
// Contact
// =========================================================================

var ErrAdminEmailNotConfigured = New(
	CodeInternalError,
	"contact",
	"Admin email not configured",
	http.StatusInternalServerError,
)

var ErrEmailDeliveryFailed = New(
	CodeExternalServiceError,
	"contact",
	"Failed to send email notification",
	http.StatusInternalServerError,
)

// NewRateLimitError - 429 с временем до сброса окна
func NewRateLimitError(retryAfter time.Duration) *AppError {
	seconds := int(retryAfter.Round(time.Second) / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	minutes := seconds / 60

	return New(
		CodeLimitExceeded,
		"contact",
		fmt.Sprintf("Too many contact form submissions. Please try again in %d minutes.", minutes),
		http.StatusTooManyRequests,
	).WithDetails(map[string]interface{}{
		"error":       "Rate limit exceeded",
		"retry_after": seconds,
	}).WithHeader("Retry-After", fmt.Sprintf("%d", seconds))
}

func joinIDs(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ", ")
}
