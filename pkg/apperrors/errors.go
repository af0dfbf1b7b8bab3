package apperrors

import (
	stderrors "errors"
	"fmt"
	"maps"
	"net/http"
)

// AppError - ошибка с HTTP-статусом и текстом для клиента.
// Err - внутренняя причина, клиенту не отдается.
type AppError struct {
	Code     ErrorCode
	Domain   string
	Message  string
	Details  interface{}
	Headers  map[string]string
	Err      error
	HTTPCode int
}

func New(code ErrorCode, domain, message string, httpCode int) *AppError {
	return &AppError{Code: code, Domain: domain, Message: message, HTTPCode: httpCode}
}

func Wrap(err error, code ErrorCode, domain, message string, httpCode int) *AppError {
	return New(code, domain, message, httpCode).WithError(err)
}

func (e *AppError) Error() string {
	msg := fmt.Sprintf("%s/%s: %s", e.Domain, e.Code, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is сравнивает по коду, домену и тексту, поэтому копия из With* совпадает
// со своей переменной из domain.go
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Domain == t.Domain && e.Message == t.Message
}

// With* возвращают копию: переменные из domain.go общие для всех запросов

func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

func (e *AppError) WithError(err error) *AppError {
	cp := *e
	cp.Err = err
	return &cp
}

func (e *AppError) WithHeader(key, value string) *AppError {
	cp := *e
	cp.Headers = maps.Clone(e.Headers)
	if cp.Headers == nil {
		cp.Headers = make(map[string]string, 1)
	}
	cp.Headers[key] = value
	return &cp
}

func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// InternalError - 500 без подробностей для клиента
func InternalError(err error) *AppError {
	return Wrap(err, CodeInternalError, "system", "Internal server error", http.StatusInternalServerError)
}

// ValidationError - 422, details - ошибки по полям
func ValidationError(details interface{}) *AppError {
	return New(CodeValidationFailed, "validation", "Validation failed", http.StatusUnprocessableEntity).WithDetails(details)
}

func NewUnauthorizedError(message string) *AppError {
	return New(CodeUnauthorized, "auth", message, http.StatusUnauthorized)
}

func NewBadRequestError(message string) *AppError {
	return New(CodeBadRequest, "request", message, http.StatusBadRequest)
}

func NewNotFoundError(domain, message string) *AppError {
	return New(CodeNotFound, domain, message, http.StatusNotFound)
}
