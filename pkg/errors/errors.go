package errors

import (
	"errors"
	"fmt"
)

// ErrorCode 错误码类型
type ErrorCode string

const (
	CodeInvalidInput   ErrorCode = "INVALID_INPUT"
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeAlreadyExists  ErrorCode = "ALREADY_EXISTS"
	CodeInternal       ErrorCode = "INTERNAL_ERROR"
	CodeStorageUnavail ErrorCode = "STORAGE_UNAVAILABLE"
	CodeTransport      ErrorCode = "TRANSPORT_FAILURE"
)

// AppError 应用错误
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 实现 errors.Unwrap
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewInvalidInputError 创建无效输入错误
func NewInvalidInputError(message string) *AppError {
	return &AppError{
		Code:    CodeInvalidInput,
		Message: message,
	}
}

// NewNotFoundError 创建未找到错误
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: message,
	}
}

// NewInternalError 创建内部错误
func NewInternalError(message string) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: message,
	}
}

// NewStorageUnavailableError 创建存储不可用错误
// 持久层调用失败时使用; 回复流水线遇到该错误直接中止, 不再调用补全服务
func NewStorageUnavailableError(message string, cause error) *AppError {
	return &AppError{
		Code:    CodeStorageUnavail,
		Message: message,
		Err:     cause,
	}
}

// NewTransportError 创建传输失败错误 (回复投递失败)
func NewTransportError(message string, cause error) *AppError {
	return &AppError{
		Code:    CodeTransport,
		Message: message,
		Err:     cause,
	}
}

// IsNotFound 判断是否为未找到错误
func IsNotFound(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == CodeNotFound
	}
	return false
}

// IsStorageUnavailable 判断是否为存储不可用错误
func IsStorageUnavailable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == CodeStorageUnavail
	}
	return false
}
