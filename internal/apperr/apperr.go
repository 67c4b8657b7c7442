// Package apperr описывает классы ошибок приложения. Слои ниже HTTP оборачивают
// эти значения через %w, обработчики сопоставляют их с кодами ответа через errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
	ErrAuthorization = errors.New("not authorized")
	ErrConflict      = errors.New("conflict")
	ErrStore         = errors.New("store error")
)

// Validation формирует ошибку некорректного ввода
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFound формирует ошибку отсутствующей сущности, например NotFound("case %d", id)
func NotFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Authorization формирует ошибку отсутствия нужной связи актора с сущностью
func Authorization(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrAuthorization, fmt.Sprintf(format, args...))
}

// Conflict формирует ошибку недопустимого перехода состояния
func Conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// Store оборачивает ошибку хранилища, сохраняя исходную причину в цепочке
func Store(msg string, err error) error {
	return fmt.Errorf("%s: %w: %w", msg, ErrStore, err)
}

// Message возвращает текст ошибки без технических подробностей хранилища
func Message(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrStore) {
		return "internal storage error"
	}
	return err.Error()
}
