// Package password хеширует и проверяет пароли пользователей через bcrypt.
package password

import (
	"errors"
	"fmt"

	"github.com/untibullet/ideaflow/internal/apperr"
	"golang.org/x/crypto/bcrypt"
)

// Hash возвращает bcrypt-хеш пароля. Пароль длиннее 72 байт дает apperr.ErrValidation:
// проверка тегом max считает символы, а bcrypt ограничивает байты.
func Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperr.Validation("field password must be at most 72 bytes")
	}
	if err != nil {
		return "", fmt.Errorf("password.Hash: %w", err)
	}
	return string(hashed), nil
}

// Compare возвращает nil, если пароль соответствует хешу
func Compare(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return fmt.Errorf("password.Compare: %w", err)
	}
	return nil
}
