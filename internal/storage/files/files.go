// Package files хранит загруженные файлы на локальном диске под корнем загрузок.
// Наружу отдаются относительные пути вида /uploads/<имя>, которые раздает статика.
package files

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/untibullet/ideaflow/internal/apperr"
)

// URLPrefix префикс относительных путей, под которым сервер раздает загрузки
const URLPrefix = "/uploads"

type Store struct {
	root string
}

// New создает хранилище и при необходимости каталог root
func New(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("files.New: %w", err)
	}
	return &Store{root: root}, nil
}

// Root каталог на диске, из которого раздаются файлы
func (s *Store) Root() string {
	return s.root
}

// Save сохраняет файлы в порядке передачи и возвращает их относительные пути.
// При ошибке уже записанные файлы этого вызова удаляются.
func (s *Store) Save(headers []*multipart.FileHeader) ([]string, error) {
	paths := make([]string, 0, len(headers))
	for _, h := range headers {
		p, err := s.saveOne(h)
		if err != nil {
			s.Remove(paths)
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// Remove удаляет ранее сохраненные файлы, ошибки игнорируются
func (s *Store) Remove(paths []string) {
	for _, p := range paths {
		name := filepath.Base(p)
		_ = os.Remove(filepath.Join(s.root, name))
	}
}

func (s *Store) saveOne(h *multipart.FileHeader) (string, error) {
	src, err := h.Open()
	if err != nil {
		return "", apperr.Validation("cannot read uploaded file %q", h.Filename)
	}
	defer src.Close()

	name := uuid.NewString() + "_" + sanitize(h.Filename)
	dst, err := os.Create(filepath.Join(s.root, name))
	if err != nil {
		return "", apperr.Store("failed to create upload", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(dst.Name())
		return "", apperr.Store("failed to write upload", err)
	}
	return URLPrefix + "/" + name, nil
}

// sanitize оставляет от имени клиента только базовое имя без разделителей пути
func sanitize(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == 0:
			return -1
		case r == ' ':
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." {
		return "file"
	}
	return name
}
