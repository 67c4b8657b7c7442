package models

import (
	"fmt"

	"github.com/untibullet/ideaflow/internal/apperr"
)

// CaseStatus статус открытого кейса
type CaseStatus string

// ProcessedCaseStatus статус кейса в работе
type ProcessedCaseStatus string

// ProjectStatus статус завершенного проекта
type ProjectStatus string

// Константы статусов
const (
	CaseStatusOpen    CaseStatus = "open"
	CaseStatusClaimed CaseStatus = "claimed"

	ProcessedCaseStatusInProcess ProcessedCaseStatus = "in_process"
	ProcessedCaseStatusCompleted ProcessedCaseStatus = "completed"

	ProjectStatusClosed ProjectStatus = "closed"
)

// ParseCaseStatus возвращает статус кейса или ошибку валидации для неизвестного значения
func ParseCaseStatus(s string) (CaseStatus, error) {
	return parseStatus("case", s, CaseStatusOpen, CaseStatusClaimed)
}

// ParseProcessedCaseStatus возвращает статус кейса в работе
func ParseProcessedCaseStatus(s string) (ProcessedCaseStatus, error) {
	return parseStatus("processed case", s, ProcessedCaseStatusInProcess, ProcessedCaseStatusCompleted)
}

// ParseProjectStatus возвращает статус проекта
func ParseProjectStatus(s string) (ProjectStatus, error) {
	return parseStatus("project", s, ProjectStatusClosed)
}

func (s *CaseStatus) UnmarshalText(b []byte) (err error) {
	*s, err = ParseCaseStatus(string(b))
	return err
}

func (s *CaseStatus) Scan(src any) error {
	v, err := scanText(src)
	if err != nil {
		return err
	}
	*s, err = ParseCaseStatus(v)
	return err
}

func (s *ProcessedCaseStatus) UnmarshalText(b []byte) (err error) {
	*s, err = ParseProcessedCaseStatus(string(b))
	return err
}

func (s *ProcessedCaseStatus) Scan(src any) error {
	v, err := scanText(src)
	if err != nil {
		return err
	}
	*s, err = ParseProcessedCaseStatus(v)
	return err
}

func (s *ProjectStatus) UnmarshalText(b []byte) (err error) {
	*s, err = ParseProjectStatus(string(b))
	return err
}

func (s *ProjectStatus) Scan(src any) error {
	v, err := scanText(src)
	if err != nil {
		return err
	}
	*s, err = ParseProjectStatus(v)
	return err
}

func parseStatus[T ~string](kind, s string, allowed ...T) (T, error) {
	for _, a := range allowed {
		if string(a) == s {
			return a, nil
		}
	}
	var zero T
	return zero, apperr.Validation("unknown %s status %q", kind, s)
}

func scanText(src any) (string, error) {
	switch v := src.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("cannot scan %T into status", src)
	}
}
