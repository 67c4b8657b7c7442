// models/models.go
package models

import (
	"strings"
	"time"
)

// User представляет зарегистрированного пользователя площадки
type User struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"firstName" db:"first_name"`
	LastName     string    `json:"lastName" db:"last_name"`
	Photo        string    `json:"photo" db:"photo"`
	Description  string    `json:"description" db:"description"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// FullName возвращает имя и фамилию через пробел
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Case представляет открытый кейс заказчика
type Case struct {
	ID          int64      `json:"id" db:"id"`
	UserID      int64      `json:"userId" db:"user_id"`
	UserEmail   string     `json:"userEmail,omitempty" db:"-"`
	Title       string     `json:"title" db:"title"`
	Theme       string     `json:"theme" db:"theme"`
	Description string     `json:"description" db:"description"`
	Cover       string     `json:"cover" db:"cover"`
	Files       []string   `json:"files" db:"files"`
	Status      CaseStatus `json:"status" db:"status"`
	ExecutorID  *int64     `json:"executorId,omitempty" db:"executor_id"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
}

// ProcessedCase представляет кейс, взятый исполнителем в работу.
// Поля кейса копируются в момент захвата и дальше от исходного кейса не зависят.
type ProcessedCase struct {
	ID            int64               `json:"id" db:"id"`
	CaseID        int64               `json:"caseId" db:"case_id"`
	UserID        int64               `json:"userId" db:"user_id"`
	Title         string              `json:"title" db:"title"`
	Theme         string              `json:"theme" db:"theme"`
	Description   string              `json:"description" db:"description"`
	Cover         string              `json:"cover" db:"cover"`
	Files         []string            `json:"files" db:"files"`
	Status        ProcessedCaseStatus `json:"status" db:"status"`
	ExecutorID    int64               `json:"executorId" db:"executor_id"`
	ExecutorEmail string              `json:"executorEmail" db:"executor_email"`
	CreatedAt     time.Time           `json:"createdAt" db:"created_at"`
	CompletedAt   *time.Time          `json:"completedAt,omitempty" db:"completed_at"`
}

// Project представляет неизменяемую запись о завершенной работе
type Project struct {
	ID              int64         `json:"id" db:"id"`
	CaseID          int64         `json:"caseId" db:"case_id"`
	ProcessedCaseID int64         `json:"processedCaseId" db:"processed_case_id"`
	UserID          int64         `json:"userId" db:"user_id"`
	Title           string        `json:"title" db:"title"`
	Theme           string        `json:"theme" db:"theme"`
	Description     string        `json:"description" db:"description"`
	Cover           string        `json:"cover" db:"cover"`
	Files           []string      `json:"files" db:"files"`
	Status          ProjectStatus `json:"status" db:"status"`
	ExecutorID      int64         `json:"executorId" db:"executor_id"`
	ExecutorEmail   string        `json:"executorEmail" db:"executor_email"`
	CreatedAt       time.Time     `json:"createdAt" db:"created_at"`
}

// Review представляет отзыв о пользователе
type Review struct {
	ID            int64     `json:"id" db:"id"`
	UserID        int64     `json:"userId" db:"user_id"`
	ReviewerID    int64     `json:"reviewerId" db:"reviewer_id"`
	ReviewerName  string    `json:"reviewerName" db:"reviewer_name"`
	ReviewerPhoto string    `json:"reviewerPhoto" db:"reviewer_photo"`
	Text          string    `json:"text" db:"text"`
	Rating        int       `json:"rating" db:"rating"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// ReviewSummary набор отзывов пользователя и рассчитанный по нему рейтинг.
// AverageRating равен 0, когда отзывов нет.
type ReviewSummary struct {
	Reviews       []Review `json:"reviews"`
	AverageRating float64  `json:"averageRating"`
	Count         int      `json:"count"`
}

// CustomerItemKind тип элемента в списке работ заказчика
type CustomerItemKind string

const (
	CustomerItemCase    CustomerItemKind = "case"
	CustomerItemProject CustomerItemKind = "project"
)

// CustomerItem элемент списка работ заказчика: открытый кейс или закрытый проект
type CustomerItem struct {
	Kind          CustomerItemKind `json:"kind"`
	ID            int64            `json:"id"`
	CaseID        int64            `json:"caseId"`
	Title         string           `json:"title"`
	Theme         string           `json:"theme"`
	Description   string           `json:"description"`
	Cover         string           `json:"cover"`
	Status        string           `json:"status"`
	ExecutorEmail string           `json:"executorEmail,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// Open сообщает, что элемент еще ждет исполнителя
func (i CustomerItem) Open() bool {
	return i.Kind == CustomerItemCase && i.Status == string(CaseStatusOpen)
}

// ProfileOverview сводка активности пользователя для страницы профиля
type ProfileOverview struct {
	User                User            `json:"user"`
	CustomerItems       []CustomerItem  `json:"customerItems"`
	CompletedAsExecutor []Project       `json:"completedAsExecutor"`
	InProcessAsExecutor []ProcessedCase `json:"inProcessAsExecutor"`
	Reviews             []Review        `json:"reviews"`
	AverageRating       float64         `json:"averageRating"`
}
