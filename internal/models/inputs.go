package models

// NewCase поля нового кейса
type NewCase struct {
	Title       string   `json:"title" form:"title" validate:"required"`
	Theme       string   `json:"theme" form:"theme"`
	Description string   `json:"description" form:"description" validate:"required"`
	Cover       string   `json:"cover" form:"cover"`
	Files       []string `json:"files" form:"-"`
}

// NewReview поля нового отзыва
type NewReview struct {
	UserID        int64  `json:"userId" validate:"required"`
	ReviewerID    int64  `json:"reviewerId" validate:"required"`
	ReviewerName  string `json:"reviewerName"`
	ReviewerPhoto string `json:"reviewerPhoto"`
	Text          string `json:"text" validate:"required"`
	Rating        int    `json:"rating" validate:"min=1,max=5"`
}

// Registration данные для регистрации пользователя
type Registration struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Credentials данные для входа
type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ProfileUpdate редактируемые поля профиля, заменяются целиком
type ProfileUpdate struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Photo       string `json:"photo"`
	Description string `json:"description"`
}

// CaseFilter условия выборки кейсов, пустые поля не ограничивают выборку
type CaseFilter struct {
	Status *CaseStatus
	UserID *int64
}

// ProcessedCaseFilter условия выборки кейсов в работе
type ProcessedCaseFilter struct {
	ExecutorID *int64
	UserID     *int64
	Status     *ProcessedCaseStatus
}

// ProjectFilter условия выборки проектов
type ProjectFilter struct {
	UserID        *int64
	ExecutorID    *int64
	ExecutorEmail string
}
