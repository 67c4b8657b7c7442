// Package metrics содержит счетчики переходов жизненного цикла кейсов и отзывов.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/untibullet/ideaflow/internal/apperr"
)

// Результаты операций для метки outcome
const (
	OutcomeOK       = "ok"
	OutcomeConflict = "conflict"
	OutcomeDenied   = "denied"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Metrics набор счетчиков сервиса. Нулевой указатель допустим и ничего не считает.
type Metrics struct {
	transitions *prometheus.CounterVec
	reviews     *prometheus.CounterVec
}

// New создает счетчики и регистрирует их в reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ideaflow",
			Name:      "workflow_transitions_total",
			Help:      "Workflow operations on cases by operation and outcome.",
		}, []string{"operation", "outcome"}),
		reviews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ideaflow",
			Name:      "reviews_added_total",
			Help:      "Review submissions by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.transitions, m.reviews)
	return m
}

// Transition учитывает операцию над кейсом: create, claim, append_files, complete
func (m *Metrics) Transition(operation, outcome string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(operation, outcome).Inc()
}

// Review учитывает попытку добавить отзыв
func (m *Metrics) Review(outcome string) {
	if m == nil {
		return
	}
	m.reviews.WithLabelValues(outcome).Inc()
}

// Outcome сопоставляет ошибку операции со значением метки outcome
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, apperr.ErrConflict):
		return OutcomeConflict
	case errors.Is(err, apperr.ErrAuthorization):
		return OutcomeDenied
	case errors.Is(err, apperr.ErrValidation):
		return OutcomeInvalid
	case errors.Is(err, apperr.ErrNotFound):
		return OutcomeNotFound
	default:
		return OutcomeError
	}
}
