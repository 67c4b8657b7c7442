package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/untibullet/ideaflow/internal/apperr"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Transition("claim", OutcomeOK)
	m.Transition("claim", OutcomeConflict)
	m.Transition("claim", OutcomeConflict)
	m.Review(OutcomeOK)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("claim", OutcomeOK)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.transitions.WithLabelValues("claim", OutcomeConflict)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reviews.WithLabelValues(OutcomeOK)))
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Transition("create", OutcomeOK)
		m.Review(OutcomeInvalid)
	})
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, OutcomeOK, Outcome(nil))
	assert.Equal(t, OutcomeConflict, Outcome(apperr.Conflict("case 7 is already claimed")))
	assert.Equal(t, OutcomeDenied, Outcome(apperr.Authorization("not the executor")))
	assert.Equal(t, OutcomeInvalid, Outcome(apperr.Validation("files are empty")))
	assert.Equal(t, OutcomeNotFound, Outcome(apperr.NotFound("case 7")))
	assert.Equal(t, OutcomeError, Outcome(apperr.Store("failed", errors.New("boom"))))
}
