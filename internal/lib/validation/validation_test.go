package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/untibullet/ideaflow/internal/apperr"
	"github.com/untibullet/ideaflow/internal/models"
)

func TestValidator_Struct(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		in      any
		wantErr string
	}{
		{
			name: "valid case",
			in:   models.NewCase{Title: "Logo", Description: "Need a logo"},
		},
		{
			name:    "missing title and description",
			in:      models.NewCase{Theme: "Брендинг"},
			wantErr: "validation error: field title is required, field description is required",
		},
		{
			name:    "rating above range",
			in:      models.NewReview{UserID: 5, ReviewerID: 1, Text: "ok", Rating: 6},
			wantErr: "validation error: field rating must be at most 5",
		},
		{
			name:    "rating below range",
			in:      models.NewReview{UserID: 5, ReviewerID: 1, Text: "ok", Rating: 0},
			wantErr: "validation error: field rating must be at least 1",
		},
		{
			name:    "bad email",
			in:      models.Registration{Email: "nope", Password: "secret1"},
			wantErr: "validation error: field email is not a valid email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, apperr.ErrValidation)
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}
