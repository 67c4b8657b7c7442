package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/untibullet/ideaflow/internal/apperr"
	"github.com/untibullet/ideaflow/internal/models"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type StoreMock struct{ mock.Mock }

func (m *StoreMock) GetUser(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *StoreMock) ListCases(ctx context.Context, filter models.CaseFilter) ([]models.Case, error) {
	args := m.Called(ctx, filter)
	c, _ := args.Get(0).([]models.Case)
	return c, args.Error(1)
}

func (m *StoreMock) ListProcessedCases(ctx context.Context, filter models.ProcessedCaseFilter) ([]models.ProcessedCase, error) {
	args := m.Called(ctx, filter)
	pcs, _ := args.Get(0).([]models.ProcessedCase)
	return pcs, args.Error(1)
}

func (m *StoreMock) ListProjects(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error) {
	args := m.Called(ctx, filter)
	p, _ := args.Get(0).([]models.Project)
	return p, args.Error(1)
}

type ReviewsMock struct{ mock.Mock }

func (m *ReviewsMock) Summary(ctx context.Context, userID int64) (models.ReviewSummary, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).(models.ReviewSummary)
	return s, args.Error(1)
}

var user = &models.User{ID: 1, Email: "anna@example.com", FirstName: "Anna"}

func customerCases(f models.CaseFilter) bool {
	return f.UserID != nil && *f.UserID == 1 && f.Status != nil && *f.Status == models.CaseStatusOpen
}

func customerProjects(f models.ProjectFilter) bool {
	return f.UserID != nil && *f.UserID == 1
}

func executorProjects(f models.ProjectFilter) bool {
	return f.ExecutorEmail == "anna@example.com" && f.UserID == nil
}

func executorInProcess(f models.ProcessedCaseFilter) bool {
	return f.ExecutorID != nil && *f.ExecutorID == 1 &&
		f.Status != nil && *f.Status == models.ProcessedCaseStatusInProcess
}

func TestService_Overview(t *testing.T) {
	store := new(StoreMock)
	reviews := new(ReviewsMock)

	store.On("GetUser", mock.Anything, int64(1)).Return(user, nil).Once()
	store.On("ListCases", mock.Anything, mock.MatchedBy(customerCases)).
		Return([]models.Case{{ID: 20, Title: "Site", Status: models.CaseStatusOpen}}, nil).Once()
	store.On("ListProjects", mock.Anything, mock.MatchedBy(customerProjects)).
		Return([]models.Project{{ID: 5, CaseID: 10, Title: "Logo", Status: models.ProjectStatusClosed,
			ExecutorEmail: "bob@example.com"}}, nil).Once()
	store.On("ListProjects", mock.Anything, mock.MatchedBy(executorProjects)).
		Return([]models.Project{{ID: 6, CaseID: 11, Title: "Banner", Status: models.ProjectStatusClosed}}, nil).Once()
	store.On("ListProcessedCases", mock.Anything, mock.MatchedBy(executorInProcess)).
		Return([]models.ProcessedCase{{ID: 3, CaseID: 12, Status: models.ProcessedCaseStatusInProcess}}, nil).Once()
	reviews.On("Summary", mock.Anything, int64(1)).
		Return(models.ReviewSummary{Reviews: []models.Review{{Rating: 4}, {Rating: 2}}, AverageRating: 3, Count: 2}, nil).Once()

	ov, err := New(store, reviews, zap.NewNop()).Overview(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "anna@example.com", ov.User.Email)
	require.Len(t, ov.CustomerItems, 2)
	assert.True(t, ov.CustomerItems[0].Open())
	assert.Equal(t, models.CustomerItemProject, ov.CustomerItems[1].Kind)
	assert.Equal(t, int64(10), ov.CustomerItems[1].CaseID)
	assert.Equal(t, "bob@example.com", ov.CustomerItems[1].ExecutorEmail)
	require.Len(t, ov.CompletedAsExecutor, 1)
	assert.Equal(t, int64(6), ov.CompletedAsExecutor[0].ID)
	require.Len(t, ov.InProcessAsExecutor, 1)
	assert.Len(t, ov.Reviews, 2)
	assert.Equal(t, 3.0, ov.AverageRating)

	store.AssertExpectations(t)
	reviews.AssertExpectations(t)
}

func TestService_OverviewUnknownUser(t *testing.T) {
	store := new(StoreMock)
	store.On("GetUser", mock.Anything, int64(99)).Return(nil, apperr.NotFound("user 99")).Once()

	_, err := New(store, new(ReviewsMock), zap.NewNop()).Overview(context.Background(), 99)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	store.AssertExpectations(t)
}

func TestService_OverviewViewsAreBestEffort(t *testing.T) {
	store := new(StoreMock)
	reviews := new(ReviewsMock)
	boom := apperr.Store("failed to list", errors.New("connection reset"))

	store.On("GetUser", mock.Anything, int64(1)).Return(user, nil).Once()
	store.On("ListCases", mock.Anything, mock.Anything).Return(nil, boom).Once()
	store.On("ListProjects", mock.Anything, mock.MatchedBy(executorProjects)).Return(nil, boom).Once()
	store.On("ListProcessedCases", mock.Anything, mock.Anything).
		Return([]models.ProcessedCase{{ID: 3, Status: models.ProcessedCaseStatusInProcess}}, nil).Once()
	reviews.On("Summary", mock.Anything, int64(1)).Return(models.ReviewSummary{}, boom).Once()

	core, logs := observer.New(zap.WarnLevel)
	ov, err := New(store, reviews, zap.New(core)).Overview(context.Background(), 1)
	require.NoError(t, err)

	assert.NotNil(t, ov.CustomerItems)
	assert.Empty(t, ov.CustomerItems)
	assert.NotNil(t, ov.CompletedAsExecutor)
	assert.Empty(t, ov.CompletedAsExecutor)
	assert.Len(t, ov.InProcessAsExecutor, 1)
	assert.NotNil(t, ov.Reviews)
	assert.Equal(t, 0.0, ov.AverageRating)
	assert.Equal(t, 3, logs.FilterMessage("profile view unavailable").Len())
}
