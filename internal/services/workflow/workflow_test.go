package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/untibullet/ideaflow/internal/apperr"
	"github.com/untibullet/ideaflow/internal/metrics"
	"github.com/untibullet/ideaflow/internal/models"
	"go.uber.org/zap"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateCase(ctx context.Context, customerID int64, in models.NewCase) (*models.Case, error) {
	args := m.Called(ctx, customerID, in)
	c, _ := args.Get(0).(*models.Case)
	return c, args.Error(1)
}

func (m *RepoMock) GetCase(ctx context.Context, id int64) (*models.Case, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*models.Case)
	return c, args.Error(1)
}

func (m *RepoMock) ListCases(ctx context.Context, filter models.CaseFilter) ([]models.Case, error) {
	args := m.Called(ctx, filter)
	c, _ := args.Get(0).([]models.Case)
	return c, args.Error(1)
}

func (m *RepoMock) ClaimCase(ctx context.Context, caseID, executorID int64) (*models.ProcessedCase, error) {
	args := m.Called(ctx, caseID, executorID)
	pc, _ := args.Get(0).(*models.ProcessedCase)
	return pc, args.Error(1)
}

func (m *RepoMock) GetProcessedCase(ctx context.Context, id int64) (*models.ProcessedCase, error) {
	args := m.Called(ctx, id)
	pc, _ := args.Get(0).(*models.ProcessedCase)
	return pc, args.Error(1)
}

func (m *RepoMock) ListProcessedCases(ctx context.Context, filter models.ProcessedCaseFilter) ([]models.ProcessedCase, error) {
	args := m.Called(ctx, filter)
	pcs, _ := args.Get(0).([]models.ProcessedCase)
	return pcs, args.Error(1)
}

func (m *RepoMock) AppendProcessedCaseFiles(ctx context.Context, id, executorID int64, files []string) ([]string, error) {
	args := m.Called(ctx, id, executorID, files)
	f, _ := args.Get(0).([]string)
	return f, args.Error(1)
}

func (m *RepoMock) CompleteProcessedCase(ctx context.Context, id, requesterID int64) (*models.Project, error) {
	args := m.Called(ctx, id, requesterID)
	p, _ := args.Get(0).(*models.Project)
	return p, args.Error(1)
}

func (m *RepoMock) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.Project)
	return p, args.Error(1)
}

func (m *RepoMock) ListProjects(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error) {
	args := m.Called(ctx, filter)
	p, _ := args.Get(0).([]models.Project)
	return p, args.Error(1)
}

func newService(repo *RepoMock) *Service {
	return New(repo, metrics.New(prometheus.NewRegistry()), zap.NewNop())
}

func TestService_CreateCase(t *testing.T) {
	tests := []struct {
		name       string
		customerID int64
		in         models.NewCase
		setupMocks func(r *RepoMock)
		wantErr    error
	}{
		{
			name:       "success",
			customerID: 1,
			in:         models.NewCase{Title: "  Logo ", Theme: "Брендинг", Description: "Need a logo", Files: []string{"/uploads/a.pdf", " "}},
			setupMocks: func(r *RepoMock) {
				want := models.NewCase{Title: "Logo", Theme: "Брендинг", Description: "Need a logo", Files: []string{"/uploads/a.pdf"}}
				r.On("CreateCase", mock.Anything, int64(1), want).
					Return(&models.Case{ID: 10, UserID: 1, Title: "Logo", Theme: "Брендинг", Status: models.CaseStatusOpen}, nil).Once()
			},
		},
		{
			name:       "missing title",
			customerID: 1,
			in:         models.NewCase{Title: "   ", Description: "Need a logo"},
			setupMocks: func(_ *RepoMock) {},
			wantErr:    apperr.ErrValidation,
		},
		{
			name:       "missing description",
			customerID: 1,
			in:         models.NewCase{Title: "Logo"},
			setupMocks: func(_ *RepoMock) {},
			wantErr:    apperr.ErrValidation,
		},
		{
			name:       "missing customer",
			customerID: 0,
			in:         models.NewCase{Title: "Logo", Description: "d"},
			setupMocks: func(_ *RepoMock) {},
			wantErr:    apperr.ErrValidation,
		},
		{
			name:       "unknown customer",
			customerID: 42,
			in:         models.NewCase{Title: "Logo", Description: "d"},
			setupMocks: func(r *RepoMock) {
				r.On("CreateCase", mock.Anything, int64(42), mock.Anything).
					Return(nil, apperr.NotFound("user 42")).Once()
			},
			wantErr: apperr.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setupMocks(repo)

			c, err := newService(repo).CreateCase(context.Background(), tt.customerID, tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, c)
			} else {
				require.NoError(t, err)
				assert.Equal(t, models.CaseStatusOpen, c.Status)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_ClaimCase(t *testing.T) {
	repo := new(RepoMock)
	svc := newService(repo)
	ctx := context.Background()

	pc := &models.ProcessedCase{ID: 3, CaseID: 7, UserID: 1, ExecutorID: 2, ExecutorEmail: "executor@example.com",
		Status: models.ProcessedCaseStatusInProcess}
	repo.On("ClaimCase", mock.Anything, int64(7), int64(2)).Return(pc, nil).Once()
	repo.On("ClaimCase", mock.Anything, int64(7), int64(4)).Return(nil, apperr.Conflict("case 7 is already claimed")).Once()

	got, err := svc.ClaimCase(ctx, 7, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ExecutorID)
	assert.Equal(t, models.ProcessedCaseStatusInProcess, got.Status)

	_, err = svc.ClaimCase(ctx, 7, 4)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = svc.ClaimCase(ctx, 0, 4)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	repo.AssertExpectations(t)
}

func TestService_AppendFiles(t *testing.T) {
	inProcess := &models.ProcessedCase{ID: 3, ExecutorID: 2, Status: models.ProcessedCaseStatusInProcess,
		Files: []string{"/uploads/brief.pdf"}}
	completed := &models.ProcessedCase{ID: 4, ExecutorID: 2, Status: models.ProcessedCaseStatusCompleted}

	tests := []struct {
		name       string
		pcID       int64
		executorID int64
		files      []string
		setupMocks func(r *RepoMock)
		want       []string
		wantErr    error
	}{
		{
			name:       "appends in call order",
			pcID:       3,
			executorID: 2,
			files:      []string{"/uploads/v1.png", "/uploads/v2.png"},
			setupMocks: func(r *RepoMock) {
				r.On("GetProcessedCase", mock.Anything, int64(3)).Return(inProcess, nil).Once()
				r.On("AppendProcessedCaseFiles", mock.Anything, int64(3), int64(2), []string{"/uploads/v1.png", "/uploads/v2.png"}).
					Return([]string{"/uploads/brief.pdf", "/uploads/v1.png", "/uploads/v2.png"}, nil).Once()
			},
			want: []string{"/uploads/brief.pdf", "/uploads/v1.png", "/uploads/v2.png"},
		},
		{
			name:       "empty input rejected",
			pcID:       3,
			executorID: 2,
			files:      []string{"", "  "},
			setupMocks: func(_ *RepoMock) {},
			wantErr:    apperr.ErrValidation,
		},
		{
			name:       "not the executor",
			pcID:       3,
			executorID: 9,
			files:      []string{"/uploads/v1.png"},
			setupMocks: func(r *RepoMock) {
				r.On("GetProcessedCase", mock.Anything, int64(3)).Return(inProcess, nil).Once()
			},
			wantErr: apperr.ErrAuthorization,
		},
		{
			name:       "already completed",
			pcID:       4,
			executorID: 2,
			files:      []string{"/uploads/v1.png"},
			setupMocks: func(r *RepoMock) {
				r.On("GetProcessedCase", mock.Anything, int64(4)).Return(completed, nil).Once()
			},
			wantErr: apperr.ErrConflict,
		},
		{
			name:       "missing processed case",
			pcID:       5,
			executorID: 2,
			files:      []string{"/uploads/v1.png"},
			setupMocks: func(r *RepoMock) {
				r.On("GetProcessedCase", mock.Anything, int64(5)).Return(nil, apperr.NotFound("processed case 5")).Once()
			},
			wantErr: apperr.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setupMocks(repo)

			got, err := newService(repo).AppendFiles(context.Background(), tt.pcID, tt.executorID, tt.files)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_CompleteCase(t *testing.T) {
	repo := new(RepoMock)
	svc := newService(repo)
	ctx := context.Background()

	project := &models.Project{ID: 11, CaseID: 7, ProcessedCaseID: 3, UserID: 1,
		ExecutorEmail: "executor@example.com", Status: models.ProjectStatusClosed}
	repo.On("CompleteProcessedCase", mock.Anything, int64(3), int64(1)).Return(project, nil).Once()
	repo.On("CompleteProcessedCase", mock.Anything, int64(3), int64(1)).
		Return(nil, apperr.Conflict("processed case 3 is already completed")).Once()
	repo.On("CompleteProcessedCase", mock.Anything, int64(3), int64(8)).
		Return(nil, apperr.Authorization("user 8")).Once()

	got, err := svc.CompleteCase(ctx, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusClosed, got.Status)
	assert.Equal(t, "executor@example.com", got.ExecutorEmail)

	_, err = svc.CompleteCase(ctx, 3, 1)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = svc.CompleteCase(ctx, 3, 8)
	assert.ErrorIs(t, err, apperr.ErrAuthorization)

	repo.AssertExpectations(t)
}

func TestService_Reads(t *testing.T) {
	repo := new(RepoMock)
	svc := newService(repo)
	ctx := context.Background()

	open := models.CaseStatusOpen
	filter := models.CaseFilter{Status: &open}
	repo.On("ListCases", mock.Anything, filter).Return([]models.Case{{ID: 1}}, nil).Once()
	repo.On("GetProject", mock.Anything, int64(9)).Return(nil, errors.New("boom")).Once()

	cases, err := svc.ListCases(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, cases, 1)

	_, err = svc.GetProject(ctx, 9)
	assert.Error(t, err)

	repo.AssertExpectations(t)
}
