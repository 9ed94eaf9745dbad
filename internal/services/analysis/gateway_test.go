package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/rogo/internal/models"
)

// fakeAnalysisBackend records the keys it receives
type fakeAnalysisBackend struct {
	prereqCode string
	specSlug   string
	examFocus  string
	calls      int
}

func (f *fakeAnalysisBackend) CourseGraph(ctx context.Context) (*models.CourseGraph, error) {
	f.calls++
	return &models.CourseGraph{}, nil
}

func (f *fakeAnalysisBackend) Credits(ctx context.Context, semesters []string) (*models.CreditsBreakdown, error) {
	f.calls++
	return &models.CreditsBreakdown{}, nil
}

func (f *fakeAnalysisBackend) Prerequisites(ctx context.Context, courseCode string) (*models.PrerequisiteCheck, error) {
	f.calls++
	f.prereqCode = courseCode
	return &models.PrerequisiteCheck{}, nil
}

func (f *fakeAnalysisBackend) Specialization(ctx context.Context, slug string) (*models.Specialization, error) {
	f.calls++
	f.specSlug = slug
	return &models.Specialization{}, nil
}

func (f *fakeAnalysisBackend) ExamHelper(ctx context.Context, focus string) (*models.ExamTips, error) {
	f.calls++
	f.examFocus = focus
	return &models.ExamTips{}, nil
}

func (f *fakeAnalysisBackend) CareerPaths(ctx context.Context, completedCourses []string) (*models.CareerPaths, error) {
	f.calls++
	return &models.CareerPaths{}, nil
}

func TestEmptyKeysRejectedLocally(t *testing.T) {
	backend := &fakeAnalysisBackend{}
	gateway := NewGateway(backend, arbor.NewLogger())
	ctx := context.Background()

	_, err := gateway.Prerequisites(ctx, "  ")
	require.Error(t, err)
	_, ok := models.AsValidationError(err)
	assert.True(t, ok)

	_, err = gateway.Specialization(ctx, "")
	require.Error(t, err)

	assert.Zero(t, backend.calls, "invalid keys never reach the backend")
}

func TestKeysTrimmedBeforeDispatch(t *testing.T) {
	backend := &fakeAnalysisBackend{}
	gateway := NewGateway(backend, arbor.NewLogger())
	ctx := context.Background()

	_, err := gateway.Prerequisites(ctx, " MCA-201 ")
	require.NoError(t, err)
	assert.Equal(t, "MCA-201", backend.prereqCode)

	_, err = gateway.Specialization(ctx, "data-science")
	require.NoError(t, err)
	assert.Equal(t, "data-science", backend.specSlug)

	// Focus is optional; empty passes through untouched
	_, err = gateway.ExamHelper(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, backend.examFocus)
}
