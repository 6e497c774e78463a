package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinassist/assessment/internal/application/services"
	"github.com/clinassist/assessment/internal/domain/entities"
)

func TestReviewService_CreateAndGet(t *testing.T) {
	svc := services.NewReviewService(nil)

	id := svc.Create("INT-000001", map[string]any{"patient_name": "Jane"}, "dr.adams")
	assert.Equal(t, "REV-000001", id)

	review, ok := svc.Get(id)
	require.True(t, ok)
	assert.Equal(t, "INT-000001", review.InterventionID)
	assert.Equal(t, "dr.adams", review.Reviewer)
	assert.Equal(t, entities.ReviewStatusInProgress, review.Status)
	assert.Empty(t, review.Findings)
	assert.Nil(t, review.CompletedAt)
}

func TestReviewService_AddFindingDefaultsSeverity(t *testing.T) {
	svc := services.NewReviewService(nil)
	id := svc.Create("INT-000001", nil, "dr.adams")

	assert.True(t, svc.AddFinding(id, "confidence score seems inflated", ""))
	assert.True(t, svc.AddFinding(id, "allergy conflict with treatment", entities.FindingCritical))

	review, _ := svc.Get(id)
	require.Len(t, review.Findings, 2)
	assert.Equal(t, entities.FindingNormal, review.Findings[0].Severity)
	assert.Equal(t, entities.FindingCritical, review.Findings[1].Severity)
}

func TestReviewService_AddRecommendationDefaultsActionType(t *testing.T) {
	svc := services.NewReviewService(nil)
	id := svc.Create("INT-000001", nil, "dr.adams")

	assert.True(t, svc.AddRecommendation(id, "order chest x-ray", ""))
	assert.True(t, svc.AddRecommendation(id, "refer to cardiology", "referral"))

	review, _ := svc.Get(id)
	require.Len(t, review.Recommendations, 2)
	assert.Equal(t, "follow_up", review.Recommendations[0].ActionType)
	assert.Equal(t, "referral", review.Recommendations[1].ActionType)
}

func TestReviewService_ImmutableAfterCompletion(t *testing.T) {
	svc := services.NewReviewService(nil)
	ctx := context.Background()
	id := svc.Create("INT-000001", nil, "dr.adams")
	svc.AddFinding(id, "missing medication history", entities.FindingHigh)

	require.True(t, svc.Complete(ctx, id))

	assert.False(t, svc.AddFinding(id, "too late", entities.FindingLow))
	assert.False(t, svc.AddQuestion(id, "too late?", ""))
	assert.False(t, svc.AddRecommendation(id, "too late", ""))

	review, _ := svc.Get(id)
	assert.Equal(t, entities.ReviewStatusCompleted, review.Status)
	require.NotNil(t, review.CompletedAt)
	assert.Len(t, review.Findings, 1)
}

func TestReviewService_CompleteIsIdempotent(t *testing.T) {
	svc := services.NewReviewService(nil)
	ctx := context.Background()
	id := svc.Create("INT-000001", nil, "dr.adams")

	require.True(t, svc.Complete(ctx, id))
	completedAt := func() *entities.Review {
		review, _ := svc.Get(id)
		return &review
	}().CompletedAt

	assert.True(t, svc.Complete(ctx, id))
	review, _ := svc.Get(id)
	assert.Equal(t, completedAt, review.CompletedAt)

	assert.False(t, svc.Complete(ctx, "REV-999999"))
}

func TestReviewService_SummaryCountsSeverities(t *testing.T) {
	svc := services.NewReviewService(nil)
	ctx := context.Background()
	id := svc.Create("INT-000001", nil, "dr.adams")

	svc.AddFinding(id, "wrong dosage", entities.FindingCritical)
	svc.AddFinding(id, "drug interaction missed", entities.FindingCritical)
	svc.AddFinding(id, "incomplete history", entities.FindingHigh)
	svc.AddFinding(id, "minor formatting issue", entities.FindingLow)
	svc.AddQuestion(id, "was the allergy list verified?", "allergies")
	svc.AddRecommendation(id, "repeat blood panel", "test")
	svc.Complete(ctx, id)

	summary, ok := svc.Summary(id)
	require.True(t, ok)
	assert.Equal(t, entities.ReviewStatusCompleted, summary.Status)
	assert.Equal(t, 4, summary.TotalFindings)
	assert.Equal(t, 2, summary.CriticalFindings)
	assert.Equal(t, 1, summary.HighFindings)
	assert.Equal(t, 1, summary.TotalQuestions)
	assert.Equal(t, 1, summary.TotalRecommendations)
	assert.NotNil(t, summary.CompletedAt)

	_, ok = svc.Summary("REV-999999")
	assert.False(t, ok)
}

func TestReviewService_GetReturnsCopy(t *testing.T) {
	svc := services.NewReviewService(nil)
	id := svc.Create("INT-000001", nil, "dr.adams")
	svc.AddFinding(id, "original", entities.FindingNormal)

	review, _ := svc.Get(id)
	review.Findings[0].Text = "tampered"

	fresh, _ := svc.Get(id)
	assert.Equal(t, "original", fresh.Findings[0].Text)
}
