package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinassist/assessment/internal/application/services"
	"github.com/clinassist/assessment/internal/domain/entities"
	"github.com/clinassist/assessment/pkg/errors"
)

func TestApprovalService_CreateRequest_DefaultsToFirstLevel(t *testing.T) {
	svc := services.NewApprovalService(nil, nil)

	id, err := svc.CreateRequest("assess-1", nil, "")
	require.NoError(t, err)
	assert.Equal(t, "APR-000001", id)

	request, ok := svc.Get(id)
	require.True(t, ok)
	assert.Equal(t, "physician", request.RequiredLevel)
	assert.Equal(t, entities.ApprovalStatusPending, request.Status)
}

func TestApprovalService_CreateRequest_InvalidLevel(t *testing.T) {
	svc := services.NewApprovalService(nil, nil)

	_, err := svc.CreateRequest("assess-1", nil, "janitor")
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
}

func TestApprovalService_SingleLevelApproval(t *testing.T) {
	svc := services.NewApprovalService(nil, nil)
	ctx := context.Background()
	id, _ := svc.CreateRequest("assess-1", nil, "physician")

	assert.True(t, svc.ApproveAtLevel(ctx, id, "physician", "dr.adams", "agreed"))

	request, _ := svc.Get(id)
	assert.Equal(t, entities.ApprovalStatusFullyApproved, request.Status)
	assert.Equal(t, "approved", request.FinalDecision)
	assert.NotNil(t, request.FinalDecisionAt)
	assert.True(t, svc.CanProceed(id))
}

func TestApprovalService_ChainRequiresEveryLowerLevel(t *testing.T) {
	svc := services.NewApprovalService(nil, nil)
	ctx := context.Background()
	id, _ := svc.CreateRequest("assess-1", nil, "director")

	// Signing at the top level alone is not enough.
	assert.True(t, svc.ApproveAtLevel(ctx, id, "director", "dr.chief", ""))
	request, _ := svc.Get(id)
	assert.Equal(t, entities.ApprovalStatusPartiallyApproved, request.Status)
	assert.False(t, svc.CanProceed(id))

	assert.True(t, svc.ApproveAtLevel(ctx, id, "physician", "dr.adams", ""))
	assert.False(t, svc.CanProceed(id))

	assert.True(t, svc.ApproveAtLevel(ctx, id, "supervisor", "dr.baker", ""))
	request, _ = svc.Get(id)
	assert.Equal(t, entities.ApprovalStatusFullyApproved, request.Status)
	assert.True(t, svc.CanProceed(id))
}

func TestApprovalService_RejectionIsIrreversible(t *testing.T) {
	svc := services.NewApprovalService(nil, nil)
	ctx := context.Background()
	id, _ := svc.CreateRequest("assess-1", nil, "supervisor")

	require.True(t, svc.ApproveAtLevel(ctx, id, "physician", "dr.adams", ""))
	require.True(t, svc.RejectAtLevel(ctx, id, "supervisor", "dr.baker", "insufficient evidence"))

	request, _ := svc.Get(id)
	assert.Equal(t, entities.ApprovalStatusRejected, request.Status)
	assert.Equal(t, "rejected", request.FinalDecision)

	// Later sign-offs are recorded in the history but cannot revive it.
	assert.True(t, svc.ApproveAtLevel(ctx, id, "supervisor", "dr.carter", ""))
	request, _ = svc.Get(id)
	assert.Equal(t, entities.ApprovalStatusRejected, request.Status)
	assert.Equal(t, "rejected", request.FinalDecision)
	assert.Len(t, request.Approvals, 2)
	assert.False(t, svc.CanProceed(id))
}

func TestApprovalService_RejectionOverridesFullApproval(t *testing.T) {
	svc := services.NewApprovalService(nil, nil)
	ctx := context.Background()
	id, _ := svc.CreateRequest("assess-1", nil, "supervisor")

	require.True(t, svc.ApproveAtLevel(ctx, id, "physician", "dr.adams", ""))
	require.True(t, svc.ApproveAtLevel(ctx, id, "supervisor", "dr.baker", ""))
	require.True(t, svc.CanProceed(id))

	// A rejection after full approval still forces the final decision.
	require.True(t, svc.RejectAtLevel(ctx, id, "director", "dr.chief", "safety concern"))

	request, _ := svc.Get(id)
	assert.Equal(t, entities.ApprovalStatusRejected, request.Status)
	assert.Equal(t, "rejected", request.FinalDecision)
	assert.False(t, svc.CanProceed(id))

	// And it stays rejected even if someone signs off again afterwards.
	assert.True(t, svc.ApproveAtLevel(ctx, id, "director", "dr.chief", "second thoughts"))
	request, _ = svc.Get(id)
	assert.Equal(t, entities.ApprovalStatusRejected, request.Status)
	assert.False(t, svc.CanProceed(id))
}

func TestApprovalService_UnknownRequest(t *testing.T) {
	svc := services.NewApprovalService(nil, nil)
	ctx := context.Background()

	assert.False(t, svc.ApproveAtLevel(ctx, "APR-999999", "physician", "dr.adams", ""))
	assert.False(t, svc.RejectAtLevel(ctx, "APR-999999", "physician", "dr.adams", "no"))
	assert.False(t, svc.CanProceed("APR-999999"))
	_, ok := svc.Get("APR-999999")
	assert.False(t, ok)
	_, ok = svc.Status("APR-999999")
	assert.False(t, ok)
	_, ok = svc.History("APR-999999")
	assert.False(t, ok)
}

func TestApprovalService_Status(t *testing.T) {
	svc := services.NewApprovalService(nil, nil)
	ctx := context.Background()
	id, _ := svc.CreateRequest("assess-1", nil, "supervisor")

	svc.ApproveAtLevel(ctx, id, "physician", "dr.adams", "")
	svc.RejectAtLevel(ctx, id, "supervisor", "dr.baker", "needs more tests")

	status, ok := svc.Status(id)
	require.True(t, ok)
	assert.Equal(t, id, status.ApprovalID)
	assert.Equal(t, entities.ApprovalStatusRejected, status.Status)
	assert.Equal(t, "rejected", status.FinalDecision)
	assert.Equal(t, 1, status.ApprovalsCount)
	assert.Equal(t, 1, status.RejectionsCount)
	assert.Equal(t, []string{"dr.adams"}, status.ApprovedBy)
	assert.Equal(t, []string{"dr.baker"}, status.RejectedBy)
}

func TestApprovalService_HistoryIsChronological(t *testing.T) {
	svc := services.NewApprovalService(nil, nil)
	ctx := context.Background()
	id, _ := svc.CreateRequest("assess-1", nil, "director")

	svc.ApproveAtLevel(ctx, id, "physician", "dr.adams", "first")
	svc.RejectAtLevel(ctx, id, "supervisor", "dr.baker", "hold on")
	svc.ApproveAtLevel(ctx, id, "supervisor", "dr.carter", "late sign-off")

	history, ok := svc.History(id)
	require.True(t, ok)
	require.Len(t, history, 3)
	assert.Equal(t, "approved", history[0].Action)
	assert.Equal(t, "dr.adams", history[0].Actor)
	assert.Equal(t, "rejected", history[1].Action)
	assert.Equal(t, "approved", history[2].Action)
	for i := 1; i < len(history); i++ {
		assert.False(t, history[i].Timestamp.Before(history[i-1].Timestamp))
	}
}

func TestApprovalService_PendingFilter(t *testing.T) {
	svc := services.NewApprovalService(nil, nil)
	ctx := context.Background()

	unsigned, _ := svc.CreateRequest("a1", nil, "supervisor")
	signed, _ := svc.CreateRequest("a2", nil, "supervisor")
	decided, _ := svc.CreateRequest("a3", nil, "physician")

	svc.ApproveAtLevel(ctx, signed, "physician", "dr.adams", "")
	svc.ApproveAtLevel(ctx, decided, "physician", "dr.adams", "")

	assert.Len(t, svc.Pending(""), 2)

	filtered := svc.Pending("physician")
	require.Len(t, filtered, 1)
	assert.Equal(t, signed, filtered[0].ID)

	assert.Empty(t, svc.Pending("director"))
	_ = unsigned
}

func TestApprovalService_CustomChain(t *testing.T) {
	svc := services.NewApprovalService([]string{"nurse", "attending"}, nil)
	ctx := context.Background()

	assert.Equal(t, []string{"nurse", "attending"}, svc.Chain())

	_, err := svc.CreateRequest("assess-1", nil, "physician")
	assert.Error(t, err)

	id, err := svc.CreateRequest("assess-1", nil, "attending")
	require.NoError(t, err)

	svc.ApproveAtLevel(ctx, id, "nurse", "n.jones", "")
	assert.False(t, svc.CanProceed(id))
	svc.ApproveAtLevel(ctx, id, "attending", "dr.adams", "")
	assert.True(t, svc.CanProceed(id))
}
