package providers

import (
	"context"

	"github.com/clinassist/assessment/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to
// governance workflow events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.GovernanceEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.GovernanceEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannel constants for different event types
const (
	// EventChannelInterventionUpdates is the channel for all intervention updates
	EventChannelInterventionUpdates = "intervention:updates"

	// EventChannelInterventionUrgent carries urgent-priority interventions only
	EventChannelInterventionUrgent = "intervention:urgent"

	// EventChannelApprovalUpdates is the channel for approval decisions
	EventChannelApprovalUpdates = "approval:updates"

	// EventChannelAssessmentPrefix is the prefix for assessment-specific channels
	EventChannelAssessmentPrefix = "assessment:"
)

// GetAssessmentChannel returns the channel name for a specific assessment
func GetAssessmentChannel(assessmentID string) string {
	return EventChannelAssessmentPrefix + assessmentID
}
