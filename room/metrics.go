package room

import (
	"go.opentelemetry.io/otel/metric"

	intotel "github.com/imtaco/roomkit/internal/otel"
)

var (
	// lifecycle metrics
	joinsStarted    metric.Int64Counter
	joinsCompleted  metric.Int64Counter
	joinsRejected   metric.Int64Counter
	leavesCompleted metric.Int64Counter

	// reconciliation metrics
	reconcilePasses     metric.Int64Counter
	publicationsAdded   metric.Int64Counter
	publicationsRemoved metric.Int64Counter

	// publication/subscription metrics
	publicationsPublished metric.Int64Counter
	subscriptionsOpened   metric.Int64Counter
	subscriptionsClosed   metric.Int64Counter

	// data channel metrics
	dataMessagesSent     metric.Int64Counter
	dataMessagesReceived metric.Int64Counter
)

func init() {
	f := intotel.NewFactory("room.session", intotel.PrefixRoomSession)

	// lifecycle
	f.Int64Counter(&joinsStarted, "joins.started",
		metric.WithDescription("Total join attempts"))

	f.Int64Counter(&joinsCompleted, "joins.completed",
		metric.WithDescription("Joins confirmed by the backend"))

	f.Int64Counter(&joinsRejected, "joins.rejected",
		metric.WithDescription("Joins rejected or failed"))

	f.Int64Counter(&leavesCompleted, "leaves.completed",
		metric.WithDescription("Completed leaves"))

	// reconciliation
	f.Int64Counter(&reconcilePasses, "reconcile.passes",
		metric.WithDescription("Completed reconciliation passes"))

	f.Int64Counter(&publicationsAdded, "publications.added",
		metric.WithDescription("Remote publications discovered"))

	f.Int64Counter(&publicationsRemoved, "publications.removed",
		metric.WithDescription("Remote publications removed"))

	// publications and subscriptions
	f.Int64Counter(&publicationsPublished, "publications.published",
		metric.WithDescription("Local channels published"))

	f.Int64Counter(&subscriptionsOpened, "subscriptions.opened",
		metric.WithDescription("Subscriptions established"))

	f.Int64Counter(&subscriptionsClosed, "subscriptions.closed",
		metric.WithDescription("Subscriptions explicitly cancelled"))

	// data
	f.Int64Counter(&dataMessagesSent, "data.sent",
		metric.WithDescription("Outbound data messages"))

	f.Int64Counter(&dataMessagesReceived, "data.received",
		metric.WithDescription("Inbound data messages"))
}
