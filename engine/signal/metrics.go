package signal

import (
	"go.opentelemetry.io/otel/metric"

	intotel "github.com/imtaco/roomkit/internal/otel"
)

var (
	requestsSent   metric.Int64Counter
	requestsFailed metric.Int64Counter
	eventsReceived metric.Int64Counter
)

func init() {
	f := intotel.NewFactory("engine.signal", intotel.PrefixSignalEngine)

	f.Int64Counter(&requestsSent, "requests.sent",
		metric.WithDescription("Signaling requests issued"))

	f.Int64Counter(&requestsFailed, "requests.failed",
		metric.WithDescription("Signaling requests that failed or timed out"))

	f.Int64Counter(&eventsReceived, "events.received",
		metric.WithDescription("Unsolicited server events received"))
}
