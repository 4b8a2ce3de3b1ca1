package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a notification event
type Kind string

const (
	KindLike   Kind = "like"
	KindShare  Kind = "share"
	KindFollow Kind = "follow"
	KindReply  Kind = "reply"
)

// Event is the payload handed to the notification collaborator after a
// successful like/share/follow/reply.
type Event struct {
	Recipient uuid.UUID
	Actor     uuid.UUID
	Kind      Kind
	TargetRef string
}

// Notifier is the notification collaborator boundary. Delivery and
// formatting live behind it.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// LogNotifier is the default sink: it records the event and nothing else.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, event Event) error {
	n.logger.Info("notification",
		"recipient", event.Recipient,
		"actor", event.Actor,
		"kind", event.Kind,
		"target", event.TargetRef)
	return nil
}

// AsyncNotifier wraps a Notifier with a fire-and-forget contract: Notify
// returns immediately, and a failure to deliver never fails or rolls back
// the mutation that triggered it.
type AsyncNotifier struct {
	next    Notifier
	timeout time.Duration
	logger  *slog.Logger
}

func NewAsyncNotifier(next Notifier, logger *slog.Logger) *AsyncNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &AsyncNotifier{
		next:    next,
		timeout: 5 * time.Second,
		logger:  logger,
	}
}

// Notify dispatches the event in the background. The caller's context is not
// reused: the triggering request may already be done by the time delivery
// runs.
func (n *AsyncNotifier) Notify(_ context.Context, event Event) error {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				n.logger.Error("notifier panicked", "kind", event.Kind, "panic", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		if err := n.next.Notify(ctx, event); err != nil {
			n.logger.Warn("notification delivery failed",
				"recipient", event.Recipient,
				"kind", event.Kind,
				"error", err)
		}
	}()
	return nil
}
