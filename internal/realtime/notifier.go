package realtime

import (
	"context"
	"log"
	"time"

	"devconnect-api/internal/models"
)

const publishTimeout = 2 * time.Second

// Notifier publishes domain events after their write has committed. Failures are
// logged and never surface to the caller.
type Notifier struct {
	pub Publisher
}

func NewNotifier(pub Publisher) *Notifier {
	if pub == nil {
		pub = Noop{}
	}
	return &Notifier{pub: pub}
}

func (n *Notifier) PostCreated(ctx context.Context, post *models.Post) {
	n.publish(ctx, TopicFeed, EventNewPost, post)
}

func (n *Notifier) PostLiked(ctx context.Context, state models.LikeState) {
	n.publish(ctx, PostTopic(state.PostID), EventPostLiked, state)
}

func (n *Notifier) publish(ctx context.Context, topic, event string, payload any) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := n.pub.Publish(ctx, topic, event, payload); err != nil {
		log.Printf("Failed to publish %s on %s: %v", event, topic, err)
	}
}
