// Package events emits an audit trail of logins and catalog changes made through this client.
package events

import (
	"context"
	"time"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

const publishTimeout = 5 * time.Second

type Event struct {
	Type      string    `json:"type"`
	Username  string    `json:"username"`
	Role      string    `json:"role,omitempty"`
	ProductID int       `json:"product_id,omitempty"`
	Title     string    `json:"title,omitempty"`
	At        time.Time `json:"at"`
}

// Emitter publishes events without ever failing the caller.
type Emitter struct {
	Publisher Publisher
}

func (e Emitter) publish(ctx context.Context, topic, key string, ev Event) {
	if e.Publisher == nil {
		return
	}
	// The user's action already succeeded; a cancelled request must not drop its event.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	ev.At = time.Now().UTC()
	if err := e.Publisher.PublishEvent(ctx, topic, key, ev); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_failed", "topic", topic, "event", ev.Type, "error", err)
	}
}

func (e Emitter) LoggedIn(ctx context.Context, s models.Session) {
	e.publish(ctx, TopicUser, s.Username, Event{Type: "user_logged_in", Username: s.Username, Role: string(s.Role)})
}

func (e Emitter) LoggedOut(ctx context.Context, username string) {
	e.publish(ctx, TopicUser, username, Event{Type: "user_logged_out", Username: username})
}

func (e Emitter) ProductCreated(ctx context.Context, by string, p models.Product) {
	e.product(ctx, "product_created", by, p)
}

func (e Emitter) ProductUpdated(ctx context.Context, by string, p models.Product) {
	e.product(ctx, "product_updated", by, p)
}

func (e Emitter) ProductDeleted(ctx context.Context, by string, p models.Product) {
	e.product(ctx, "product_deleted", by, p)
}

func (e Emitter) product(ctx context.Context, typ, by string, p models.Product) {
	e.publish(ctx, TopicProduct, by, Event{Type: typ, Username: by, ProductID: p.ID, Title: p.Title})
}
