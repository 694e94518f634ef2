package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/beanpass/beanpass-backend/pkg/db/models"
	"github.com/beanpass/beanpass-backend/pkg/logger"
)

// Dispatcher stores best-effort inbox entries for domain events. It satisfies
// the Notifier interfaces the write services accept: failures are logged and
// swallowed so a broken inbox never rejects a follow or a check-in.
type Dispatcher struct {
	repo Repository
	logg *logger.Logger
}

// NewDispatcher builds a dispatcher over the notifications repository.
func NewDispatcher(repo Repository, logg *logger.Logger) *Dispatcher {
	return &Dispatcher{repo: repo, logg: logg}
}

// Notify writes one inbox row for the target user.
func (d *Dispatcher) Notify(ctx context.Context, targetUserID uuid.UUID, title, body string, data map[string]string) {
	if d.repo == nil || targetUserID == uuid.Nil {
		return
	}

	payload := "{}"
	if len(data) > 0 {
		raw, err := json.Marshal(data)
		if err == nil {
			payload = string(raw)
		}
	}

	notification := &models.Notification{
		ID:     uuid.New(),
		UserID: targetUserID,
		Title:  title,
		Body:   body,
		Data:   payload,
	}
	if err := d.repo.Create(ctx, notification); err != nil && d.logg != nil {
		d.logg.Warn(ctx, fmt.Sprintf("notification write failed: %v", err))
	}
}
