package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/careerbridge/careerbridge-api/internal/domain/entity"
	repo "github.com/careerbridge/careerbridge-api/internal/domain/repository"
)

// Broadcaster fans a completed transition out to everyone it affects.
// It never fails the caller: delivery errors are logged and swallowed.
type Broadcaster struct {
	Accounts repo.AccountRepository
	Notify   Notifier
	Logger   *logrus.Logger
}

func NewBroadcaster(accounts repo.AccountRepository, notify Notifier, logger *logrus.Logger) *Broadcaster {
	return &Broadcaster{Accounts: accounts, Notify: notify, Logger: logger}
}

// Broadcast resolves the recipient set for update, dispatches one personalized
// message per recipient, then emits a single aggregate event to the admin
// observer channel. The aggregate event is sent only after every per-recipient
// dispatch has been initiated, so its affected count matches the resolved set.
func (b *Broadcaster) Broadcast(ctx context.Context, update entity.AffectedUpdate) {
	recipients := b.resolveRecipients(ctx, update)

	now := time.Now().UTC()
	for _, r := range recipients {
		payload := map[string]any{
			"message":     MessageFor(update.Type, r.Role),
			"action":      string(update.Type),
			"entity_id":   update.EntityID,
			"entity_type": update.EntityType,
			"data":        update.Data,
			"timestamp":   now,
		}
		if err := b.Notify.SendToRecipient(ctx, r.ID, "account_update", payload); err != nil {
			b.Logger.WithError(err).WithFields(logrus.Fields{
				"recipient": r.ID,
				"action":    update.Type,
			}).Warn("notification dispatch failed")
		}
	}

	observer := map[string]any{
		"type":           string(update.Type),
		"affected_count": len(recipients),
		"timestamp":      time.Now().UTC(),
	}
	if err := b.Notify.SendToAdminObservers(ctx, "admin_action", observer); err != nil {
		b.Logger.WithError(err).WithField("action", update.Type).Warn("admin observer dispatch failed")
	}
}

// resolveRecipients returns every active account whose role is in the
// update's affected set, plus the acted-upon account if it still exists.
// Deduplicated by account id so the target never gets a message per role.
func (b *Broadcaster) resolveRecipients(ctx context.Context, update entity.AffectedUpdate) []*entity.Account {
	seen := make(map[string]bool)
	var out []*entity.Account

	accounts, err := b.Accounts.ListActiveByRoles(ctx, update.AffectedRoles)
	if err != nil {
		b.Logger.WithError(err).Warn("recipient lookup failed; falling back to target only")
	}
	for _, a := range accounts {
		if seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		out = append(out, a)
	}

	if update.EntityID != "" && !seen[update.EntityID] {
		if target, err := b.Accounts.FindByID(ctx, update.EntityID); err == nil {
			out = append(out, target)
		}
	}
	return out
}
