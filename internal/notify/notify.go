// Package notify alerts the attributed actor when a lead is captured.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/derintolu/frs-lead-pages-sub002/internal/observability"
	"github.com/derintolu/frs-lead-pages-sub002/internal/store"

	"github.com/google/uuid"
)

// EmailSender sends a single HTML email.
type EmailSender interface {
	IsEnabled() bool
	SendEmail(ctx context.Context, to, subject, htmlContent string) (string, error)
}

// SMSSender sends a single text message.
type SMSSender interface {
	IsEnabled() bool
	SendSMS(ctx context.Context, to, body string) error
}

// ActorStore resolves attributed actors for notification addressing.
type ActorStore interface {
	GetActorByID(ctx context.Context, actorID uuid.UUID) (store.Actor, error)
}

// Notifier emails and texts the actor a captured lead is attributed to. Both
// channels are optional; an unconfigured channel is skipped silently.
type Notifier struct {
	email  EmailSender
	sms    SMSSender
	actors ActorStore
	logger *observability.Logger
}

func New(email EmailSender, sms SMSSender, actors ActorStore, logger *observability.Logger) *Notifier {
	return &Notifier{
		email:  email,
		sms:    sms,
		actors: actors,
		logger: logger,
	}
}

func (n *Notifier) Name() string {
	return "notify"
}

// Deliver notifies the owning actor about the lead. A lead with no attributed
// actor is a silent skip. Channel failures are joined so a partial send still
// reports what went wrong.
func (n *Notifier) Deliver(ctx context.Context, lead store.Lead) error {
	actorID := lead.LoanOfficerID
	if actorID == nil {
		actorID = lead.RealtorID
	}
	if actorID == nil {
		return nil
	}

	emailEnabled := n.email != nil && n.email.IsEnabled()
	smsEnabled := n.sms != nil && n.sms.IsEnabled()
	if !emailEnabled && !smsEnabled {
		return nil
	}

	actor, err := n.actors.GetActorByID(ctx, *actorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			n.logger.Warn(observability.WithFields(ctx,
				observability.Field{Key: "actor_id", Value: actorID.String()}),
				"lead attributed to unknown actor, skipping notification")
			return nil
		}
		return fmt.Errorf("failed to resolve notification recipient: %w", err)
	}

	var sendErrs []error
	if emailEnabled {
		subject := fmt.Sprintf("New lead: %s", lead.FullName)
		if _, err := n.email.SendEmail(ctx, actor.Email, subject, leadEmailBody(lead)); err != nil {
			sendErrs = append(sendErrs, fmt.Errorf("email: %w", err))
		}
	}
	if smsEnabled && actor.Phone != nil {
		if err := n.sms.SendSMS(ctx, *actor.Phone, leadSMSBody(lead)); err != nil {
			sendErrs = append(sendErrs, fmt.Errorf("sms: %w", err))
		}
	}

	return errors.Join(sendErrs...)
}

func leadEmailBody(lead store.Lead) string {
	body := fmt.Sprintf(
		"<h2>New lead captured</h2>"+
			"<p><strong>Name:</strong> %s<br>"+
			"<strong>Email:</strong> %s<br>"+
			"<strong>Phone:</strong> %s<br>"+
			"<strong>Page type:</strong> %s</p>",
		lead.FullName, lead.Email, lead.Phone, lead.PageType)
	if lead.Timeframe != nil {
		body += fmt.Sprintf("<p><strong>Timeframe:</strong> %s</p>", *lead.Timeframe)
	}
	if lead.Comments != nil {
		body += fmt.Sprintf("<p><strong>Comments:</strong> %s</p>", *lead.Comments)
	}
	return body
}

func leadSMSBody(lead store.Lead) string {
	return fmt.Sprintf("New lead: %s, %s, %s", lead.FullName, lead.Phone, lead.Email)
}
