package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-auth/internal/domain/entity"
	"github.com/oksasatya/go-ddd-auth/internal/domain/errs"
	"github.com/oksasatya/go-ddd-auth/internal/domain/event"
	"github.com/oksasatya/go-ddd-auth/internal/domain/repository"
	vo "github.com/oksasatya/go-ddd-auth/internal/domain/valueobject"
	"github.com/oksasatya/go-ddd-auth/pkg/mailer"
	"github.com/oksasatya/go-ddd-auth/pkg/mailer/templates"
)

// UserIndexer keeps the search projection current.
type UserIndexer interface {
	Index(ctx context.Context, s entity.Snapshot) error
}

// EventArchiver stores raw envelopes for audit.
type EventArchiver interface {
	Archive(ctx context.Context, env event.Envelope) (string, error)
}

// EventHandler is the worker-side reaction to domain events: archive the
// envelope, refresh the search document and mail the user. Any sink may be nil.
type EventHandler struct {
	Repo     repository.UserRepository
	Indexer  UserIndexer
	Archiver EventArchiver
	Mail     mailer.Sender
	Brand    templates.Brand
	Logger   *logrus.Logger
}

func (h *EventHandler) Handle(ctx context.Context, env event.Envelope) error {
	log := h.log(env)
	var failed []error

	if h.Archiver != nil {
		uri, err := h.Archiver.Archive(ctx, env)
		if err != nil {
			failed = append(failed, fmt.Errorf("archive: %w", err))
		} else if log != nil {
			log.WithField("uri", uri).Debug("event archived")
		}
	}

	u, err := h.load(ctx, env)
	switch {
	case errors.Is(err, errs.ErrUserNotFound):
		if log != nil {
			log.Warn("event for unknown user, skipping projection and mail")
		}
		return errors.Join(failed...)
	case err != nil:
		return errors.Join(append(failed, fmt.Errorf("load user: %w", err))...)
	}

	if h.Indexer != nil {
		if err := h.Indexer.Index(ctx, u.Snapshot()); err != nil {
			failed = append(failed, fmt.Errorf("index: %w", err))
		}
	}

	if h.Mail != nil {
		if job, ok := h.email(env, u); ok {
			if err := mailer.Dispatch(ctx, h.Mail, job); err != nil {
				failed = append(failed, fmt.Errorf("mail %s: %w", job.Template, err))
			}
		}
	}
	return errors.Join(failed...)
}

func (h *EventHandler) load(ctx context.Context, env event.Envelope) (*entity.User, error) {
	id, err := vo.UserIDFromString(env.AggregateID)
	if err != nil {
		return nil, fmt.Errorf("aggregate id: %w", err)
	}
	return h.Repo.FindByID(ctx, id)
}

// email picks the message for env. Deactivation is admin housekeeping and
// sends nothing.
func (h *EventHandler) email(env event.Envelope, u *entity.User) (mailer.EmailJob, bool) {
	to := u.Email().String()
	when := templates.WithTime(env.OccurredAt)

	switch env.Name {
	case event.NameUserCreated:
		return mailer.EmailJob{
			To:       to,
			Template: templates.Welcome,
			Data: templates.NewWelcomeData(h.Brand, to, when,
				templates.WithRoles(u.RoleNames()),
				templates.WithTenant(u.TenantID())),
		}, true
	case event.NameUserStatusChanged:
		if !env.BoolField("isActivation") && !env.BoolField("isSuspension") && !env.BoolField("isDeletion") {
			return mailer.EmailJob{}, false
		}
		return mailer.EmailJob{
			To:       to,
			Template: templates.StatusChanged,
			Data: templates.NewStatusChangedData(h.Brand, to,
				env.StringField("previousStatus"), env.StringField("newStatus"), when),
		}, true
	}
	return mailer.EmailJob{}, false
}

func (h *EventHandler) log(env event.Envelope) *logrus.Entry {
	if h.Logger == nil {
		return nil
	}
	return h.Logger.WithFields(logrus.Fields{"event": env.Name, "user_id": env.AggregateID})
}
