package notifications

import (
	"context"
	"log/slog"
)

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

type Service struct {
	store  StoreAPI
	mailer Mailer
	from   string
}

func New(store StoreAPI, mailer Mailer, from string) *Service {
	return &Service{store: store, mailer: mailer, from: from}
}

// Notify writes the in-app row and mirrors it to email best-effort. The row
// write is the contract; a failed email is logged, never propagated.
func (s *Service) Notify(ctx context.Context, userID, ntype, title, body string) error {
	if err := s.store.CreateNotification(ctx, userID, ntype, title, body); err != nil {
		return err
	}

	if s.mailer == nil {
		return nil
	}
	email, err := s.store.UserEmail(ctx, userID)
	if err != nil || email == "" {
		if err != nil {
			slog.Warn("notification email lookup failed", "err", err)
		}
		return nil
	}
	if err := s.mailer.Send(ctx, s.from, email, title, body); err != nil {
		slog.Warn("notification email send failed", "err", err)
	}
	return nil
}

// NotifyAll fans one notification out to every recipient; a failed row write
// for one recipient does not stop the rest.
func (s *Service) NotifyAll(ctx context.Context, userIDs []string, ntype, title, body string) {
	for _, userID := range userIDs {
		if err := s.Notify(ctx, userID, ntype, title, body); err != nil {
			slog.Warn("notification write failed", "userId", userID, "type", ntype, "err", err)
		}
	}
}

func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Notification, error) {
	return s.store.ListNotifications(ctx, userID, limit, offset)
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.store.CountUnread(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.store.MarkRead(ctx, userID, notificationID)
}
