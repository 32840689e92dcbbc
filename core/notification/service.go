package notification

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("notification not found")

	nowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateNotification(notif Notification) (Notification, error)
		GetNotificationByID(id string) (Notification, error)
		QueryNotificationsByUser(userID string) ([]Notification, error)
		UpdateNotification(notif Notification) (Notification, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Push creates an unread notification for the given user.
func (svc *Service) Push(userID, title, message, typ string) (Notification, error) {
	return svc.repo.CreateNotification(Notification{
		ID:      uuid.New().String(),
		UserID:  userID,
		Title:   title,
		Message: message,
		Read:    false,
		Date:    nowFunc().UTC(),
		Type:    typ,
	})
}

func (svc *Service) ByUser(userID string) ([]Notification, error) {
	return svc.repo.QueryNotificationsByUser(userID)
}

// MarkRead flips the read flag. A missing notification resolves to
// ErrNotFound so callers can tell "nothing happened" from "succeeded".
func (svc *Service) MarkRead(id string) (Notification, error) {
	notif, err := svc.repo.GetNotificationByID(id)
	if err != nil {
		return Notification{}, err
	}
	if notif.Read {
		return notif, nil
	}
	notif.Read = true
	return svc.repo.UpdateNotification(notif)
}
