package dummydb

import (
	"sort"

	"github.com/prathomik/sheba/core/notification"
)

type notificationRepository struct {
	db *notificationTable
}

var _ notification.Repository = (*notificationRepository)(nil) // interface compliance check

func NewNotificationRepository(db *DB) notification.Repository {
	return &notificationRepository{db: db.notification}
}

func (repo *notificationRepository) CreateNotification(notif notification.Notification) (notification.Notification, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[notif.ID] = &notif
	return notif, nil
}

func (repo *notificationRepository) GetNotificationByID(id string) (notification.Notification, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if notif, ok := repo.db.table[id]; ok {
		return *notif, nil
	}
	return notification.Notification{}, notification.ErrNotFound
}

func (repo *notificationRepository) QueryNotificationsByUser(userID string) ([]notification.Notification, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	notifs := make([]notification.Notification, 0)
	for _, notif := range repo.db.table {
		if notif.UserID == userID {
			notifs = append(notifs, *notif)
		}
	}
	sort.Slice(notifs, func(i, j int) bool { return notifs[i].Date.After(notifs[j].Date) })
	return notifs, nil
}

func (repo *notificationRepository) UpdateNotification(notif notification.Notification) (notification.Notification, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[notif.ID]; !ok {
		return notification.Notification{}, notification.ErrNotFound
	}
	repo.db.table[notif.ID] = &notif
	return notif, nil
}
