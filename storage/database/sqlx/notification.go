package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/prathomik/sheba/core/notification"
)

type notificationRow struct {
	ID      string    `db:"id"`
	UserID  string    `db:"user_id"`
	Title   string    `db:"title"`
	Message string    `db:"message"`
	Read    bool      `db:"read"`
	Date    time.Time `db:"date"`
	Type    string    `db:"type"`
}

func (r notificationRow) model() notification.Notification {
	return notification.Notification(r)
}

type notificationRepository struct {
	db *sqlx.DB
}

var _ notification.Repository = (*notificationRepository)(nil) // interface compliance check

func NewNotificationRepository(db *sqlx.DB) *notificationRepository {
	return &notificationRepository{db: db}
}

func (repo notificationRepository) CreateNotification(notif notification.Notification) (notification.Notification, error) {
	const q = `
INSERT INTO notification (id, user_id, title, message, read, date, type)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := repo.db.Exec(q, notif.ID, notif.UserID, notif.Title, notif.Message, notif.Read, notif.Date.UTC(), notif.Type)
	if err != nil {
		return notification.Notification{}, errors.Wrap(err, "inserting notification")
	}
	return notif, nil
}

func (repo notificationRepository) GetNotificationByID(id string) (notification.Notification, error) {
	var row notificationRow
	if err := repo.db.Get(&row, `SELECT * FROM notification WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return notification.Notification{}, notification.ErrNotFound
		}
		return notification.Notification{}, errors.Wrap(err, "getting notification by id")
	}
	return row.model(), nil
}

func (repo notificationRepository) QueryNotificationsByUser(userID string) ([]notification.Notification, error) {
	var rows []notificationRow
	const q = `SELECT * FROM notification WHERE user_id = $1 ORDER BY date DESC`
	if err := repo.db.Select(&rows, q, userID); err != nil {
		return nil, errors.Wrap(err, "querying notifications")
	}
	notifs := make([]notification.Notification, 0, len(rows))
	for _, r := range rows {
		notifs = append(notifs, r.model())
	}
	return notifs, nil
}

func (repo notificationRepository) UpdateNotification(notif notification.Notification) (notification.Notification, error) {
	const q = `UPDATE notification SET read = $1 WHERE id = $2`
	res, err := repo.db.Exec(q, notif.Read, notif.ID)
	if err != nil {
		return notification.Notification{}, errors.Wrap(err, "updating notification")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notification.Notification{}, notification.ErrNotFound
	}
	return notif, nil
}
