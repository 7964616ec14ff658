package localstore

import (
	"fmt"
	"time"
)

// NotificationType enumerates the user-facing event kinds.
type NotificationType string

const (
	NotificationStatusUpdate NotificationType = "status_update"
	NotificationComment      NotificationType = "comment"
	NotificationUpvote       NotificationType = "upvote"
	NotificationResolved     NotificationType = "resolved"
)

// Notification is an ephemeral, client-local event record. It never leaves
// the device and has no server-side counterpart.
type Notification struct {
	ID         string           `json:"id"`
	IssueID    string           `json:"issueId"`
	IssueTitle string           `json:"issueTitle"`
	Message    string           `json:"message"`
	Type       NotificationType `json:"type"`
	Read       bool             `json:"read"`
	CreatedAt  time.Time        `json:"createdAt"`
}

// Notifications returns the queue, newest first.
func (s *Store) Notifications() []Notification {
	return readJSON(s, keyNotifications, []Notification{})
}

// AddNotification prepends one entry and truncates the queue to the
// MaxNotifications most recent.
func (s *Store) AddNotification(notification Notification) {
	queue := append([]Notification{notification}, s.Notifications()...)
	if len(queue) > MaxNotifications {
		queue = queue[:MaxNotifications]
	}
	writeJSON(s, keyNotifications, queue)
	s.watcher.publish(Event{Kind: EventNotificationAdded, IssueID: notification.IssueID})
}

// MarkNotificationRead flips one entry to read. Read entries never become
// unread again through this path.
func (s *Store) MarkNotificationRead(notificationID string) {
	queue := s.Notifications()
	for i := range queue {
		if queue[i].ID == notificationID {
			queue[i].Read = true
		}
	}
	writeJSON(s, keyNotifications, queue)
	s.watcher.publish(Event{Kind: EventNotificationsRead})
}

// MarkAllNotificationsRead flips every entry to read.
func (s *Store) MarkAllNotificationsRead() {
	queue := s.Notifications()
	for i := range queue {
		queue[i].Read = true
	}
	writeJSON(s, keyNotifications, queue)
	s.watcher.publish(Event{Kind: EventNotificationsRead})
}

// UnreadCount recomputes the number of unread entries on every call. It is
// deliberately never cached: the bell and the panel read concurrently and
// must agree after any interleaving of add and mark-read operations.
func (s *Store) UnreadCount() int {
	count := 0
	for _, notification := range s.Notifications() {
		if !notification.Read {
			count++
		}
	}
	return count
}

// ClearNotifications wipes the queue. This is the only deletion path;
// there is no per-item delete.
func (s *Store) ClearNotifications() {
	writeJSON(s, keyNotifications, []Notification{})
	s.watcher.publish(Event{Kind: EventNotificationsCleared})
}

// NotifyFollowedIssueUpdate appends a status-change notification when, and
// only when, this client follows the issue.
func (s *Store) NotifyFollowedIssueUpdate(issueID, issueTitle, newStatus string) {
	if !s.IsFollowing(issueID) {
		return
	}
	s.AddNotification(Notification{
		ID:         fmt.Sprintf("notif-update-%s-%d", issueID, s.clock().UnixMilli()),
		IssueID:    issueID,
		IssueTitle: issueTitle,
		Message:    fmt.Sprintf("Issue status updated to %q. Check it out!", newStatus),
		Type:       NotificationStatusUpdate,
		CreatedAt:  s.clock().UTC(),
	})
}
