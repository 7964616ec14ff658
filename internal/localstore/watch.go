package localstore

import "sync"

// EventKind labels a store mutation for watchers.
type EventKind string

const (
	EventUpvoteToggled        EventKind = "upvote-toggled"
	EventFollowToggled        EventKind = "follow-toggled"
	EventResolveVoted         EventKind = "resolve-voted"
	EventNotificationAdded    EventKind = "notification-added"
	EventNotificationsRead    EventKind = "notifications-read"
	EventNotificationsCleared EventKind = "notifications-cleared"
	EventDraftSaved           EventKind = "draft-saved"
	EventDraftCleared         EventKind = "draft-cleared"
)

// Event is published after each store mutation so independent surfaces
// (the nav bell, the notification panel) can re-read derived state
// instead of caching it.
type Event struct {
	Kind    EventKind
	IssueID string
}

// Watcher fans store events out to subscribers. Delivery is best-effort:
// a subscriber whose buffer is full misses the event and is expected to
// recompute from the store on its next read.
type Watcher struct {
	mu          sync.RWMutex
	subscribers map[int64]*watchSubscriber
	nextID      int64
	bufferSize  int
}

type watchSubscriber struct {
	id     int64
	stream chan Event
}

// NewWatcher constructs an empty watcher.
func NewWatcher() *Watcher {
	return &Watcher{
		subscribers: make(map[int64]*watchSubscriber),
		bufferSize:  16,
	}
}

// Subscribe registers a listener. The returned cancel function must be
// called to release the subscription; closing the done channel releases
// it as well.
func (w *Watcher) Subscribe(done <-chan struct{}) (<-chan Event, func()) {
	subscriber := &watchSubscriber{
		id:     w.nextSequence(),
		stream: make(chan Event, w.bufferSize),
	}
	w.register(subscriber)
	cancel := func() {
		w.unregister(subscriber.id)
	}
	if done != nil {
		go func() {
			<-done
			cancel()
		}()
	}
	return subscriber.stream, cancel
}

func (w *Watcher) publish(event Event) {
	w.mu.RLock()
	copies := make([]*watchSubscriber, 0, len(w.subscribers))
	for _, subscriber := range w.subscribers {
		copies = append(copies, subscriber)
	}
	w.mu.RUnlock()
	for _, subscriber := range copies {
		select {
		case subscriber.stream <- event:
		default:
		}
	}
}

func (w *Watcher) nextSequence() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextID++
	return w.nextID
}

func (w *Watcher) register(subscriber *watchSubscriber) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.subscribers[subscriber.id] = subscriber
}

func (w *Watcher) unregister(subscriberID int64) {
	w.mu.Lock()
	delete(w.subscribers, subscriberID)
	w.mu.Unlock()
}
