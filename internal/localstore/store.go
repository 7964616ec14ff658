// Package localstore is the client-side persistence layer: upvote and
// follow de-duplication, resolve-vote tracking, the notification queue,
// the single report draft slot, and small per-client settings. It is the
// Go counterpart of the browser localStorage layer: every read is total
// (a default is returned on any miss or decode failure) and every write
// is best-effort (storage failures are logged, never surfaced).
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	keyUpvoted       = "cl_upvoted_issues"
	keyFollowed      = "cl_followed_issues"
	keyResolveVotes  = "cl_resolve_votes"
	keyNotifications = "cl_notifications"
	keyDraft         = "cl_report_draft"
	keyOnboarded     = "cl_onboarded"
	keyLanguage      = "cl_language"
	keySession       = "civicLensSession"
)

// MaxNotifications caps the queue; the oldest entries are evicted first.
const MaxNotifications = 50

var (
	errMissingKV = errors.New("localstore: kv backend is required")
	// ErrInvalidLanguage indicates a locale outside the supported set.
	ErrInvalidLanguage = errors.New("localstore: invalid language")
)

// Config describes the dependencies of a Store.
type Config struct {
	KV     KV
	Clock  func() time.Time
	Logger *zap.Logger
}

// Store owns all client-local state. Safe for concurrent use to the same
// degree as its KV backend; related keys are updated independently, so
// derived values such as the unread count are always recomputed on read.
type Store struct {
	kv      KV
	clock   func() time.Time
	logger  *zap.Logger
	watcher *Watcher
}

// New constructs a Store around the provided KV backend.
func New(cfg Config) (*Store, error) {
	if cfg.KV == nil {
		return nil, errMissingKV
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		kv:      cfg.KV,
		clock:   clock,
		logger:  logger,
		watcher: NewWatcher(),
	}, nil
}

func readJSON[T any](s *Store, key string, fallback T) T {
	raw, ok, err := s.kv.Get(key)
	if err != nil {
		s.logger.Debug("local store read failed", zap.String("key", key), zap.Error(err))
		return fallback
	}
	if !ok {
		return fallback
	}
	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		s.logger.Debug("local store decode failed", zap.String("key", key), zap.Error(err))
		return fallback
	}
	return value
}

func writeJSON[T any](s *Store, key string, value T) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Debug("local store encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.kv.Set(key, string(raw)); err != nil {
		s.logger.Debug("local store write failed", zap.String("key", key), zap.Error(err))
	}
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func without(ids []string, id string) []string {
	filtered := make([]string, 0, len(ids))
	for _, candidate := range ids {
		if candidate != id {
			filtered = append(filtered, candidate)
		}
	}
	return filtered
}

// UpvotedIssues lists issue ids upvoted from this client.
func (s *Store) UpvotedIssues() []string {
	return readJSON(s, keyUpvoted, []string{})
}

// HasUpvoted reports local upvote membership for one issue.
func (s *Store) HasUpvoted(issueID string) bool {
	return contains(s.UpvotedIssues(), issueID)
}

// ToggleUpvote flips local upvote membership and returns the new state.
// Toggling twice restores the original membership.
func (s *Store) ToggleUpvote(issueID string) bool {
	ids := s.UpvotedIssues()
	if contains(ids, issueID) {
		writeJSON(s, keyUpvoted, without(ids, issueID))
		s.watcher.publish(Event{Kind: EventUpvoteToggled, IssueID: issueID})
		return false
	}
	writeJSON(s, keyUpvoted, append(ids, issueID))
	s.watcher.publish(Event{Kind: EventUpvoteToggled, IssueID: issueID})
	return true
}

// FollowedIssues lists issue ids followed from this client.
func (s *Store) FollowedIssues() []string {
	return readJSON(s, keyFollowed, []string{})
}

// IsFollowing reports follow membership for one issue.
func (s *Store) IsFollowing(issueID string) bool {
	return contains(s.FollowedIssues(), issueID)
}

// ToggleFollow flips follow membership and returns the new state. Turning
// a follow on appends exactly one confirmation notification.
func (s *Store) ToggleFollow(issueID string) bool {
	ids := s.FollowedIssues()
	if contains(ids, issueID) {
		writeJSON(s, keyFollowed, without(ids, issueID))
		s.watcher.publish(Event{Kind: EventFollowToggled, IssueID: issueID})
		return false
	}
	writeJSON(s, keyFollowed, append(ids, issueID))
	s.AddNotification(Notification{
		ID:         fmt.Sprintf("notif-follow-%s-%d", issueID, s.clock().UnixMilli()),
		IssueID:    issueID,
		IssueTitle: fmt.Sprintf("Issue %s", issueID),
		Message:    "You are now following this issue. You'll be notified when it's updated.",
		Type:       NotificationStatusUpdate,
		CreatedAt:  s.clock().UTC(),
	})
	s.watcher.publish(Event{Kind: EventFollowToggled, IssueID: issueID})
	return true
}

// ResolveVotedIssues lists issue ids this client has voted to resolve.
func (s *Store) ResolveVotedIssues() []string {
	return readJSON(s, keyResolveVotes, []string{})
}

// HasVotedResolve reports whether this client already cast a resolve vote.
func (s *Store) HasVotedResolve(issueID string) bool {
	return contains(s.ResolveVotedIssues(), issueID)
}

// MarkResolveVoted records a cast resolve vote. Idempotent; there is no
// way to withdraw a vote.
func (s *Store) MarkResolveVoted(issueID string) {
	ids := s.ResolveVotedIssues()
	if contains(ids, issueID) {
		return
	}
	writeJSON(s, keyResolveVotes, append(ids, issueID))
	s.watcher.publish(Event{Kind: EventResolveVoted, IssueID: issueID})
}

// HasCompletedOnboarding reports whether the onboarding carousel was seen.
func (s *Store) HasCompletedOnboarding() bool {
	return readJSON(s, keyOnboarded, false)
}

// CompleteOnboarding marks the onboarding carousel as seen.
func (s *Store) CompleteOnboarding() {
	writeJSON(s, keyOnboarded, true)
}

// Languages supported by the application.
const (
	LanguageEnglish = "en"
	LanguageSinhala = "si"
	LanguageTamil   = "ta"
)

// Language returns the selected locale, defaulting to English.
func (s *Store) Language() string {
	return readJSON(s, keyLanguage, LanguageEnglish)
}

// SetLanguage persists the locale selection.
func (s *Store) SetLanguage(language string) error {
	switch language {
	case LanguageEnglish, LanguageSinhala, LanguageTamil:
		writeJSON(s, keyLanguage, language)
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLanguage, language)
	}
}

// SessionID returns the per-client session identifier, generating and
// persisting a new one on first use.
func (s *Store) SessionID() string {
	if existing := readJSON(s, keySession, ""); existing != "" {
		return existing
	}
	created := uuid.NewString()
	writeJSON(s, keySession, created)
	return created
}

// Watch subscribes to store change events; see Watcher.Subscribe.
func (s *Store) Watch(done <-chan struct{}) (<-chan Event, func()) {
	return s.watcher.Subscribe(done)
}
