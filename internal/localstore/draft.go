package localstore

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// ReportDraft is the single-slot snapshot of an in-progress report. Every
// save is a full replacement of the field set; there is no merge.
type ReportDraft struct {
	Step         int       `json:"step"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Urgency      string    `json:"urgency"`
	LocationText string    `json:"locationText"`
	IsAnonymous  bool      `json:"isAnonymous"`
	SavedAt      time.Time `json:"savedAt"`
}

// Draft returns the stored draft and whether one exists. A corrupt slot
// reads as absent.
func (s *Store) Draft() (ReportDraft, bool) {
	raw, ok, err := s.kv.Get(keyDraft)
	if err != nil || !ok {
		return ReportDraft{}, false
	}
	var draft ReportDraft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		s.logger.Debug("draft decode failed", zap.Error(err))
		return ReportDraft{}, false
	}
	return draft, true
}

// SaveDraft overwrites the draft slot and stamps SavedAt. A new draft
// silently replaces any prior unsent draft.
func (s *Store) SaveDraft(draft ReportDraft) {
	draft.SavedAt = s.clock().UTC()
	writeJSON(s, keyDraft, draft)
	s.watcher.publish(Event{Kind: EventDraftSaved})
}

// ClearDraft removes the draft entirely. Called only after a successful
// submission.
func (s *Store) ClearDraft() {
	if err := s.kv.Delete(keyDraft); err != nil {
		s.logger.Debug("draft delete failed", zap.Error(err))
	}
	s.watcher.publish(Event{Kind: EventDraftCleared})
}
