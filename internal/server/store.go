package server

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/civiclens-lk/civiclens/internal/civic"
	"github.com/civiclens-lk/civiclens/internal/mockdata"
)

// ErrIssueNotFound indicates an unknown issue identifier.
var ErrIssueNotFound = errors.New("server: issue not found")

// DemoStoreConfig describes the dependencies of a DemoStore.
type DemoStoreConfig struct {
	Clock      func() time.Time
	IDProvider civic.ReportIDProvider
}

// DemoStore is the demo-mode state: the seed dataset plus everything
// created during the process lifetime, guarded by one mutex. Vote
// de-duplication is keyed by the salted session hash, mirroring the
// unique (issue, session) constraint a database deployment would carry.
type DemoStore struct {
	mu         sync.Mutex
	clock      func() time.Time
	idProvider civic.ReportIDProvider

	issues          []civic.Issue
	resolved        []civic.Issue
	comments        []civic.Comment
	upvoteSessions  map[string]struct{}
	resolveSessions map[string]struct{}
	resolveTallies  map[string]*resolveTally
}

type resolveTally struct {
	yes int
	no  int
}

// NewDemoStore seeds a store from the deterministic dataset.
func NewDemoStore(cfg DemoStoreConfig) *DemoStore {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	idProvider := cfg.IDProvider
	if idProvider == nil {
		idProvider = civic.NewReportIDProvider(clock, nil)
	}

	store := &DemoStore{
		clock:           clock,
		idProvider:      idProvider,
		issues:          mockdata.Issues(),
		resolved:        mockdata.ResolvedIssues(),
		comments:        mockdata.Comments(),
		upvoteSessions:  make(map[string]struct{}),
		resolveSessions: make(map[string]struct{}),
		resolveTallies:  make(map[string]*resolveTally),
	}
	for _, issue := range store.allLocked() {
		store.resolveTallies[issue.ID] = &resolveTally{yes: issue.ResolutionConfirmations}
	}
	return store
}

// allLocked returns the combined working set. Callers must hold the mutex
// unless running during construction.
func (s *DemoStore) allLocked() []civic.Issue {
	all := make([]civic.Issue, 0, len(s.issues)+len(s.resolved))
	all = append(all, s.issues...)
	return append(all, s.resolved...)
}

func (s *DemoStore) findLocked(issueID string) *civic.Issue {
	for i := range s.issues {
		if s.issues[i].ID == issueID {
			return &s.issues[i]
		}
	}
	for i := range s.resolved {
		if s.resolved[i].ID == issueID {
			return &s.resolved[i]
		}
	}
	return nil
}

// ListIssues returns deep copies matching the filter.
func (s *DemoStore) ListIssues(filter civic.ListFilter) []civic.Issue {
	s.mu.Lock()
	all := s.allLocked()
	copies := make([]civic.Issue, len(all))
	for i, issue := range all {
		copies[i] = issue.Clone()
	}
	s.mu.Unlock()
	return filter.Apply(copies)
}

// GetIssue returns a deep copy of one issue.
func (s *DemoStore) GetIssue(issueID string) (civic.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	issue := s.findLocked(issueID)
	if issue == nil {
		return civic.Issue{}, fmt.Errorf("%w: %s", ErrIssueNotFound, issueID)
	}
	return issue.Clone(), nil
}

// NewIssueInput carries a validated report submission.
type NewIssueInput struct {
	Title       string
	Description string
	Category    civic.Category
	Severity    civic.Severity
	Location    string
	IsAnonymous bool
	Coordinates *civic.Coordinates
	Photos      []string
}

// CreateIssue mints an id, stamps the creation time and the initial audit
// entry, and prepends the issue to the working set.
func (s *DemoStore) CreateIssue(input NewIssueInput) civic.Issue {
	now := s.clock().UTC()
	issue := civic.Issue{
		ID:            s.idProvider.NewReportID(),
		Title:         input.Title,
		Description:   input.Description,
		Category:      input.Category,
		Severity:      input.Severity,
		Status:        civic.StatusOpen,
		Location:      input.Location,
		Coordinates:   input.Coordinates,
		Photos:        civic.ClampPhotos(input.Photos),
		Reporter:      civic.DisplayReporter("Citizen", input.IsAnonymous),
		IsAnonymous:   input.IsAnonymous,
		CreatedAt:     now,
		AIConfidence:  50,
		AICategory:    string(input.Category),
		SeverityScore: 5,
		StatusHistory: []civic.StatusChange{{Status: civic.StatusOpen, Timestamp: now, Note: "Report received"}},
	}
	if issue.Photos == nil {
		issue.Photos = []string{}
	}

	s.mu.Lock()
	s.issues = append([]civic.Issue{issue}, s.issues...)
	s.resolveTallies[issue.ID] = &resolveTally{}
	s.mu.Unlock()
	return issue.Clone()
}

// UpvoteOutcome reports the counter after an upvote attempt.
type UpvoteOutcome struct {
	Upvotes   int
	Duplicate bool
}

// Upvote increments an issue's counter once per session hash.
func (s *DemoStore) Upvote(issueID, sessionHash string) (UpvoteOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	issue := s.findLocked(issueID)
	if issue == nil {
		return UpvoteOutcome{}, fmt.Errorf("%w: %s", ErrIssueNotFound, issueID)
	}
	key := issueID + ":" + sessionHash
	if _, voted := s.upvoteSessions[key]; voted {
		return UpvoteOutcome{Upvotes: issue.Upvotes, Duplicate: true}, nil
	}
	s.upvoteSessions[key] = struct{}{}
	issue.Upvotes++
	return UpvoteOutcome{Upvotes: issue.Upvotes}, nil
}

// ResolveOutcome reports the tally after a resolve-vote attempt.
type ResolveOutcome struct {
	Yes       int
	No        int
	Duplicate bool
}

// ResolveVote records one yes/no vote per session hash and mirrors the
// yes count onto the issue's resolution confirmations. Crossing the
// display threshold never changes the issue status.
func (s *DemoStore) ResolveVote(issueID, sessionHash, vote string) (ResolveOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	issue := s.findLocked(issueID)
	if issue == nil {
		return ResolveOutcome{}, fmt.Errorf("%w: %s", ErrIssueNotFound, issueID)
	}
	tally, ok := s.resolveTallies[issueID]
	if !ok {
		tally = &resolveTally{yes: issue.ResolutionConfirmations}
		s.resolveTallies[issueID] = tally
	}

	key := issueID + ":" + sessionHash
	if _, voted := s.resolveSessions[key]; voted {
		return ResolveOutcome{Yes: tally.yes, No: tally.no, Duplicate: true}, nil
	}
	s.resolveSessions[key] = struct{}{}
	if vote == "yes" {
		tally.yes++
	} else {
		tally.no++
	}
	issue.ResolutionConfirmations = tally.yes
	return ResolveOutcome{Yes: tally.yes, No: tally.no}, nil
}

// Comments returns deep copies of an issue's thread, newest first.
func (s *DemoStore) Comments(issueID string) []civic.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]civic.Comment, 0)
	for _, comment := range s.comments {
		if comment.IssueID == issueID {
			matched = append(matched, comment)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched
}

// AddComment prepends a comment and bumps the issue's comment counter.
func (s *DemoStore) AddComment(issueID, text string, anonymous bool) (civic.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	issue := s.findLocked(issueID)
	if issue == nil {
		return civic.Comment{}, fmt.Errorf("%w: %s", ErrIssueNotFound, issueID)
	}
	now := s.clock().UTC()
	comment := civic.Comment{
		ID:          fmt.Sprintf("c-%d", now.UnixMilli()),
		IssueID:     issueID,
		Text:        text,
		Author:      civic.DisplayReporter("Citizen", anonymous),
		IsAnonymous: anonymous,
		CreatedAt:   now,
	}
	s.comments = append([]civic.Comment{comment}, s.comments...)
	issue.CommentCount++
	return comment, nil
}

// UpdateStatus advances an issue along the linear lifecycle, appending to
// its audit trail. Issues that reach resolved move to the resolved set.
func (s *DemoStore) UpdateStatus(issueID string, to civic.Status, note, updatedBy string) (civic.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	issue := s.findLocked(issueID)
	if issue == nil {
		return civic.Issue{}, fmt.Errorf("%w: %s", ErrIssueNotFound, issueID)
	}
	if err := issue.ApplyStatus(to, note, updatedBy, s.clock().UTC()); err != nil {
		return civic.Issue{}, err
	}
	if to == civic.StatusResolved {
		for i := range s.issues {
			if s.issues[i].ID == issueID {
				moved := s.issues[i]
				s.issues = append(s.issues[:i], s.issues[i+1:]...)
				s.resolved = append(s.resolved, moved)
				break
			}
		}
	}
	updated := s.findLocked(issueID)
	return updated.Clone(), nil
}

// Stats derives the dashboard aggregates from the working set.
func (s *DemoStore) Stats() civic.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return civic.ComputeStats(s.allLocked())
}
