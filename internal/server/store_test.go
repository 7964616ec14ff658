package server

import (
	"errors"
	"testing"
	"time"

	"github.com/civiclens-lk/civiclens/internal/civic"
)

type sequenceIDProvider struct {
	ids  []string
	next int
}

func (p *sequenceIDProvider) NewReportID() string {
	id := p.ids[p.next%len(p.ids)]
	p.next++
	return id
}

func newTestDemoStore() *DemoStore {
	return NewDemoStore(DemoStoreConfig{
		Clock: func() time.Time {
			return time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
		},
		IDProvider: &sequenceIDProvider{ids: []string{"CL-2026-0100", "CL-2026-0101"}},
	})
}

func TestNewDemoStoreSeedsThirteenIssues(t *testing.T) {
	store := newTestDemoStore()
	if got := len(store.ListIssues(civic.ListFilter{})); got != 13 {
		t.Fatalf("expected 13 seeded issues, got %d", got)
	}
}

func TestCreateIssuePrependsAndStampsAuditTrail(t *testing.T) {
	store := newTestDemoStore()

	created := store.CreateIssue(NewIssueInput{
		Title:       "New pothole",
		Description: "Fresh report",
		Category:    civic.CategoryPotholes,
		Severity:    civic.SeverityHigh,
		Location:    "Galle Road",
		IsAnonymous: true,
	})
	if created.ID != "CL-2026-0100" {
		t.Fatalf("unexpected minted id %q", created.ID)
	}
	if created.Status != civic.StatusOpen {
		t.Fatalf("expected new issue open, got %q", created.Status)
	}
	if len(created.StatusHistory) != 1 || created.StatusHistory[0].Note != "Report received" {
		t.Fatalf("expected initial audit entry, got %#v", created.StatusHistory)
	}

	recent := store.ListIssues(civic.ListFilter{Sort: civic.SortRecent, Limit: 1})
	if recent[0].ID != created.ID {
		t.Fatalf("expected the new issue to be the most recent, got %s", recent[0].ID)
	}
}

func TestGetIssueReturnsCopies(t *testing.T) {
	store := newTestDemoStore()

	issue, err := store.GetIssue("CL-2024-001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	issue.Title = "mutated"
	issue.Photos = append(issue.Photos, "injected.jpg")

	reread, err := store.GetIssue("CL-2024-001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reread.Title != "Large pothole on Galle Road" || len(reread.Photos) != 0 {
		t.Fatalf("store state leaked through a returned copy: %#v", reread)
	}
}

func TestGetIssueUnknownID(t *testing.T) {
	store := newTestDemoStore()
	if _, err := store.GetIssue("CL-2024-999"); !errors.Is(err, ErrIssueNotFound) {
		t.Fatalf("expected ErrIssueNotFound, got %v", err)
	}
}

func TestUpvoteDeduplicatesPerSession(t *testing.T) {
	store := newTestDemoStore()

	first, err := store.Upvote("CL-2024-001", "hash-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Upvotes != 143 || first.Duplicate {
		t.Fatalf("unexpected first outcome %#v", first)
	}

	repeat, err := store.Upvote("CL-2024-001", "hash-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repeat.Upvotes != 143 || !repeat.Duplicate {
		t.Fatalf("expected duplicate to be flagged without incrementing, got %#v", repeat)
	}

	other, err := store.Upvote("CL-2024-001", "hash-b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if other.Upvotes != 144 || other.Duplicate {
		t.Fatalf("expected a second session to count, got %#v", other)
	}
}

func TestUpvoteSessionsAreScopedPerIssue(t *testing.T) {
	store := newTestDemoStore()
	if _, err := store.Upvote("CL-2024-001", "hash-a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	outcome, err := store.Upvote("CL-2024-002", "hash-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Duplicate {
		t.Fatalf("the same session must be able to upvote a different issue")
	}
}

func TestResolveVoteTalliesAndDeduplicates(t *testing.T) {
	store := newTestDemoStore()

	first, err := store.ResolveVote("CL-2024-001", "hash-a", "yes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Yes != 1 || first.No != 0 || first.Duplicate {
		t.Fatalf("unexpected first tally %#v", first)
	}

	repeat, err := store.ResolveVote("CL-2024-001", "hash-a", "no")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repeat.Duplicate || repeat.Yes != 1 || repeat.No != 0 {
		t.Fatalf("expected duplicate vote to be ignored, got %#v", repeat)
	}

	second, err := store.ResolveVote("CL-2024-001", "hash-b", "no")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Yes != 1 || second.No != 1 {
		t.Fatalf("unexpected tally after second session %#v", second)
	}

	issue, err := store.GetIssue("CL-2024-001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if issue.ResolutionConfirmations != 1 {
		t.Fatalf("expected yes count mirrored onto the issue, got %d", issue.ResolutionConfirmations)
	}
	if issue.Status != civic.StatusOpen {
		t.Fatalf("resolve votes must never change status, got %q", issue.Status)
	}
}

func TestAddCommentBumpsCommentCount(t *testing.T) {
	store := newTestDemoStore()

	before, err := store.GetIssue("CL-2024-002")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	comment, err := store.AddComment("CL-2024-002", "Any progress?", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if comment.IssueID != "CL-2024-002" || comment.Text != "Any progress?" {
		t.Fatalf("unexpected comment %#v", comment)
	}

	after, err := store.GetIssue("CL-2024-002")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if after.CommentCount != before.CommentCount+1 {
		t.Fatalf("expected comment count %d, got %d", before.CommentCount+1, after.CommentCount)
	}

	comments := store.Comments("CL-2024-002")
	if len(comments) != 1 || comments[0].ID != comment.ID {
		t.Fatalf("expected the new comment in the thread, got %#v", comments)
	}
}

func TestCommentsAreNewestFirst(t *testing.T) {
	store := newTestDemoStore()
	comments := store.Comments("CL-2024-001")
	if len(comments) != 3 {
		t.Fatalf("expected 3 seed comments, got %d", len(comments))
	}
	for i := 1; i < len(comments); i++ {
		if comments[i].CreatedAt.After(comments[i-1].CreatedAt) {
			t.Fatalf("comments not newest first at index %d", i)
		}
	}
}

func TestUpdateStatusMovesResolvedIssues(t *testing.T) {
	store := newTestDemoStore()

	updated, err := store.UpdateStatus("CL-2024-001", civic.StatusInProgress, "Crew dispatched", "CMC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != civic.StatusInProgress {
		t.Fatalf("expected in-progress, got %q", updated.Status)
	}

	resolved, err := store.UpdateStatus("CL-2024-001", civic.StatusResolved, "Repaired", "CMC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved.ResolvedAt == nil {
		t.Fatalf("expected resolution stamp")
	}

	open := store.ListIssues(civic.ListFilter{Status: civic.StatusOpen})
	for _, issue := range open {
		if issue.ID == "CL-2024-001" {
			t.Fatalf("resolved issue still listed as open")
		}
	}
	resolvedList := store.ListIssues(civic.ListFilter{Status: civic.StatusResolved})
	found := false
	for _, issue := range resolvedList {
		if issue.ID == "CL-2024-001" {
			found = true
		}
	}
	if !found {
		t.Fatalf("resolved issue missing from the resolved set")
	}
}

func TestUpdateStatusRejectsBackwardTransition(t *testing.T) {
	store := newTestDemoStore()
	if _, err := store.UpdateStatus("CL-2024-R01", civic.StatusOpen, "", ""); !errors.Is(err, civic.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestStatsTracksLifecycleChanges(t *testing.T) {
	store := newTestDemoStore()

	initial := store.Stats()
	if initial.TotalReports != 13 || initial.ActiveIssues != 10 || initial.ResolvedThisWeek != 3 {
		t.Fatalf("unexpected seed aggregates %#v", initial)
	}

	if _, err := store.UpdateStatus("CL-2024-001", civic.StatusResolved, "", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	after := store.Stats()
	if after.ActiveIssues != 9 || after.ResolvedThisWeek != 4 {
		t.Fatalf("aggregates did not follow the lifecycle change: %#v", after)
	}
}
