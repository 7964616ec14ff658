package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/civiclens-lk/civiclens/internal/civic"
	"github.com/civiclens-lk/civiclens/internal/session"
	"github.com/gin-gonic/gin"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	handler, err := NewHTTPHandler(Dependencies{
		Store:  newTestDemoStore(),
		Hasher: session.NewHasher("router-test-salt"),
	})
	if err != nil {
		t.Fatalf("failed to build handler: %v", err)
	}
	return handler
}

func performRequest(handler http.Handler, method, target, sessionID string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	if body == nil {
		body = &bytes.Buffer{}
	}
	request := httptest.NewRequest(method, target, body)
	if sessionID != "" {
		request.Header.Set(session.HeaderName, sessionID)
	}
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func decodeBody[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()
	var decoded T
	if err := json.Unmarshal(recorder.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response %q: %v", recorder.Body.String(), err)
	}
	return decoded
}

func TestHealthEndpoint(t *testing.T) {
	handler := newTestHandler(t)
	recorder := performRequest(handler, http.MethodGet, "/api/health", "", nil, "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	body := decodeBody[map[string]any](t, recorder)
	if body["ok"] != true || body["status"] != "healthy" {
		t.Fatalf("unexpected health body %v", body)
	}
	if body["demo_mode"] != true {
		t.Fatalf("expected demo_mode true, got %v", body)
	}
}

func TestMockDataEndpointReturnsSeedBundle(t *testing.T) {
	handler := newTestHandler(t)
	recorder := performRequest(handler, http.MethodGet, "/api/mock-data", "", nil, "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	body := decodeBody[map[string]json.RawMessage](t, recorder)
	for _, key := range []string{"mockIssues", "mockResolvedIssues", "mockComments", "emergencyContacts", "nationalHotlines"} {
		if _, ok := body[key]; !ok {
			t.Fatalf("mock data bundle missing %q", key)
		}
	}
}

func TestListIssuesSupportsFilterSortAndLimit(t *testing.T) {
	handler := newTestHandler(t)
	recorder := performRequest(handler, http.MethodGet, "/api/issues?status=open&sort=upvotes&limit=2", "", nil, "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	issues := decodeBody[[]civic.Issue](t, recorder)
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %d", len(issues))
	}
	if issues[0].ID != "CL-2024-007" || issues[1].ID != "CL-2024-003" {
		t.Fatalf("unexpected ordering %s, %s", issues[0].ID, issues[1].ID)
	}
}

func TestListIssuesAcceptsStatusAll(t *testing.T) {
	handler := newTestHandler(t)
	recorder := performRequest(handler, http.MethodGet, "/api/issues?status=all", "", nil, "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	if issues := decodeBody[[]civic.Issue](t, recorder); len(issues) != 13 {
		t.Fatalf("expected 13 issues for status=all, got %d", len(issues))
	}
}

func TestListIssuesRejectsUnknownStatusAndCategory(t *testing.T) {
	handler := newTestHandler(t)
	if recorder := performRequest(handler, http.MethodGet, "/api/issues?status=closed", "", nil, ""); recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", recorder.Code)
	}
	if recorder := performRequest(handler, http.MethodGet, "/api/issues?category=vandalism", "", nil, ""); recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown category, got %d", recorder.Code)
	}
}

func TestGetIssueReturns404ForUnknownID(t *testing.T) {
	handler := newTestHandler(t)
	recorder := performRequest(handler, http.MethodGet, "/api/issues/CL-2024-999", "", nil, "")
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
}

func buildCreateIssueForm(t *testing.T, fields map[string]string, photoCount int) (*bytes.Buffer, string) {
	t.Helper()
	var buffer bytes.Buffer
	form := multipart.NewWriter(&buffer)
	for name, value := range fields {
		if err := form.WriteField(name, value); err != nil {
			t.Fatalf("failed to write field: %v", err)
		}
	}
	for i := 0; i < photoCount; i++ {
		part, err := form.CreateFormFile("photos", "photo.jpg")
		if err != nil {
			t.Fatalf("failed to create file part: %v", err)
		}
		if _, err := part.Write([]byte{0xFF, 0xD8}); err != nil {
			t.Fatalf("failed to write file part: %v", err)
		}
	}
	if err := form.Close(); err != nil {
		t.Fatalf("failed to close form: %v", err)
	}
	return &buffer, form.FormDataContentType()
}

func TestCreateIssueAcceptsMultipartForm(t *testing.T) {
	handler := newTestHandler(t)
	body, contentType := buildCreateIssueForm(t, map[string]string{
		"title":       "New pothole",
		"description": "Deep pothole near the junction",
		"category":    "Pothole",
		"severity":    "high",
		"location":    "Galle Road",
		"isAnonymous": "false",
		"lat":         "6.91471",
		"lng":         "79.85627",
	}, 6)

	recorder := performRequest(handler, http.MethodPost, "/api/issues", "session-a", body, contentType)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
	}
	issue := decodeBody[civic.Issue](t, recorder)
	if issue.ID != "CL-2026-0100" {
		t.Fatalf("unexpected minted id %q", issue.ID)
	}
	if issue.Category != civic.CategoryPotholes {
		t.Fatalf("expected classifier label normalized, got %q", issue.Category)
	}
	if len(issue.Photos) != civic.MaxPhotos {
		t.Fatalf("expected photos clamped to %d, got %d", civic.MaxPhotos, len(issue.Photos))
	}
	if issue.Coordinates == nil || issue.Coordinates.Lat != 6.91 || issue.Coordinates.Lng != 79.86 {
		t.Fatalf("expected coordinates rounded to 2 decimals, got %#v", issue.Coordinates)
	}
	if issue.IsAnonymous {
		t.Fatalf("expected a named report")
	}
}

func TestCreateIssueRequiresTitleAndDescription(t *testing.T) {
	handler := newTestHandler(t)
	body, contentType := buildCreateIssueForm(t, map[string]string{"title": "  "}, 0)
	recorder := performRequest(handler, http.MethodPost, "/api/issues", "", body, contentType)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
}

func TestUpvoteDeduplicatesBySessionHeader(t *testing.T) {
	handler := newTestHandler(t)

	first := performRequest(handler, http.MethodPost, "/api/issues/CL-2024-001/upvote", "session-a", nil, "")
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", first.Code)
	}
	firstBody := decodeBody[map[string]any](t, first)
	if firstBody["upvotes"].(float64) != 143 || firstBody["duplicate"] == true {
		t.Fatalf("unexpected first upvote body %v", firstBody)
	}

	repeat := performRequest(handler, http.MethodPost, "/api/issues/CL-2024-001/upvote", "session-a", nil, "")
	repeatBody := decodeBody[map[string]any](t, repeat)
	if repeatBody["upvotes"].(float64) != 143 || repeatBody["duplicate"] != true {
		t.Fatalf("expected duplicate flagged, got %v", repeatBody)
	}

	other := performRequest(handler, http.MethodPost, "/api/issues/CL-2024-001/upvote", "session-b", nil, "")
	otherBody := decodeBody[map[string]any](t, other)
	if otherBody["upvotes"].(float64) != 144 {
		t.Fatalf("expected another session to count, got %v", otherBody)
	}
}

func TestUpvoteWithoutSessionHeaderSharesAnonymousIdentity(t *testing.T) {
	handler := newTestHandler(t)

	performRequest(handler, http.MethodPost, "/api/issues/CL-2024-002/upvote", "", nil, "")
	repeat := performRequest(handler, http.MethodPost, "/api/issues/CL-2024-002/upvote", "", nil, "")
	body := decodeBody[map[string]any](t, repeat)
	if body["duplicate"] != true {
		t.Fatalf("header-less clients share one anonymous identity, got %v", body)
	}
}

func TestUpvoteUnknownIssueReturns404(t *testing.T) {
	handler := newTestHandler(t)
	recorder := performRequest(handler, http.MethodPost, "/api/issues/CL-2024-999/upvote", "session-a", nil, "")
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
}

func TestResolveVoteValidatesAndTallies(t *testing.T) {
	handler := newTestHandler(t)

	invalid := performRequest(handler, http.MethodPost, "/api/issues/CL-2024-001/resolve-vote", "session-a",
		bytes.NewBufferString(`{"vote":"maybe"}`), "application/json")
	if invalid.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an invalid vote, got %d", invalid.Code)
	}

	first := performRequest(handler, http.MethodPost, "/api/issues/CL-2024-001/resolve-vote", "session-a",
		bytes.NewBufferString(`{"vote":"yes"}`), "application/json")
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", first.Code)
	}
	firstBody := decodeBody[map[string]any](t, first)
	if firstBody["yes"].(float64) != 1 || firstBody["total"].(float64) != 1 {
		t.Fatalf("unexpected tally %v", firstBody)
	}

	repeat := performRequest(handler, http.MethodPost, "/api/issues/CL-2024-001/resolve-vote", "session-a",
		bytes.NewBufferString(`{"vote":"no"}`), "application/json")
	repeatBody := decodeBody[map[string]any](t, repeat)
	if repeatBody["duplicate"] != true || repeatBody["yes"].(float64) != 1 {
		t.Fatalf("expected duplicate vote ignored, got %v", repeatBody)
	}
}

func TestCommentThreadRoundTrip(t *testing.T) {
	handler := newTestHandler(t)

	posted := performRequest(handler, http.MethodPost, "/api/issues/CL-2024-002/comments", "session-a",
		bytes.NewBufferString(`{"text":"Any progress on this?","anonymous":true}`), "application/json")
	if posted.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", posted.Code)
	}
	comment := decodeBody[civic.Comment](t, posted)
	if comment.Author != "Anonymous" {
		t.Fatalf("expected anonymous author, got %q", comment.Author)
	}

	listed := performRequest(handler, http.MethodGet, "/api/issues/CL-2024-002/comments", "", nil, "")
	comments := decodeBody[[]civic.Comment](t, listed)
	if len(comments) != 1 || comments[0].Text != "Any progress on this?" {
		t.Fatalf("unexpected thread %#v", comments)
	}

	blank := performRequest(handler, http.MethodPost, "/api/issues/CL-2024-002/comments", "session-a",
		bytes.NewBufferString(`{"text":"   "}`), "application/json")
	if blank.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank text, got %d", blank.Code)
	}
}

func TestUpdateStatusLifecycleOverHTTP(t *testing.T) {
	handler := newTestHandler(t)

	progress := performRequest(handler, http.MethodPatch, "/api/issues/CL-2024-001/status", "",
		bytes.NewBufferString(`{"status":"in-progress","note":"Crew dispatched","updatedBy":"CMC"}`), "application/json")
	if progress.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", progress.Code, progress.Body.String())
	}
	issue := decodeBody[civic.Issue](t, progress)
	if issue.Status != civic.StatusInProgress {
		t.Fatalf("expected in-progress, got %q", issue.Status)
	}

	backward := performRequest(handler, http.MethodPatch, "/api/issues/CL-2024-001/status", "",
		bytes.NewBufferString(`{"status":"open"}`), "application/json")
	if backward.Code != http.StatusConflict {
		t.Fatalf("expected 409 for a backward transition, got %d", backward.Code)
	}

	unknown := performRequest(handler, http.MethodPatch, "/api/issues/CL-2024-999/status", "",
		bytes.NewBufferString(`{"status":"resolved"}`), "application/json")
	if unknown.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", unknown.Code)
	}

	invalid := performRequest(handler, http.MethodPatch, "/api/issues/CL-2024-001/status", "",
		bytes.NewBufferString(`{"status":"closed"}`), "application/json")
	if invalid.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an unknown status, got %d", invalid.Code)
	}
}

func TestStatsEndpointReflectsSeedSet(t *testing.T) {
	handler := newTestHandler(t)
	recorder := performRequest(handler, http.MethodGet, "/api/stats", "", nil, "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	stats := decodeBody[civic.Stats](t, recorder)
	if stats.TotalReports != 13 || stats.ActiveIssues != 10 || stats.ResolvedThisWeek != 3 {
		t.Fatalf("unexpected aggregates %#v", stats)
	}
}

func TestContactsAndHotlinesEndpoints(t *testing.T) {
	handler := newTestHandler(t)

	contacts := performRequest(handler, http.MethodGet, "/api/contacts", "", nil, "")
	if got := decodeBody[[]civic.EmergencyContact](t, contacts); len(got) != 12 {
		t.Fatalf("expected 12 contacts, got %d", len(got))
	}

	hotlines := performRequest(handler, http.MethodGet, "/api/hotlines", "", nil, "")
	decoded := decodeBody[[]civic.NationalHotline](t, hotlines)
	if len(decoded) != 5 || decoded[0].Number != "119" {
		t.Fatalf("unexpected hotlines %#v", decoded)
	}
}

func TestCORSPreflightAllowsSessionHeader(t *testing.T) {
	handler := newTestHandler(t)

	request := httptest.NewRequest(http.MethodOptions, "/api/issues", nil)
	request.Header.Set("Origin", "http://localhost:5173")
	request.Header.Set("Access-Control-Request-Method", http.MethodPost)
	request.Header.Set("Access-Control-Request-Headers", session.HeaderName)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusNoContent && recorder.Code != http.StatusOK {
		t.Fatalf("unexpected preflight status %d", recorder.Code)
	}
	allowed := recorder.Header().Get("Access-Control-Allow-Headers")
	if !strings.Contains(strings.ToLower(allowed), strings.ToLower(session.HeaderName)) {
		t.Fatalf("expected %s in allowed headers, got %q", session.HeaderName, allowed)
	}
}

func TestNewHTTPHandlerValidatesDependencies(t *testing.T) {
	gin.SetMode(gin.TestMode)
	if _, err := NewHTTPHandler(Dependencies{Hasher: session.NewHasher("")}); err == nil {
		t.Fatalf("expected an error without a store")
	}
	if _, err := NewHTTPHandler(Dependencies{Store: newTestDemoStore()}); err == nil {
		t.Fatalf("expected an error without a hasher")
	}
}
