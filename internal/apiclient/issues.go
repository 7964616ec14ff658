package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/civiclens-lk/civiclens/internal/civic"
	"github.com/civiclens-lk/civiclens/internal/mockdata"
)

func encodeListQuery(filter civic.ListFilter) string {
	params := url.Values{}
	if filter.Status != "" {
		params.Set("status", string(filter.Status))
	}
	if filter.Category != "" {
		params.Set("category", string(filter.Category))
	}
	if filter.Sort != "" {
		params.Set("sort", string(filter.Sort))
	}
	if filter.Limit > 0 {
		params.Set("limit", strconv.Itoa(filter.Limit))
	}
	if encoded := params.Encode(); encoded != "" {
		return "?" + encoded
	}
	return ""
}

// ListIssues fetches issues matching the filter. Offline, the seed set is
// filtered and sorted with the same rules the server applies.
func (c *Client) ListIssues(ctx context.Context, filter civic.ListFilter) []civic.Issue {
	fetched, fetchErr := fetchJSON[[]civic.Issue](ctx, c, "list_issues", http.MethodGet, "/api/issues"+encodeListQuery(filter), "", nil)
	return withFallback(c, fetched, fetchErr, func() []civic.Issue {
		return filter.Apply(mockdata.AllIssues())
	})
}

// GetIssue fetches one issue by id; nil when the id is unknown on both the
// server and the seed set.
func (c *Client) GetIssue(ctx context.Context, issueID string) (*civic.Issue, error) {
	if strings.TrimSpace(issueID) == "" {
		return nil, ErrMissingIssueID
	}
	fetched, fetchErr := fetchJSON[*civic.Issue](ctx, c, "get_issue", http.MethodGet, "/api/issues/"+url.PathEscape(issueID), "", nil)
	return withFallback(c, fetched, fetchErr, func() *civic.Issue {
		for _, issue := range mockdata.AllIssues() {
			if issue.ID == issueID {
				matched := issue
				return &matched
			}
		}
		return nil
	}), nil
}

// Photo is one image attachment of a new report.
type Photo struct {
	Name    string
	Content []byte
}

// CreateIssueInput carries the report submission form.
type CreateIssueInput struct {
	Title       string
	Description string
	Category    civic.Category
	Severity    civic.Severity
	Location    string
	IsAnonymous bool
	Coordinates *civic.Coordinates
	Photos      []Photo
}

func (input CreateIssueInput) validate() error {
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("apiclient: title is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return fmt.Errorf("apiclient: description is required")
	}
	if _, err := civic.ParseCategory(string(input.Category)); err != nil {
		return err
	}
	if _, err := civic.ParseSeverity(string(input.Severity)); err != nil {
		return err
	}
	return nil
}

// CreateIssue submits a report as a multipart form. At most four photos
// are sent; extras are dropped. Offline, a client-side issue is minted so
// the submission flow stays usable.
func (c *Client) CreateIssue(ctx context.Context, input CreateIssueInput) (civic.Issue, error) {
	if err := input.validate(); err != nil {
		return civic.Issue{}, err
	}

	photos := input.Photos
	if len(photos) > civic.MaxPhotos {
		photos = photos[:civic.MaxPhotos]
	}

	var buffer bytes.Buffer
	form := multipart.NewWriter(&buffer)
	fields := map[string]string{
		"title":       input.Title,
		"description": input.Description,
		"category":    string(input.Category),
		"severity":    string(input.Severity),
		"location":    input.Location,
		"isAnonymous": strconv.FormatBool(input.IsAnonymous),
	}
	if input.Coordinates != nil {
		fields["lat"] = strconv.FormatFloat(input.Coordinates.Lat, 'f', -1, 64)
		fields["lng"] = strconv.FormatFloat(input.Coordinates.Lng, 'f', -1, 64)
	}
	formErr := func() error {
		for name, value := range fields {
			if err := form.WriteField(name, value); err != nil {
				return err
			}
		}
		for _, photo := range photos {
			part, err := form.CreateFormFile("photos", photo.Name)
			if err != nil {
				return err
			}
			if _, err := part.Write(photo.Content); err != nil {
				return err
			}
		}
		return form.Close()
	}()
	if formErr != nil {
		return civic.Issue{}, formErr
	}

	fetched, fetchErr := fetchJSON[civic.Issue](ctx, c, "create_issue", http.MethodPost, "/api/issues", form.FormDataContentType(), &buffer)
	return withFallback(c, fetched, fetchErr, func() civic.Issue {
		now := c.clock().UTC()
		return civic.Issue{
			ID:            c.idProvider.NewReportID(),
			Title:         input.Title,
			Description:   input.Description,
			Category:      input.Category,
			Severity:      input.Severity,
			Status:        civic.StatusOpen,
			Location:      input.Location,
			Coordinates:   input.Coordinates,
			Photos:        []string{},
			Reporter:      civic.DisplayReporter("Citizen", input.IsAnonymous),
			IsAnonymous:   input.IsAnonymous,
			CreatedAt:     now,
			AIConfidence:  50,
			AICategory:    string(input.Category),
			SeverityScore: 5,
		}
	}), nil
}

// UpvoteResult is the server's answer to an upvote request.
type UpvoteResult struct {
	IssueID   string `json:"issueId"`
	Upvotes   int    `json:"upvotes"`
	Duplicate bool   `json:"duplicate"`
}

// Upvote registers one upvote for the session. Offline, the seed count is
// incremented optimistically.
func (c *Client) Upvote(ctx context.Context, issueID string) (UpvoteResult, error) {
	if strings.TrimSpace(issueID) == "" {
		return UpvoteResult{}, ErrMissingIssueID
	}
	fetched, fetchErr := fetchJSON[UpvoteResult](ctx, c, "upvote_issue", http.MethodPost, "/api/issues/"+url.PathEscape(issueID)+"/upvote", "application/json", strings.NewReader("{}"))
	return withFallback(c, fetched, fetchErr, func() UpvoteResult {
		for _, issue := range mockdata.AllIssues() {
			if issue.ID == issueID {
				return UpvoteResult{IssueID: issueID, Upvotes: issue.Upvotes + 1}
			}
		}
		return UpvoteResult{IssueID: issueID, Upvotes: 1}
	}), nil
}

// ResolveVoteResult is the server's tally after a resolve vote.
type ResolveVoteResult struct {
	IssueID   string `json:"issueId"`
	Yes       int    `json:"yes"`
	No        int    `json:"no"`
	Total     int    `json:"total"`
	Duplicate bool   `json:"duplicate"`
}

// ResolveVote casts a community yes/no vote on whether an issue is fixed.
func (c *Client) ResolveVote(ctx context.Context, issueID, vote string) (ResolveVoteResult, error) {
	if strings.TrimSpace(issueID) == "" {
		return ResolveVoteResult{}, ErrMissingIssueID
	}
	if vote != "yes" && vote != "no" {
		return ResolveVoteResult{}, fmt.Errorf("apiclient: vote must be \"yes\" or \"no\", got %q", vote)
	}
	body := fmt.Sprintf(`{"vote":%q}`, vote)
	fetched, fetchErr := fetchJSON[ResolveVoteResult](ctx, c, "resolve_vote", http.MethodPost, "/api/issues/"+url.PathEscape(issueID)+"/resolve-vote", "application/json", strings.NewReader(body))
	return withFallback(c, fetched, fetchErr, func() ResolveVoteResult {
		result := ResolveVoteResult{IssueID: issueID, Total: 1}
		if vote == "yes" {
			result.Yes = 1
		} else {
			result.No = 1
		}
		return result
	}), nil
}

// ListComments fetches an issue's comment thread, newest first.
func (c *Client) ListComments(ctx context.Context, issueID string) ([]civic.Comment, error) {
	if strings.TrimSpace(issueID) == "" {
		return nil, ErrMissingIssueID
	}
	fetched, fetchErr := fetchJSON[[]civic.Comment](ctx, c, "list_comments", http.MethodGet, "/api/issues/"+url.PathEscape(issueID)+"/comments", "", nil)
	return withFallback(c, fetched, fetchErr, func() []civic.Comment {
		comments := mockdata.CommentsForIssue(issueID)
		sort.SliceStable(comments, func(i, j int) bool {
			return comments[i].CreatedAt.After(comments[j].CreatedAt)
		})
		return comments
	}), nil
}

type postCommentPayload struct {
	Text      string `json:"text"`
	Anonymous bool   `json:"anonymous"`
}

// PostComment attaches a comment to an issue. Offline, a client-side
// comment is minted so the thread renders immediately.
func (c *Client) PostComment(ctx context.Context, issueID, text string, anonymous bool) (civic.Comment, error) {
	if strings.TrimSpace(issueID) == "" {
		return civic.Comment{}, ErrMissingIssueID
	}
	if strings.TrimSpace(text) == "" {
		return civic.Comment{}, fmt.Errorf("apiclient: comment text is required")
	}
	encoded, err := json.Marshal(postCommentPayload{Text: text, Anonymous: anonymous})
	if err != nil {
		return civic.Comment{}, err
	}
	fetched, fetchErr := fetchJSON[civic.Comment](ctx, c, "post_comment", http.MethodPost, "/api/issues/"+url.PathEscape(issueID)+"/comments", "application/json", bytes.NewReader(encoded))
	return withFallback(c, fetched, fetchErr, func() civic.Comment {
		now := c.clock().UTC()
		return civic.Comment{
			ID:          fmt.Sprintf("c-%d", now.UnixMilli()),
			IssueID:     issueID,
			Text:        text,
			Author:      civic.DisplayReporter("Citizen", anonymous),
			IsAnonymous: anonymous,
			CreatedAt:   now,
		}
	}), nil
}
