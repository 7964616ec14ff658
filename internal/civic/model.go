package civic

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Category enumerates the civic issue categories accepted by the platform.
type Category string

const (
	CategoryPotholes     Category = "potholes"
	CategoryStreetLights Category = "streetLights"
	CategoryGarbage      Category = "garbage"
	CategoryWaterSupply  Category = "waterSupply"
	CategoryRoadDamage   Category = "roadDamage"
	CategoryDrainage     Category = "drainage"
	CategoryPublicSafety Category = "publicSafety"
	CategoryOther        Category = "other"
)

// Severity enumerates reporter-assigned urgency levels.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Status enumerates the linear issue lifecycle: open -> in-progress -> resolved.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in-progress"
	StatusResolved   Status = "resolved"
)

// ResolvedBy enumerates who confirmed an issue as fixed.
type ResolvedBy string

const (
	ResolvedByCommunity ResolvedBy = "community"
	ResolvedByReporter  ResolvedBy = "reporter"
	ResolvedByOfficial  ResolvedBy = "official"
)

// MaxPhotos bounds the number of photo references attached to one issue.
const MaxPhotos = 4

// ResolutionThreshold is the number of community "yes" votes rendered as the
// resolution-confirmation target. Crossing it never transitions status by
// itself; it is a display affordance only.
const ResolutionThreshold = 3

var (
	// ErrInvalidCategory indicates a value outside the category enumeration.
	ErrInvalidCategory = errors.New("civic: invalid category")
	// ErrInvalidSeverity indicates a value outside the severity enumeration.
	ErrInvalidSeverity = errors.New("civic: invalid severity")
	// ErrInvalidStatus indicates a value outside the status enumeration.
	ErrInvalidStatus = errors.New("civic: invalid status")
	// ErrInvalidTransition indicates a status change against the lifecycle order.
	ErrInvalidTransition = errors.New("civic: invalid status transition")
)

// ParseCategory validates raw input against the category enumeration.
func ParseCategory(rawInput string) (Category, error) {
	switch Category(strings.TrimSpace(rawInput)) {
	case CategoryPotholes, CategoryStreetLights, CategoryGarbage, CategoryWaterSupply,
		CategoryRoadDamage, CategoryDrainage, CategoryPublicSafety, CategoryOther:
		return Category(strings.TrimSpace(rawInput)), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, rawInput)
	}
}

// NormalizeCategory maps free-form classifier labels onto the category
// enumeration. Unknown labels collapse to CategoryOther.
func NormalizeCategory(rawInput string) Category {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(rawInput), " ", ""))
	switch key {
	case "pothole", "potholes":
		return CategoryPotholes
	case "streetlight", "streetlights":
		return CategoryStreetLights
	case "garbage":
		return CategoryGarbage
	case "water", "watersupply":
		return CategoryWaterSupply
	case "tree", "publicsafety":
		return CategoryPublicSafety
	case "road", "roaddamage":
		return CategoryRoadDamage
	case "drainage":
		return CategoryDrainage
	default:
		return CategoryOther
	}
}

// ParseSeverity validates raw input against the severity enumeration.
func ParseSeverity(rawInput string) (Severity, error) {
	switch Severity(strings.TrimSpace(rawInput)) {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return Severity(strings.TrimSpace(rawInput)), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSeverity, rawInput)
	}
}

// ParseStatus validates raw input against the status enumeration.
func ParseStatus(rawInput string) (Status, error) {
	switch Status(strings.TrimSpace(rawInput)) {
	case StatusOpen, StatusInProgress, StatusResolved:
		return Status(strings.TrimSpace(rawInput)), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, rawInput)
	}
}

// CanTransition reports whether moving from one status to the next respects
// the linear lifecycle. No backward transitions are defined.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusOpen:
		return to == StatusInProgress || to == StatusResolved
	case StatusInProgress:
		return to == StatusResolved
	default:
		return false
	}
}

// Coordinates carries an optional report location.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// StatusChange is one entry of an issue's append-only status audit trail.
type StatusChange struct {
	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note,omitempty"`
	UpdatedBy string    `json:"updatedBy,omitempty"`
}

// Issue is a citizen-reported civic problem.
type Issue struct {
	ID                      string         `json:"id"`
	Title                   string         `json:"title"`
	Description             string         `json:"description"`
	Category                Category       `json:"category"`
	Severity                Severity       `json:"severity"`
	Status                  Status         `json:"status"`
	Location                string         `json:"location"`
	Coordinates             *Coordinates   `json:"coordinates,omitempty"`
	Photos                  []string       `json:"photos"`
	Upvotes                 int            `json:"upvotes"`
	CommentCount            int            `json:"commentCount"`
	Reporter                string         `json:"reporter"`
	IsAnonymous             bool           `json:"isAnonymous"`
	CreatedAt               time.Time      `json:"createdAt"`
	AIConfidence            int            `json:"aiConfidence,omitempty"`
	AICategory              string         `json:"aiCategory,omitempty"`
	SeverityScore           int            `json:"severityScore,omitempty"`
	SeverityText            string         `json:"severityText,omitempty"`
	ResolutionConfirmations int            `json:"resolutionConfirmations"`
	ResolvedAt              *time.Time     `json:"resolvedAt,omitempty"`
	ResolvedBy              ResolvedBy     `json:"resolvedBy,omitempty"`
	StatusHistory           []StatusChange `json:"statusHistory,omitempty"`
}

// Clone returns a deep copy so callers cannot mutate shared state through
// returned references.
func (issue Issue) Clone() Issue {
	copied := issue
	copied.Photos = append([]string(nil), issue.Photos...)
	copied.StatusHistory = append([]StatusChange(nil), issue.StatusHistory...)
	if issue.Coordinates != nil {
		coords := *issue.Coordinates
		copied.Coordinates = &coords
	}
	if issue.ResolvedAt != nil {
		resolvedAt := *issue.ResolvedAt
		copied.ResolvedAt = &resolvedAt
	}
	return copied
}

// ApplyStatus advances the lifecycle, appending to the audit trail and
// stamping ResolvedAt when the issue reaches resolved.
func (issue *Issue) ApplyStatus(to Status, note, updatedBy string, at time.Time) error {
	if !CanTransition(issue.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, issue.Status, to)
	}
	issue.Status = to
	issue.StatusHistory = append(issue.StatusHistory, StatusChange{
		Status:    to,
		Timestamp: at,
		Note:      note,
		UpdatedBy: updatedBy,
	})
	if to == StatusResolved {
		resolvedAt := at
		issue.ResolvedAt = &resolvedAt
		if issue.ResolvedBy == "" {
			issue.ResolvedBy = ResolvedByOfficial
		}
	}
	return nil
}

// AppendPhoto adds one photo reference, refusing silently once MaxPhotos are
// attached.
func AppendPhoto(photos []string, photo string) []string {
	if len(photos) >= MaxPhotos {
		return photos
	}
	return append(photos, photo)
}

// ClampPhotos truncates a photo list to the first MaxPhotos entries.
func ClampPhotos(photos []string) []string {
	if len(photos) <= MaxPhotos {
		return photos
	}
	return photos[:MaxPhotos]
}

// Comment is a text reply attached to exactly one issue.
type Comment struct {
	ID          string    `json:"id"`
	IssueID     string    `json:"issueId"`
	Text        string    `json:"text"`
	Author      string    `json:"author"`
	IsAnonymous bool      `json:"isAnonymous"`
	IsOfficial  bool      `json:"isOfficial,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ServiceType enumerates emergency contact categories.
type ServiceType string

const (
	ServicePolice     ServiceType = "police"
	ServiceMedical    ServiceType = "medical"
	ServiceUtilities  ServiceType = "utilities"
	ServiceGovernment ServiceType = "government"
)

// EmergencyContact is a district-level service contact shown on the
// emergency screen.
type EmergencyContact struct {
	ID           string      `json:"id"`
	Organization string      `json:"organization"`
	District     string      `json:"district"`
	Phone        string      `json:"phone"`
	ServiceType  ServiceType `json:"serviceType"`
	Is247        bool        `json:"is247"`
}

// NationalHotline is a country-wide short-dial number.
type NationalHotline struct {
	Name   string `json:"name"`
	Number string `json:"number"`
	Icon   string `json:"icon"`
}

// DisplayReporter returns the reporter name with anonymity applied.
func DisplayReporter(reporter string, isAnonymous bool) string {
	if isAnonymous || strings.TrimSpace(reporter) == "" {
		return "Anonymous"
	}
	return reporter
}
