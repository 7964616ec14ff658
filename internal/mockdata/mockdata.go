// Package mockdata holds the deterministic seed dataset used both as the
// offline fallback for the API client and as the demo server's initial
// state. Accessors always deep-copy so no caller can mutate the seed.
package mockdata

import (
	"time"

	"github.com/civiclens-lk/civiclens/internal/civic"
)

func ts(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func tsPtr(value string) *time.Time {
	parsed := ts(value)
	return &parsed
}

var seedIssues = []civic.Issue{
	{
		ID:          "CL-2024-001",
		Title:       "Large pothole on Galle Road",
		Description: "Deep pothole near the bus stop causing accidents. Multiple vehicles have been damaged. Needs immediate attention.",
		Category:    civic.CategoryPotholes,
		Severity:    civic.SeverityCritical,
		Status:      civic.StatusOpen,
		Location:    "Galle Road, Colombo 03",
		Coordinates: &civic.Coordinates{Lat: 6.9147, Lng: 79.8563},
		Photos:      []string{},
		Upvotes:     142, CommentCount: 23,
		Reporter: "Anonymous", IsAnonymous: true,
		CreatedAt:    ts("2026-02-21T07:00:00Z"),
		AIConfidence: 95, AICategory: "Pothole", SeverityScore: 9,
	},
	{
		ID:          "CL-2024-002",
		Title:       "Broken street light on Duplication Road",
		Description: "Street light has been broken for over a week. Area is very dark at night, posing safety risks for pedestrians.",
		Category:    civic.CategoryStreetLights,
		Severity:    civic.SeverityHigh,
		Status:      civic.StatusInProgress,
		Location:    "Duplication Road, Colombo 04",
		Coordinates: &civic.Coordinates{Lat: 6.8935, Lng: 79.8587},
		Photos:      []string{},
		Upvotes:     89, CommentCount: 12,
		Reporter: "KS", IsAnonymous: false,
		CreatedAt:    ts("2026-02-20T14:30:00Z"),
		AIConfidence: 88, AICategory: "Street Light", SeverityScore: 7,
	},
	{
		ID:          "CL-2024-003",
		Title:       "Garbage pile at Pettah Market",
		Description: "Large uncollected garbage pile near the entrance of Pettah Market. Causing severe health hazards and foul smell.",
		Category:    civic.CategoryGarbage,
		Severity:    civic.SeverityHigh,
		Status:      civic.StatusOpen,
		Location:    "Pettah Market, Colombo 11",
		Coordinates: &civic.Coordinates{Lat: 6.9366, Lng: 79.8505},
		Photos:      []string{},
		Upvotes:     234, CommentCount: 45,
		Reporter: "Anonymous", IsAnonymous: true,
		CreatedAt:    ts("2026-02-19T09:15:00Z"),
		AIConfidence: 97, AICategory: "Garbage", SeverityScore: 8,
	},
	{
		ID:          "CL-2024-004",
		Title:       "Water pipe leak in Nugegoda",
		Description: "Major water pipe leak flooding the road and nearby shops. Clean water being wasted continuously.",
		Category:    civic.CategoryWaterSupply,
		Severity:    civic.SeverityCritical,
		Status:      civic.StatusOpen,
		Location:    "High Level Road, Nugegoda",
		Coordinates: &civic.Coordinates{Lat: 6.8722, Lng: 79.8897},
		Photos:      []string{},
		Upvotes:     178, CommentCount: 31,
		Reporter: "RP", IsAnonymous: false,
		CreatedAt:    ts("2026-02-21T03:00:00Z"),
		AIConfidence: 91, AICategory: "Water Supply", SeverityScore: 9,
	},
	{
		ID:          "CL-2024-005",
		Title:       "Cracked road surface on Marine Drive",
		Description: "Multiple cracks on the road surface creating hazardous conditions for motorcyclists and cyclists.",
		Category:    civic.CategoryRoadDamage,
		Severity:    civic.SeverityMedium,
		Status:      civic.StatusInProgress,
		Location:    "Marine Drive, Colombo 06",
		Coordinates: &civic.Coordinates{Lat: 6.8843, Lng: 79.8601},
		Photos:      []string{},
		Upvotes:     67, CommentCount: 8,
		Reporter: "AN", IsAnonymous: false,
		CreatedAt:    ts("2026-02-18T11:45:00Z"),
		AIConfidence: 84, AICategory: "Road Damage", SeverityScore: 5,
	},
	{
		ID:          "CL-2024-006",
		Title:       "Blocked drainage at Town Hall junction",
		Description: "Drainage system completely blocked causing flooding during rains. Stagnant water breeding mosquitoes.",
		Category:    civic.CategoryDrainage,
		Severity:    civic.SeverityHigh,
		Status:      civic.StatusOpen,
		Location:    "Town Hall, Colombo 07",
		Coordinates: &civic.Coordinates{Lat: 6.9114, Lng: 79.8637},
		Photos:      []string{},
		Upvotes:     156, CommentCount: 19,
		Reporter: "Anonymous", IsAnonymous: true,
		CreatedAt:    ts("2026-02-17T16:20:00Z"),
		AIConfidence: 89, AICategory: "Drainage", SeverityScore: 7,
	},
	{
		ID:          "CL-2024-007",
		Title:       "Missing manhole cover near University",
		Description: "Dangerous open manhole near Colombo University entrance. Students and pedestrians at risk of falling in.",
		Category:    civic.CategoryPublicSafety,
		Severity:    civic.SeverityCritical,
		Status:      civic.StatusOpen,
		Location:    "Reid Avenue, Colombo 07",
		Coordinates: &civic.Coordinates{Lat: 6.9037, Lng: 79.8614},
		Photos:      []string{},
		Upvotes:     312, CommentCount: 56,
		Reporter: "DM", IsAnonymous: false,
		CreatedAt:    ts("2026-02-21T01:00:00Z"),
		AIConfidence: 93, AICategory: "Public Safety", SeverityScore: 10,
	},
	{
		ID:          "CL-2024-008",
		Title:       "Overflowing garbage bins in Bambalapitiya",
		Description: "Multiple garbage bins overflowing for 3 days. Stray animals scattering waste around the area.",
		Category:    civic.CategoryGarbage,
		Severity:    civic.SeverityMedium,
		Status:      civic.StatusOpen,
		Location:    "Bambalapitiya, Colombo 04",
		Coordinates: &civic.Coordinates{Lat: 6.8923, Lng: 79.8570},
		Photos:      []string{},
		Upvotes:     45, CommentCount: 7,
		Reporter: "Anonymous", IsAnonymous: true,
		CreatedAt:    ts("2026-02-20T08:00:00Z"),
		AIConfidence: 96, AICategory: "Garbage", SeverityScore: 5,
	},
	{
		ID:          "CL-2024-009",
		Title:       "Broken sidewalk tiles in Fort area",
		Description: "Several sidewalk tiles are broken and uneven, causing tripping hazard for pedestrians especially elderly.",
		Category:    civic.CategoryRoadDamage,
		Severity:    civic.SeverityLow,
		Status:      civic.StatusInProgress,
		Location:    "Fort, Colombo 01",
		Coordinates: &civic.Coordinates{Lat: 6.9342, Lng: 79.8428},
		Photos:      []string{},
		Upvotes:     28, CommentCount: 4,
		Reporter: "ML", IsAnonymous: false,
		CreatedAt:    ts("2026-02-16T13:30:00Z"),
		AIConfidence: 79, AICategory: "Road Damage", SeverityScore: 3,
	},
	{
		ID:          "CL-2024-010",
		Title:       "No street lighting on Baseline Road stretch",
		Description: "500m stretch of Baseline Road has no working street lights. Area reported to have increase in crime.",
		Category:    civic.CategoryStreetLights,
		Severity:    civic.SeverityHigh,
		Status:      civic.StatusOpen,
		Location:    "Baseline Road, Colombo 09",
		Coordinates: &civic.Coordinates{Lat: 6.9267, Lng: 79.8748},
		Photos:      []string{},
		Upvotes:     198, CommentCount: 34,
		Reporter: "Anonymous", IsAnonymous: true,
		CreatedAt:    ts("2026-02-15T19:00:00Z"),
		AIConfidence: 86, AICategory: "Street Light", SeverityScore: 8,
	},
}

var seedResolvedIssues = []civic.Issue{
	{
		ID:          "CL-2024-R01",
		Title:       "Pothole fixed on Havelock Road",
		Description: "Large pothole that was causing traffic congestion has been repaired by CMC.",
		Category:    civic.CategoryPotholes,
		Severity:    civic.SeverityHigh,
		Status:      civic.StatusResolved,
		Location:    "Havelock Road, Colombo 05",
		Photos:      []string{},
		Upvotes:     87, CommentCount: 15,
		Reporter: "TK", IsAnonymous: false,
		CreatedAt:     ts("2026-02-10T10:00:00Z"),
		ResolvedAt:    tsPtr("2026-02-18T14:00:00Z"),
		ResolvedBy:    civic.ResolvedByCommunity,
		SeverityScore: 7,
	},
	{
		ID:          "CL-2024-R02",
		Title:       "Garbage cleared at Wellawatte Beach",
		Description: "Beach area cleanup completed by municipal workers after community reporting.",
		Category:    civic.CategoryGarbage,
		Severity:    civic.SeverityMedium,
		Status:      civic.StatusResolved,
		Location:    "Wellawatte Beach, Colombo 06",
		Photos:      []string{},
		Upvotes:     124, CommentCount: 22,
		Reporter: "Anonymous", IsAnonymous: true,
		CreatedAt:     ts("2026-02-08T07:30:00Z"),
		ResolvedAt:    tsPtr("2026-02-14T11:00:00Z"),
		ResolvedBy:    civic.ResolvedByOfficial,
		SeverityScore: 5,
	},
	{
		ID:          "CL-2024-R03",
		Title:       "Street lights restored on Bauddhaloka Mawatha",
		Description: "All 12 broken street lights along Bauddhaloka Mawatha have been replaced.",
		Category:    civic.CategoryStreetLights,
		Severity:    civic.SeverityHigh,
		Status:      civic.StatusResolved,
		Location:    "Bauddhaloka Mawatha, Colombo 07",
		Photos:      []string{},
		Upvotes:     201, CommentCount: 38,
		Reporter: "NS", IsAnonymous: false,
		CreatedAt:     ts("2026-02-05T15:00:00Z"),
		ResolvedAt:    tsPtr("2026-02-19T09:00:00Z"),
		ResolvedBy:    civic.ResolvedByReporter,
		SeverityScore: 7,
	},
}

var seedComments = []civic.Comment{
	{
		ID:      "c1",
		IssueID: "CL-2024-001",
		Text:    "I almost damaged my car here yesterday. This needs urgent repair!",
		Author:  "Anonymous", IsAnonymous: true,
		CreatedAt: ts("2026-02-21T08:30:00Z"),
	},
	{
		ID:      "c2",
		IssueID: "CL-2024-001",
		Text:    "CMC was notified last week but no action taken yet.",
		Author:  "PK", IsAnonymous: false,
		CreatedAt: ts("2026-02-21T07:45:00Z"),
	},
	{
		ID:      "c3",
		IssueID: "CL-2024-001",
		Text:    "Same issue reported 3 months ago and was fixed temporarily. Poor quality work.",
		Author:  "Anonymous", IsAnonymous: true,
		CreatedAt: ts("2026-02-20T22:00:00Z"),
	},
}

var seedContacts = []civic.EmergencyContact{
	{ID: "e1", Organization: "Colombo North Police Station", District: "Colombo", Phone: "011-2421111", ServiceType: civic.ServicePolice, Is247: true},
	{ID: "e2", Organization: "Colombo South Police Station", District: "Colombo", Phone: "011-2432222", ServiceType: civic.ServicePolice, Is247: true},
	{ID: "e3", Organization: "National Hospital Colombo", District: "Colombo", Phone: "011-2691111", ServiceType: civic.ServiceMedical, Is247: true},
	{ID: "e4", Organization: "Colombo General Hospital", District: "Colombo", Phone: "011-2693184", ServiceType: civic.ServiceMedical, Is247: true},
	{ID: "e5", Organization: "CEB - Colombo Region", District: "Colombo", Phone: "011-2343222", ServiceType: civic.ServiceUtilities, Is247: false},
	{ID: "e6", Organization: "NWSDB - Colombo", District: "Colombo", Phone: "011-2636449", ServiceType: civic.ServiceUtilities, Is247: false},
	{ID: "e7", Organization: "Colombo Municipal Council", District: "Colombo", Phone: "011-2686827", ServiceType: civic.ServiceGovernment, Is247: false},
	{ID: "e8", Organization: "Kandy Municipal Council", District: "Kandy", Phone: "081-2222275", ServiceType: civic.ServiceGovernment, Is247: false},
	{ID: "e9", Organization: "Kandy Police Station", District: "Kandy", Phone: "081-2222222", ServiceType: civic.ServicePolice, Is247: true},
	{ID: "e10", Organization: "Kandy General Hospital", District: "Kandy", Phone: "081-2222261", ServiceType: civic.ServiceMedical, Is247: true},
	{ID: "e11", Organization: "Galle Police Station", District: "Galle", Phone: "091-2234036", ServiceType: civic.ServicePolice, Is247: true},
	{ID: "e12", Organization: "Galle General Hospital", District: "Galle", Phone: "091-2232276", ServiceType: civic.ServiceMedical, Is247: true},
}

var seedHotlines = []civic.NationalHotline{
	{Name: "Police", Number: "119", Icon: "shield"},
	{Name: "Ambulance", Number: "1990", Icon: "ambulance"},
	{Name: "Fire", Number: "110", Icon: "flame"},
	{Name: "CEB", Number: "1987", Icon: "zap"},
	{Name: "NWSDB", Number: "1938", Icon: "droplets"},
}

func cloneIssues(issues []civic.Issue) []civic.Issue {
	copied := make([]civic.Issue, len(issues))
	for i, issue := range issues {
		copied[i] = issue.Clone()
	}
	return copied
}

// Issues returns the open and in-progress seed issues.
func Issues() []civic.Issue {
	return cloneIssues(seedIssues)
}

// ResolvedIssues returns the resolved seed issues.
func ResolvedIssues() []civic.Issue {
	return cloneIssues(seedResolvedIssues)
}

// AllIssues returns the full seed set, open issues first.
func AllIssues() []civic.Issue {
	all := cloneIssues(seedIssues)
	return append(all, cloneIssues(seedResolvedIssues)...)
}

// Comments returns the seed comment threads.
func Comments() []civic.Comment {
	return append([]civic.Comment(nil), seedComments...)
}

// CommentsForIssue returns seed comments attached to one issue.
func CommentsForIssue(issueID string) []civic.Comment {
	matched := make([]civic.Comment, 0, len(seedComments))
	for _, comment := range seedComments {
		if comment.IssueID == issueID {
			matched = append(matched, comment)
		}
	}
	return matched
}

// EmergencyContacts returns the district service contacts.
func EmergencyContacts() []civic.EmergencyContact {
	return append([]civic.EmergencyContact(nil), seedContacts...)
}

// NationalHotlines returns the short-dial hotline numbers.
func NationalHotlines() []civic.NationalHotline {
	return append([]civic.NationalHotline(nil), seedHotlines...)
}
