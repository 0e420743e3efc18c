package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueCategory enum
type IssueCategory string

const (
	Roads    IssueCategory = "Roads"
	Waste    IssueCategory = "Waste"
	Lighting IssueCategory = "Lighting"
	Water    IssueCategory = "Water"
	Other    IssueCategory = "Other"
)

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c IssueCategory) bool {
	switch c {
	case Roads, Waste, Lighting, Water, Other:
		return true
	}
	return false
}

// IssueStatus enum
type IssueStatus string

const (
	Pending    IssueStatus = "pending"
	InProgress IssueStatus = "in-progress"
	Working    IssueStatus = "working"
	Resolved   IssueStatus = "resolved"
	Closed     IssueStatus = "closed"
	Rejected   IssueStatus = "rejected"
)

// IssuePriority enum
type IssuePriority string

const (
	PriorityLow    IssuePriority = "low"
	PriorityMedium IssuePriority = "medium"
	PriorityHigh   IssuePriority = "high"
)

// TimelineEntry is an immutable audit trail record. Entries are only
// ever appended, never edited or removed.
type TimelineEntry struct {
	Status    IssueStatus `bson:"status" json:"status"`
	Message   string      `bson:"message" json:"message"`
	Actor     string      `bson:"actor" json:"actor"`
	UpdatedAt time.Time   `bson:"updatedAt" json:"updatedAt"`
}

// AssignedStaff is the staff member responsible for resolving an issue.
type AssignedStaff struct {
	ID    primitive.ObjectID `bson:"id" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
}

// Issue represents a civic infrastructure problem reported by a citizen.
// Upvotes and UpvotedBy are updated together in a single write so the
// count always equals the set cardinality.
type Issue struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	Description   string             `bson:"description" json:"description"`
	Category      IssueCategory      `bson:"category" json:"category"`
	Location      string             `bson:"location" json:"location"`
	ImageURL      string             `bson:"imageUrl" json:"imageUrl"`
	Status        IssueStatus        `bson:"status" json:"status"`
	Priority      IssuePriority      `bson:"priority" json:"priority"`
	IsBoosted     bool               `bson:"isBoosted" json:"isBoosted"`
	Upvotes       int64              `bson:"upvotes" json:"upvotes"`
	UpvotedBy     []string           `bson:"upvotedBy" json:"upvotedBy"`
	ReporterEmail string             `bson:"reporterEmail" json:"reporterEmail"`
	ReporterName  string             `bson:"reporterName" json:"reporterName"`
	AssignedStaff *AssignedStaff     `bson:"assignedStaff,omitempty" json:"assignedStaff,omitempty"`
	Timeline      []TimelineEntry    `bson:"timeline" json:"timeline"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// HasUpvoted reports whether the given principal is in the upvoter set.
func (i *Issue) HasUpvoted(email string) bool {
	for _, e := range i.UpvotedBy {
		if e == email {
			return true
		}
	}
	return false
}
