package core

import (
	"testing"

	"civicfix-be/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func activeUser(role models.Role, email string) *models.User {
	return &models.User{
		ID:     primitive.NewObjectID(),
		Name:   "Test User",
		Email:  email,
		Role:   role,
		Status: models.AccountActive,
	}
}

func pendingIssue(reporter string) *models.Issue {
	return &models.Issue{
		ID:            primitive.NewObjectID(),
		Title:         "Broken streetlight",
		Status:        models.Pending,
		Priority:      models.PriorityLow,
		ReporterEmail: reporter,
		UpvotedBy:     []string{},
	}
}

func TestValidateDraft(t *testing.T) {
	valid := IssueDraft{
		Title:       "Pothole on Main Road",
		Description: "Deep pothole near the bus stop.",
		Category:    models.Roads,
		Location:    "Main Road, Ward 4",
		ImageURL:    "https://img.host/abc.jpg",
	}

	t.Run("valid draft", func(t *testing.T) {
		d := valid
		assert.NoError(t, ValidateDraft(&d))
	})

	tests := []struct {
		name   string
		mutate func(*IssueDraft)
	}{
		{"missing title", func(d *IssueDraft) { d.Title = "  " }},
		{"missing description", func(d *IssueDraft) { d.Description = "" }},
		{"missing location", func(d *IssueDraft) { d.Location = "" }},
		{"missing image", func(d *IssueDraft) { d.ImageURL = "" }},
		{"unknown category", func(d *IssueDraft) { d.Category = "Potholes" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid
			tt.mutate(&d)
			assert.ErrorIs(t, ValidateDraft(&d), ErrValidation)
		})
	}
}

func TestValidateUpvote(t *testing.T) {
	issue := pendingIssue("reporter@example.com")

	t.Run("other citizen may upvote", func(t *testing.T) {
		err := ValidateUpvote(issue, activeUser(models.RoleCitizen, "voter@example.com"))
		assert.NoError(t, err)
	})

	t.Run("reporter cannot upvote own issue", func(t *testing.T) {
		err := ValidateUpvote(issue, activeUser(models.RoleCitizen, "reporter@example.com"))
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("duplicate upvote is a conflict", func(t *testing.T) {
		voted := pendingIssue("reporter@example.com")
		voted.UpvotedBy = []string{"voter@example.com"}
		voted.Upvotes = 1
		err := ValidateUpvote(voted, activeUser(models.RoleCitizen, "voter@example.com"))
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("blocked account refused", func(t *testing.T) {
		voter := activeUser(models.RoleCitizen, "voter@example.com")
		voter.Status = models.AccountBlocked
		err := ValidateUpvote(issue, voter)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestValidateBoost(t *testing.T) {
	t.Run("reporter may boost unboosted issue", func(t *testing.T) {
		issue := pendingIssue("reporter@example.com")
		err := ValidateBoost(issue, activeUser(models.RoleCitizen, "reporter@example.com"))
		assert.NoError(t, err)
	})

	t.Run("non-reporter refused", func(t *testing.T) {
		issue := pendingIssue("reporter@example.com")
		err := ValidateBoost(issue, activeUser(models.RoleCitizen, "other@example.com"))
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("second boost is a conflict", func(t *testing.T) {
		issue := pendingIssue("reporter@example.com")
		issue.IsBoosted = true
		issue.Priority = models.PriorityHigh
		err := ValidateBoost(issue, activeUser(models.RoleCitizen, "reporter@example.com"))
		assert.ErrorIs(t, err, ErrConflict)
		assert.True(t, issue.IsBoosted, "boost flag is one-way")
	})
}

func TestValidatePayment(t *testing.T) {
	issueID := primitive.NewObjectID()

	tests := []struct {
		name    string
		purpose models.PaymentPurpose
		amount  int64
		issueID *primitive.ObjectID
		wantErr error
	}{
		{"valid subscription", models.PurposeSubscription, SubscriptionPrice, nil, nil},
		{"valid boost", models.PurposeBoost, BoostPrice, &issueID, nil},
		{"subscription wrong amount", models.PurposeSubscription, 1, nil, ErrValidation},
		{"boost wrong amount", models.PurposeBoost, 9999, &issueID, ErrValidation},
		{"boost without issue", models.PurposeBoost, BoostPrice, nil, ErrValidation},
		{"unknown purpose", "donation", 50, nil, ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePayment(tt.purpose, tt.amount, tt.issueID)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateAssignment(t *testing.T) {
	admin := activeUser(models.RoleAdmin, "admin@example.com")
	staff := activeUser(models.RoleStaff, "staff@example.com")

	t.Run("admin assigns staff to pending issue", func(t *testing.T) {
		issue := pendingIssue("reporter@example.com")
		assert.NoError(t, ValidateAssignment(issue, staff, admin))
	})

	t.Run("non-admin refused", func(t *testing.T) {
		issue := pendingIssue("reporter@example.com")
		err := ValidateAssignment(issue, staff, activeUser(models.RoleCitizen, "c@example.com"))
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("assignee must be staff", func(t *testing.T) {
		issue := pendingIssue("reporter@example.com")
		err := ValidateAssignment(issue, activeUser(models.RoleCitizen, "c@example.com"), admin)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("single assignment only", func(t *testing.T) {
		issue := pendingIssue("reporter@example.com")
		issue.AssignedStaff = &models.AssignedStaff{
			ID: staff.ID, Name: staff.Name, Email: staff.Email,
		}
		err := ValidateAssignment(issue, staff, admin)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("assignment only while pending", func(t *testing.T) {
		issue := pendingIssue("reporter@example.com")
		issue.Status = models.InProgress
		err := ValidateAssignment(issue, staff, admin)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestValidateAdvance(t *testing.T) {
	staff := activeUser(models.RoleStaff, "staff@example.com")
	admin := activeUser(models.RoleAdmin, "admin@example.com")

	assigned := func(status models.IssueStatus) *models.Issue {
		issue := pendingIssue("reporter@example.com")
		issue.Status = status
		issue.AssignedStaff = &models.AssignedStaff{
			ID: staff.ID, Name: staff.Name, Email: staff.Email,
		}
		return issue
	}

	t.Run("assigned staff advances one stage", func(t *testing.T) {
		err := ValidateAdvance(assigned(models.Pending), models.InProgress, staff)
		assert.NoError(t, err)
	})

	t.Run("admin override allowed", func(t *testing.T) {
		err := ValidateAdvance(assigned(models.Working), models.Resolved, admin)
		assert.NoError(t, err)
	})

	t.Run("unassigned staff refused", func(t *testing.T) {
		other := activeUser(models.RoleStaff, "other-staff@example.com")
		err := ValidateAdvance(assigned(models.Pending), models.InProgress, other)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("citizen refused", func(t *testing.T) {
		citizen := activeUser(models.RoleCitizen, "c@example.com")
		err := ValidateAdvance(assigned(models.Pending), models.InProgress, citizen)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("stage skipping refused", func(t *testing.T) {
		err := ValidateAdvance(assigned(models.Pending), models.Resolved, staff)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("no advance from terminal state", func(t *testing.T) {
		err := ValidateAdvance(assigned(models.Closed), models.Pending, staff)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestValidateDelete(t *testing.T) {
	reporter := activeUser(models.RoleCitizen, "reporter@example.com")
	admin := activeUser(models.RoleAdmin, "admin@example.com")

	t.Run("owner deletes pending issue", func(t *testing.T) {
		assert.NoError(t, ValidateDelete(pendingIssue(reporter.Email), reporter))
	})

	t.Run("admin deletes at any stage", func(t *testing.T) {
		issue := pendingIssue(reporter.Email)
		issue.Status = models.Resolved
		assert.NoError(t, ValidateDelete(issue, admin))
	})

	t.Run("non-owner refused", func(t *testing.T) {
		err := ValidateDelete(pendingIssue("someone@example.com"), reporter)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("owner refused after pending", func(t *testing.T) {
		issue := pendingIssue(reporter.Email)
		issue.Status = models.InProgress
		err := ValidateDelete(issue, reporter)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("blocked owner refused", func(t *testing.T) {
		blocked := activeUser(models.RoleCitizen, reporter.Email)
		blocked.Status = models.AccountBlocked
		err := ValidateDelete(pendingIssue(reporter.Email), blocked)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("blocked admin refused", func(t *testing.T) {
		blockedAdmin := activeUser(models.RoleAdmin, "admin@example.com")
		blockedAdmin.Status = models.AccountBlocked
		err := ValidateDelete(pendingIssue(reporter.Email), blockedAdmin)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestTierAfterPayment(t *testing.T) {
	assert.Equal(t, models.TierPremium, TierAfterPayment(models.TierFree, models.PurposeSubscription))
	assert.Equal(t, models.TierPremium, TierAfterPayment(models.TierPremium, models.PurposeSubscription),
		"retried subscription confirmation stays premium")
	assert.Equal(t, models.TierFree, TierAfterPayment(models.TierFree, models.PurposeBoost))
	assert.Equal(t, models.TierPremium, TierAfterPayment(models.TierPremium, models.PurposeBoost))
}

func TestResolveUpvoteMiss(t *testing.T) {
	t.Run("vanished issue propagates not found", func(t *testing.T) {
		getErr := ErrNotFound
		err := resolveUpvoteMiss(nil, getErr, "voter@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("racing duplicate is a conflict", func(t *testing.T) {
		issue := pendingIssue("reporter@example.com")
		issue.UpvotedBy = []string{"voter@example.com"}
		issue.Upvotes = 1
		err := resolveUpvoteMiss(issue, nil, "voter@example.com")
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("lost concurrent write is a conflict", func(t *testing.T) {
		err := resolveUpvoteMiss(pendingIssue("reporter@example.com"), nil, "voter@example.com")
		assert.ErrorIs(t, err, ErrConflict)
	})
}

func TestValidateOwnerEdit(t *testing.T) {
	reporter := activeUser(models.RoleCitizen, "reporter@example.com")

	t.Run("owner edits pending issue", func(t *testing.T) {
		assert.NoError(t, ValidateOwnerEdit(pendingIssue(reporter.Email), reporter))
	})

	t.Run("non-owner refused", func(t *testing.T) {
		err := ValidateOwnerEdit(pendingIssue("someone@example.com"), reporter)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("edit forbidden after pending", func(t *testing.T) {
		issue := pendingIssue(reporter.Email)
		issue.Status = models.InProgress
		err := ValidateOwnerEdit(issue, reporter)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}
