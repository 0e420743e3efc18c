package core

import (
	"testing"

	"civicfix-be/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCanCreateIssue(t *testing.T) {
	tests := []struct {
		name      string
		tier      models.Tier
		quotaUsed int64
		wantErr   error
	}{
		{"free with no submissions", models.TierFree, 0, nil},
		{"free below limit", models.TierFree, 2, nil},
		{"free at limit", models.TierFree, 3, ErrQuotaExceeded},
		{"free above limit", models.TierFree, 7, ErrQuotaExceeded},
		{"premium at limit", models.TierPremium, 3, nil},
		{"premium far above limit", models.TierPremium, 100, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &models.User{
				Role:      models.RoleCitizen,
				Tier:      tt.tier,
				Status:    models.AccountActive,
				QuotaUsed: tt.quotaUsed,
			}
			err := CanCreateIssue(user)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

// Scenario: a free citizen submits up to the cap, is refused, then
// upgrades to premium and may submit again.
func TestQuotaLiftsAfterUpgrade(t *testing.T) {
	user := &models.User{
		Role:   models.RoleCitizen,
		Tier:   models.TierFree,
		Status: models.AccountActive,
	}

	for i := 0; i < FreeIssueLimit; i++ {
		assert.NoError(t, CanCreateIssue(user))
		user.QuotaUsed++
	}
	assert.ErrorIs(t, CanCreateIssue(user), ErrQuotaExceeded)

	user.Tier = models.TierPremium
	assert.NoError(t, CanCreateIssue(user))
}

// The reservation filter admits premium payers unconditionally and free
// payers only below the cap, so concurrent creates serialize on the
// counter instead of the stale in-memory record.
func TestQuotaFilter(t *testing.T) {
	id := primitive.NewObjectID()

	assert.Equal(t, bson.M{
		"_id": id,
		"$or": []bson.M{
			{"tier": models.TierPremium},
			{"quotaUsed": bson.M{"$lt": FreeIssueLimit}},
		},
	}, QuotaFilter(id))
}
