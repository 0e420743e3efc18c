package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidCategory(t *testing.T) {
	for _, c := range []IssueCategory{Roads, Waste, Lighting, Water, Other} {
		assert.True(t, ValidCategory(c), "%s should be a known category", c)
	}
	assert.False(t, ValidCategory("Bridges"))
	assert.False(t, ValidCategory(""))
}

func TestHasUpvoted(t *testing.T) {
	issue := Issue{UpvotedBy: []string{"a@example.com", "b@example.com"}}
	assert.True(t, issue.HasUpvoted("a@example.com"))
	assert.False(t, issue.HasUpvoted("c@example.com"))

	empty := Issue{}
	assert.False(t, empty.HasUpvoted("a@example.com"))
}
