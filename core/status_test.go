package core

import (
	"testing"

	"civicfix-be/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextStatusFollowsSingleChain(t *testing.T) {
	chain := []models.IssueStatus{
		models.Pending, models.InProgress, models.Working,
		models.Resolved, models.Closed,
	}
	for i := 0; i < len(chain)-1; i++ {
		next, ok := NextStatus(chain[i])
		require.True(t, ok, "%s should have a successor", chain[i])
		assert.Equal(t, chain[i+1], next)
	}
}

func TestNextStatusTerminalStates(t *testing.T) {
	for _, status := range []models.IssueStatus{models.Closed, models.Rejected} {
		_, ok := NextStatus(status)
		assert.False(t, ok, "%s should be terminal", status)
	}
}

func TestValidateTransition(t *testing.T) {
	tests := []struct {
		name    string
		current models.IssueStatus
		target  models.IssueStatus
		wantErr error
	}{
		{"pending to in-progress", models.Pending, models.InProgress, nil},
		{"in-progress to working", models.InProgress, models.Working, nil},
		{"working to resolved", models.Working, models.Resolved, nil},
		{"resolved to closed", models.Resolved, models.Closed, nil},
		{"skip a stage", models.Pending, models.Working, ErrInvalidTransition},
		{"jump to closed", models.Pending, models.Closed, ErrInvalidTransition},
		{"revert", models.Working, models.InProgress, ErrInvalidTransition},
		{"same state", models.Working, models.Working, ErrInvalidTransition},
		{"from closed", models.Closed, models.Pending, ErrInvalidTransition},
		{"from rejected", models.Rejected, models.InProgress, ErrInvalidTransition},
		{"rejected not reachable via advance", models.Pending, models.Rejected, ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTransition(tt.current, tt.target)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestCanReject(t *testing.T) {
	assert.True(t, CanReject(models.Pending))
	for _, status := range []models.IssueStatus{
		models.InProgress, models.Working, models.Resolved,
		models.Closed, models.Rejected,
	} {
		assert.False(t, CanReject(status), "reject from %s should be refused", status)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(models.Closed))
	assert.True(t, IsTerminal(models.Rejected))
	assert.False(t, IsTerminal(models.Pending))
	assert.False(t, IsTerminal(models.Resolved))
}

// Any observable status sequence must be a prefix walk of the single
// chain; chasing NextStatus from pending must terminate at closed.
func TestChainTerminates(t *testing.T) {
	status := models.Pending
	steps := 0
	for {
		next, ok := NextStatus(status)
		if !ok {
			break
		}
		status = next
		steps++
		require.Less(t, steps, 10, "chain should be finite")
	}
	assert.Equal(t, models.Closed, status)
	assert.Equal(t, 4, steps)
}
