package task

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasker-cli/tasker/internal/clierr"
)

func validDraft() Draft {
	return Draft{
		Title:    "Write report",
		Category: CategoryWork,
		Priority: PriorityMedium,
	}
}

func TestDraftValidate_OK(t *testing.T) {
	d := validDraft()
	require.NoError(t, d.Validate())
}

func TestDraftValidate_EmptyTitle(t *testing.T) {
	d := validDraft()
	d.Title = "   "
	assertCode(t, d.Validate(), clierr.InvalidInput)
}

func TestDraftValidate_UnknownCategory(t *testing.T) {
	d := validDraft()
	d.Category = Category("Chores")
	assertCode(t, d.Validate(), clierr.InvalidCategory)
}

func TestDraftValidate_UnknownPriority(t *testing.T) {
	d := validDraft()
	d.Priority = Priority(9)
	assertCode(t, d.Validate(), clierr.InvalidPriority)
}

func TestDraftValidate_RecurringNeedsPattern(t *testing.T) {
	d := validDraft()
	d.Recurring = true
	assertCode(t, d.Validate(), clierr.InvalidPattern)

	d.Pattern = Weekly
	require.NoError(t, d.Validate())
}

func TestDraftValidate_PatternWithoutRecurring(t *testing.T) {
	d := validDraft()
	d.Pattern = Monthly
	assertCode(t, d.Validate(), clierr.InvalidPattern)
}

func TestDraftValidate_MediaRequiresMediaCategory(t *testing.T) {
	d := validDraft()
	d.Media = &Media{Type: "Movie"}
	assertCode(t, d.Validate(), clierr.InvalidInput)

	d.Category = CategoryMedia
	require.NoError(t, d.Validate())
}

func TestDraftValidate_RatingBounds(t *testing.T) {
	d := validDraft()
	d.Category = CategoryMedia
	d.Media = &Media{Type: "Book", Rating: 6}
	assertCode(t, d.Validate(), clierr.InvalidRating)

	d.Media.Rating = 5
	require.NoError(t, d.Validate())
}

func TestParsePriority(t *testing.T) {
	p, ok := ParsePriority("high")
	require.True(t, ok)
	assert.Equal(t, PriorityHigh, p)

	_, ok = ParsePriority("urgent")
	assert.False(t, ok)
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var cliErr *clierr.Error
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, code, cliErr.Code)
}
