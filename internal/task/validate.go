package task

import (
	"strings"

	"github.com/tasker-cli/tasker/internal/clierr"
)

// ratings are 1-5 stars.
const (
	MinRating = 1
	MaxRating = 5
)

// ValidateCategory checks that a category is one of the fixed set.
func ValidateCategory(c Category) error {
	for _, known := range Categories {
		if c == known {
			return nil
		}
	}
	return clierr.Newf(clierr.InvalidCategory, "invalid category %q", string(c)).
		WithDetails(map[string]any{
			"category": string(c),
			"allowed":  categoryNames(),
		})
}

// ValidatePriority checks that a priority is a recognized level.
func ValidatePriority(p Priority) error {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return nil
	}
	return clierr.Newf(clierr.InvalidPriority, "invalid priority %d", int(p)).
		WithDetails(map[string]any{
			"priority": int(p),
			"allowed":  []string{"high", "medium", "low"},
		})
}

// ValidatePattern checks that a recurrence pattern is recognized.
func ValidatePattern(p Pattern) error {
	for _, known := range Patterns {
		if p == known {
			return nil
		}
	}
	return clierr.Newf(clierr.InvalidPattern, "invalid recurrence pattern %q", string(p)).
		WithDetails(map[string]any{
			"pattern": string(p),
			"allowed": patternNames(),
		})
}

// ValidateDraft checks a new-task draft for structural errors.
func (d *Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return clierr.New(clierr.InvalidInput, "title is required")
	}
	if err := ValidateCategory(d.Category); err != nil {
		return err
	}
	if err := ValidatePriority(d.Priority); err != nil {
		return err
	}
	if d.Recurring {
		if err := ValidatePattern(d.Pattern); err != nil {
			return err
		}
	} else if d.Pattern != "" {
		return clierr.New(clierr.InvalidPattern,
			"recurrence pattern set on a non-recurring task")
	}
	if d.Media != nil {
		if d.Category != CategoryMedia {
			return clierr.Newf(clierr.InvalidInput,
				"media metadata requires the %s category", CategoryMedia)
		}
		if d.Media.Rating != 0 && (d.Media.Rating < MinRating || d.Media.Rating > MaxRating) {
			return clierr.Newf(clierr.InvalidRating,
				"rating must be between %d and %d", MinRating, MaxRating).
				WithDetails(map[string]any{"rating": d.Media.Rating})
		}
	}
	return nil
}

// ValidateTaskID returns a structured error for unparseable task ID input.
func ValidateTaskID(input string) *clierr.Error {
	return clierr.Newf(clierr.InvalidTaskID, "invalid task ID %q", input).
		WithDetails(map[string]any{"input": input})
}

// ValidateDate returns a structured error for invalid date input.
func ValidateDate(field, input string, err error) *clierr.Error {
	return clierr.Newf(clierr.InvalidDate, "invalid %s date: %v", field, err).
		WithDetails(map[string]any{
			"field": field,
			"input": input,
		})
}

func categoryNames() []string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return names
}

func patternNames() []string {
	names := make([]string, len(Patterns))
	for i, p := range Patterns {
		names[i] = string(p)
	}
	return names
}
