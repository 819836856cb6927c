package validate

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextNormalizes(t *testing.T) {
	got, err := Text("  Build login page  ", Constraints{Required: true, MinLength: 3, MaxLength: 200})
	require.NoError(t, err)
	assert.Equal(t, "Build login page", got)
}

func TestTextOptionalEmpty(t *testing.T) {
	got, err := Text("   ", Constraints{MinLength: 3})
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestTextFailures(t *testing.T) {
	tests := []struct {
		name  string
		input string
		c     Constraints
		want  string
	}{
		{"required", "", Constraints{Label: "Task title", Required: true}, "Task title is required"},
		{"required without label", " ", Constraints{Required: true}, "text is required"},
		{"too short", "ab", Constraints{Label: "Task title", MinLength: 3}, "Task title must be at least 3 characters"},
		{"too long", "abcdef", Constraints{Label: "Name", MaxLength: 5}, "Name must not exceed 5 characters"},
		{"pattern", "a b", Constraints{Label: "Assignee", Pattern: AssigneePattern}, "Assignee format is invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Text(tt.input, tt.c)
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())

			var verr *Error
			require.True(t, errors.As(err, &verr))
		})
	}
}

func TestCheckOrderShortCircuits(t *testing.T) {
	// Too short and pattern-invalid: the length failure wins.
	_, err := Text("a!", Constraints{Label: "Assignee", MinLength: 3, Pattern: AssigneePattern})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 3 characters")
}

func TestNumber(t *testing.T) {
	c := Constraints{Label: "Estimated hours", Min: Bound(0), Max: Bound(100)}

	got, err := Number("12.5", c)
	require.NoError(t, err)
	assert.Equal(t, 12.5, got)

	got, err = Number("", c)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)

	_, err = Number("lots", c)
	assert.EqualError(t, err, "Estimated hours must be a number")

	for _, in := range []string{"NaN", "nan", "Inf", "-Inf", "+inf"} {
		_, err = Number(in, Constraints{Label: "Estimated hours"})
		assert.EqualError(t, err, "Estimated hours must be a number", in)
	}

	_, err = Number("-1", c)
	assert.EqualError(t, err, "Estimated hours must be at least 0")

	_, err = Number("100.5", c)
	assert.EqualError(t, err, "Estimated hours must not exceed 100")
}

func TestDate(t *testing.T) {
	c := Constraints{
		Label:   "Due date",
		MinDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		MaxDate: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	}

	got, err := Date("2024-06-15", c)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), got)

	_, err = Date("next week", c)
	assert.EqualError(t, err, "Due date must be a valid date (YYYY-MM-DD)")

	_, err = Date("2023-12-31", c)
	assert.EqualError(t, err, "Due date cannot be before 2024-01-01")

	_, err = Date("2025-01-01", c)
	assert.EqualError(t, err, "Due date cannot be after 2024-12-31")
}

func TestList(t *testing.T) {
	c := Constraints{Label: "Tech stack", MaxItems: 3, MaxLength: 10}

	got, err := List([]string{" go ", "", "postgres"}, c)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "postgres"}, got)

	_, err = List([]string{"a", "b", "c", "d"}, c)
	assert.EqualError(t, err, "Tech stack allows at most 3 items")

	_, err = List([]string{"kubernetes-operator"}, c)
	assert.EqualError(t, err, "Tech stack must not exceed 10 characters")
}

func TestValidateDispatch(t *testing.T) {
	v, err := Validate("go, htmx", KindArray, Constraints{})
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "htmx"}, v)

	v, err = Validate("abc1234\ndef5678", KindArray, Constraints{Pattern: CommitPattern, Separator: "\n"})
	require.NoError(t, err)
	assert.Equal(t, []string{"abc1234", "def5678"}, v)

	v, err = Validate(42.0, KindNumber, Constraints{Max: Bound(100)})
	require.NoError(t, err)
	assert.Equal(t, 42.0, v)

	v, err = Validate(nil, KindText, Constraints{})
	require.NoError(t, err)
	assert.Equal(t, "", v)
}

func TestValidateFormCollectsAll(t *testing.T) {
	errs := ValidateForm(map[string]any{
		"name":        "ab",
		"description": "fine",
		"repository":  "not a url",
		"unknown":     "ignored",
	}, ProjectSchema)

	require.Len(t, errs, 2)
	assert.Equal(t, "Project name must be at least 3 characters", errs[0].Error())
	assert.Equal(t, "Repository format is invalid", errs[1].Error())

	var verr *Error
	require.True(t, errors.As(errs[1], &verr))
	assert.Equal(t, "repository", verr.Field)
}

func TestValidateFormValid(t *testing.T) {
	errs := ValidateForm(map[string]any{
		"name":       "Website",
		"repository": "https://github.com/otavio/site",
		"techStack":  []string{"go", "htmx"},
	}, ProjectSchema)
	assert.Empty(t, errs)

	errs = ValidateForm(map[string]any{
		"text":           "Ship it",
		"estimatedHours": "8",
		"assignedTo":     "otavio_c",
		"commits":        "abc1234",
	}, TaskSchema)
	assert.Empty(t, errs)
}
