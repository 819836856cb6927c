package validate

import "regexp"

var (
	// RepositoryPattern accepts URL-shaped repository links with or without scheme.
	RepositoryPattern = regexp.MustCompile(`^(https?://)?([\w.-]+)\.([a-z.]{2,6})(/[\w.-]+)*/?$`)
	// AssigneePattern is the accepted shape of a task assignee handle.
	AssigneePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,30}$`)
	// CommitPattern matches abbreviated or full commit hashes.
	CommitPattern = regexp.MustCompile(`(?i)^[a-f0-9]{7,40}$`)
)

// ProjectSchema validates the project form.
var ProjectSchema = Schema{
	"name":        {Kind: KindText, Constraints: Constraints{Label: "Project name", Required: true, MinLength: 3, MaxLength: 50}},
	"description": {Kind: KindText, Constraints: Constraints{MaxLength: 500}},
	"repository":  {Kind: KindText, Constraints: Constraints{Pattern: RepositoryPattern}},
	"techStack":   {Kind: KindArray, Constraints: Constraints{Label: "Tech stack", MaxItems: 10, MaxLength: 20}},
}

// TaskSchema validates the task form.
var TaskSchema = Schema{
	"text":           {Kind: KindText, Constraints: Constraints{Label: "Task title", Required: true, MinLength: 3, MaxLength: 200}},
	"estimatedHours": {Kind: KindNumber, Constraints: Constraints{Label: "Estimated hours", Min: Bound(0), Max: Bound(100)}},
	"assignedTo":     {Kind: KindText, Constraints: Constraints{Label: "Assignee", Pattern: AssigneePattern}},
	"commits":        {Kind: KindArray, Constraints: Constraints{Label: "Commits", Pattern: CommitPattern, Separator: "\n"}},
	"dueDate":        {Kind: KindDate, Constraints: Constraints{Label: "Due date"}},
}
