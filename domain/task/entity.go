package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Status represents the state of a task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is one of the defined task statuses.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Task is the core domain entity: a user-owned unit of work.
// Every query and mutation is scoped by OwnerID.
type Task struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"size:1000" json:"description"`
	Status      Status     `gorm:"size:20;not null;default:pending" json:"status"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	SortRank    int64      `gorm:"not null;default:0;index" json:"sort_rank"`
	OwnerID     string     `gorm:"size:36;not null;index" json:"owner_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}

// Patch is an explicit optional-field update. A nil pointer means the field
// was absent from the request and must be left unchanged. DueDate also
// distinguishes an explicit null, which clears the stored date. Fields not
// listed here (owner, timestamps) cannot be patched at all.
type Patch struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	Status      *string      `json:"status"`
	DueDate     OptionalDate `json:"dueDate"`
}

// MarshalJSON emits only the fields that are actually present, so patch
// semantics survive re-encoding across module boundaries. A nil pointer
// must not reappear as an explicit null on the wire.
func (p Patch) MarshalJSON() ([]byte, error) {
	fields := make(map[string]any, 4)
	if p.Title != nil {
		fields["title"] = *p.Title
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	if p.Status != nil {
		fields["status"] = *p.Status
	}
	if p.DueDate.Set {
		fields["dueDate"] = p.DueDate.Value
	}
	return json.Marshal(fields)
}

// Empty reports whether the patch carries no fields at all.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil && !p.DueDate.Set
}

// OptionalDate is a JSON date that tracks presence: absent, explicit null,
// or a value in either 2006-01-02 or RFC 3339 form.
type OptionalDate struct {
	Set   bool
	Value *time.Time
}

// dateLayouts are the accepted wire formats, most specific first.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// UnmarshalJSON is only invoked when the key is present, which is what
// flips Set.
func (d *OptionalDate) UnmarshalJSON(data []byte) error {
	d.Set = true
	if bytes.Equal(data, []byte("null")) {
		d.Value = nil
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("due date must be a string or null: %w", err)
	}
	t, err := ParseDate(raw)
	if err != nil {
		return err
	}
	d.Value = &t
	return nil
}

// MarshalJSON renders the value, or null when unset or cleared.
func (d OptionalDate) MarshalJSON() ([]byte, error) {
	if d.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(d.Value)
}

// ParseDate parses a due date from its accepted wire formats.
func ParseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD or RFC 3339", raw)
}
