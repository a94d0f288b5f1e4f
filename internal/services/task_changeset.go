package services

import (
	"encoding/json"
	"time"

	"github.com/milad-sol/task-manager/internal/apperrors"
	"github.com/milad-sol/task-manager/internal/models"
)

// TaskChangeset is a partial task update. It records which fields the
// request actually carried, because the edit rule depends on the exact
// change set: an assignee may only submit {status} and nothing else.
type TaskChangeset struct {
	Title       *string
	Description *string
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	DueDate     *time.Time
	// DueDateSet distinguishes "due_date": null (clear) from an absent key.
	DueDateSet bool

	fields    []string
	immutable string
}

// immutableTaskFields cannot be changed after creation.
var immutableTaskFields = map[string]bool{
	"project_id":    true,
	"created_by_id": true,
}

// ParseTaskChangeset decodes a JSON patch body into a changeset.
func ParseTaskChangeset(data []byte) (*TaskChangeset, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, apperrors.Validation("Invalid request body")
	}

	cs := &TaskChangeset{}
	for key, value := range raw {
		if immutableTaskFields[key] {
			cs.immutable = key
			continue
		}

		var err error
		switch key {
		case "title":
			err = json.Unmarshal(value, &cs.Title)
		case "description":
			err = json.Unmarshal(value, &cs.Description)
		case "status":
			err = json.Unmarshal(value, &cs.Status)
		case "priority":
			err = json.Unmarshal(value, &cs.Priority)
		case "due_date":
			cs.DueDate, err = parseDueDate(value)
			cs.DueDateSet = true
		default:
			// Unknown keys are ignored, the way the input structs of the
			// other endpoints ignore them.
			continue
		}
		if err != nil {
			return nil, apperrors.Validation("Invalid value for field " + key)
		}
		cs.fields = append(cs.fields, key)
	}

	return cs, nil
}

// Fields lists the mutable fields present in the change set.
func (c *TaskChangeset) Fields() []string {
	return c.fields
}

// Immutable reports the first immutable field the request tried to change.
func (c *TaskChangeset) Immutable() (string, bool) {
	return c.immutable, c.immutable != ""
}

// parseDueDate accepts RFC 3339 timestamps, bare dates, or null.
func parseDueDate(value json.RawMessage) (*time.Time, error) {
	var s *string
	if err := json.Unmarshal(value, &s); err != nil {
		return nil, err
	}
	if s == nil {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, *s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
