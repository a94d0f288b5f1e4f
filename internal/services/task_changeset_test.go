package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milad-sol/task-manager/internal/models"
)

func TestParseTaskChangesetFields(t *testing.T) {
	cs, err := ParseTaskChangeset([]byte(`{"title": "New title", "status": "done"}`))
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"title", "status"}, cs.Fields())
	require.NotNil(t, cs.Title)
	assert.Equal(t, "New title", *cs.Title)
	require.NotNil(t, cs.Status)
	assert.Equal(t, models.TaskStatusDone, *cs.Status)
	assert.Nil(t, cs.Description)
}

func TestParseTaskChangesetImmutable(t *testing.T) {
	cs, err := ParseTaskChangeset([]byte(`{"project_id": 7, "title": "x"}`))
	require.NoError(t, err)

	field, ok := cs.Immutable()
	assert.True(t, ok)
	assert.Equal(t, "project_id", field)
}

func TestParseTaskChangesetUnknownKeysIgnored(t *testing.T) {
	cs, err := ParseTaskChangeset([]byte(`{"color": "red", "status": "todo"}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"status"}, cs.Fields())
}

func TestParseTaskChangesetDueDate(t *testing.T) {
	cs, err := ParseTaskChangeset([]byte(`{"due_date": "2026-03-01"}`))
	require.NoError(t, err)
	assert.True(t, cs.DueDateSet)
	require.NotNil(t, cs.DueDate)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *cs.DueDate)

	cs, err = ParseTaskChangeset([]byte(`{"due_date": "2026-03-01T12:30:00Z"}`))
	require.NoError(t, err)
	require.NotNil(t, cs.DueDate)
	assert.Equal(t, 12, cs.DueDate.Hour())
}

func TestParseTaskChangesetDueDateNull(t *testing.T) {
	cs, err := ParseTaskChangeset([]byte(`{"due_date": null}`))
	require.NoError(t, err)
	assert.True(t, cs.DueDateSet)
	assert.Nil(t, cs.DueDate)
}

func TestParseTaskChangesetInvalid(t *testing.T) {
	_, err := ParseTaskChangeset([]byte(`not json`))
	assert.Error(t, err)

	_, err = ParseTaskChangeset([]byte(`{"due_date": "next tuesday"}`))
	assert.Error(t, err)

	_, err = ParseTaskChangeset([]byte(`{"title": 12}`))
	assert.Error(t, err)
}
