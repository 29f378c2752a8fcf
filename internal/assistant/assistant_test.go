package assistant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academiapulse/internal/aiclient"
	"academiapulse/internal/roster"
)

var (
	chatStudents = []roster.Student{
		{ID: "s1", Name: "Alice Johnson", RollNumber: "CSE001"},
		{ID: "s2", Name: "Bob Williams", RollNumber: "CSE002"},
	}
	chatCourse = roster.Course{ID: "c1", Name: "Data Structures", Code: "CS201"}
)

func newTestAssistant() (*Service, *MemoryStore) {
	store := NewMemoryStore()
	// Skip mode returns canned replies without network access.
	return New(aiclient.New("http://unused", "", true), store), store
}

func TestSendGrowsTranscript(t *testing.T) {
	svc, _ := newTestAssistant()
	ctx := context.Background()
	record := roster.Record{"s1": roster.Present}

	reply, transcript, err := svc.Send(ctx, chatStudents, record, chatCourse, "2024-01-15", "who is absent?", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, reply)
	require.Len(t, transcript, 2)
	assert.Equal(t, "user", transcript[0].Role)
	assert.Equal(t, "who is absent?", transcript[0].Text)
	assert.Equal(t, "model", transcript[1].Role)

	_, transcript, err = svc.Send(ctx, chatStudents, record, chatCourse, "2024-01-15", "and present?", nil)
	require.NoError(t, err)
	assert.Len(t, transcript, 4)
}

func TestSendResetsOnSnapshotChange(t *testing.T) {
	svc, _ := newTestAssistant()
	ctx := context.Background()

	record := roster.Record{"s1": roster.Present}
	_, transcript, err := svc.Send(ctx, chatStudents, record, chatCourse, "2024-01-15", "hello", nil)
	require.NoError(t, err)
	require.Len(t, transcript, 2)

	// Marking another student changes the fingerprint and drops history.
	changed := roster.Record{"s1": roster.Present, "s2": roster.Absent}
	_, transcript, err = svc.Send(ctx, chatStudents, changed, chatCourse, "2024-01-15", "again", nil)
	require.NoError(t, err)
	assert.Len(t, transcript, 2)
	assert.Equal(t, "again", transcript[0].Text)
}

func TestTranscriptsAreScopedByCourseAndDate(t *testing.T) {
	svc, _ := newTestAssistant()
	ctx := context.Background()
	record := roster.Record{}

	_, _, err := svc.Send(ctx, chatStudents, record, chatCourse, "2024-01-15", "first", nil)
	require.NoError(t, err)

	other := roster.Course{ID: "c2", Name: "Calculus III", Code: "MA201"}
	_, transcript, err := svc.Send(ctx, chatStudents, record, other, "2024-01-15", "second", nil)
	require.NoError(t, err)
	assert.Len(t, transcript, 2)

	_, transcript, err = svc.Send(ctx, chatStudents, record, chatCourse, "2024-01-16", "third", nil)
	require.NoError(t, err)
	assert.Len(t, transcript, 2)
}

func TestReset(t *testing.T) {
	svc, store := newTestAssistant()
	ctx := context.Background()
	record := roster.Record{}

	_, _, err := svc.Send(ctx, chatStudents, record, chatCourse, "2024-01-15", "hello", nil)
	require.NoError(t, err)

	_, found, err := store.Load(ctx, sessionKey("c1", "2024-01-15"))
	require.NoError(t, err)
	require.True(t, found)

	require.NoError(t, svc.Reset(ctx, "c1", "2024-01-15"))

	_, found, err = store.Load(ctx, sessionKey("c1", "2024-01-15"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSendStreamsChunks(t *testing.T) {
	svc, _ := newTestAssistant()

	var got string
	reply, _, err := svc.Send(context.Background(), chatStudents, roster.Record{}, chatCourse,
		"2024-01-15", "hi", func(chunk string) { got += chunk })
	require.NoError(t, err)
	assert.Equal(t, reply, got)
}
