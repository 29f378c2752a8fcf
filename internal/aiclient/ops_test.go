package aiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academiapulse/internal/apperrors"
	"academiapulse/internal/roster"
)

var (
	opsStudents = []roster.Student{
		{ID: "s1", Name: "Alice Johnson", RollNumber: "CSE001"},
		{ID: "s2", Name: "Bob Williams", RollNumber: "CSE002"},
		{ID: "s3", Name: "Charlie Brown", RollNumber: "CSE003"},
	}
	opsCourse = roster.Course{ID: "c1", Name: "Data Structures", Code: "CS201"}
)

func TestParseBulkAddEmptyText(t *testing.T) {
	c := New("http://unused", "", true)
	_, err := c.ParseBulkAdd(context.Background(), "   ")
	assert.True(t, apperrors.IsValidation(err))
}

func TestParseBulkAdd(t *testing.T) {
	c := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.GenerationConfig)
		assert.Equal(t, "application/json", req.GenerationConfig.ResponseMIMEType)

		reply := `{"students": [{"name": "Dora", "rollNumber": "CSE004"}], "courses": [{"name": "Networks", "code": "CS401"}]}`
		w.Write([]byte(textResponse(reply)))
	})

	result, err := c.ParseBulkAdd(context.Background(), "add student Dora CSE004 and subject Networks CS401")
	require.NoError(t, err)
	require.Len(t, result.Students, 1)
	require.Len(t, result.Courses, 1)
	assert.Equal(t, "Dora", result.Students[0].Name)
	assert.Equal(t, "CS401", result.Courses[0].Code)
}

func TestParseBulkAddRejectsIncompleteEntries(t *testing.T) {
	c := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(textResponse(`{"students": [{"name": "", "rollNumber": "CSE004"}]}`)))
	})

	_, err := c.ParseBulkAdd(context.Background(), "add a student")
	require.Error(t, err)
	assert.True(t, apperrors.IsService(err))
	assert.ErrorIs(t, err, apperrors.ErrMalformedReply)
}

func TestParseBulkAddNonJSONReply(t *testing.T) {
	c := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(textResponse("sorry, I cannot do that")))
	})

	_, err := c.ParseBulkAdd(context.Background(), "add things")
	assert.True(t, apperrors.IsService(err))
}

func TestGenerateGroupsValidation(t *testing.T) {
	c := New("http://unused", "", true)

	_, err := c.GenerateGroups(context.Background(), opsStudents, 0)
	assert.True(t, apperrors.IsValidation(err))

	_, err = c.GenerateGroups(context.Background(), opsStudents, 4)
	assert.True(t, apperrors.IsValidation(err))
}

func TestGenerateGroupsSkipRoundRobin(t *testing.T) {
	c := New("http://unused", "", true)

	groups, err := c.GenerateGroups(context.Background(), opsStudents, 2)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Len(t, groups[0], 2)
	assert.Len(t, groups[1], 1)
}

func TestGenerateGroups(t *testing.T) {
	c := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		reply := `[[{"name": "Alice Johnson", "rollNumber": "CSE001"}], [{"name": "Bob Williams", "rollNumber": "CSE002"}, {"name": "Charlie Brown", "rollNumber": "CSE003"}]]`
		w.Write([]byte(textResponse(reply)))
	})

	groups, err := c.GenerateGroups(context.Background(), opsStudents, 2)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Alice Johnson", groups[0][0].Name)
}

func TestDraftFollowUpEmailNoAbsentees(t *testing.T) {
	c := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected when nobody is absent")
	})

	record := roster.Record{"s1": roster.Present, "s2": roster.Present}
	text, err := c.DraftFollowUpEmail(context.Background(), opsStudents, record, opsCourse, "2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, NoAbsenteesMessage, text)
}

func TestDraftFollowUpEmail(t *testing.T) {
	c := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		prompt := req.Contents[0].Parts[0].Text
		assert.Contains(t, prompt, "Bob Williams")
		assert.NotContains(t, prompt, "Alice Johnson")
		w.Write([]byte(textResponse("Dear students, ...")))
	})

	record := roster.Record{"s1": roster.Present, "s2": roster.Absent}
	text, err := c.DraftFollowUpEmail(context.Background(), opsStudents, record, opsCourse, "2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, "Dear students, ...", text)
}

func TestDraftSummaryReportBadDate(t *testing.T) {
	c := New("http://unused", "", true)
	_, err := c.DraftSummaryReport(context.Background(), opsStudents, roster.Data{}, opsCourse, "15-01-2024")
	assert.True(t, apperrors.IsValidation(err))
}

func TestDraftSummaryReportPromptCarriesTrend(t *testing.T) {
	data := roster.Data{
		"2024-01-15": {"c1": roster.Record{"s1": roster.Present, "s2": roster.Absent}},
		"2024-01-14": {"c1": roster.Record{"s1": roster.Present, "s2": roster.Present, "s3": roster.Present}},
	}

	c := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		prompt := req.Contents[0].Parts[0].Text
		assert.Contains(t, prompt, `"Data Structures (CS201)"`)
		assert.Contains(t, prompt, "- 2024-01-14: 3/3 present")
		assert.Contains(t, prompt, "- 2024-01-15: 1/3 present")
		assert.Contains(t, prompt, "- 2024-01-09: 0/3 present")
		w.Write([]byte(textResponse("## Report")))
	})

	report, err := c.DraftSummaryReport(context.Background(), opsStudents, data, opsCourse, "2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, "## Report", report)
}

func TestChatSkipMode(t *testing.T) {
	c := New("http://unused", "", true)

	var streamed strings.Builder
	reply, err := c.Chat(context.Background(), "system", nil, func(s string) { streamed.WriteString(s) })
	require.NoError(t, err)
	assert.Equal(t, reply, streamed.String())
}

func TestAssistantPreamble(t *testing.T) {
	record := roster.Record{"s1": roster.Present, "s2": roster.Absent}
	preamble := AssistantPreamble(opsStudents, record, opsCourse, "2024-01-15")

	assert.Contains(t, preamble, "Course: Data Structures (CS201)")
	assert.Contains(t, preamble, "Date: 2024-01-15")
	assert.Contains(t, preamble, "Present Students (1):\n- Alice Johnson (CSE001)")
	assert.Contains(t, preamble, "Absent Students (1):\n- Bob Williams (CSE002)")
	assert.Contains(t, preamble, "Unmarked Students (1):\n- Charlie Brown (CSE003)")
}
