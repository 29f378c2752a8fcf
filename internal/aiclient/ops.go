package aiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"academiapulse/internal/apperrors"
	"academiapulse/internal/roster"
)

// Structured-output schemas, in the service's OpenAPI-flavored shape.
var bulkAddSchema = json.RawMessage(`{
	"type": "OBJECT",
	"properties": {
		"students": {
			"type": "ARRAY",
			"items": {
				"type": "OBJECT",
				"properties": {
					"name": {"type": "STRING"},
					"rollNumber": {"type": "STRING"}
				},
				"required": ["name", "rollNumber"]
			}
		},
		"courses": {
			"type": "ARRAY",
			"items": {
				"type": "OBJECT",
				"properties": {
					"name": {"type": "STRING"},
					"code": {"type": "STRING"}
				},
				"required": ["name", "code"]
			}
		}
	}
}`)

var groupsSchema = json.RawMessage(`{
	"type": "ARRAY",
	"items": {
		"type": "ARRAY",
		"items": {
			"type": "OBJECT",
			"properties": {
				"name": {"type": "STRING"},
				"rollNumber": {"type": "STRING"}
			},
			"required": ["name", "rollNumber"]
		}
	}
}`)

// BulkAddResult is the parsed reply of ParseBulkAdd.
type BulkAddResult struct {
	Students []roster.NewStudent `json:"students"`
	Courses  []roster.NewCourse  `json:"courses"`
}

// GroupMember is one student inside a generated group.
type GroupMember struct {
	Name       string `json:"name"`
	RollNumber string `json:"rollNumber"`
}

// NoAbsenteesMessage is returned by DraftFollowUpEmail without any service
// call when nobody is absent.
const NoAbsenteesMessage = "No students were marked absent. No email needed."

// DraftSummaryReport asks for a markdown report covering today's breakdown
// and the trailing 7-day present-count trend.
func (c *Client) DraftSummaryReport(ctx context.Context, students []roster.Student,
	data roster.Data, course roster.Course, date string) (string, error) {

	trendDates, err := roster.TrailingWeek(date)
	if err != nil {
		return "", err
	}

	if c.Skip {
		return fmt.Sprintf("## Daily Summary\n\nAttendance for %s (%s) on %s recorded.\n", course.Name, course.Code, date), nil
	}

	prompt := summaryReportPrompt(students, data, course, date, trendDates)
	text, err := c.generate(ctx, ModelPro, generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", apperrors.NewService("generating enhanced report", err)
	}
	return text, nil
}

// ParseBulkAdd extracts students and courses from free text using a
// constrained JSON reply, then validates the reply shape before returning it.
func (c *Client) ParseBulkAdd(ctx context.Context, text string) (BulkAddResult, error) {
	if strings.TrimSpace(text) == "" {
		return BulkAddResult{}, apperrors.NewValidation("text", "must not be empty")
	}

	if c.Skip {
		return BulkAddResult{}, nil
	}

	raw, err := c.generate(ctx, ModelFlash, generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: bulkAddPrompt(text)}}}},
		GenerationConfig: &generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   bulkAddSchema,
		},
	})
	if err != nil {
		return BulkAddResult{}, apperrors.NewService("parsing bulk data", err)
	}

	var result BulkAddResult
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &result); err != nil {
		return BulkAddResult{}, apperrors.NewService("parsing bulk data",
			fmt.Errorf("%w: %v", apperrors.ErrMalformedReply, err))
	}
	// The reply is only trusted once it matches the requested shape.
	for _, s := range result.Students {
		if strings.TrimSpace(s.Name) == "" || strings.TrimSpace(s.RollNumber) == "" {
			return BulkAddResult{}, apperrors.NewService("parsing bulk data",
				fmt.Errorf("%w: student entry missing name or roll number", apperrors.ErrMalformedReply))
		}
	}
	for _, cr := range result.Courses {
		if strings.TrimSpace(cr.Name) == "" || strings.TrimSpace(cr.Code) == "" {
			return BulkAddResult{}, apperrors.NewService("parsing bulk data",
				fmt.Errorf("%w: course entry missing name or code", apperrors.ErrMalformedReply))
		}
	}
	return result, nil
}

// GenerateGroups asks for an even split of the student list into groupCount
// groups. The reply is trusted as-is; there is no guarantee every student
// appears.
func (c *Client) GenerateGroups(ctx context.Context, students []roster.Student, groupCount int) ([][]GroupMember, error) {
	if groupCount < 1 {
		return nil, apperrors.NewValidation("groupCount", "must be at least 1")
	}
	if groupCount > len(students) {
		return nil, apperrors.NewValidation("groupCount", "cannot be greater than the number of students")
	}

	if c.Skip {
		groups := make([][]GroupMember, groupCount)
		for i, s := range students {
			g := i % groupCount
			groups[g] = append(groups[g], GroupMember{Name: s.Name, RollNumber: s.RollNumber})
		}
		return groups, nil
	}

	raw, err := c.generate(ctx, ModelPro, generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: groupsPrompt(students, groupCount)}}}},
		GenerationConfig: &generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   groupsSchema,
		},
	})
	if err != nil {
		return nil, apperrors.NewService("generating student groups", err)
	}

	var groups [][]GroupMember
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &groups); err != nil {
		return nil, apperrors.NewService("generating student groups",
			fmt.Errorf("%w: %v", apperrors.ErrMalformedReply, err))
	}
	return groups, nil
}

// DraftFollowUpEmail drafts one email body covering every absent student.
// When nobody is absent it short-circuits to a fixed message without calling
// the service.
func (c *Client) DraftFollowUpEmail(ctx context.Context, students []roster.Student,
	record roster.Record, course roster.Course, date string) (string, error) {

	_, absent, _ := roster.Partition(students, record)
	if len(absent) == 0 {
		return NoAbsenteesMessage, nil
	}

	if c.Skip {
		return fmt.Sprintf("Dear students,\n\nYou were missed in %s on %s. Please catch up on the material.\n\nThe Professor", course.Name, date), nil
	}

	text, err := c.generate(ctx, ModelFlash, generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: followUpEmailPrompt(absent, course, date)}}}},
	})
	if err != nil {
		return "", apperrors.NewService("drafting follow-up email", err)
	}
	return text, nil
}

// Chat sends one conversational turn: the fixed system preamble plus the
// transcript so far (ending with the new user message), streaming the reply
// through onChunk and returning the full text.
func (c *Client) Chat(ctx context.Context, system string, transcript []Message, onChunk func(string)) (string, error) {
	if c.Skip {
		reply := "I can answer questions about today's attendance snapshot."
		if onChunk != nil {
			onChunk(reply)
		}
		return reply, nil
	}

	text, err := c.stream(ctx, ModelFlashLite, generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: system}}},
		Contents:          contentsFromTranscript(transcript),
	}, onChunk)
	if err != nil {
		return "", apperrors.NewService("assistant chat", err)
	}
	return text, nil
}
