package aiclient

import (
	"fmt"
	"strings"

	"academiapulse/internal/roster"
)

func joinNames(students []roster.Student) string {
	if len(students) == 0 {
		return "None"
	}
	names := make([]string, 0, len(students))
	for _, s := range students {
		names = append(names, s.Name)
	}
	return strings.Join(names, ", ")
}

func formatDailyAttendance(students []roster.Student, record roster.Record) string {
	present, absent, _ := roster.Partition(students, record)
	return fmt.Sprintf("Present (%d): %s. Absent (%d): %s.",
		len(present), joinNames(present), len(absent), joinNames(absent))
}

func summaryReportPrompt(students []roster.Student, data roster.Data,
	course roster.Course, date string, trendDates []string) string {

	record := data[date][course.ID]
	trendLines := make([]string, 0, len(trendDates))
	for _, d := range trendDates {
		presentCount := 0
		for _, st := range data[d][course.ID] {
			if st == roster.Present {
				presentCount++
			}
		}
		trendLines = append(trendLines, fmt.Sprintf("- %s: %d/%d present", d, presentCount, len(students)))
	}

	return fmt.Sprintf(`Analyze the following attendance data for the course "%s (%s)". Produce the output in clean Markdown format.

**Today's Attendance (%s):**
- Total Students: %d
- %s

**Last 7-Day Attendance Trend:**
%s

Based on this data, provide a concise report covering:
1. **Daily Summary:** A brief summary of today's attendance.
2. **Weekly Trend Analysis:** An observation on the 7-day trend (e.g., is attendance improving, declining, or stable?).
3. **Students of Note:** Identify any students who have been consistently absent if the data suggests it.

Keep the report professional, brief, and insightful for a professor. Use headings for each section.`,
		course.Name, course.Code, date, len(students),
		formatDailyAttendance(students, record), strings.Join(trendLines, "\n"))
}

func bulkAddPrompt(text string) string {
	return fmt.Sprintf(`Parse the following text to extract student names with their PRN/roll numbers, and subject names with their codes. The user might use words like 'student', 'subject', 'course', 'add', 'register', 'PRN', 'roll number', 'code'.

Input text: "%s"

Respond with a JSON object.`, text)
}

func groupsPrompt(students []roster.Student, groupCount int) string {
	entries := make([]string, 0, len(students))
	for _, s := range students {
		entries = append(entries, fmt.Sprintf("%s (%s)", s.Name, s.RollNumber))
	}
	return fmt.Sprintf(`From the following list of students, create %d balanced groups for a project. Try to distribute them evenly.

Student list: %s

Return the result as a JSON array of arrays, where each inner array represents a group of students. Each student should be an object with "name" and "rollNumber".`,
		groupCount, strings.Join(entries, ", "))
}

func followUpEmailPrompt(absent []roster.Student, course roster.Course, date string) string {
	return fmt.Sprintf(`Draft a professional and supportive follow-up email to a group of students who were absent from a class.

Context:
- Course: %s (%s)
- Date of Absence: %s
- Absent Students: %s

The email should:
- Be addressed to the students.
- Mention the course and date of absence.
- Express concern and offer support.
- Briefly mention that they missed the topic of [mention a placeholder topic, e.g., "Introduction to Linked Lists"].
- Encourage them to catch up and reach out if they need help.
- Be signed off by "The Professor".

Generate only the body of the email. Do not include a subject line.`,
		course.Name, course.Code, date, joinNames(absent))
}

// AssistantPreamble is the fixed system instruction for a chat session: the
// attendance snapshot for one (course, date) context.
func AssistantPreamble(students []roster.Student, record roster.Record,
	course roster.Course, date string) string {

	present, absent, unmarked := roster.Partition(students, record)
	bullet := func(group []roster.Student) string {
		if len(group) == 0 {
			return "- None"
		}
		lines := make([]string, 0, len(group))
		for _, s := range group {
			lines = append(lines, fmt.Sprintf("- %s (%s)", s.Name, s.RollNumber))
		}
		return strings.Join(lines, "\n")
	}

	return fmt.Sprintf(`You are a helpful AI assistant for a college professor. Your goal is to answer questions about student attendance based on the data provided below. Be concise, professional, and helpful.

Current Context:
- Course: %s (%s)
- Date: %s
- Total Students: %d

Current Attendance Data:

Present Students (%d):
%s

Absent Students (%d):
%s

Unmarked Students (%d):
%s
`,
		course.Name, course.Code, date, len(students),
		len(present), bullet(present),
		len(absent), bullet(absent),
		len(unmarked), bullet(unmarked))
}
