// Package export renders domain state into the downloadable report formats:
// CSV, HTML styled for save-as-Word consumption, and XLSX workbooks.
package export

import (
	"fmt"
	"strings"

	"academiapulse/internal/roster"
)

// DailyCSV renders the single-day report: a metadata header block followed by
// one quoted row per student. Metadata fields are always quoted; the layout
// mirrors what downstream spreadsheet imports expect.
func DailyCSV(students []roster.Student, course roster.Course, record roster.Record,
	date string, college roster.CollegeInfo, dept roster.DepartmentInfo) string {

	var b strings.Builder

	autonomy := "Non-Autonomous"
	if college.IsAutonomous {
		autonomy = "Autonomous"
	}
	fmt.Fprintf(&b, "College,%q\n", college.Name)
	fmt.Fprintf(&b, "Address,%q\n", college.Address+", "+college.Pincode)
	fmt.Fprintf(&b, "Affiliated University,%q\n", college.University)
	fmt.Fprintf(&b, "Autonomy,%q\n", autonomy)
	fmt.Fprintf(&b, "Department,%q\n", dept.Name)
	fmt.Fprintf(&b, "Class,%q\n", dept.StudentYear)
	fmt.Fprintf(&b, "Academic Year,%q\n\n", dept.AcademicYear)
	fmt.Fprintf(&b, "Course,%q\n", course.Name+" ("+course.Code+")")
	fmt.Fprintf(&b, "Date,%q\n\n", date)

	b.WriteString(`"Roll Number","Student Name","Status"` + "\n")
	for _, s := range students {
		fmt.Fprintf(&b, "%q,%q,%q\n", s.RollNumber, s.Name, record[s.ID].Text())
	}
	return b.String()
}

// ConsolidatedCSV renders the student x course matrix of present-day counts
// over dates. Counts are unquoted; names and course headers are quoted.
func ConsolidatedCSV(students []roster.Student, courses []roster.Course,
	data roster.Data, dates []string) string {

	var b strings.Builder

	b.WriteString("Student Name,Roll Number")
	for _, c := range courses {
		fmt.Fprintf(&b, ",%q", c.Name+" ("+c.Code+")")
	}
	b.WriteString("\n")

	for _, s := range students {
		fmt.Fprintf(&b, "%q,%q", s.Name, s.RollNumber)
		for _, c := range courses {
			fmt.Fprintf(&b, ",%d", roster.PresentDaysInRange(data, s.ID, c.ID, dates))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// DailyFilename names a single-day artifact after the course code and date.
func DailyFilename(courseCode, date, ext string) string {
	return fmt.Sprintf("attendance-report-%s-%s.%s", courseCode, date, ext)
}

// ConsolidatedFilename names a range artifact after the date range.
func ConsolidatedFilename(start, end, ext string) string {
	return fmt.Sprintf("consolidated-report-%s-to-%s.%s", start, end, ext)
}
