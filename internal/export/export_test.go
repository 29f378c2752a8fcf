package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"academiapulse/internal/roster"
)

var (
	testStudents = []roster.Student{
		{ID: "s1", Name: "Alice Johnson", RollNumber: "CSE001"},
		{ID: "s2", Name: "Bob Williams", RollNumber: "CSE002"},
	}
	testCourses = []roster.Course{
		{ID: "c1", Name: "Data Structures", Code: "CS201"},
		{ID: "c2", Name: "Calculus III", Code: "MA201"},
	}
	testCollege = roster.CollegeInfo{
		Name:         "Global Institute of Technology",
		Address:      "123 Innovation Drive, Tech City",
		Pincode:      "12345",
		University:   "State Technological University",
		IsAutonomous: true,
	}
	testDept = roster.DepartmentInfo{
		Name:         "Computer Science & Engineering",
		StudentYear:  "B.Tech Second Year",
		AcademicYear: "2024-2025",
	}
)

func TestDailyCSV(t *testing.T) {
	record := roster.Record{"s1": roster.Present}
	out := DailyCSV(testStudents, testCourses[0], record, "2024-01-15", testCollege, testDept)

	assert.Contains(t, out, `College,"Global Institute of Technology"`)
	assert.Contains(t, out, `Address,"123 Innovation Drive, Tech City, 12345"`)
	assert.Contains(t, out, `Autonomy,"Autonomous"`)
	assert.Contains(t, out, `Course,"Data Structures (CS201)"`)
	assert.Contains(t, out, `Date,"2024-01-15"`)
	assert.Contains(t, out, `"Roll Number","Student Name","Status"`)
	assert.Contains(t, out, `"CSE001","Alice Johnson","Present"`)
	assert.Contains(t, out, `"CSE002","Bob Williams","Unmarked"`)
}

func TestDailyCSVNonAutonomous(t *testing.T) {
	college := testCollege
	college.IsAutonomous = false
	out := DailyCSV(testStudents, testCourses[0], roster.Record{}, "2024-01-15", college, testDept)
	assert.Contains(t, out, `Autonomy,"Non-Autonomous"`)
}

func TestConsolidatedCSV(t *testing.T) {
	data := roster.Data{
		"2024-01-01": {"c1": roster.Record{"s1": roster.Present, "s2": roster.Absent}},
		"2024-01-02": {"c1": roster.Record{"s1": roster.Present}, "c2": roster.Record{"s2": roster.Present}},
	}
	dates := []string{"2024-01-01", "2024-01-02"}

	out := ConsolidatedCSV(testStudents, testCourses, data, dates)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, `Student Name,Roll Number,"Data Structures (CS201)","Calculus III (MA201)"`, lines[0])
	assert.Equal(t, `"Alice Johnson","CSE001",2,0`, lines[1])
	assert.Equal(t, `"Bob Williams","CSE002",0,1`, lines[2])
}

func TestDailyDoc(t *testing.T) {
	record := roster.Record{"s1": roster.Present, "s2": roster.Absent}
	out, err := DailyDoc(testStudents, testCourses[0], record, "2024-01-15", testCollege, testDept)
	require.NoError(t, err)

	assert.Contains(t, out, "Student Attendance Report")
	assert.Contains(t, out, "Global Institute of Technology")
	assert.Contains(t, out, "Affiliated to State Technological University")
	assert.Contains(t, out, "Data Structures (CS201)")
	assert.Contains(t, out, "Alice Johnson")
	assert.Contains(t, out, "No Logo")
}

func TestDailyDocWithLogo(t *testing.T) {
	college := testCollege
	college.LogoBase64 = "data:image/png;base64,AAAA"
	out, err := DailyDoc(testStudents, testCourses[0], roster.Record{}, "2024-01-15", college, testDept)
	require.NoError(t, err)
	assert.Contains(t, out, `src="data:image/png;base64,AAAA"`)
	assert.NotContains(t, out, "No Logo")
}

func TestConsolidatedDoc(t *testing.T) {
	data := roster.Data{
		"2024-01-01": {"c1": roster.Record{"s1": roster.Present}},
	}
	out, err := ConsolidatedDoc(testStudents, testCourses, data,
		[]string{"2024-01-01"}, "2024-01-01", "2024-01-01", testCollege, testDept)
	require.NoError(t, err)

	assert.Contains(t, out, "Consolidated Attendance Report")
	assert.Contains(t, out, "2024-01-01 to 2024-01-01")
	assert.Contains(t, out, "total number of present days")
	assert.Contains(t, out, "CS201")
}

func TestConsolidatedXLSX(t *testing.T) {
	data := roster.Data{
		"2024-01-01": {"c1": roster.Record{"s1": roster.Present, "s2": roster.Absent}},
		"2024-01-02": {"c1": roster.Record{"s1": roster.Present}},
	}
	dates := []string{"2024-01-01", "2024-01-02"}

	raw, err := ConsolidatedXLSX(testStudents, testCourses, data, dates, "2024-01-01", "2024-01-02")
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue("Consolidated", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Attendance 2024-01-01 to 2024-01-02", title)

	name, err := f.GetCellValue("Consolidated", "A3")
	require.NoError(t, err)
	assert.Equal(t, "Alice Johnson", name)

	count, err := f.GetCellValue("Consolidated", "C3")
	require.NoError(t, err)
	assert.Equal(t, "2", count)
}

func TestFilenames(t *testing.T) {
	assert.Equal(t, "attendance-report-CS201-2024-01-15.csv", DailyFilename("CS201", "2024-01-15", "csv"))
	assert.Equal(t, "attendance-report-CS201-2024-01-15.doc", DailyFilename("CS201", "2024-01-15", "doc"))
	assert.Equal(t, "consolidated-report-2024-01-01-to-2024-01-31.xlsx",
		ConsolidatedFilename("2024-01-01", "2024-01-31", "xlsx"))
}
