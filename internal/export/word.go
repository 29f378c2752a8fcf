package export

import (
	"bytes"
	"fmt"
	"html/template"

	"academiapulse/internal/roster"
)

// The .doc exports are plain HTML with Word-friendly inline styles; Word
// opens them fine despite not being OOXML.

const docShell = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>{{.Title}}</title></head>
<body>
<div style="font-family: Arial, sans-serif; margin-bottom: 20px;">
  <table style="width: 100%; border: 0;"><tr>
    <td style="width: 80px; text-align: left;">{{if .Logo}}<img src="{{.Logo}}" alt="Institute Logo" style="width: 70px; height: auto; max-height: 70px;">{{else}}<div style="width: 70px; height: 70px; border: 1px solid #ccc; font-size: 10px; color: #888;">No Logo</div>{{end}}</td>
    <td style="text-align: center;">
      <h1 style="font-size: 20px; margin: 0; color: #1E293B;">{{.College.Name}}</h1>
      <p style="font-size: 12px; margin: 2px 0; color: #475569;">{{.College.Address}}, {{.College.Pincode}}</p>
      <p style="font-size: 12px; margin: 2px 0; color: #475569;">Affiliated to {{.College.University}}</p>
    </td>
  </tr></table>
</div>
<h2 style="font-family: Arial, sans-serif; text-align: center; font-size: 16px; color: #1E293B;">{{.Title}}</h2>
<div style="font-family: Arial, sans-serif; font-size: 11px; margin-bottom: 20px; border-top: 1px solid #E2E8F0; padding-top: 10px;">
  <p><strong>Department:</strong> {{.Department.Name}}</p>
  <p><strong>Class:</strong> {{.Department.StudentYear}}</p>
  <p><strong>Academic Year:</strong> {{.Department.AcademicYear}}</p>
  {{range .Meta}}<p><strong>{{.Label}}:</strong> {{.Value}}</p>{{end}}
</div>
{{if .Caption}}<p style="font-family: Arial, sans-serif; font-size: 10px; color: #475569; margin-bottom: 10px;">{{.Caption}}</p>{{end}}
<table style="width: 100%; border-collapse: collapse; font-family: Arial, sans-serif; font-size: 12px; color: #334155;">
  <thead>
    <tr style="background-color: #4338CA; color: #FFFFFF;">
      {{range .Headers}}<th style="padding: 8px; border: 1px solid #CBD5E1; text-align: left;">{{.}}</th>{{end}}
    </tr>
  </thead>
  <tbody>
    {{range $i, $row := .Rows}}
    <tr style="background-color: {{if evenRow $i}}#F8FAFC{{else}}#FFFFFF{{end}};">
      {{range $row}}<td style="padding: 8px; border: 1px solid #CBD5E1;">{{.}}</td>{{end}}
    </tr>
    {{end}}
  </tbody>
</table>
</body>
</html>`

var docTmpl = template.Must(template.New("doc").Funcs(template.FuncMap{
	"evenRow": func(i int) bool { return i%2 == 0 },
}).Parse(docShell))

type metaLine struct {
	Label, Value string
}

type docData struct {
	Title      string
	Logo       template.URL
	College    roster.CollegeInfo
	Department roster.DepartmentInfo
	Meta       []metaLine
	Caption    string
	Headers    []string
	Rows       [][]string
}

func renderDoc(data docData) (string, error) {
	var buf bytes.Buffer
	if err := docTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render doc: %w", err)
	}
	return buf.String(), nil
}

// DailyDoc renders the single-day report as an HTML document for .doc
// download.
func DailyDoc(students []roster.Student, course roster.Course, record roster.Record,
	date string, college roster.CollegeInfo, dept roster.DepartmentInfo) (string, error) {

	rows := make([][]string, 0, len(students))
	for _, s := range students {
		rows = append(rows, []string{s.RollNumber, s.Name, record[s.ID].Text()})
	}
	return renderDoc(docData{
		Title:      "Student Attendance Report",
		Logo:       template.URL(college.LogoBase64),
		College:    college,
		Department: dept,
		Meta: []metaLine{
			{"Course", course.Name + " (" + course.Code + ")"},
			{"Date", date},
		},
		Headers: []string{"Roll Number", "Student Name", "Status"},
		Rows:    rows,
	})
}

// ConsolidatedDoc renders the present-day-count matrix as an HTML document
// for .doc download.
func ConsolidatedDoc(students []roster.Student, courses []roster.Course,
	data roster.Data, dates []string, start, end string,
	college roster.CollegeInfo, dept roster.DepartmentInfo) (string, error) {

	headers := []string{"Student Name", "Roll No."}
	for _, c := range courses {
		headers = append(headers, c.Code)
	}

	rows := make([][]string, 0, len(students))
	for _, s := range students {
		row := []string{s.Name, s.RollNumber}
		for _, c := range courses {
			row = append(row, fmt.Sprintf("%d", roster.PresentDaysInRange(data, s.ID, c.ID, dates)))
		}
		rows = append(rows, row)
	}

	return renderDoc(docData{
		Title:      "Consolidated Attendance Report",
		Logo:       template.URL(college.LogoBase64),
		College:    college,
		Department: dept,
		Meta: []metaLine{
			{"Date Range", start + " to " + end},
		},
		Caption: "The table body shows the total number of present days for each student in each course within the selected date range.",
		Headers: headers,
		Rows:    rows,
	})
}
