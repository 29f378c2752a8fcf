package roster

// Status is a student's attendance state for one course on one date.
type Status string

const (
	Present  Status = "PRESENT"
	Absent   Status = "ABSENT"
	Unmarked Status = "UNMARKED"
)

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	return s == Present || s == Absent || s == Unmarked
}

// Text returns the display form used by exports: anything that is not
// Present or Absent reads as Unmarked.
func (s Status) Text() string {
	switch s {
	case Present:
		return "Present"
	case Absent:
		return "Absent"
	default:
		return "Unmarked"
	}
}

// Student is one enrolled student.
type Student struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	RollNumber string `json:"rollNumber"`
}

// Course is one taught subject.
type Course struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// Record maps student id to status for one (date, course) pair.
// Students with no entry read as Unmarked.
type Record map[string]Status

// Data is all attendance, nested date -> course id -> Record.
// Dates are ISO YYYY-MM-DD strings.
type Data map[string]map[string]Record

// CollegeInfo is the institution header used by exports.
type CollegeInfo struct {
	Name         string `json:"name"`
	Address      string `json:"address"`
	Pincode      string `json:"pincode"`
	University   string `json:"university"`
	IsAutonomous bool   `json:"isAutonomous"`
	LogoBase64   string `json:"logoBase64,omitempty"`
}

// DepartmentInfo is the department header used by exports.
type DepartmentInfo struct {
	Name         string `json:"name"`
	StudentYear  string `json:"studentYear"`
	AcademicYear string `json:"academicYear"`
}

// Storage keys, one per top-level collection.
const (
	KeyStudents       = "students"
	KeyCourses        = "courses"
	KeyAttendanceData = "attendanceData"
	KeyCollegeInfo    = "collegeInfo"
	KeyDepartmentInfo = "departmentInfo"
)

// Seed data used when the store holds nothing yet.
func defaultStudents() []Student {
	return []Student{
		{ID: "s1", Name: "Alice Johnson", RollNumber: "CSE001"},
		{ID: "s2", Name: "Bob Williams", RollNumber: "CSE002"},
		{ID: "s3", Name: "Charlie Brown", RollNumber: "CSE003"},
		{ID: "s4", Name: "Diana Miller", RollNumber: "ECE001"},
		{ID: "s5", Name: "Ethan Davis", RollNumber: "ECE002"},
	}
}

func defaultCourses() []Course {
	return []Course{
		{ID: "c1", Name: "Data Structures", Code: "CS201"},
		{ID: "c2", Name: "Digital Logic Design", Code: "EC201"},
		{ID: "c3", Name: "Calculus III", Code: "MA201"},
	}
}

func defaultCollegeInfo() CollegeInfo {
	return CollegeInfo{
		Name:         "Global Institute of Technology",
		Address:      "123 Innovation Drive, Tech City",
		Pincode:      "12345",
		University:   "State Technological University",
		IsAutonomous: true,
	}
}

func defaultDepartmentInfo() DepartmentInfo {
	return DepartmentInfo{
		Name:         "Computer Science & Engineering",
		StudentYear:  "B.Tech Second Year",
		AcademicYear: "2024-2025",
	}
}
