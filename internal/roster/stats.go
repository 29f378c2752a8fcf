package roster

import (
	"time"

	"academiapulse/internal/apperrors"
)

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// Summary is the derived breakdown of one day's record.
type Summary struct {
	Present    int     `json:"present"`
	Absent     int     `json:"absent"`
	Unmarked   int     `json:"unmarked"`
	Percentage float64 `json:"percentage"`
}

// Summarize counts present and absent entries in record; students without an
// entry count as unmarked. Percentage is present over totalStudents, 0 when
// there are no students.
func Summarize(record Record, totalStudents int) Summary {
	var present, absent int
	for _, st := range record {
		switch st {
		case Present:
			present++
		case Absent:
			absent++
		}
	}
	sum := Summary{
		Present:  present,
		Absent:   absent,
		Unmarked: totalStudents - present - absent,
	}
	if totalStudents > 0 {
		sum.Percentage = float64(present) / float64(totalStudents) * 100
	}
	return sum
}

// PresentDaysInRange counts the dates in dates on which the student was
// marked Present for the course.
func PresentDaysInRange(data Data, studentID, courseID string, dates []string) int {
	count := 0
	for _, date := range dates {
		if data[date][courseID][studentID] == Present {
			count++
		}
	}
	return count
}

// DateRange builds the inclusive list of ISO dates from start to end,
// stepping one day at a time. start after end is a validation error.
func DateRange(start, end string) ([]string, error) {
	from, err := time.Parse(dateLayout, start)
	if err != nil {
		return nil, apperrors.NewValidation("start", "invalid date, want YYYY-MM-DD")
	}
	to, err := time.Parse(dateLayout, end)
	if err != nil {
		return nil, apperrors.NewValidation("end", "invalid date, want YYYY-MM-DD")
	}
	if from.After(to) {
		return nil, apperrors.NewValidation("start", "start date cannot be after the end date")
	}

	var dates []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(dateLayout))
	}
	return dates, nil
}

// TrailingWeek returns the 7 dates ending at date, oldest first.
func TrailingWeek(date string) ([]string, error) {
	to, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, apperrors.NewValidation("date", "invalid date, want YYYY-MM-DD")
	}
	dates := make([]string, 0, 7)
	for i := 6; i >= 0; i-- {
		dates = append(dates, to.AddDate(0, 0, -i).Format(dateLayout))
	}
	return dates, nil
}

// Partition splits students into present, absent and unmarked name buckets
// according to record.
func Partition(students []Student, record Record) (present, absent, unmarked []Student) {
	for _, s := range students {
		switch record[s.ID] {
		case Present:
			present = append(present, s)
		case Absent:
			absent = append(absent, s)
		default:
			unmarked = append(unmarked, s)
		}
	}
	return present, absent, unmarked
}
