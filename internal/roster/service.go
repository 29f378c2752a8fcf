package roster

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"academiapulse/internal/apperrors"
	"academiapulse/internal/logger"
	"academiapulse/internal/queue"
	"academiapulse/internal/store"
)

// NewStudent is a student waiting for an id, as produced by bulk-add parsing.
type NewStudent struct {
	Name       string `json:"name"`
	RollNumber string `json:"rollNumber"`
}

// NewCourse is a course waiting for an id.
type NewCourse struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// Service owns all domain state. Every read goes through a snapshot accessor
// and every write through a mutation method; each successful mutation is
// persisted to the key-value store and announced on the queue.
type Service struct {
	mu  sync.RWMutex
	kv  store.KV
	q   queue.Queue
	log zerolog.Logger

	students []Student
	courses  []Course
	data     Data
	college  CollegeInfo
	dept     DepartmentInfo
}

// NewService loads state from kv, falling back to seed data for keys that
// hold nothing yet. q may be nil when change events are not wanted.
func NewService(ctx context.Context, kv store.KV, q queue.Queue) *Service {
	s := &Service{
		kv:       kv,
		q:        q,
		log:      logger.Get().With().Str("component", "roster").Logger(),
		students: defaultStudents(),
		courses:  defaultCourses(),
		data:     Data{},
		college:  defaultCollegeInfo(),
		dept:     defaultDepartmentInfo(),
	}
	s.load(ctx, KeyStudents, &s.students)
	s.load(ctx, KeyCourses, &s.courses)
	s.load(ctx, KeyAttendanceData, &s.data)
	s.load(ctx, KeyCollegeInfo, &s.college)
	s.load(ctx, KeyDepartmentInfo, &s.dept)
	return s
}

func (s *Service) load(ctx context.Context, key string, dst any) {
	if _, err := s.kv.Load(ctx, key, dst); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("load failed, using defaults")
	}
}

// persist writes one collection back to the store. Failures are logged and
// swallowed: the in-memory state stays authoritative until the next
// successful write.
func (s *Service) persist(ctx context.Context, key string, value any) {
	if err := s.kv.Save(ctx, key, value); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("persist failed, in-memory state kept")
	}
}

func (s *Service) publish(ctx context.Context, kind string, payload any) {
	if s.q == nil {
		return
	}
	if err := s.q.Publish(ctx, queue.NewEvent(kind, payload)); err != nil {
		s.log.Warn().Err(err).Str("kind", kind).Msg("event publish failed")
	}
}

// ---------- Snapshots ----------

// Students returns a copy of the student list.
func (s *Service) Students() []Student {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Student, len(s.students))
	copy(out, s.students)
	return out
}

// Courses returns a copy of the course list.
func (s *Service) Courses() []Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Course, len(s.courses))
	copy(out, s.courses)
	return out
}

// CourseByID looks up one course.
func (s *Service) CourseByID(id string) (Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.courses {
		if c.ID == id {
			return c, nil
		}
	}
	return Course{}, apperrors.ErrNotFound
}

// RecordFor returns a copy of the record for one (date, course) pair.
// A pair with no marks yields an empty record.
func (s *Service) RecordFor(date, courseID string) Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := Record{}
	for id, st := range s.data[date][courseID] {
		out[id] = st
	}
	return out
}

// Data returns a deep copy of all attendance data.
func (s *Service) Data() Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := Data{}
	for date, byCourse := range s.data {
		out[date] = make(map[string]Record, len(byCourse))
		for courseID, rec := range byCourse {
			cp := make(Record, len(rec))
			for id, st := range rec {
				cp[id] = st
			}
			out[date][courseID] = cp
		}
	}
	return out
}

// CollegeInfo returns the college header record.
func (s *Service) CollegeInfo() CollegeInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.college
}

// DepartmentInfo returns the department header record.
func (s *Service) DepartmentInfo() DepartmentInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dept
}

// ---------- Mutations ----------

// AddStudent appends a student with a fresh unique id.
func (s *Service) AddStudent(ctx context.Context, name, rollNumber string) (Student, error) {
	name = strings.TrimSpace(name)
	rollNumber = strings.TrimSpace(rollNumber)
	if name == "" {
		return Student{}, apperrors.NewValidation("name", "must not be empty")
	}
	if rollNumber == "" {
		return Student{}, apperrors.NewValidation("rollNumber", "must not be empty")
	}

	st := Student{ID: "s-" + uuid.NewString(), Name: name, RollNumber: rollNumber}

	s.mu.Lock()
	s.students = append(s.students, st)
	snapshot := make([]Student, len(s.students))
	copy(snapshot, s.students)
	s.mu.Unlock()

	s.persist(ctx, KeyStudents, snapshot)
	s.publish(ctx, "student.added", st)
	return st, nil
}

// AddCourse appends a course with a fresh unique id.
func (s *Service) AddCourse(ctx context.Context, name, code string) (Course, error) {
	name = strings.TrimSpace(name)
	code = strings.TrimSpace(code)
	if name == "" {
		return Course{}, apperrors.NewValidation("name", "must not be empty")
	}
	if code == "" {
		return Course{}, apperrors.NewValidation("code", "must not be empty")
	}

	c := Course{ID: "c-" + uuid.NewString(), Name: name, Code: code}

	s.mu.Lock()
	s.courses = append(s.courses, c)
	snapshot := make([]Course, len(s.courses))
	copy(snapshot, s.courses)
	s.mu.Unlock()

	s.persist(ctx, KeyCourses, snapshot)
	s.publish(ctx, "course.added", c)
	return c, nil
}

// RemoveStudent deletes a student. Historical attendance entries are left in
// place; only course removal cascades.
func (s *Service) RemoveStudent(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := -1
	for i, st := range s.students {
		if st.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return apperrors.ErrNotFound
	}
	removed := s.students[idx]
	s.students = append(s.students[:idx], s.students[idx+1:]...)
	snapshot := make([]Student, len(s.students))
	copy(snapshot, s.students)
	s.mu.Unlock()

	s.persist(ctx, KeyStudents, snapshot)
	s.publish(ctx, "student.removed", removed)
	return nil
}

// RemoveCourse deletes a course and every attendance record nested under it,
// for every date.
func (s *Service) RemoveCourse(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := -1
	for i, c := range s.courses {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return apperrors.ErrNotFound
	}
	removed := s.courses[idx]
	s.courses = append(s.courses[:idx], s.courses[idx+1:]...)
	for date := range s.data {
		delete(s.data[date], id)
	}
	courses := make([]Course, len(s.courses))
	copy(courses, s.courses)
	s.mu.Unlock()

	s.persist(ctx, KeyCourses, courses)
	s.persist(ctx, KeyAttendanceData, s.Data())
	s.publish(ctx, "course.removed", removed)
	return nil
}

// SetStatus upserts one student's status for a (date, course) pair, creating
// intermediate maps as needed.
func (s *Service) SetStatus(ctx context.Context, date, courseID, studentID string, status Status) error {
	if err := validDate(date); err != nil {
		return err
	}
	if !status.Valid() {
		return apperrors.NewValidation("status", "must be PRESENT, ABSENT or UNMARKED")
	}

	s.mu.Lock()
	if !s.hasCourse(courseID) || !s.hasStudent(studentID) {
		s.mu.Unlock()
		return apperrors.ErrNotFound
	}
	if s.data[date] == nil {
		s.data[date] = make(map[string]Record)
	}
	if s.data[date][courseID] == nil {
		s.data[date][courseID] = Record{}
	}
	s.data[date][courseID][studentID] = status
	s.mu.Unlock()

	s.persist(ctx, KeyAttendanceData, s.Data())
	s.publish(ctx, "attendance.marked", map[string]string{
		"date": date, "courseId": courseID, "studentId": studentID, "status": string(status),
	})
	return nil
}

// MarkAll replaces the whole record for a (date, course) pair with one entry
// per current student. Prior per-student overrides for that pair are
// discarded, not merged.
func (s *Service) MarkAll(ctx context.Context, date, courseID string, status Status) error {
	if err := validDate(date); err != nil {
		return err
	}
	if !status.Valid() {
		return apperrors.NewValidation("status", "must be PRESENT, ABSENT or UNMARKED")
	}

	s.mu.Lock()
	if !s.hasCourse(courseID) {
		s.mu.Unlock()
		return apperrors.ErrNotFound
	}
	rec := make(Record, len(s.students))
	for _, st := range s.students {
		rec[st.ID] = status
	}
	if s.data[date] == nil {
		s.data[date] = make(map[string]Record)
	}
	s.data[date][courseID] = rec
	s.mu.Unlock()

	s.persist(ctx, KeyAttendanceData, s.Data())
	s.publish(ctx, "attendance.marked-all", map[string]string{
		"date": date, "courseId": courseID, "status": string(status),
	})
	return nil
}

// BulkAdd merges parsed students and courses into state, assigning every
// entity a fresh unique id regardless of what the parser returned.
func (s *Service) BulkAdd(ctx context.Context, students []NewStudent, courses []NewCourse) ([]Student, []Course, error) {
	added := make([]Student, 0, len(students))
	for _, n := range students {
		added = append(added, Student{ID: "s-" + uuid.NewString(), Name: n.Name, RollNumber: n.RollNumber})
	}
	addedCourses := make([]Course, 0, len(courses))
	for _, n := range courses {
		addedCourses = append(addedCourses, Course{ID: "c-" + uuid.NewString(), Name: n.Name, Code: n.Code})
	}

	s.mu.Lock()
	s.students = append(s.students, added...)
	s.courses = append(s.courses, addedCourses...)
	studentsSnap := make([]Student, len(s.students))
	copy(studentsSnap, s.students)
	coursesSnap := make([]Course, len(s.courses))
	copy(coursesSnap, s.courses)
	s.mu.Unlock()

	if len(added) > 0 {
		s.persist(ctx, KeyStudents, studentsSnap)
	}
	if len(addedCourses) > 0 {
		s.persist(ctx, KeyCourses, coursesSnap)
	}
	s.publish(ctx, "bulk.added", map[string]int{
		"students": len(added), "courses": len(addedCourses),
	})
	return added, addedCourses, nil
}

// UpdateCollegeInfo replaces the college header record.
func (s *Service) UpdateCollegeInfo(ctx context.Context, info CollegeInfo) {
	s.mu.Lock()
	s.college = info
	s.mu.Unlock()
	s.persist(ctx, KeyCollegeInfo, info)
	s.publish(ctx, "settings.college-updated", nil)
}

// UpdateDepartmentInfo replaces the department header record.
func (s *Service) UpdateDepartmentInfo(ctx context.Context, info DepartmentInfo) {
	s.mu.Lock()
	s.dept = info
	s.mu.Unlock()
	s.persist(ctx, KeyDepartmentInfo, info)
	s.publish(ctx, "settings.department-updated", nil)
}

// SetLogo stores the institute logo (a data URI or hosted URL) on the
// college record.
func (s *Service) SetLogo(ctx context.Context, logo string) {
	s.mu.Lock()
	s.college.LogoBase64 = logo
	info := s.college
	s.mu.Unlock()
	s.persist(ctx, KeyCollegeInfo, info)
	s.publish(ctx, "settings.logo-updated", nil)
}

// callers must hold s.mu
func (s *Service) hasCourse(id string) bool {
	for _, c := range s.courses {
		if c.ID == id {
			return true
		}
	}
	return false
}

func (s *Service) hasStudent(id string) bool {
	for _, st := range s.students {
		if st.ID == id {
			return true
		}
	}
	return false
}

func validDate(date string) error {
	if _, err := parseDate(date); err != nil {
		return apperrors.NewValidation("date", "invalid date, want YYYY-MM-DD")
	}
	return nil
}
