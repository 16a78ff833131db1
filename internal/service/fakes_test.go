package service

import (
	"sort"
	"strconv"
	"strings"

	"coursehub_backend/internal/model"
	"coursehub_backend/internal/repository"
	"coursehub_backend/internal/util"
	"coursehub_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() {
	logger.Log = zap.NewNop()
}

// In-memory stand-ins for the gorm repositories. They mimic the lookup
// semantics the services rely on, including gorm.ErrRecordNotFound.

type fakeUserStore struct {
	users  map[uint]*model.User
	nextID uint
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uint]*model.User{}}
}

func (f *fakeUserStore) Create(user *model.User) error {
	f.nextID++
	user.ID = f.nextID
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) FindByID(id uint) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) FindByEmail(email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) FindByUsername(username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) Update(user *model.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) UpdateLastLogin(userID uint) error {
	return nil
}

type fakeCourseStore struct {
	courses      map[uint]*model.Course
	nextID       uint
	nextLessonID uint
	cascaded     []uint
}

func newFakeCourseStore() *fakeCourseStore {
	return &fakeCourseStore{courses: map[uint]*model.Course{}}
}

func (f *fakeCourseStore) Create(course *model.Course) error {
	f.nextID++
	course.ID = f.nextID
	f.courses[course.ID] = course
	return nil
}

func (f *fakeCourseStore) Save(course *model.Course) error {
	f.courses[course.ID] = course
	return nil
}

func (f *fakeCourseStore) FindByID(id uint) (*model.Course, error) {
	if c, ok := f.courses[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCourseStore) FindByAnyID(id string) (*model.Course, error) {
	if n, err := strconv.ParseUint(id, 10, 64); err == nil {
		if c, ok := f.courses[uint(n)]; ok {
			return c, nil
		}
	}
	for _, c := range f.courses {
		if c.LegacyID != "" && c.LegacyID == id {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCourseStore) FindByInstructor(instructorID uint) ([]model.Course, error) {
	var out []model.Course
	for _, id := range f.sortedIDs() {
		if f.courses[id].InstructorID == instructorID {
			out = append(out, *f.courses[id])
		}
	}
	return out, nil
}

func (f *fakeCourseStore) ListPublished(filter repository.CourseFilter) ([]model.Course, int64, error) {
	var matched []model.Course
	for _, id := range f.sortedIDs() {
		c := f.courses[id]
		if !c.IsPublished {
			continue
		}
		if filter.Category != "" && c.Category != filter.Category {
			continue
		}
		if filter.Level != "" && string(c.Level) != filter.Level {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(c.Title), needle) &&
				!strings.Contains(strings.ToLower(c.Description), needle) {
				continue
			}
		}
		matched = append(matched, *c)
	}

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.Limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (f *fakeCourseStore) AddLesson(lesson *model.Lesson) error {
	f.nextLessonID++
	lesson.ID = f.nextLessonID
	course := f.courses[lesson.CourseID]
	course.Lessons = append(course.Lessons, *lesson)
	return nil
}

func (f *fakeCourseStore) CountLessons(courseID uint) (int64, error) {
	if c, ok := f.courses[courseID]; ok {
		return int64(len(c.Lessons)), nil
	}
	return 0, nil
}

func (f *fakeCourseStore) DeleteCascade(courseID uint) error {
	delete(f.courses, courseID)
	f.cascaded = append(f.cascaded, courseID)
	return nil
}

func (f *fakeCourseStore) sortedIDs() []uint {
	ids := make([]uint, 0, len(f.courses))
	for id := range f.courses {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

type fakeEnrollmentStore struct {
	enrollments map[uint]*model.Enrollment
	nextID      uint
	courses     *fakeCourseStore
}

func newFakeEnrollmentStore(courses *fakeCourseStore) *fakeEnrollmentStore {
	return &fakeEnrollmentStore{enrollments: map[uint]*model.Enrollment{}, courses: courses}
}

func (f *fakeEnrollmentStore) FindByID(id uint) (*model.Enrollment, error) {
	if e, ok := f.enrollments[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEnrollmentStore) FindByStudentAndCourse(studentID, courseID uint) (*model.Enrollment, error) {
	for _, e := range f.enrollments {
		if e.StudentID == studentID && e.CourseID == courseID {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEnrollmentStore) FindByStudent(studentID uint) ([]model.Enrollment, error) {
	ids := make([]uint, 0, len(f.enrollments))
	for id, e := range f.enrollments {
		if e.StudentID == studentID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]model.Enrollment, 0, len(ids))
	for _, id := range ids {
		out = append(out, *f.enrollments[id])
	}
	return out, nil
}

func (f *fakeEnrollmentStore) EnrolledCourseIDs(studentID uint, courseIDs []uint) (map[uint]bool, error) {
	want := make(map[uint]bool, len(courseIDs))
	for _, id := range courseIDs {
		want[id] = true
	}

	out := map[uint]bool{}
	for _, e := range f.enrollments {
		if e.StudentID == studentID && want[e.CourseID] {
			out[e.CourseID] = true
		}
	}
	return out, nil
}

func (f *fakeEnrollmentStore) Update(enrollment *model.Enrollment) error {
	f.enrollments[enrollment.ID] = enrollment
	return nil
}

func (f *fakeEnrollmentStore) CreateWithCounter(enrollment *model.Enrollment) error {
	// Mirrors the composite unique index on (student_id, course_id).
	for _, e := range f.enrollments {
		if e.StudentID == enrollment.StudentID && e.CourseID == enrollment.CourseID {
			return util.ErrAlreadyEnrolled
		}
	}
	f.nextID++
	enrollment.ID = f.nextID
	f.enrollments[enrollment.ID] = enrollment
	if c, ok := f.courses.courses[enrollment.CourseID]; ok {
		c.StudentsEnrolled++
	}
	return nil
}

func (f *fakeEnrollmentStore) DeleteWithCounter(enrollment *model.Enrollment) error {
	delete(f.enrollments, enrollment.ID)
	if c, ok := f.courses.courses[enrollment.CourseID]; ok && c.StudentsEnrolled > 0 {
		c.StudentsEnrolled--
	}
	return nil
}
