package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"coursehub_backend/internal/config"
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/repository"
	"coursehub_backend/internal/session"
	"coursehub_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func newTestCourseService() (*CourseService, *fakeUserStore, *fakeCourseStore, *fakeEnrollmentStore) {
	users := newFakeUserStore()
	courses := newFakeCourseStore()
	enrollments := newFakeEnrollmentStore(courses)
	youtube := NewYouTubeService(&config.YouTubeConfig{})

	svc := NewCourseService(courses, enrollments, users, youtube, nil)
	return svc, users, courses, enrollments
}

func addInstructor(users *fakeUserStore, name string) *model.User {
	u := &model.User{Username: name, Email: name + "@example.com", FullName: name, Role: model.Instructor}
	users.Create(u)
	return u
}

func validCourseInput() CreateCourseInput {
	return CreateCourseInput{
		Title:       "Go from scratch",
		Description: "All of Go",
		Category:    "programming",
		Level:       model.Beginner,
		Price:       floatPtr(10),
		Duration:    20,
	}
}

func TestCreateCourseValidation(t *testing.T) {
	svc, users, _, _ := newTestCourseService()
	owner := addInstructor(users, "ines")

	cases := []struct {
		name   string
		mutate func(*CreateCourseInput)
	}{
		{"missing title", func(in *CreateCourseInput) { in.Title = "" }},
		{"missing description", func(in *CreateCourseInput) { in.Description = "" }},
		{"missing category", func(in *CreateCourseInput) { in.Category = "" }},
		{"missing level", func(in *CreateCourseInput) { in.Level = "" }},
		{"missing price", func(in *CreateCourseInput) { in.Price = nil }},
		{"negative price", func(in *CreateCourseInput) { in.Price = floatPtr(-1) }},
		{"zero duration", func(in *CreateCourseInput) { in.Duration = 0 }},
		{"bogus level", func(in *CreateCourseInput) { in.Level = "wizard" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validCourseInput()
			tc.mutate(&input)
			_, err := svc.CreateCourse(owner.ID, input)
			assert.ErrorIs(t, err, util.ErrValidation)
		})
	}
}

func TestCreateCoursePublishesWithDefaults(t *testing.T) {
	svc, users, _, _ := newTestCourseService()
	owner := addInstructor(users, "ines")

	input := validCourseInput()
	input.Price = floatPtr(0)

	course, err := svc.CreateCourse(owner.ID, input)
	require.NoError(t, err)

	assert.True(t, course.IsPublished, "new courses go live immediately")
	assert.Equal(t, owner.ID, course.InstructorID)
	assert.Equal(t, owner.FullName, course.Instructor)
	assert.Equal(t, categoryThumbnails["programming"], course.Thumbnail)
	assert.NotNil(t, course.Requirements)
	assert.NotNil(t, course.LearningOutcomes)
	assert.Zero(t, course.Price, "free courses are allowed")
}

func TestCreateCourseThumbnailFallbacks(t *testing.T) {
	svc, users, _, _ := newTestCourseService()
	owner := addInstructor(users, "ines")

	unknown := validCourseInput()
	unknown.Category = "origami"
	course, err := svc.CreateCourse(owner.ID, unknown)
	require.NoError(t, err)
	assert.Equal(t, defaultThumbnail, course.Thumbnail, "unknown category falls back to the generic image")

	custom := validCourseInput()
	custom.Thumbnail = "https://cdn.example.com/cover.png"
	course, err = svc.CreateCourse(owner.ID, custom)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/cover.png", course.Thumbnail, "explicit thumbnail wins over the category default")
}

func TestListCatalogNormalizesPagination(t *testing.T) {
	svc, users, _, _ := newTestCourseService()
	owner := addInstructor(users, "ines")

	for i := 0; i < 3; i++ {
		_, err := svc.CreateCourse(owner.ID, validCourseInput())
		require.NoError(t, err)
	}

	page, err := svc.ListCatalog(repository.CourseFilter{Page: 0, Limit: -5}, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, DefaultPageSize, page.Limit)
	assert.Equal(t, int64(3), page.Total)

	page, err = svc.ListCatalog(repository.CourseFilter{Page: 1, Limit: 10000}, 0)
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, page.Limit)

	page, err = svc.ListCatalog(repository.CourseFilter{Page: 1, Limit: 2}, 0)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(3), page.Total)
}

func TestListCatalogAnnotatesEnrollment(t *testing.T) {
	svc, users, _, enrollments := newTestCourseService()
	owner := addInstructor(users, "ines")

	a, err := svc.CreateCourse(owner.ID, validCourseInput())
	require.NoError(t, err)
	b, err := svc.CreateCourse(owner.ID, validCourseInput())
	require.NoError(t, err)

	student := &model.User{Username: "stan", Email: "stan@example.com", FullName: "Stan"}
	users.Create(student)
	require.NoError(t, enrollments.CreateWithCounter(&model.Enrollment{StudentID: student.ID, CourseID: a.ID}))

	page, err := svc.ListCatalog(repository.CourseFilter{}, student.ID)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)

	flags := map[uint]bool{}
	for _, item := range page.Items {
		flags[item.ID] = item.IsEnrolled
	}
	assert.True(t, flags[a.ID])
	assert.False(t, flags[b.ID])

	// Anonymous listing never shows enrollment.
	page, err = svc.ListCatalog(repository.CourseFilter{}, 0)
	require.NoError(t, err)
	for _, item := range page.Items {
		assert.False(t, item.IsEnrolled)
	}
}

func TestListCatalogHidesUnpublished(t *testing.T) {
	svc, users, courses, _ := newTestCourseService()
	owner := addInstructor(users, "ines")

	published, err := svc.CreateCourse(owner.ID, validCourseInput())
	require.NoError(t, err)

	draft := &model.Course{Title: "Draft", InstructorID: owner.ID, IsPublished: false}
	require.NoError(t, courses.Create(draft))

	page, err := svc.ListCatalog(repository.CourseFilter{}, 0)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, published.ID, page.Items[0].ID)
}

func TestGetCourseByLegacyID(t *testing.T) {
	svc, users, courses, _ := newTestCourseService()
	owner := addInstructor(users, "ines")

	imported := &model.Course{Title: "Imported", InstructorID: owner.ID, LegacyID: "41", IsPublished: true}
	require.NoError(t, courses.Create(imported))

	course, _, err := svc.GetCourse("41", 0)
	require.NoError(t, err)
	assert.Equal(t, imported.ID, course.ID)

	_, _, err = svc.GetCourse("9999", 0)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestGetCourseEnrollmentFlag(t *testing.T) {
	svc, users, _, enrollments := newTestCourseService()
	owner := addInstructor(users, "ines")

	course, err := svc.CreateCourse(owner.ID, validCourseInput())
	require.NoError(t, err)

	student := &model.User{Username: "stan", Email: "stan@example.com", FullName: "Stan"}
	users.Create(student)
	require.NoError(t, enrollments.CreateWithCounter(&model.Enrollment{StudentID: student.ID, CourseID: course.ID}))

	_, isEnrolled, err := svc.GetCourse("1", student.ID)
	require.NoError(t, err)
	assert.True(t, isEnrolled)

	_, isEnrolled, err = svc.GetCourse("1", 0)
	require.NoError(t, err)
	assert.False(t, isEnrolled)
}

func TestDeleteCourseOwnership(t *testing.T) {
	svc, users, courses, _ := newTestCourseService()
	owner := addInstructor(users, "ines")
	other := addInstructor(users, "omar")

	course, err := svc.CreateCourse(owner.ID, validCourseInput())
	require.NoError(t, err)

	err = svc.DeleteCourse("1", &session.Identity{UserID: other.ID, Role: model.Instructor})
	assert.ErrorIs(t, err, util.ErrForbidden)

	err = svc.DeleteCourse("1", &session.Identity{UserID: owner.ID, Role: model.Instructor})
	require.NoError(t, err)
	assert.Equal(t, []uint{course.ID}, courses.cascaded)
}

func TestDeleteCourseAdminOverride(t *testing.T) {
	svc, users, courses, _ := newTestCourseService()
	owner := addInstructor(users, "ines")

	course, err := svc.CreateCourse(owner.ID, validCourseInput())
	require.NoError(t, err)

	err = svc.DeleteCourse("1", &session.Identity{UserID: 999, Role: model.Admin})
	require.NoError(t, err)
	assert.Equal(t, []uint{course.ID}, courses.cascaded)
}

func TestAddLessonAssignsNextOrder(t *testing.T) {
	svc, users, _, _ := newTestCourseService()
	owner := addInstructor(users, "ines")
	caller := &session.Identity{UserID: owner.ID, Role: model.Instructor}

	_, err := svc.CreateCourse(owner.ID, validCourseInput())
	require.NoError(t, err)

	first, err := svc.AddLesson(context.Background(), "1", caller, AddLessonInput{Title: "Intro"})
	require.NoError(t, err)
	assert.Equal(t, 1, first.OrderIndex)

	second, err := svc.AddLesson(context.Background(), "1", caller, AddLessonInput{Title: "Setup"})
	require.NoError(t, err)
	assert.Equal(t, 2, second.OrderIndex)

	explicit, err := svc.AddLesson(context.Background(), "1", caller, AddLessonInput{Title: "Bonus", Order: 9})
	require.NoError(t, err)
	assert.Equal(t, 9, explicit.OrderIndex)
}

func TestAddLessonAuthz(t *testing.T) {
	svc, users, _, _ := newTestCourseService()
	owner := addInstructor(users, "ines")
	other := addInstructor(users, "omar")

	_, err := svc.CreateCourse(owner.ID, validCourseInput())
	require.NoError(t, err)

	_, err = svc.AddLesson(context.Background(), "1", &session.Identity{UserID: other.ID, Role: model.Instructor}, AddLessonInput{Title: "Hijack"})
	assert.ErrorIs(t, err, util.ErrForbidden)

	_, err = svc.AddLesson(context.Background(), "1", &session.Identity{UserID: owner.ID, Role: model.Instructor}, AddLessonInput{Title: ""})
	assert.ErrorIs(t, err, util.ErrValidation)

	_, err = svc.AddLesson(context.Background(), "77", &session.Identity{UserID: owner.ID, Role: model.Instructor}, AddLessonInput{Title: "x"})
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestAddLessonFetchesVideoMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/videos", r.URL.Path)
		require.Equal(t, "dQw4w9WgXcQ", r.URL.Query().Get("id"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"items": []map[string]interface{}{{
				"snippet": map[string]interface{}{
					"title":        "Never Gonna Give Go Up",
					"channelTitle": "GoTube",
					"thumbnails":   map[string]interface{}{"medium": map[string]interface{}{"url": "https://img/1.jpg"}},
				},
				"contentDetails": map[string]interface{}{"duration": "PT10M30S"},
			}},
		})
	}))
	defer srv.Close()

	svc, users, _, _ := newTestCourseService()
	svc.YouTube = &YouTubeService{APIKey: "k", BaseURL: srv.URL, Client: srv.Client()}

	owner := addInstructor(users, "ines")
	caller := &session.Identity{UserID: owner.ID, Role: model.Instructor}

	_, err := svc.CreateCourse(owner.ID, validCourseInput())
	require.NoError(t, err)

	lesson, err := svc.AddLesson(context.Background(), "1", caller, AddLessonInput{
		Title:    "Video lesson",
		VideoURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
	})
	require.NoError(t, err)

	assert.Equal(t, "Never Gonna Give Go Up", lesson.VideoTitle)
	assert.Equal(t, "GoTube", lesson.VideoChannel)
	assert.Equal(t, "https://img/1.jpg", lesson.VideoThumbnail)
	assert.Equal(t, 10, lesson.Duration, "seconds from the API become whole minutes")
}

func TestSuggestVideosDefaultsQueryToTitle(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)
		gotQuery = r.URL.Query().Get("q")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"items": []map[string]interface{}{{
				"id": map[string]interface{}{"videoId": "abc"},
				"snippet": map[string]interface{}{
					"title":        "Result",
					"channelTitle": "GoTube",
					"thumbnails":   map[string]interface{}{"medium": map[string]interface{}{"url": "https://img/2.jpg"}},
				},
			}},
		})
	}))
	defer srv.Close()

	svc, users, _, _ := newTestCourseService()
	svc.YouTube = &YouTubeService{APIKey: "k", BaseURL: srv.URL, Client: srv.Client()}

	owner := addInstructor(users, "ines")
	caller := &session.Identity{UserID: owner.ID, Role: model.Instructor}

	_, err := svc.CreateCourse(owner.ID, validCourseInput())
	require.NoError(t, err)

	query, videos, err := svc.SuggestVideos(context.Background(), "1", caller, "")
	require.NoError(t, err)
	assert.Equal(t, "Go from scratch tutorial", query)
	assert.Equal(t, "Go from scratch tutorial", gotQuery)
	require.Len(t, videos, 1)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", videos[0].URL)

	query, _, err = svc.SuggestVideos(context.Background(), "1", caller, "generics")
	require.NoError(t, err)
	assert.Equal(t, "generics", query)
}
