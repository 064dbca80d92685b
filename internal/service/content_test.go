package service_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"gorm.io/gorm"

	"github.com/ifuryst/beacon/internal/apperr"
	"github.com/ifuryst/beacon/internal/models"
	"github.com/ifuryst/beacon/internal/query"
	"github.com/ifuryst/beacon/internal/service"
	"github.com/ifuryst/beacon/internal/testutil"
)

func openDB(c *qt.C) *gorm.DB {
	db := testutil.OpenDB(c)
	c.Assert(service.AutoMigrate(db), qt.IsNil)
	return db
}

func jobInput(title, department string) *service.JobInput {
	return &service.JobInput{
		Title:       title,
		Department:  department,
		Location:    "Berlin",
		JobType:     "full-time",
		Description: "Build and run the platform.",
	}
}

func listRequest(filters map[string]string, page, limit int) query.Request {
	return query.Request{
		Filters:    filters,
		Pagination: query.Pagination{Page: page, Limit: limit},
	}
}

func TestJobs_CreateListAndGet(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	db := openDB(c)
	jobs := service.NewJobService(db, testutil.Logger(), time.Second)

	in := jobInput("Senior Engineer", "Eng")
	in.Responsibilities = []string{"Ship features", "Review code"}
	in.Requirements = []string{"Go"}

	job, err := jobs.Create(ctx, in)
	c.Assert(err, qt.IsNil)
	c.Assert(job.Slug, qt.Equals, "senior-engineer")
	c.Assert(job.Status, qt.Equals, models.JobStatusOpen)

	_, err = jobs.Create(ctx, jobInput("Designer", "Design"))
	c.Assert(err, qt.IsNil)

	page, err := jobs.List(ctx, query.Public, listRequest(map[string]string{"department": "Eng"}, 1, 10))
	c.Assert(err, qt.IsNil)
	c.Assert(page.Pagination, qt.DeepEquals, query.Meta{Page: 1, Limit: 10, Total: 1, Pages: 1})
	c.Assert(page.Items, qt.HasLen, 1)
	c.Assert(page.Items[0].Slug, qt.Equals, "senior-engineer")
	c.Assert(page.Items[0].Description, qt.Equals, "")

	bySlug, err := jobs.Get(ctx, query.Public, "senior-engineer")
	c.Assert(err, qt.IsNil)
	c.Assert(bySlug.Description, qt.Equals, "Build and run the platform.")
	c.Assert(bySlug.Responsibilities, qt.HasLen, 2)
	c.Assert(bySlug.Responsibilities[0].Text, qt.Equals, "Ship features")
	c.Assert(bySlug.Requirements, qt.HasLen, 1)

	byID, err := jobs.Get(ctx, query.Public, strconv.FormatUint(uint64(job.ID), 10))
	c.Assert(err, qt.IsNil)
	c.Assert(byID.ID, qt.Equals, bySlug.ID)

	c.Assert(testutil.InUse(c, db), qt.Equals, 0)
}

func TestGet_NumericSlugFallsBackToSlug(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	jobs := service.NewJobService(openDB(c), testutil.Logger(), time.Second)

	in := jobInput("Year in review", "Eng")
	in.Slug = "2024"
	job, err := jobs.Create(ctx, in)
	c.Assert(err, qt.IsNil)

	got, err := jobs.Get(ctx, query.Public, "2024")
	c.Assert(err, qt.IsNil)
	c.Assert(got.ID, qt.Equals, job.ID)
}

func TestGet_HiddenIDDoesNotShadowVisibleSlug(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	blog := service.NewBlogService(openDB(c), testutil.Logger(), time.Second)

	draft, err := blog.Create(ctx, &service.PostInput{Title: "Draft", Content: "Not yet."})
	c.Assert(err, qt.IsNil)
	c.Assert(draft.ID, qt.Equals, uint(1))

	numbered, err := blog.Create(ctx, &service.PostInput{
		Title:   "Issue one",
		Slug:    "1",
		Content: "First issue.",
		Status:  models.PostStatusPublished,
	})
	c.Assert(err, qt.IsNil)

	got, err := blog.Get(ctx, query.Public, "1")
	c.Assert(err, qt.IsNil)
	c.Assert(got.ID, qt.Equals, numbered.ID)

	looked, err := blog.Lookup(ctx, query.Public, "1")
	c.Assert(err, qt.IsNil)
	c.Assert(looked.ID, qt.Equals, numbered.ID)

	admin, err := blog.Get(ctx, query.Admin, "1")
	c.Assert(err, qt.IsNil)
	c.Assert(admin.ID, qt.Equals, draft.ID)

	_, err = blog.Transition(ctx, numbered.ID, models.PostStatusDraft)
	c.Assert(err, qt.IsNil)
	_, err = blog.Get(ctx, query.Public, "1")
	c.Assert(err, qt.ErrorIs, apperr.ErrNotFound)
}

func TestGet_IsIdempotent(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	jobs := service.NewJobService(openDB(c), testutil.Logger(), time.Second)

	for _, title := range []string{"Backend", "Frontend", "Platform"} {
		_, err := jobs.Create(ctx, jobInput(title, "Eng"))
		c.Assert(err, qt.IsNil)
	}

	first, err := jobs.Get(ctx, query.Public, "backend")
	c.Assert(err, qt.IsNil)
	second, err := jobs.Get(ctx, query.Public, "backend")
	c.Assert(err, qt.IsNil)

	c.Assert(second.UpdatedAt.Equal(first.UpdatedAt), qt.IsTrue)
	c.Assert(second.Related, qt.HasLen, 2)
	c.Assert(second.Related, qt.DeepEquals, first.Related)
}

func TestCreate_DuplicateSlug(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	db := openDB(c)
	jobs := service.NewJobService(db, testutil.Logger(), time.Second)

	_, err := jobs.Create(ctx, jobInput("Engineer", "Eng"))
	c.Assert(err, qt.IsNil)

	_, err = jobs.Create(ctx, jobInput("Engineer", "Eng"))
	c.Assert(err, qt.ErrorIs, apperr.ErrDuplicateSlug)
	c.Assert(apperr.From(err).FieldNames(), qt.DeepEquals, []string{"slug"})
	c.Assert(testutil.InUse(c, db), qt.Equals, 0)

	page, err := jobs.List(ctx, query.Admin, listRequest(nil, 1, 10))
	c.Assert(err, qt.IsNil)
	c.Assert(page.Pagination.Total, qt.Equals, int64(1))
}

func TestCreate_ValidationListsEveryField(t *testing.T) {
	c := qt.New(t)
	db := openDB(c)
	jobs := service.NewJobService(db, testutil.Logger(), time.Second)

	_, err := jobs.Create(context.Background(), &service.JobInput{})
	c.Assert(err, qt.ErrorIs, apperr.ErrValidation)
	c.Assert(apperr.From(err).FieldNames(), qt.DeepEquals, []string{"title", "department", "location", "job_type", "description"})
	c.Assert(testutil.InUse(c, db), qt.Equals, 0)

	var count int64
	c.Assert(db.Model(&models.Job{}).Count(&count).Error, qt.IsNil)
	c.Assert(count, qt.Equals, int64(0))
}

func TestCreate_CrossFieldCheck(t *testing.T) {
	c := qt.New(t)
	jobs := service.NewJobService(openDB(c), testutil.Logger(), time.Second)

	low, high := int64(50000), int64(40000)
	in := jobInput("Engineer", "Eng")
	in.SalaryMin, in.SalaryMax = &low, &high

	_, err := jobs.Create(context.Background(), in)
	c.Assert(err, qt.ErrorIs, apperr.ErrValidation)
	c.Assert(apperr.From(err).FieldNames(), qt.DeepEquals, []string{"salary_max"})
}

func TestJobs_ExpiredHiddenFromPublic(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	jobs := service.NewJobService(openDB(c), testutil.Logger(), time.Second)

	past := time.Now().UTC().Add(-48 * time.Hour)
	in := jobInput("Old posting", "Eng")
	in.ExpiryDate = &past
	_, err := jobs.Create(ctx, in)
	c.Assert(err, qt.IsNil)

	_, err = jobs.Get(ctx, query.Public, "old-posting")
	c.Assert(err, qt.ErrorIs, apperr.ErrExpired)
	c.Assert(apperr.KindOf(err).Status(), qt.Equals, 404)

	page, err := jobs.List(ctx, query.Public, listRequest(nil, 1, 10))
	c.Assert(err, qt.IsNil)
	c.Assert(page.Pagination.Total, qt.Equals, int64(0))
	c.Assert(page.Items, qt.HasLen, 0)

	admin, err := jobs.Get(ctx, query.Admin, "old-posting")
	c.Assert(err, qt.IsNil)
	c.Assert(admin.Title, qt.Equals, "Old posting")
}

func TestJobs_WithClockControlsExpiry(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	jobs := service.NewJobService(openDB(c), testutil.Logger(), time.Second)

	expiry := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	in := jobInput("Summer intern", "Eng")
	in.ExpiryDate = &expiry
	_, err := jobs.Create(ctx, in)
	c.Assert(err, qt.IsNil)

	before := jobs.WithClock(func() time.Time { return expiry.Add(-time.Hour) })
	_, err = before.Get(ctx, query.Public, "summer-intern")
	c.Assert(err, qt.IsNil)

	after := jobs.WithClock(func() time.Time { return expiry.Add(time.Hour) })
	_, err = after.Get(ctx, query.Public, "summer-intern")
	c.Assert(err, qt.ErrorIs, apperr.ErrExpired)
}

func TestTransition(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	jobs := service.NewJobService(openDB(c), testutil.Logger(), time.Second)

	job, err := jobs.Create(ctx, jobInput("Engineer", "Eng"))
	c.Assert(err, qt.IsNil)

	closed, err := jobs.Transition(ctx, job.ID, models.JobStatusClosed)
	c.Assert(err, qt.IsNil)
	c.Assert(closed.Status, qt.Equals, models.JobStatusClosed)

	_, err = jobs.Get(ctx, query.Public, "engineer")
	c.Assert(err, qt.ErrorIs, apperr.ErrNotFound)

	_, err = jobs.Transition(ctx, job.ID, "archived")
	c.Assert(err, qt.ErrorIs, apperr.ErrValidation)
	c.Assert(apperr.From(err).FieldNames(), qt.DeepEquals, []string{"status"})

	reopened, err := jobs.Transition(ctx, job.ID, models.JobStatusOpen)
	c.Assert(err, qt.IsNil)
	c.Assert(reopened.Status, qt.Equals, models.JobStatusOpen)

	_, err = jobs.Transition(ctx, 9999, models.JobStatusClosed)
	c.Assert(err, qt.ErrorIs, apperr.ErrNotFound)
}

func TestUpdate_KeepsStatusAndReplacesChildren(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	jobs := service.NewJobService(openDB(c), testutil.Logger(), time.Second)

	in := jobInput("Engineer", "Eng")
	in.Requirements = []string{"Go", "SQL"}
	job, err := jobs.Create(ctx, in)
	c.Assert(err, qt.IsNil)

	_, err = jobs.Transition(ctx, job.ID, models.JobStatusClosed)
	c.Assert(err, qt.IsNil)

	update := jobInput("Staff Engineer", "Platform")
	update.Status = models.JobStatusOpen
	update.Requirements = []string{"Distributed systems"}
	updated, err := jobs.Update(ctx, job.ID, update)
	c.Assert(err, qt.IsNil)
	c.Assert(updated.Title, qt.Equals, "Staff Engineer")
	c.Assert(updated.Slug, qt.Equals, "engineer")
	c.Assert(updated.Status, qt.Equals, models.JobStatusClosed)

	got, err := jobs.Get(ctx, query.Admin, "engineer")
	c.Assert(err, qt.IsNil)
	c.Assert(got.Department, qt.Equals, "Platform")
	c.Assert(got.Requirements, qt.HasLen, 1)
	c.Assert(got.Requirements[0].Text, qt.Equals, "Distributed systems")

	_, err = jobs.Update(ctx, 9999, update)
	c.Assert(err, qt.ErrorIs, apperr.ErrNotFound)
}

func TestUpdate_PublishedSlugIsFrozen(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	blog := service.NewBlogService(openDB(c), testutil.Logger(), time.Second)

	post, err := blog.Create(ctx, &service.PostInput{Title: "Launch", Content: "We are live.", Status: models.PostStatusPublished})
	c.Assert(err, qt.IsNil)

	_, err = blog.Update(ctx, post.ID, &service.PostInput{Title: "Launch", Slug: "renamed", Content: "We are live."})
	c.Assert(err, qt.ErrorIs, apperr.ErrValidation)
	c.Assert(apperr.From(err).FieldNames(), qt.DeepEquals, []string{"slug"})

	got, err := blog.Get(ctx, query.Public, "launch")
	c.Assert(err, qt.IsNil)
	c.Assert(got.ID, qt.Equals, post.ID)

	// Resending the current slug is not a change.
	updated, err := blog.Update(ctx, post.ID, &service.PostInput{Title: "Launch day", Slug: "launch", Content: "We are live."})
	c.Assert(err, qt.IsNil)
	c.Assert(updated.Title, qt.Equals, "Launch day")
	c.Assert(updated.Slug, qt.Equals, "launch")

	draft, err := blog.Create(ctx, &service.PostInput{Title: "Teaser", Content: "Soon."})
	c.Assert(err, qt.IsNil)
	renamed, err := blog.Update(ctx, draft.ID, &service.PostInput{Title: "Teaser", Slug: "sneak-peek", Content: "Soon."})
	c.Assert(err, qt.IsNil)
	c.Assert(renamed.Slug, qt.Equals, "sneak-peek")
}

func TestDelete_SoftDeleteKeepsSlugReserved(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	db := openDB(c)
	jobs := service.NewJobService(db, testutil.Logger(), time.Second)

	job, err := jobs.Create(ctx, jobInput("Engineer", "Eng"))
	c.Assert(err, qt.IsNil)

	c.Assert(jobs.Delete(ctx, job.ID), qt.IsNil)
	c.Assert(jobs.Delete(ctx, job.ID), qt.ErrorIs, apperr.ErrNotFound)

	_, err = jobs.Get(ctx, query.Admin, "engineer")
	c.Assert(err, qt.ErrorIs, apperr.ErrNotFound)

	page, err := jobs.List(ctx, query.Admin, listRequest(nil, 1, 10))
	c.Assert(err, qt.IsNil)
	c.Assert(page.Pagination.Total, qt.Equals, int64(0))

	_, err = jobs.Create(ctx, jobInput("Engineer", "Eng"))
	c.Assert(err, qt.ErrorIs, apperr.ErrDuplicateSlug)
	c.Assert(testutil.InUse(c, db), qt.Equals, 0)
}

func TestList_PagesCoverEveryRowOnce(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	jobs := service.NewJobService(openDB(c), testutil.Logger(), time.Second)

	for i := 0; i < 12; i++ {
		_, err := jobs.Create(ctx, jobInput("Role "+strconv.Itoa(i), "Eng"))
		c.Assert(err, qt.IsNil)
	}

	seen := map[uint]bool{}
	for page := 1; page <= 3; page++ {
		p, err := jobs.List(ctx, query.Public, listRequest(nil, page, 5))
		c.Assert(err, qt.IsNil)
		c.Assert(p.Pagination.Total, qt.Equals, int64(12))
		c.Assert(p.Pagination.Pages, qt.Equals, 3)
		for _, j := range p.Items {
			c.Assert(seen[j.ID], qt.IsFalse)
			seen[j.ID] = true
		}
	}
	c.Assert(seen, qt.HasLen, 12)

	beyond, err := jobs.List(ctx, query.Public, listRequest(nil, 9, 5))
	c.Assert(err, qt.IsNil)
	c.Assert(beyond.Items, qt.HasLen, 0)
	c.Assert(beyond.Items, qt.IsNotNil)
	c.Assert(beyond.Pagination.Total, qt.Equals, int64(12))
}

func TestList_InvalidPagination(t *testing.T) {
	c := qt.New(t)
	db := openDB(c)
	jobs := service.NewJobService(db, testutil.Logger(), time.Second)

	_, err := jobs.List(context.Background(), query.Public, listRequest(nil, 0, -1))
	c.Assert(err, qt.ErrorIs, apperr.ErrValidation)
	c.Assert(apperr.From(err).FieldNames(), qt.DeepEquals, []string{"page", "limit"})
	c.Assert(testutil.InUse(c, db), qt.Equals, 0)
}

func TestList_DeadlineBecomesUpstreamTimeout(t *testing.T) {
	c := qt.New(t)
	db := openDB(c)
	jobs := service.NewJobService(db, testutil.Logger(), time.Nanosecond)

	_, err := jobs.List(context.Background(), query.Public, listRequest(nil, 1, 10))
	c.Assert(err, qt.ErrorIs, apperr.ErrUpstreamTimeout)
	c.Assert(apperr.KindOf(err).Status(), qt.Equals, 504)
	c.Assert(testutil.InUse(c, db), qt.Equals, 0)
}

func TestBlog_PublishStampsAndRelated(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	db := openDB(c)
	blog := service.NewBlogService(db, testutil.Logger(), time.Second)
	taxonomy := service.NewTaxonomyService(db, testutil.Logger(), time.Second)

	cat, err := taxonomy.CreateCategory(ctx, &service.CategoryInput{Kind: models.CategoryKindBlog, Name: "Growth Marketing"})
	c.Assert(err, qt.IsNil)
	c.Assert(cat.Slug, qt.Equals, "growth-marketing")

	author, err := taxonomy.CreateAuthor(ctx, &service.AuthorInput{Name: "Ada", Email: "ada@example.com"})
	c.Assert(err, qt.IsNil)

	draft, err := blog.Create(ctx, &service.PostInput{
		Title:      "Draft thoughts",
		Content:    "Not yet.",
		CategoryID: &cat.ID,
		AuthorID:   &author.ID,
		Tags:       []string{"Go", "go", "SEO Tips"},
	})
	c.Assert(err, qt.IsNil)
	c.Assert(draft.Status, qt.Equals, models.PostStatusDraft)
	c.Assert(draft.PublishedAt, qt.IsNil)

	_, err = blog.Get(ctx, query.Public, "draft-thoughts")
	c.Assert(err, qt.ErrorIs, apperr.ErrNotFound)

	published, err := blog.Transition(ctx, draft.ID, models.PostStatusPublished)
	c.Assert(err, qt.IsNil)
	c.Assert(published.PublishedAt, qt.IsNotNil)

	for _, title := range []string{"One", "Two", "Three", "Four"} {
		_, err := blog.Create(ctx, &service.PostInput{
			Title:      title,
			Content:    "Body of " + title,
			Status:     models.PostStatusPublished,
			CategoryID: &cat.ID,
		})
		c.Assert(err, qt.IsNil)
	}

	post, err := blog.Get(ctx, query.Public, "draft-thoughts")
	c.Assert(err, qt.IsNil)
	c.Assert(post.Author, qt.IsNotNil)
	c.Assert(post.Author.Name, qt.Equals, "Ada")
	c.Assert(post.Author.Email, qt.Equals, "")
	c.Assert(post.Tags, qt.HasLen, 2)
	c.Assert(post.Related, qt.HasLen, 3)
	for _, r := range post.Related {
		c.Assert(r.Slug, qt.Not(qt.Equals), "draft-thoughts")
	}

	byTag, err := blog.List(ctx, query.Public, listRequest(map[string]string{"tag": "go"}, 1, 10))
	c.Assert(err, qt.IsNil)
	c.Assert(byTag.Items, qt.HasLen, 1)
	c.Assert(byTag.Items[0].Slug, qt.Equals, "draft-thoughts")

	byCategory, err := blog.List(ctx, query.Public, listRequest(map[string]string{"category": "growth-marketing"}, 1, 10))
	c.Assert(err, qt.IsNil)
	c.Assert(byCategory.Pagination.Total, qt.Equals, int64(5))
}

func TestBlog_RelatedNewestInCategory(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	db := openDB(c)
	blog := service.NewBlogService(db, testutil.Logger(), time.Second)
	taxonomy := service.NewTaxonomyService(db, testutil.Logger(), time.Second)

	growth, err := taxonomy.CreateCategory(ctx, &service.CategoryInput{Kind: models.CategoryKindBlog, Name: "Growth"})
	c.Assert(err, qt.IsNil)
	design, err := taxonomy.CreateCategory(ctx, &service.CategoryInput{Kind: models.CategoryKindBlog, Name: "Design"})
	c.Assert(err, qt.IsNil)

	now := time.Now().UTC().Truncate(time.Second)
	publish := func(title string, category uint, age time.Duration) {
		at := now.Add(-age)
		_, err := blog.Create(ctx, &service.PostInput{
			Title:       title,
			Content:     "Body of " + title,
			Status:      models.PostStatusPublished,
			CategoryID:  &category,
			PublishedAt: &at,
		})
		c.Assert(err, qt.IsNil)
	}

	publish("Current", growth.ID, 30*time.Minute)
	publish("Oldest", growth.ID, 5*time.Hour)
	publish("Newest", growth.ID, time.Hour)
	publish("Older", growth.ID, 4*time.Hour)
	publish("Middle", growth.ID, 2*time.Hour)
	publish("Elsewhere", design.ID, 10*time.Minute)

	_, err = blog.Create(ctx, &service.PostInput{Title: "Unpublished", Content: "Soon.", CategoryID: &growth.ID})
	c.Assert(err, qt.IsNil)

	post, err := blog.Get(ctx, query.Public, "current")
	c.Assert(err, qt.IsNil)

	slugs := make([]string, 0, len(post.Related))
	for _, r := range post.Related {
		slugs = append(slugs, r.Slug)
	}
	c.Assert(slugs, qt.DeepEquals, []string{"newest", "middle", "older"})
}

func TestBlog_UnknownReferences(t *testing.T) {
	c := qt.New(t)
	db := openDB(c)
	blog := service.NewBlogService(db, testutil.Logger(), time.Second)

	missing := uint(42)
	_, err := blog.Create(context.Background(), &service.PostInput{
		Title:      "Orphan",
		Content:    "No author.",
		AuthorID:   &missing,
		CategoryID: &missing,
	})
	c.Assert(err, qt.ErrorIs, apperr.ErrValidation)
	c.Assert(apperr.From(err).FieldNames(), qt.DeepEquals, []string{"author_id", "category_id"})
	c.Assert(testutil.InUse(c, db), qt.Equals, 0)
}

func TestCourses_ChildrenInOrder(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	courses := service.NewCourseService(openDB(c), testutil.Logger(), time.Second)

	course, err := courses.Create(ctx, &service.CourseInput{
		Title:       "Performance Marketing 101",
		Description: "Paid channels end to end.",
		Level:       "beginner",
		Format:      "online",
		Currency:    "eur",
		Modules: []service.CourseModuleInput{
			{Title: "Foundations"},
			{Title: "Search ads"},
			{Title: "Social ads"},
		},
		Instructors: []service.CourseInstructorInput{{Name: "Grace"}},
	})
	c.Assert(err, qt.IsNil)
	c.Assert(course.Slug, qt.Equals, "performance-marketing-101")
	c.Assert(course.Currency, qt.Equals, "EUR")

	got, err := courses.Get(ctx, query.Public, course.Slug)
	c.Assert(err, qt.IsNil)
	c.Assert(got.Modules, qt.HasLen, 3)
	c.Assert(got.Modules[1].Title, qt.Equals, "Search ads")
	c.Assert(got.Instructors, qt.HasLen, 1)

	page, err := courses.List(ctx, query.Public, listRequest(map[string]string{"level": "advanced"}, 1, 10))
	c.Assert(err, qt.IsNil)
	c.Assert(page.Items, qt.HasLen, 0)

	_, err = courses.Transition(ctx, course.ID, models.CourseStatusClosed)
	c.Assert(err, qt.IsNil)
	_, err = courses.Get(ctx, query.Public, course.Slug)
	c.Assert(err, qt.ErrorIs, apperr.ErrNotFound)
}
