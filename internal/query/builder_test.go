package query_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"gorm.io/gorm"

	"github.com/ifuryst/beacon/internal/query"
	"github.com/ifuryst/beacon/internal/testutil"
)

type article struct {
	ID        uint `gorm:"primaryKey"`
	Slug      string
	Title     string
	Section   string
	Status    string
	Secret    string
	ExpiresAt *time.Time
	CreatedAt time.Time
	DeletedAt gorm.DeletedAt
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func articleDefinition() *query.Definition {
	return &query.Definition{
		Name:          "articles",
		VisibleStatus: "live",
		ExpiryColumn:  "expires_at",
		Filters: []query.Filter{
			{Key: "section", Columns: []string{"section"}},
			{Key: "status", Columns: []string{"status"}},
			{Key: "q", Columns: []string{"title", "slug"}, Match: query.Contains},
		},
		Columns: []string{"id", "slug", "title", "section", "status", "expires_at", "created_at"},
		Sorts: map[string]string{
			"created": "created_at",
			"title":   "title",
		},
		DefaultSort: query.Sort{Field: "created", Direction: query.Desc},
	}
}

func TestBuildPredicate_PublicScope(t *testing.T) {
	c := qt.New(t)

	pred := query.BuildPredicate(articleDefinition(), query.Public, map[string]string{
		"section": "eng",
		"unknown": "x'; DROP TABLE articles; --",
	}, fixedNow)

	c.Assert(pred.Clause, qt.Equals, "status = ? AND (expires_at IS NULL OR expires_at >= ?) AND section = ?")
	c.Assert(pred.Args, qt.DeepEquals, []any{"live", fixedNow, "eng"})
}

func TestBuildPredicate_AdminScope(t *testing.T) {
	c := qt.New(t)

	pred := query.BuildPredicate(articleDefinition(), query.Admin, map[string]string{"status": "draft"}, fixedNow)

	c.Assert(pred.Clause, qt.Equals, "status = ?")
	c.Assert(pred.Args, qt.DeepEquals, []any{"draft"})

	empty := query.BuildPredicate(articleDefinition(), query.Admin, nil, fixedNow)
	c.Assert(empty.Clause, qt.Equals, "")
	c.Assert(empty.Args, qt.HasLen, 0)
}

func TestBuildPredicate_ContainsEscapesWildcards(t *testing.T) {
	c := qt.New(t)

	pred := query.BuildPredicate(articleDefinition(), query.Admin, map[string]string{"q": "50%_off!"}, fixedNow)

	c.Assert(pred.Clause, qt.Equals, "(title LIKE ? ESCAPE '!' OR slug LIKE ? ESCAPE '!')")
	c.Assert(pred.Args, qt.DeepEquals, []any{"%50!%!_off!!%", "%50!%!_off!!%"})
}

func TestBuildPredicate_Template(t *testing.T) {
	c := qt.New(t)

	def := &query.Definition{
		Filters: []query.Filter{{
			Key:      "tag",
			Match:    query.Template,
			Template: "id IN (SELECT post_id FROM post_tags WHERE tag = ? OR alias = ?)",
		}},
	}

	pred := query.BuildPredicate(def, query.Admin, map[string]string{"tag": "seo"}, fixedNow)
	c.Assert(pred.Args, qt.DeepEquals, []any{"seo", "seo"})
}

func TestPredicateAnd(t *testing.T) {
	c := qt.New(t)

	base := query.Predicate{Clause: "status = ?", Args: []any{"live"}}
	more := base.And("section = ?", "eng")

	c.Assert(more.Clause, qt.Equals, "status = ? AND section = ?")
	c.Assert(more.Args, qt.DeepEquals, []any{"live", "eng"})
	// the receiver is left untouched
	c.Assert(base.Args, qt.HasLen, 1)

	c.Assert(query.Predicate{}.And("id <> ?", 3).Clause, qt.Equals, "id <> ?")
}

func TestParseSort(t *testing.T) {
	c := qt.New(t)
	def := articleDefinition()

	s, err := query.ParseSort(def, "", "")
	c.Assert(err, qt.IsNil)
	c.Assert(s, qt.Equals, query.Sort{Field: "created", Direction: query.Desc})

	s, err = query.ParseSort(def, "title", "ASC")
	c.Assert(err, qt.IsNil)
	c.Assert(s, qt.Equals, query.Sort{Field: "title", Direction: query.Asc})

	_, err = query.ParseSort(def, "secret", "")
	c.Assert(errors.Is(err, query.ErrUnknownSort), qt.IsTrue)

	_, err = query.ParseSort(def, "", "sideways")
	c.Assert(errors.Is(err, query.ErrUnknownDirection), qt.IsTrue)
}

func seedArticles(c *qt.C, db *gorm.DB) {
	c.Assert(db.AutoMigrate(&article{}), qt.IsNil)

	past := fixedNow.Add(-24 * time.Hour)
	future := fixedNow.Add(24 * time.Hour)
	sections := []string{"eng", "design", "sales"}

	for i := 0; i < 23; i++ {
		a := article{
			Slug:      fmt.Sprintf("article-%02d", i),
			Title:     fmt.Sprintf("Article %02d", i),
			Section:   sections[i%len(sections)],
			Status:    "live",
			Secret:    "hunter2",
			CreatedAt: fixedNow.Add(-time.Duration(i) * time.Hour),
		}
		switch {
		case i%5 == 0:
			a.Status = "draft"
		case i%7 == 0:
			a.ExpiresAt = &past
		case i%4 == 0:
			a.ExpiresAt = &future
		}
		c.Assert(db.Create(&a).Error, qt.IsNil)
	}

	// soft-deleted rows must disappear from list and count alike
	c.Assert(db.Where("slug = ?", "article-01").Delete(&article{}).Error, qt.IsNil)
}

func collectAll(c *qt.C, b *query.Builder, db *gorm.DB, scope query.Scope, filters map[string]string, limit int) []article {
	var all []article
	for page := 1; ; page++ {
		p, err := query.NewPagination(page, limit)
		c.Assert(err, qt.IsNil)

		var items []article
		err = b.List(db, &article{}, scope, query.Request{
			Filters:    filters,
			Pagination: p,
			Sort:       b.Definition().DefaultSort,
		}, &items)
		c.Assert(err, qt.IsNil)
		if len(items) == 0 {
			return all
		}
		all = append(all, items...)
	}
}

func TestBuilder_ListAndCountAgree(t *testing.T) {
	c := qt.New(t)
	db := testutil.OpenDB(t)
	seedArticles(c, db)

	b := query.NewBuilder(articleDefinition()).WithClock(func() time.Time { return fixedNow })

	cases := []struct {
		scope   query.Scope
		filters map[string]string
	}{
		{query.Public, nil},
		{query.Public, map[string]string{"section": "eng"}},
		{query.Admin, nil},
		{query.Admin, map[string]string{"status": "draft"}},
		{query.Admin, map[string]string{"q": "Article 1"}},
	}

	for _, tc := range cases {
		total, err := b.Count(db, &article{}, tc.scope, tc.filters)
		c.Assert(err, qt.IsNil)

		for _, limit := range []int{1, 3, 5, 50} {
			all := collectAll(c, b, db, tc.scope, tc.filters, limit)
			c.Assert(int64(len(all)), qt.Equals, total, qt.Commentf("scope=%s filters=%v limit=%d", tc.scope, tc.filters, limit))

			seen := map[uint]bool{}
			for _, a := range all {
				c.Assert(seen[a.ID], qt.IsFalse)
				seen[a.ID] = true
				c.Assert(a.Slug, qt.Not(qt.Equals), "article-01")
				if tc.scope == query.Public {
					c.Assert(a.Status, qt.Equals, "live")
					c.Assert(a.ExpiresAt == nil || !a.ExpiresAt.Before(fixedNow), qt.IsTrue)
				}
			}
		}
	}
}

func TestBuilder_ListSelectsWhitelistedColumnsInOrder(t *testing.T) {
	c := qt.New(t)
	db := testutil.OpenDB(t)
	seedArticles(c, db)

	b := query.NewBuilder(articleDefinition()).WithClock(func() time.Time { return fixedNow })

	p, _ := query.NewPagination(1, 4)
	var items []article
	err := b.List(db, &article{}, query.Admin, query.Request{
		Pagination: p,
		Sort:       query.Sort{Field: "created", Direction: query.Desc},
	}, &items)
	c.Assert(err, qt.IsNil)
	c.Assert(items, qt.HasLen, 4)

	for i, a := range items {
		c.Assert(a.Secret, qt.Equals, "")
		if i > 0 {
			c.Assert(a.CreatedAt.After(items[i-1].CreatedAt), qt.IsFalse)
		}
	}
}

func TestBuilder_ListRejectsInvalidPagination(t *testing.T) {
	c := qt.New(t)
	db := testutil.OpenDB(t)
	seedArticles(c, db)

	b := query.NewBuilder(articleDefinition())

	var items []article
	err := b.List(db, &article{}, query.Admin, query.Request{Pagination: query.Pagination{Page: 0, Limit: 10}}, &items)
	c.Assert(errors.Is(err, query.ErrInvalidPagination), qt.IsTrue)
}
