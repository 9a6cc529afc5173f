// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"investing/internal/apperr"
	"investing/internal/memstore"
	"investing/internal/models"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *memstore.DB) {
	t.Helper()
	db := memstore.New()
	svc := New(db.Categories(), db.Posts(), Config{})
	svc.now = func() time.Time { return testNow }
	return svc, db
}

func rootInput(name, slug string, order int) models.CategoryInput {
	return models.CategoryInput{Name: name, Slug: slug, Color: "#10B981", Icon: "TrendingUp", Order: order}
}

func childInput(name, slug string, order int, parentID string) models.CategoryInput {
	in := rootInput(name, slug, order)
	in.Level = 1
	in.ParentID = &parentID
	return in
}

func mustCreate(t *testing.T, svc *Service, in models.CategoryInput) *models.Category {
	t.Helper()
	c, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	return c
}

func addPost(t *testing.T, db *memstore.DB, categoryID string, status models.PostStatus, publishedAt *time.Time) models.Post {
	t.Helper()
	id := uuid.NewString()
	p := models.Post{
		ID:          id,
		Title:       "Post " + id[:8],
		Slug:        "post-" + id[:8],
		Content:     "body",
		CategoryID:  categoryID,
		Status:      status,
		PublishedAt: publishedAt,
		CreatedAt:   testNow,
		UpdatedAt:   testNow,
	}
	require.NoError(t, db.Posts().Create(context.Background(), &p))
	return p
}

func timeAt(d time.Duration) *time.Time {
	t := testNow.Add(d)
	return &t
}

func TestCreate_AssignsIdentityAndTimestamps(t *testing.T) {
	svc, _ := newTestService(t)

	c := mustCreate(t, svc, rootInput("Markets", "markets", 0))

	_, err := uuid.Parse(c.ID)
	assert.NoError(t, err)
	assert.Equal(t, testNow, c.CreatedAt)
	assert.Equal(t, testNow, c.UpdatedAt)
	assert.True(t, c.IsRoot())
}

func TestCreate_DuplicateSlug(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	markets := mustCreate(t, svc, rootInput("Markets", "markets", 0))

	cases := []models.CategoryInput{
		rootInput("Markets Again", "markets", 1),
		childInput("Sub Markets", "markets", 0, markets.ID),
		rootInput("Upper", "  MARKETS ", 0),
	}
	for i, in := range cases {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			_, err := svc.Create(ctx, in)
			var ve *apperr.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "is already taken", ve.Fields["slug"])

			all, err := svc.ListAll(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 1)
		})
	}
}

func TestCreate_ReportsEveryFailingField(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), models.CategoryInput{Slug: "Not A Slug", Level: -1})

	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "name")
	assert.Contains(t, ve.Fields, "slug")
	assert.Contains(t, ve.Fields, "color")
	assert.Contains(t, ve.Fields, "level")
}

func TestCreate_TakenSlugReportedWithOtherFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	mustCreate(t, svc, rootInput("Markets", "markets", 0))

	in := rootInput("", "markets", 1)
	in.Color = ""
	_, err := svc.Create(ctx, in)

	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "is already taken", ve.Fields["slug"])
	assert.Contains(t, ve.Fields, "name")
	assert.Contains(t, ve.Fields, "color")

	_, err = svc.Create(ctx, rootInput("", "Not A Slug", 1))
	require.ErrorAs(t, err, &ve)
	assert.NotEqual(t, "is already taken", ve.Fields["slug"])
	assert.Contains(t, ve.Fields, "name")
}

func TestCreate_ConcurrentSameSlug(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	const workers = 50
	var (
		wg              sync.WaitGroup
		mu              sync.Mutex
		ok, dup, others int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(ctx, rootInput("Markets", "markets", 0))

			mu.Lock()
			defer mu.Unlock()
			var ve *apperr.ValidationError
			switch {
			case err == nil:
				ok++
			case errors.As(err, &ve) && ve.Fields["slug"] == "is already taken":
				dup++
			default:
				others++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, dup)
	assert.Zero(t, others)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreate_LevelWithoutParent(t *testing.T) {
	svc, _ := newTestService(t)
	in := rootInput("Floating", "floating", 0)
	in.Level = 1

	_, err := svc.Create(context.Background(), in)

	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "level")
}

func TestCreate_LevelAboveMax(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	root := mustCreate(t, svc, rootInput("Markets", "markets", 0))
	child := mustCreate(t, svc, childInput("Stocks", "stocks", 0, root.ID))

	in := childInput("Tech", "tech", 0, child.ID)
	in.Level = 2
	_, err := svc.Create(ctx, in)

	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "level")
}

func TestCreate_DeeperLevelsWhenConfigured(t *testing.T) {
	ctx := context.Background()
	db := memstore.New()
	svc := New(db.Categories(), db.Posts(), Config{MaxLevel: 3})
	root := mustCreate(t, svc, rootInput("Markets", "markets", 0))
	child := mustCreate(t, svc, childInput("Stocks", "stocks", 0, root.ID))

	in := childInput("Tech", "tech", 0, child.ID)
	in.Level = 2
	grandchild := mustCreate(t, svc, in)

	tree, err := svc.Hierarchy(ctx)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 1)
	require.Len(t, tree[0].Children[0].Children, 1)
	assert.Equal(t, grandchild.ID, tree[0].Children[0].Children[0].ID)
	assert.Equal(t, 2, tree[0].Children[0].Children[0].Depth)
}

func TestCreate_ParentReference(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	root := mustCreate(t, svc, rootInput("Markets", "markets", 0))
	child := mustCreate(t, svc, childInput("Stocks", "stocks", 0, root.ID))

	cases := []struct {
		name string
		in   models.CategoryInput
	}{
		{"missing parent", childInput("Ghost", "ghost", 0, uuid.NewString())},
		{"malformed parent id", childInput("Ghost", "ghost", 0, "not-an-id")},
		{"parent at same level", childInput("Bonds", "bonds", 0, child.ID)},
		{"root with parent", func() models.CategoryInput {
			in := rootInput("Bonds", "bonds", 0)
			in.ParentID = &root.ID
			return in
		}()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.in)
			var re *apperr.ReferentialError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, "parentId", re.Field)

			all, err := svc.ListAll(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 2)
		})
	}
}

func TestCreate_EmptyParentIDMeansRoot(t *testing.T) {
	svc, _ := newTestService(t)
	in := rootInput("Markets", "markets", 0)
	empty := " "
	in.ParentID = &empty

	c := mustCreate(t, svc, in)

	assert.Nil(t, c.ParentID)
}

func TestListAll_Order(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	crypto := mustCreate(t, svc, rootInput("Crypto", "crypto", 1))
	markets := mustCreate(t, svc, rootInput("Markets", "markets", 0))
	mustCreate(t, svc, childInput("Stocks", "stocks", 0, markets.ID))
	mustCreate(t, svc, childInput("Bitcoin", "bitcoin", 0, crypto.ID))
	mustCreate(t, svc, rootInput("Commodities", "commodities", 1))

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)

	var slugs []string
	for _, c := range all {
		slugs = append(slugs, c.Slug)
	}
	assert.Equal(t, []string{"markets", "commodities", "crypto", "bitcoin", "stocks"}, slugs)

	roots, err := svc.ListRoots(ctx)
	require.NoError(t, err)
	require.Len(t, roots, 3)
	assert.Equal(t, "markets", roots[0].Slug)
}

func TestListChildren(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	markets := mustCreate(t, svc, rootInput("Markets", "markets", 0))
	mustCreate(t, svc, childInput("Stocks", "stocks", 2, markets.ID))
	mustCreate(t, svc, childInput("Bonds", "bonds", 2, markets.ID))
	mustCreate(t, svc, childInput("Forex", "forex", 1, markets.ID))

	children, err := svc.ListChildren(ctx, markets.ID)
	require.NoError(t, err)
	require.Len(t, children, 3)
	assert.Equal(t, "forex", children[0].Slug)
	assert.Equal(t, "bonds", children[1].Slug)
	assert.Equal(t, "stocks", children[2].Slug)

	for _, id := range []string{uuid.NewString(), "garbage", ""} {
		children, err := svc.ListChildren(ctx, id)
		require.NoError(t, err)
		assert.NotNil(t, children)
		assert.Empty(t, children)
	}
}

func TestGetByIDAndSlug(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	markets := mustCreate(t, svc, rootInput("Markets", "markets", 0))

	got, err := svc.GetByID(ctx, markets.ID)
	require.NoError(t, err)
	assert.Equal(t, "markets", got.Slug)

	got, err = svc.GetBySlug(ctx, "markets")
	require.NoError(t, err)
	assert.Equal(t, markets.ID, got.ID)

	for _, raw := range []string{"Markets", " MARKETS "} {
		got, err = svc.GetBySlug(ctx, raw)
		require.NoError(t, err, raw)
		assert.Equal(t, markets.ID, got.ID)
	}

	_, err = svc.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = svc.GetByID(ctx, "bogus")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = svc.GetBySlug(ctx, "nope")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.GetBySlug(ctx, "")
	var ve *apperr.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestUpdate_CosmeticFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	markets := mustCreate(t, svc, rootInput("Markets", "markets", 0))
	svc.now = func() time.Time { return testNow.Add(time.Hour) }

	name, color, order := "Global Markets", "#111111", 5
	got, err := svc.Update(ctx, markets.ID, models.CategoryPatch{Name: &name, Color: &color, Order: &order})
	require.NoError(t, err)

	assert.Equal(t, "Global Markets", got.Name)
	assert.Equal(t, "#111111", got.Color)
	assert.Equal(t, 5, got.Order)
	assert.Equal(t, "markets", got.Slug)
	assert.Equal(t, testNow, got.CreatedAt)
	assert.Equal(t, testNow.Add(time.Hour), got.UpdatedAt)

	stored, err := svc.GetByID(ctx, markets.ID)
	require.NoError(t, err)
	assert.Equal(t, "Global Markets", stored.Name)
}

func TestUpdate_Slug(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	markets := mustCreate(t, svc, rootInput("Markets", "markets", 0))
	mustCreate(t, svc, rootInput("Crypto", "crypto", 1))

	taken := "crypto"
	_, err := svc.Update(ctx, markets.ID, models.CategoryPatch{Slug: &taken})
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "is already taken", ve.Fields["slug"])

	same := "markets"
	_, err = svc.Update(ctx, markets.ID, models.CategoryPatch{Slug: &same})
	require.NoError(t, err)

	fresh := "world-markets"
	got, err := svc.Update(ctx, markets.ID, models.CategoryPatch{Slug: &fresh})
	require.NoError(t, err)
	assert.Equal(t, "world-markets", got.Slug)

	_, err = svc.GetBySlug(ctx, "markets")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdate_TakenSlugReportedWithOtherFields(t *testing.T) {
	svc, _ := newTestService(t)
	markets := mustCreate(t, svc, rootInput("Markets", "markets", 0))
	mustCreate(t, svc, rootInput("Crypto", "crypto", 1))

	name, taken := " ", "crypto"
	_, err := svc.Update(context.Background(), markets.ID, models.CategoryPatch{Name: &name, Slug: &taken})

	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "is already taken", ve.Fields["slug"])
	assert.Contains(t, ve.Fields, "name")
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _ := newTestService(t)
	name := "x"

	_, err := svc.Update(context.Background(), uuid.NewString(), models.CategoryPatch{Name: &name})

	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdate_Reparent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	markets := mustCreate(t, svc, rootInput("Markets", "markets", 0))
	crypto := mustCreate(t, svc, rootInput("Crypto", "crypto", 1))
	stocks := mustCreate(t, svc, childInput("Stocks", "stocks", 0, markets.ID))

	got, err := svc.Update(ctx, stocks.ID, models.CategoryPatch{ParentID: models.SomeID(crypto.ID)})
	require.NoError(t, err)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, crypto.ID, *got.ParentID)

	children, err := svc.ListChildren(ctx, markets.ID)
	require.NoError(t, err)
	assert.Empty(t, children)

	_, err = svc.Update(ctx, stocks.ID, models.CategoryPatch{ParentID: models.SomeID(uuid.NewString())})
	var re *apperr.ReferentialError
	assert.ErrorAs(t, err, &re)
}

func TestUpdate_PromoteToRoot(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	markets := mustCreate(t, svc, rootInput("Markets", "markets", 0))
	stocks := mustCreate(t, svc, childInput("Stocks", "stocks", 0, markets.ID))

	_, err := svc.Update(ctx, stocks.ID, models.CategoryPatch{ParentID: models.NullID()})
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve, "level must follow the parent change")

	zero := 0
	got, err := svc.Update(ctx, stocks.ID, models.CategoryPatch{ParentID: models.NullID(), Level: &zero})
	require.NoError(t, err)
	assert.True(t, got.IsRoot())
	assert.Equal(t, 0, got.Level)
}

func TestUpdate_LevelChangeWithChildren(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	markets := mustCreate(t, svc, rootInput("Markets", "markets", 0))
	crypto := mustCreate(t, svc, rootInput("Crypto", "crypto", 1))
	mustCreate(t, svc, childInput("Stocks", "stocks", 0, markets.ID))

	one := 1
	_, err := svc.Update(ctx, markets.ID, models.CategoryPatch{Level: &one, ParentID: models.SomeID(crypto.ID)})

	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "level")
}

func TestUpdate_RejectsCycles(t *testing.T) {
	ctx := context.Background()
	db := memstore.New()
	svc := New(db.Categories(), db.Posts(), Config{MaxLevel: 5})
	a := mustCreate(t, svc, rootInput("A", "a", 0))

	_, err := svc.Update(ctx, a.ID, models.CategoryPatch{ParentID: models.SomeID(a.ID)})
	var re *apperr.ReferentialError
	require.ErrorAs(t, err, &re)
	assert.Contains(t, re.Reason, "own parent")

	// Stage a chain whose levels are consistent with a cycle through a,
	// which only inconsistent stored data can produce.
	b := models.Category{ID: uuid.NewString(), Name: "B", Slug: "b", Color: "#000", Level: 1, ParentID: &a.ID}
	c := models.Category{ID: uuid.NewString(), Name: "C", Slug: "c", Color: "#000", Level: 2, ParentID: &b.ID}
	db.Categories().Put(b)
	db.Categories().Put(c)
	three := 3
	_, err = svc.Update(ctx, a.ID, models.CategoryPatch{Level: &three, ParentID: models.SomeID(c.ID)})
	require.Error(t, err)
	// a has children, so the level change is refused before the cycle walk.
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)

	// x sits below c already, so only the cycle check can refuse this move.
	x := models.Category{ID: uuid.NewString(), Name: "X", Slug: "x", Color: "#000", Level: 3, ParentID: &c.ID}
	y := models.Category{ID: uuid.NewString(), Name: "Y", Slug: "y", Color: "#000", Level: 2, ParentID: &x.ID}
	db.Categories().Put(x)
	db.Categories().Put(y)
	_, err = svc.Update(ctx, x.ID, models.CategoryPatch{ParentID: models.SomeID(y.ID)})
	require.ErrorAs(t, err, &re)
	assert.Contains(t, re.Reason, "own ancestor")
}

func TestCheckParent_DetectsAncestorCycle(t *testing.T) {
	ctx := context.Background()
	db := memstore.New()
	svc := New(db.Categories(), db.Posts(), Config{MaxLevel: 5})

	a := models.Category{ID: uuid.NewString(), Name: "A", Slug: "a", Color: "#000", Level: 0}
	b := models.Category{ID: uuid.NewString(), Name: "B", Slug: "b", Color: "#000", Level: 1, ParentID: &a.ID}
	c := models.Category{ID: uuid.NewString(), Name: "C", Slug: "c", Color: "#000", Level: 2, ParentID: &b.ID}
	for _, cat := range []models.Category{a, b, c} {
		db.Categories().Put(cat)
	}

	err := svc.checkParent(ctx, a.ID, 3, c.ID)

	var re *apperr.ReferentialError
	require.ErrorAs(t, err, &re)
	assert.Contains(t, re.Reason, "own ancestor")
}

func TestCheckParent_TerminatesOnStoredCycle(t *testing.T) {
	ctx := context.Background()
	db := memstore.New()
	svc := New(db.Categories(), db.Posts(), Config{MaxLevel: 5})

	aID, bID := uuid.NewString(), uuid.NewString()
	db.Categories().Put(models.Category{ID: aID, Name: "A", Slug: "a", Color: "#000", Level: 1, ParentID: &bID})
	db.Categories().Put(models.Category{ID: bID, Name: "B", Slug: "b", Color: "#000", Level: 1, ParentID: &aID})

	done := make(chan error, 1)
	go func() { done <- svc.checkParent(ctx, uuid.NewString(), 2, aID) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("ancestor walk did not terminate")
	}
}

func TestDelete_GuardRefusesRepeatedly(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	markets := mustCreate(t, svc, rootInput("Markets", "markets", 0))
	earnings := mustCreate(t, svc, childInput("Earnings", "earnings", 0, markets.ID))

	ok, err := svc.CanDelete(ctx, markets.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	for i := 0; i < 3; i++ {
		deleted, err := svc.Delete(ctx, markets.ID)
		assert.False(t, deleted)
		var he *apperr.HasChildrenError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, 1, he.Children)
		assert.ErrorIs(t, err, apperr.ErrConflict)

		children, err := svc.ListChildren(ctx, markets.ID)
		require.NoError(t, err)
		assert.Len(t, children, 1)
		_, err = svc.GetByID(ctx, markets.ID)
		require.NoError(t, err)
	}

	deleted, err := svc.Delete(ctx, earnings.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	ok, err = svc.CanDelete(ctx, markets.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	deleted, err = svc.Delete(ctx, markets.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = svc.GetByID(ctx, markets.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	deleted, err = svc.Delete(ctx, markets.ID)
	assert.False(t, deleted)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDelete_PostsDoNotBlock(t *testing.T) {
	ctx := context.Background()
	svc, db := newTestService(t)
	markets := mustCreate(t, svc, rootInput("Markets", "markets", 0))
	post := addPost(t, db, markets.ID, models.PostStatusPublished, timeAt(-time.Hour))

	deleted, err := svc.Delete(ctx, markets.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	stored, err := db.Posts().FindByID(ctx, post.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, markets.ID, stored.CategoryID, "post keeps its dangling reference")
}

type conflictingStore struct {
	CategoryStore
	counts []int
}

func (s *conflictingStore) CountChildren(_ context.Context, _ string) (int, error) {
	n := s.counts[0]
	if len(s.counts) > 1 {
		s.counts = s.counts[1:]
	}
	return n, nil
}

func (s *conflictingStore) Delete(_ context.Context, _ string) (bool, error) {
	return false, fmt.Errorf("delete category: %w", apperr.ErrConflict)
}

func TestDelete_ChildAddedBeforePhysicalDelete(t *testing.T) {
	ctx := context.Background()
	db := memstore.New()
	markets := models.Category{ID: uuid.NewString(), Name: "Markets", Slug: "markets", Color: "#000"}
	db.Categories().Put(markets)

	store := &conflictingStore{CategoryStore: db.Categories(), counts: []int{0, 2}}
	svc := New(store, db.Posts(), Config{})

	deleted, err := svc.Delete(ctx, markets.ID)

	assert.False(t, deleted)
	var he *apperr.HasChildrenError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, 2, he.Children)
}

type failingStore struct {
	CategoryStore
}

var errDown = errors.New("connection refused")

func (failingStore) List(context.Context) ([]models.Category, error) { return nil, errDown }

func TestStorageErrorsAreWrapped(t *testing.T) {
	db := memstore.New()
	svc := New(failingStore{db.Categories()}, db.Posts(), Config{})

	_, err := svc.ListAll(context.Background())
	var se *apperr.StorageError
	require.ErrorAs(t, err, &se)
	assert.ErrorIs(t, err, errDown)

	_, err = svc.Hierarchy(context.Background())
	require.ErrorAs(t, err, &se)
}

func TestReorder_ChangesSiblingOrderOnly(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	stocks := mustCreate(t, svc, rootInput("Stocks", "stocks", 0))
	tech := mustCreate(t, svc, childInput("Tech Stocks", "tech-stocks", 0, stocks.ID))
	dividend := mustCreate(t, svc, childInput("Dividend Stocks", "dividend-stocks", 1, stocks.ID))

	err := svc.Reorder(ctx, []models.CategoryOrder{{ID: tech.ID, Order: 1}, {ID: dividend.ID, Order: 0}})
	require.NoError(t, err)

	children, err := svc.ListChildren(ctx, stocks.ID)
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "dividend-stocks", children[0].Slug)
	assert.Equal(t, "tech-stocks", children[1].Slug)
	assert.Equal(t, 1, children[1].Level)
	assert.Equal(t, stocks.ID, *children[1].ParentID)
}

func TestReorder_UnknownIDWritesNothing(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	stocks := mustCreate(t, svc, rootInput("Stocks", "stocks", 0))

	err := svc.Reorder(ctx, []models.CategoryOrder{{ID: stocks.ID, Order: 9}, {ID: uuid.NewString(), Order: 1}})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	got, err := svc.GetByID(ctx, stocks.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Order)
}

func TestReorder_RejectsDuplicates(t *testing.T) {
	svc, _ := newTestService(t)
	stocks := mustCreate(t, svc, rootInput("Stocks", "stocks", 0))

	err := svc.Reorder(context.Background(), []models.CategoryOrder{{ID: stocks.ID, Order: 1}, {ID: stocks.ID, Order: 2}})
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "items")
}

type parentRaceStore struct {
	CategoryStore
}

func (parentRaceStore) Create(context.Context, *models.Category) error {
	return fmt.Errorf("create category: %w", apperr.ErrConflict)
}

func TestCreate_ParentDeletedConcurrently(t *testing.T) {
	db := memstore.New()
	svc := New(parentRaceStore{db.Categories()}, db.Posts(), Config{})
	stocks := models.Category{ID: uuid.NewString(), Name: "Stocks", Slug: "stocks", Color: "#000"}
	db.Categories().Put(stocks)

	_, err := svc.Create(context.Background(), childInput("Tech Stocks", "tech-stocks", 0, stocks.ID))
	var re *apperr.ReferentialError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "parentId", re.Field)
}
