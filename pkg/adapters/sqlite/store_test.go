package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfej94/NotesStorage/pkg/adapters/sqlite"
	"github.com/wolfej94/NotesStorage/pkg/core"
	"github.com/wolfej94/NotesStorage/pkg/engine"
)

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(sqlite.Config{Path: filepath.Join(t.TempDir(), "notes.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_RequiresAPath(t *testing.T) {
	_, err := sqlite.Open(sqlite.Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path is required")
}

func TestStore_InsertFetchRoundTrip(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	wc := s.WriteContext()

	id := uuid.New()
	now := time.Now().Truncate(time.Millisecond)
	title, body := "first", "hello"

	rec := wc.Create(ctx, core.EntityNote)
	rec.ID = &id
	rec.Title = &title
	rec.Body = &body
	rec.CreatedAt = &now
	rec.UpdatedAt = &now
	require.NoError(t, wc.Save(ctx))
	assert.NotZero(t, rec.Locator, "commit must assign a locator")

	recs, err := s.ReadContext().Fetch(ctx, core.Query{Entity: core.EntityNote})
	require.NoError(t, err)
	require.Len(t, recs, 1)

	got := recs[0]
	assert.Equal(t, rec.Locator, got.Locator)
	require.NotNil(t, got.ID)
	assert.Equal(t, id, *got.ID)
	assert.Equal(t, "first", *got.Title)
	assert.Equal(t, "hello", *got.Body)
	require.NotNil(t, got.CreatedAt)
	assert.True(t, got.CreatedAt.Equal(now), "timestamps must survive the round trip")
}

func TestStore_UpdateCommitsInOneTransaction(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	wc := s.WriteContext()

	id := uuid.New()
	title := "draft"
	rec := wc.Create(ctx, core.EntityNote)
	rec.ID = &id
	rec.Title = &title
	require.NoError(t, wc.Save(ctx))

	recs, err := wc.Fetch(ctx, core.Query{Entity: core.EntityNote, IDs: []uuid.UUID{id}})
	require.NoError(t, err)
	require.Len(t, recs, 1)

	final := "published"
	recs[0].Title = &final
	require.NoError(t, wc.Save(ctx))

	after, err := s.ReadContext().Fetch(ctx, core.Query{Entity: core.EntityNote, IDs: []uuid.UUID{id}})
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "published", *after[0].Title)
}

func TestStore_FetchByIDSubset(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	wc := s.WriteContext()

	ids := make([]uuid.UUID, 3)
	for i := range ids {
		ids[i] = uuid.New()
		rec := wc.Create(ctx, core.EntityNote)
		rec.ID = &ids[i]
	}
	require.NoError(t, wc.Save(ctx))

	recs, err := s.ReadContext().Fetch(ctx, core.Query{Entity: core.EntityNote, IDs: ids[:2]})
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	// Non-nil empty means match nothing.
	recs, err = s.ReadContext().Fetch(ctx, core.Query{Entity: core.EntityNote, IDs: []uuid.UUID{}})
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestStore_BatchDelete(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	wc := s.WriteContext()

	for i := 0; i < 3; i++ {
		id := uuid.New()
		rec := wc.Create(ctx, core.EntityNote)
		rec.ID = &id
	}
	require.NoError(t, wc.Save(ctx))

	recs, err := wc.Fetch(ctx, core.Query{Entity: core.EntityNote})
	require.NoError(t, err)
	require.Len(t, recs, 3)

	locators := []core.Locator{recs[0].Locator, recs[2].Locator, core.Locator(9999)}
	require.NoError(t, wc.ExecuteDelete(ctx, locators))

	after, err := s.ReadContext().Fetch(ctx, core.Query{Entity: core.EntityNote})
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, recs[1].Locator, after[0].Locator)
}

// A commit failure must be terminal for that write only. The staged batch
// behind it is discarded, not replayed against every later Save.
func TestStore_FailedSaveDoesNotPoisonTheContext(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	e := engine.New(nil)
	wc := s.WriteContext()

	id := uuid.New()
	require.NoError(t, e.Insert(ctx, wc, core.Note{ID: id, Title: "original"}))

	// The same id violates the table's UNIQUE constraint.
	err := e.Insert(ctx, wc, core.Note{ID: id, Title: "duplicate"})
	require.Error(t, err)

	// The context stays usable for unrelated writes.
	fresh := uuid.New()
	require.NoError(t, e.Insert(ctx, wc, core.Note{ID: fresh, Title: "fresh"}))

	recs, err := s.ReadContext().Fetch(ctx, core.Query{Entity: core.EntityNote})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	for _, rec := range recs {
		require.NotNil(t, rec.ID)
		assert.NotEqual(t, "duplicate", *rec.Title)
	}
}

// Records fetched on the write context but never modified must not be
// written back, or a stale snapshot could clobber a later change.
func TestStore_SaveSkipsUnmodifiedFetches(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	wc := s.WriteContext()

	id := uuid.New()
	title := "old"
	rec := wc.Create(ctx, core.EntityNote)
	rec.ID = &id
	rec.Title = &title
	require.NoError(t, wc.Save(ctx))

	edited, err := wc.Fetch(ctx, core.Query{Entity: core.EntityNote, IDs: []uuid.UUID{id}})
	require.NoError(t, err)
	require.Len(t, edited, 1)
	fresh := "new"
	edited[0].Title = &fresh

	// A second fetch of the same row, left untouched.
	_, err = wc.Fetch(ctx, core.Query{Entity: core.EntityNote, IDs: []uuid.UUID{id}})
	require.NoError(t, err)

	require.NoError(t, wc.Save(ctx))

	after, err := s.ReadContext().Fetch(ctx, core.Query{Entity: core.EntityNote, IDs: []uuid.UUID{id}})
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "new", *after[0].Title)
}

func TestStore_ReadContextRejectsWrites(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.ReadContext().Save(ctx), core.ErrReadOnly)
	assert.ErrorIs(t, s.ReadContext().ExecuteDelete(ctx, []core.Locator{1}), core.ErrReadOnly)
}

// A row whose id column is NULL surfaces as a record without an identifier,
// which the mapper refuses.
func TestStore_RecordWithoutIdentifier(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.db")

	s, err := sqlite.Open(sqlite.Config{Path: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	// Stage a record and never assign an id before committing.
	wc := s.WriteContext()
	title := "orphan"
	rec := wc.Create(ctx, core.EntityNote)
	rec.Title = &title
	require.NoError(t, wc.Save(ctx))

	recs, err := s.ReadContext().Fetch(ctx, core.Query{Entity: core.EntityNote})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Nil(t, recs[0].ID)

	_, err = engine.ToNote(recs[0])
	assert.ErrorIs(t, err, core.ErrMissingIdentifier)
}

func TestStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.db")
	ctx := context.Background()

	s, err := sqlite.Open(sqlite.Config{Path: path})
	require.NoError(t, err)

	id := uuid.New()
	title := "durable"
	rec := s.WriteContext().Create(ctx, core.EntityNote)
	rec.ID = &id
	rec.Title = &title
	require.NoError(t, s.WriteContext().Save(ctx))
	require.NoError(t, s.Close())

	s2, err := sqlite.Open(sqlite.Config{Path: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s2.Close() })

	recs, err := s2.ReadContext().Fetch(ctx, core.Query{Entity: core.EntityNote})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, id, *recs[0].ID)
}
