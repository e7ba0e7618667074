package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typetest/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "typetest.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestPassageRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	id, err := st.AddPassage(ctx, "  Fox ", "The quick brown fox.  \r\nJumps.\n\n")
	require.NoError(t, err)

	p, err := st.GetPassage(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Fox", p.Title)
	assert.Equal(t, "The quick brown fox.\nJumps.", p.Body)
	assert.False(t, p.CreatedAt.IsZero())

	list, err := st.ListPassages(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)
}

func TestAddPassagesDefaultsTitle(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	ids, err := st.AddPassages(ctx, []model.Passage{
		{Body: "first line of a rather long passage body here\nsecond"},
		{Title: "short", Body: "x"},
	})
	require.NoError(t, err)
	require.Len(t, ids, 2)

	p, err := st.GetPassage(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "first line of a rather long pass…", p.Title)
}

func TestAddPassagesRejectsEmptyBodyAtomically(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	_, err := st.AddPassages(ctx, []model.Passage{
		{Title: "ok", Body: "fine"},
		{Title: "blank", Body: "  \n "},
	})
	require.Error(t, err)

	list, err := st.ListPassages(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRandomPassage(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	_, err := st.RandomPassage(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = st.AddPassage(ctx, "only", "single passage")
	require.NoError(t, err)
	p, err := st.RandomPassage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "single passage", p.Body)
}

func TestDeletePassage(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	id, err := st.AddPassage(ctx, "gone", "soon")
	require.NoError(t, err)
	require.NoError(t, st.DeletePassage(ctx, id))
	assert.ErrorIs(t, st.DeletePassage(ctx, id), ErrNotFound)

	_, err = st.GetPassage(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNormalizeBody(t *testing.T) {
	assert.Equal(t, "a\n  b\nc", NormalizeBody("a \r\n  b\t\rc\n"))
	assert.Equal(t, "", NormalizeBody(" \n\t"))
}
