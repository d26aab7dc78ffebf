package music

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingSearchPaging(t *testing.T) {
	ps := &PendingSearch{Tracks: tracks(12)}

	assert.Equal(t, 3, ps.TotalPages())

	page := ps.PageTracks()
	require.Len(t, page, PageSize)
	assert.Equal(t, "track-0", page[0].Info.Title)

	ps.Page = 2
	page = ps.PageTracks()
	require.Len(t, page, 2)
	assert.Equal(t, "track-10", page[0].Info.Title)

	ps.Page = 3
	assert.Nil(t, ps.PageTracks())
}

func TestPendingSearchExactPages(t *testing.T) {
	ps := &PendingSearch{Tracks: tracks(PageSize * 2)}
	assert.Equal(t, 2, ps.TotalPages())

	ps.Page = 1
	assert.Len(t, ps.PageTracks(), PageSize)
}

func TestSearchStoreSweepsStaleEntries(t *testing.T) {
	ss := NewSearchStore()
	now := time.Now()
	ss.now = func() time.Time { return now }

	ss.Set(1, &PendingSearch{CreatedAt: now})
	ss.Set(2, &PendingSearch{CreatedAt: now})
	require.NotNil(t, ss.Get(1))

	now = now.Add(searchTTL + time.Second)
	ss.Set(3, &PendingSearch{CreatedAt: now})

	assert.Nil(t, ss.Get(1))
	assert.Nil(t, ss.Get(2))
	assert.NotNil(t, ss.Get(3))
}

func TestSearchStoreDelete(t *testing.T) {
	ss := NewSearchStore()
	ss.Set(7, &PendingSearch{CreatedAt: time.Now()})

	ss.Delete(7)
	assert.Nil(t, ss.Get(7))
}
