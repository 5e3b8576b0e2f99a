package log

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
)

func newTestDB(t *testing.T) *DB {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "logs.db")

	db := NewDB(dbPath, &sync.WaitGroup{})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	require.NoError(t, db.Init(ctx))
	return db
}

func TestDBSaveAndQuery(t *testing.T) {
	msg1 := Entry{Level: LevelError, Time: 3000, Src: "s1", Player: "p1", Msg: "msg1"}
	msg2 := Entry{Level: LevelWarning, Time: 2000, Src: "s1", Msg: "msg2"}
	msg3 := Entry{Level: LevelInfo, Time: 1000, Src: "s2", Player: "p2", Msg: "msg3"}

	db := newTestDB(t)
	require.NoError(t, db.saveEntry(msg1))
	require.NoError(t, db.saveEntry(msg2))
	require.NoError(t, db.saveEntry(msg3))

	cases := []struct {
		name     string
		query    Query
		expected []Entry
	}{
		{
			name:     "singleLevel",
			query:    Query{Levels: []Level{LevelWarning}},
			expected: []Entry{msg2},
		},
		{
			name:     "multipleLevels",
			query:    Query{Levels: []Level{LevelError, LevelWarning}},
			expected: []Entry{msg1, msg2},
		},
		{
			name:     "singleSource",
			query:    Query{Sources: []string{"s2"}},
			expected: []Entry{msg3},
		},
		{
			name:     "singlePlayer",
			query:    Query{Players: []string{"p1"}},
			expected: []Entry{msg1},
		},
		{
			name:     "limit",
			query:    Query{Limit: 1},
			expected: []Entry{msg1},
		},
		{
			name:     "all",
			query:    Query{},
			expected: []Entry{msg1, msg2, msg3},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entries, err := db.Query(tc.query)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, entries)
		})
	}
}

func TestDBMaxEntries(t *testing.T) {
	db := newTestDB(t)
	db.maxEntries = 3

	for i := int64(1); i <= 5; i++ {
		require.NoError(t, db.saveEntry(Entry{Time: UnixMicro(i)}))
	}

	err := db.db.View(func(tx *bolt.Tx) error {
		keyN := tx.Bucket([]byte(dbAPIVersion)).Stats().KeyN
		assert.Equal(t, db.maxEntries, keyN)
		return nil
	})
	require.NoError(t, err)
}

func TestDBInitErr(t *testing.T) {
	db := &DB{dbPath: "/dev/null/nope", wg: &sync.WaitGroup{}, saveWG: &sync.WaitGroup{}}
	err := db.Init(context.Background())
	require.Error(t, err)
}

func TestDBSaveEntries(t *testing.T) {
	db := newTestDB(t)

	var wg sync.WaitGroup
	logger := NewLogger(&wg)
	ctx, cancel := context.WithCancel(context.Background())
	logger.Start(ctx)

	go db.SaveEntries(ctx, logger)

	logger.Info().Src("artnet").Msg("frame sent")

	require.Eventually(t, func() bool {
		entries, err := db.Query(Query{})
		return err == nil && len(entries) == 1
	}, time.Second, time.Millisecond)

	cancel()
	wg.Wait()
}
