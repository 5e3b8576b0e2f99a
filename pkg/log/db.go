package log

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

const dbAPIVersion = "1"

const defaultMaxEntries = 100_000

// DB persists log entries to an embedded bbolt store so the capped
// fault/event history survives process restarts and can be queried by
// the (external, out of scope) status endpoint.
type DB struct {
	dbPath     string
	maxEntries int

	db *bolt.DB
	wg *sync.WaitGroup

	saveWG *sync.WaitGroup
}

// NewDB returns a new log database bound to dbPath.
func NewDB(dbPath string, wg *sync.WaitGroup) *DB {
	return &DB{
		dbPath:     dbPath,
		maxEntries: defaultMaxEntries,
		wg:         wg,
		saveWG:     &sync.WaitGroup{},
	}
}

// Init opens (or creates) the database file.
func (d *DB) Init(ctx context.Context) error {
	opts := &bolt.Options{Timeout: 1 * time.Second}

	db, err := bolt.Open(d.dbPath, 0o600, opts)
	if err != nil {
		return fmt.Errorf("could not open log database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(dbAPIVersion))
		return err
	})
	if err != nil {
		db.Close()
		return fmt.Errorf("could not create bucket: %w", err)
	}

	d.db = db

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		<-ctx.Done()
		d.saveWG.Wait()
		db.Close()
	}()

	return nil
}

// SaveEntries subscribes to logger and persists every entry until ctx is canceled.
func (d *DB) SaveEntries(ctx context.Context, logger *Logger) {
	feed, cancel := logger.Subscribe()
	defer cancel()

	d.saveWG.Add(1)
	defer d.saveWG.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case entry := <-feed:
			if err := d.saveEntry(entry); err != nil {
				fmt.Printf("log db: could not save entry: %v: %v\n", entry.Msg, err)
			}
		}
	}
}

func (d *DB) saveEntry(entry Entry) error {
	key := encodeKey(uint64(entry.Time))
	value, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	return d.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(dbAPIVersion))
		if b.Stats().KeyN >= d.maxEntries {
			if err := deleteFirstKey(b); err != nil {
				return fmt.Errorf("delete first key: %w", err)
			}
		}
		return b.Put(key, value)
	})
}

func deleteFirstKey(b *bolt.Bucket) error {
	k, _ := b.Cursor().First()
	return b.Delete(k)
}

// Query filters persisted log entries.
type Query struct {
	Levels  []Level
	Sources []string
	Players []string
	Limit   int
}

// Query returns persisted entries matching q, newest first.
func (d *DB) Query(q Query) ([]Entry, error) {
	var entries []Entry

	err := d.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(dbAPIVersion))
		c := b.Cursor()

		limit := q.Limit
		if limit == 0 {
			limit = d.maxEntries
		}

		for k, v := c.Last(); k != nil && len(entries) < limit; k, v = c.Prev() {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("unmarshal: %w", err)
			}
			if !levelMatches(entry.Level, q.Levels) {
				continue
			}
			if !stringMatches(entry.Src, q.Sources) {
				continue
			}
			if !stringMatches(entry.Player, q.Players) {
				continue
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func levelMatches(level Level, levels []Level) bool {
	if len(levels) == 0 {
		return true
	}
	for _, l := range levels {
		if l == level {
			return true
		}
	}
	return false
}

func stringMatches(s string, set []string) bool {
	if len(set) == 0 {
		return true
	}
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func encodeKey(key uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, key)
	return buf
}
