package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/glebarez/sqlite"

	"github.com/wardrobe-mods/wardrobe/internal/logging"
	"github.com/wardrobe-mods/wardrobe/internal/models"
)

// Snapshot row keys.
const (
	snapMods          = "mods"
	snapProfiles      = "profiles"
	snapActiveProfile = "active_profile"
)

// DiskCache persists store snapshots between runs so a fresh process
// can show the last-known state before the daemon answers. Contents
// are advisory: the daemon stays authoritative and every confirmed
// refresh overwrites them.
type DiskCache struct {
	sqldb *sql.DB
	path  string
	log   *logging.Logger
}

// OpenDiskCache opens (or creates) the snapshot database under dir.
func OpenDiskCache(dir string, log *logging.Logger) (*DiskCache, error) {
	if dir == "" {
		return nil, errors.New("cache dir required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, "cache.db")
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout=5000&_pragma=journal_mode(WAL)", path)
	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if _, err := sqldb.Exec(`CREATE TABLE IF NOT EXISTS snapshots (
		key TEXT PRIMARY KEY,
		payload BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	);`); err != nil {
		sqldb.Close()
		return nil, err
	}
	return &DiskCache{sqldb: sqldb, path: path, log: log}, nil
}

// Path returns the database file location.
func (d *DiskCache) Path() string { return d.path }

// Close releases the database handle.
func (d *DiskCache) Close() error { return d.sqldb.Close() }

// Hydrate fills the store's cells from the newest persisted snapshots.
// Missing rows are skipped; a corrupt row is logged and skipped so one
// bad payload never blocks startup.
func (d *DiskCache) Hydrate(s *Store) {
	var mods []models.Mod
	if ok := d.load(snapMods, &mods); ok {
		s.Mods.Write(mods)
	}
	var profiles []models.Profile
	if ok := d.load(snapProfiles, &profiles); ok {
		s.Profiles.Write(profiles)
	}
	var active string
	if ok := d.load(snapActiveProfile, &active); ok {
		s.ActiveProfile.Write(active)
	}
}

// Persist subscribes to every cell and saves each change. The returned
// cancel releases all subscriptions; call it before Close.
func (d *DiskCache) Persist(s *Store) (cancel func()) {
	cancelMods := s.Mods.Subscribe(func(mods []models.Mod) {
		d.save(snapMods, mods)
	})
	cancelProfiles := s.Profiles.Subscribe(func(profiles []models.Profile) {
		d.save(snapProfiles, profiles)
	})
	cancelActive := s.ActiveProfile.Subscribe(func(id string) {
		d.save(snapActiveProfile, id)
	})
	return func() {
		cancelMods()
		cancelProfiles()
		cancelActive()
	}
}

// save upserts one snapshot row. Failures are logged, never returned:
// the cache is best-effort and must not fail a mutation.
func (d *DiskCache) save(key string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		d.log.Warn().Err(err).Str("key", key).Msg("snapshot encode failed")
		return
	}
	_, err = d.sqldb.Exec(`INSERT INTO snapshots(key, payload, updated_at) VALUES(?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET payload=excluded.payload, updated_at=excluded.updated_at`,
		key, payload, time.Now().Unix())
	if err != nil {
		d.log.Warn().Err(err).Str("key", key).Msg("snapshot write failed")
	}
}

func (d *DiskCache) load(key string, v any) bool {
	var payload []byte
	err := d.sqldb.QueryRow(`SELECT payload FROM snapshots WHERE key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return false
	}
	if err != nil {
		d.log.Warn().Err(err).Str("key", key).Msg("snapshot read failed")
		return false
	}
	if err := json.Unmarshal(payload, v); err != nil {
		d.log.Warn().Err(err).Str("key", key).Msg("snapshot decode failed")
		return false
	}
	return true
}
