package collector

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sa03134/soomgo-competitor-tracker/internal/models"
	"github.com/sa03134/soomgo-competitor-tracker/internal/structures"
	"github.com/sa03134/soomgo-competitor-tracker/internal/testutil"
)

var kst = time.FixedZone("KST", 9*60*60)

func storeConfig(dir string) *structures.Config {
	return &structures.Config{
		Timezone: "Asia/Seoul",
		Storage:  structures.StorageConfig{Dir: dir, FileMode: 0644},
	}
}

func newTestStore(t *testing.T) (*HistoryStore, *testutil.MockLogger) {
	t.Helper()
	logger := &testutil.MockLogger{}
	return NewHistoryStore(storeConfig(t.TempDir()), nil, logger), logger
}

func result(hirings, reviews int, rating *float64) *models.ExtractionResult {
	return &models.ExtractionResult{Hirings: hirings, Reviews: reviews, Rating: rating}
}

func at(day, hour, minute int) time.Time {
	return time.Date(2025, time.November, day, hour, minute, 0, 0, kst)
}

func TestHistoryStore_MergeCreatesFile(t *testing.T) {
	store, _ := newTestStore(t)

	day, err := store.Merge("sonkoach", result(1009, 571, models.Float(4.9)), at(13, 9, 0))
	require.NoError(t, err)
	assert.Equal(t, 1009, day.Hirings)

	history, err := store.Load("sonkoach")
	require.NoError(t, err)
	want := models.EntityHistory{
		"2025-11-13": {
			Hirings:     1009,
			Reviews:     571,
			Rating:      models.Float(4.9),
			LastUpdated: at(13, 9, 0),
			Hourly:      map[string]*models.HourlyPoint{"09:00": {Hirings: 1009, Reviews: 571}},
		},
	}
	if diff := cmp.Diff(want, history, cmp.Comparer(func(a, b time.Time) bool { return a.Equal(b) })); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}

	_, err = os.Stat(store.Path("sonkoach") + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file must not survive a successful merge")
}

func TestHistoryStore_MergeIsIdempotentWithinMinute(t *testing.T) {
	store, _ := newTestStore(t)
	r := result(507, 120, nil)

	_, err := store.Merge("sonkoach", r, at(13, 9, 0))
	require.NoError(t, err)
	first, err := os.ReadFile(store.Path("sonkoach"))
	require.NoError(t, err)

	_, err = store.Merge("sonkoach", r, at(13, 9, 0))
	require.NoError(t, err)
	second, err := os.ReadFile(store.Path("sonkoach"))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestHistoryStore_SameMinuteKeepsLastValues(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Merge("sonkoach", result(500, 100, nil), at(13, 9, 0))
	require.NoError(t, err)
	_, err = store.Merge("sonkoach", result(501, 101, nil), at(13, 9, 0).Add(30*time.Second))
	require.NoError(t, err)

	history, err := store.Load("sonkoach")
	require.NoError(t, err)
	day := history["2025-11-13"]
	require.Len(t, day.Hourly, 1)
	assert.Equal(t, &models.HourlyPoint{Hirings: 501, Reviews: 101}, day.Hourly["09:00"])
	assert.Equal(t, 501, day.Hirings)
}

func TestHistoryStore_HourlyGrowsWithinDay(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Merge("sonkoach", result(500, 100, nil), at(13, 9, 0))
	require.NoError(t, err)
	_, err = store.Merge("sonkoach", result(502, 103, models.Float(4.8)), at(13, 10, 0))
	require.NoError(t, err)
	_, err = store.Merge("sonkoach", result(503, 103, nil), at(14, 0, 5))
	require.NoError(t, err)

	history, err := store.Load("sonkoach")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-11-13", "2025-11-14"}, history.Dates())

	day := history["2025-11-13"]
	assert.Len(t, day.Hourly, 2)
	assert.Equal(t, 502, day.Hirings)
	assert.Equal(t, 103, day.Reviews)
	assert.Equal(t, at(13, 10, 0).Unix(), day.LastUpdated.Unix())

	assert.Len(t, history["2025-11-14"].Hourly, 1)
}

func TestHistoryStore_UsesConfiguredZone(t *testing.T) {
	store, _ := newTestStore(t)

	// 23:30 UTC on the 12th is 08:30 on the 13th in Seoul.
	_, err := store.Merge("sonkoach", result(1, 1, nil), time.Date(2025, time.November, 12, 23, 30, 0, 0, time.UTC))
	require.NoError(t, err)

	history, err := store.Load("sonkoach")
	require.NoError(t, err)
	require.Contains(t, history, "2025-11-13")
	assert.Contains(t, history["2025-11-13"].Hourly, "08:30")
}

func TestHistoryStore_CorruptFileIsBackedUp(t *testing.T) {
	store, logger := newTestStore(t)
	path := store.Path("sonkoach")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))

	_, err := store.Merge("sonkoach", result(507, 0, nil), at(13, 9, 0))
	require.NoError(t, err)

	backup, err := os.ReadFile(path + ".corrupt")
	require.NoError(t, err)
	assert.Equal(t, []byte("{"), backup)

	history, err := store.Load("sonkoach")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-11-13"}, history.Dates())
	assert.Equal(t, 507, history["2025-11-13"].Hirings)
	assert.Len(t, logger.Entries("warn"), 1)
}

func TestHistoryStore_EmptyFileIsEmptyHistory(t *testing.T) {
	store, logger := newTestStore(t)
	path := store.Path("sonkoach")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	_, err := store.Merge("sonkoach", result(507, 0, nil), at(13, 9, 0))
	require.NoError(t, err)

	_, err = os.Stat(path + ".corrupt")
	assert.True(t, os.IsNotExist(err))
	assert.Empty(t, logger.Entries("warn"))
}

func TestHistoryStore_LoadReportsCorruption(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, os.WriteFile(store.Path("sonkoach"), []byte(`{"not-a-date":{}}`), 0644))

	_, err := store.Load("sonkoach")
	assert.True(t, errors.Is(err, ErrCorruptHistory))

	_, err = os.Stat(store.Path("sonkoach") + ".corrupt")
	assert.True(t, os.IsNotExist(err), "Load must not repair")
}

func TestHistoryStore_LoadMissingIsEmpty(t *testing.T) {
	store, _ := newTestStore(t)

	history, err := store.Load("nobody")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestHistoryStore_CrashBeforeRenameKeepsOriginal(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.Merge("sonkoach", result(500, 100, nil), at(13, 9, 0))
	require.NoError(t, err)
	path := store.Path("sonkoach")
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	var tmpSeen bool
	store.rename = func(oldpath, newpath string) error {
		_, statErr := os.Stat(oldpath)
		tmpSeen = statErr == nil
		return errors.New("killed")
	}

	_, err = store.Merge("sonkoach", result(999, 999, nil), at(13, 10, 0))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrWriteFailed))
	assert.True(t, tmpSeen, "the new content is fully written before rename")

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestHistoryStore_UnwritableDirFails(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	store := NewHistoryStore(storeConfig(filepath.Join(blocker, "data")), nil, &testutil.MockLogger{})
	_, err := store.Merge("sonkoach", result(1, 1, nil), at(13, 9, 0))
	assert.True(t, errors.Is(err, ErrWriteFailed))
}

func TestHistoryStore_ScenarioSameMinuteTwice(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Merge("sonkoach", result(507, 120, nil), at(13, 9, 0))
	require.NoError(t, err)
	_, err = store.Merge("sonkoach", result(508, 121, nil), at(13, 9, 0))
	require.NoError(t, err)

	history, err := store.Load("sonkoach")
	require.NoError(t, err)
	hourly := history["2025-11-13"].Hourly
	require.Len(t, hourly, 1)
	assert.Equal(t, 508, hourly["09:00"].Hirings)
	assert.Equal(t, 121, hourly["09:00"].Reviews)
}

func TestHistoryStore_ReadsLegacyRecords(t *testing.T) {
	store, _ := newTestStore(t)
	legacy := `{"2025-08-19": {"hirings": 480, "reviews": 200, "timestamp": "2025-08-19T09:00:12.123456"}}`
	require.NoError(t, os.WriteFile(store.Path("sonkoach"), []byte(legacy), 0644))

	_, err := store.Merge("sonkoach", result(507, 210, nil), time.Date(2025, time.August, 20, 9, 0, 0, 0, kst))
	require.NoError(t, err)

	history, err := store.Load("sonkoach")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-08-19", "2025-08-20"}, history.Dates())
	assert.Equal(t, 480, history["2025-08-19"].Hirings)
	assert.True(t, history["2025-08-19"].LastUpdated.Equal(time.Date(2025, time.August, 19, 9, 0, 12, 123456000, kst)),
		"zone-less legacy time is wall clock in the configured zone, got %s", history["2025-08-19"].LastUpdated)
}

func TestHistoryStore_RetentionMovesOldDaysToArchive(t *testing.T) {
	dir := t.TempDir()
	conf := storeConfig(dir)
	conf.Storage.RetentionDays = 90
	logger := &testutil.MockLogger{}
	compressor, err := NewZstdCompressor(conf)
	require.NoError(t, err)
	archive := NewColdArchive(conf, compressor, logger)
	store := NewHistoryStore(conf, archive, logger)

	old := time.Date(2025, time.August, 1, 9, 0, 0, 0, kst)
	_, err = store.Merge("sonkoach", result(400, 150, nil), old)
	require.NoError(t, err)
	_, err = store.Merge("sonkoach", result(507, 210, nil), at(13, 9, 0))
	require.NoError(t, err)

	live, err := store.Load("sonkoach")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-11-13"}, live.Dates())

	archived, err := archive.Load("sonkoach")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-08-01"}, archived.Dates())
	assert.Equal(t, 400, archived["2025-08-01"].Hirings)

	all, err := store.LoadAll("sonkoach")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-08-01", "2025-11-13"}, all.Dates())
}

func TestHistoryStore_RetentionKeepsDaysWhenArchiveFails(t *testing.T) {
	dir := t.TempDir()
	conf := storeConfig(dir)
	conf.Storage.RetentionDays = 1
	logger := &testutil.MockLogger{}
	archive := NewColdArchive(conf, &testutil.MockCompressor{
		CompressFn: func([]byte) ([]byte, error) { return nil, errors.New("no space") },
	}, logger)
	store := NewHistoryStore(conf, archive, logger)

	_, err := store.Merge("sonkoach", result(1, 1, nil), at(12, 9, 0))
	require.NoError(t, err)
	_, err = store.Merge("sonkoach", result(2, 2, nil), at(13, 9, 0))
	require.NoError(t, err)

	live, err := store.Load("sonkoach")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-11-12", "2025-11-13"}, live.Dates())
	assert.Len(t, logger.Entries("error"), 1)
}
