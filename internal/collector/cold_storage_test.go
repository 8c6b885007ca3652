package collector

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sa03134/soomgo-competitor-tracker/internal/models"
	"github.com/sa03134/soomgo-competitor-tracker/internal/structures"
	"github.com/sa03134/soomgo-competitor-tracker/internal/testutil"
)

func newTestArchive(t *testing.T) (*ColdArchive, string) {
	t.Helper()
	dir := t.TempDir()
	conf := &structures.Config{Storage: structures.StorageConfig{Dir: filepath.Join(dir, "live"), ArchiveDir: dir}}
	compressor, err := NewZstdCompressor(conf)
	require.NoError(t, err)
	return NewColdArchive(conf, compressor, &testutil.MockLogger{}), dir
}

func day(hirings int) *models.DailyRecord {
	return &models.DailyRecord{
		Hirings: hirings,
		Hourly:  map[string]*models.HourlyPoint{"09:00": {Hirings: hirings}},
	}
}

func TestColdArchive_StoreAndLoad(t *testing.T) {
	archive, dir := newTestArchive(t)
	now := time.Date(2025, time.November, 13, 9, 0, 0, 0, kst)

	require.NoError(t, archive.Store("sonkoach", models.EntityHistory{"2025-08-01": day(400)}, now))
	require.NoError(t, archive.Store("sonkoach", models.EntityHistory{"2025-08-02": day(401)}, now))

	_, err := os.Stat(filepath.Join(dir, "sonkoach.archive.zst"))
	require.NoError(t, err)

	history, err := archive.Load("sonkoach")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-08-01", "2025-08-02"}, history.Dates())
	assert.Equal(t, 401, history["2025-08-02"].Hirings)
}

func TestColdArchive_StoreIsIdempotent(t *testing.T) {
	archive, _ := newTestArchive(t)
	now := time.Date(2025, time.November, 13, 9, 0, 0, 0, kst)
	days := models.EntityHistory{"2025-08-01": day(400)}

	require.NoError(t, archive.Store("sonkoach", days, now))
	require.NoError(t, archive.Store("sonkoach", days, now))

	history, err := archive.Load("sonkoach")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestColdArchive_LoadMissing(t *testing.T) {
	archive, _ := newTestArchive(t)

	history, err := archive.Load("nobody")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestColdArchive_CorruptArchiveIsNotOverwritten(t *testing.T) {
	archive, dir := newTestArchive(t)
	path := filepath.Join(dir, "sonkoach.archive.zst")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0644))

	err := archive.Store("sonkoach", models.EntityHistory{"2025-08-01": day(400)}, time.Now())
	assert.True(t, errors.Is(err, ErrCorruptHistory))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("garbage"), data)
}

func TestColdArchive_Entities(t *testing.T) {
	archive, _ := newTestArchive(t)
	now := time.Now()

	require.NoError(t, archive.Store("alpha", models.EntityHistory{"2025-08-01": day(1)}, now))
	require.NoError(t, archive.Store("beta", models.EntityHistory{"2025-08-01": day(2)}, now))

	ids, err := archive.Entities()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alpha", "beta"}, ids)
}

func TestColdArchive_StoreNothing(t *testing.T) {
	archive, dir := newTestArchive(t)

	require.NoError(t, archive.Store("sonkoach", nil, time.Now()))
	_, err := os.Stat(filepath.Join(dir, "sonkoach.archive.zst"))
	assert.True(t, os.IsNotExist(err))
}
