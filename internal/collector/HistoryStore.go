package collector

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"github.com/sa03134/soomgo-competitor-tracker/internal/models"
	"github.com/sa03134/soomgo-competitor-tracker/internal/providers"
	"github.com/sa03134/soomgo-competitor-tracker/internal/structures"
)

const (
	historySuffix = ".json"
	corruptSuffix = ".corrupt"
)

var (
	// ErrWriteFailed means the live history file was left as it was.
	ErrWriteFailed = errors.New("history write failed")
	// ErrCorruptHistory means a stored file could not be decoded.
	ErrCorruptHistory = errors.New("corrupt history")
)

// HistoryStore owns <storage.dir>/<id>.json. Every change is a full
// read-modify-write finished by an atomic rename.
type HistoryStore struct {
	mu            sync.Mutex
	dir           string
	fileMode      os.FileMode
	location      *time.Location
	retentionDays int
	archive       *ColdArchive
	logger        providers.Logger
	rename        renameFunc
}

func fileMode(conf *structures.Config) os.FileMode {
	if conf.Storage.FileMode == 0 {
		return 0644
	}
	return os.FileMode(conf.Storage.FileMode)
}

func NewHistoryStore(conf *structures.Config, archive *ColdArchive, logger providers.Logger) *HistoryStore {
	return &HistoryStore{
		dir:           conf.Storage.Dir,
		fileMode:      fileMode(conf),
		location:      conf.Location(),
		retentionDays: conf.Storage.RetentionDays,
		archive:       archive,
		logger:        logger,
		rename:        os.Rename,
	}
}

func (s *HistoryStore) Path(entityID string) string {
	return filepath.Join(s.dir, entityID+historySuffix)
}

// Load reads the live history without repairing it. A missing or zero-length
// file is an empty history; undecodable content yields ErrCorruptHistory.
func (s *HistoryStore) Load(entityID string) (models.EntityHistory, error) {
	data, err := os.ReadFile(s.Path(entityID))
	if err != nil {
		if os.IsNotExist(err) {
			return make(models.EntityHistory), nil
		}
		return nil, err
	}
	history, err := decodeHistory(data, s.location)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptHistory, s.Path(entityID), err)
	}
	return history, nil
}

// LoadAll returns archived days together with the live history.
func (s *HistoryStore) LoadAll(entityID string) (models.EntityHistory, error) {
	live, err := s.Load(entityID)
	if err != nil {
		return nil, err
	}
	if s.archive == nil {
		return live, nil
	}
	all, err := s.archive.Load(entityID)
	if err != nil {
		return nil, err
	}
	all.Absorb(live)
	return all, nil
}

// Merge folds result into the entity's history at now (converted to the
// configured zone) and rewrites the file atomically. It returns the updated
// day. Errors wrap ErrWriteFailed; the live file is then unchanged.
func (s *HistoryStore) Merge(entityID string, result *models.ExtractionResult, now time.Time) (*models.DailyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.Path(entityID)
	history, err := s.readForMerge(entityID, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrWriteFailed, path, err)
	}

	now = now.In(s.location)
	history.Merge(result, now)
	s.applyRetention(entityID, history, now)

	jsonData, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrWriteFailed, path, err)
	}
	if err := writeFileAtomic(path, jsonData, s.fileMode, s.rename); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrWriteFailed, path, err)
	}

	s.logger.Debugf(providers.TypeStore, "Persisted %s (%d day(s))", path, len(history))
	return history[now.Format(models.DateLayout)], nil
}

// readForMerge loads the current history. Content that does not decode is
// copied verbatim to <path>.corrupt and replaced by an empty history.
func (s *HistoryStore) readForMerge(entityID, path string) (models.EntityHistory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(models.EntityHistory), nil
		}
		return nil, err
	}

	history, err := decodeHistory(data, s.location)
	if err == nil {
		return history, nil
	}

	backup := path + corruptSuffix
	if werr := writeFileAtomic(backup, data, s.fileMode, s.rename); werr != nil {
		return nil, fmt.Errorf("back up corrupt history: %w", werr)
	}
	s.logger.Warnf(providers.TypeStore, "History of %s is unreadable (%s); saved to %s and starting over", entityID, err, backup)
	return make(models.EntityHistory), nil
}

// applyRetention moves days older than the retention window into the
// archive. Days stay live when archiving fails.
func (s *HistoryStore) applyRetention(entityID string, history models.EntityHistory, now time.Time) {
	expired := history.Expired(now, s.retentionDays)
	if len(expired) == 0 {
		return
	}
	if s.archive == nil {
		s.logger.Warnf(providers.TypeStore, "%s has %d day(s) past retention but no archive is configured", entityID, len(expired))
		return
	}
	if err := s.archive.Store(entityID, expired, now); err != nil {
		s.logger.Errorf(providers.TypeStore, "Keeping %d expired day(s) of %s live: %s", len(expired), entityID, err)
		return
	}
	history.Remove(expired)
}

func decodeHistory(data []byte, loc *time.Location) (models.EntityHistory, error) {
	history := make(models.EntityHistory)
	if len(bytes.TrimSpace(data)) == 0 {
		return history, nil
	}
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, err
	}
	if history == nil {
		history = make(models.EntityHistory)
	}
	for date, record := range history {
		if record == nil {
			delete(history, date)
			continue
		}
		if _, err := time.Parse(models.DateLayout, date); err != nil {
			return nil, fmt.Errorf("invalid date key %q", date)
		}
	}
	history.LocalizeLegacy(loc)
	return history, nil
}
