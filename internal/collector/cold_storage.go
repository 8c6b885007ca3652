package collector

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"github.com/sa03134/soomgo-competitor-tracker/internal/collector/interfaces"
	"github.com/sa03134/soomgo-competitor-tracker/internal/models"
	"github.com/sa03134/soomgo-competitor-tracker/internal/providers"
	"github.com/sa03134/soomgo-competitor-tracker/internal/structures"
)

const archiveSuffix = ".archive.zst"

// ArchiveFile is the on-disk format of one entity's archive.
type ArchiveFile struct {
	History   models.EntityHistory `json:"history"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

// ColdArchive keeps the days that fell out of the live retention window,
// zstd-compressed, one file per entity.
type ColdArchive struct {
	mu         sync.Mutex
	dir        string
	fileMode   os.FileMode
	compressor interfaces.CompressorInterface
	logger     providers.Logger
	rename     renameFunc
}

func NewColdArchive(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) *ColdArchive {
	return &ColdArchive{
		dir:        conf.ArchivePath(),
		fileMode:   fileMode(conf),
		compressor: compressor,
		logger:     logger,
		rename:     os.Rename,
	}
}

// Store merges days into the entity's archive. Dates already archived are
// overwritten, so storing the same days twice is harmless.
func (a *ColdArchive) Store(entityID string, days models.EntityHistory, now time.Time) error {
	if len(days) == 0 {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	archived, err := a.load(entityID)
	if err != nil {
		return err
	}
	archived.Absorb(days)

	jsonData, err := json.Marshal(&ArchiveFile{History: archived, UpdatedAt: now})
	if err != nil {
		return err
	}
	compressed, err := a.compressor.Compress(jsonData)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(a.path(entityID), compressed, a.fileMode, a.rename); err != nil {
		return fmt.Errorf("write archive for %s: %w", entityID, err)
	}

	a.logger.Infof(providers.TypeStore, "Archived %d day(s) of %s, archive holds %d", len(days), entityID, len(archived))
	return nil
}

// Load returns the archived days of an entity, empty when nothing was archived.
func (a *ColdArchive) Load(entityID string) (models.EntityHistory, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.load(entityID)
}

// Entities lists the ids that have an archive file.
func (a *ColdArchive) Entities() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(a.dir, "*"+archiveSuffix))
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(files))
	for _, file := range files {
		ids = append(ids, strings.TrimSuffix(filepath.Base(file), archiveSuffix))
	}
	return ids, nil
}

func (a *ColdArchive) Close() {
	a.compressor.Close()
}

func (a *ColdArchive) load(entityID string) (models.EntityHistory, error) {
	path := a.path(entityID)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(models.EntityHistory), nil
		}
		return nil, err
	}

	decompressed, err := a.compressor.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("%w: decompress %s: %v", ErrCorruptHistory, path, err)
	}

	var af ArchiveFile
	if err := json.Unmarshal(decompressed, &af); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrCorruptHistory, path, err)
	}
	if af.History == nil {
		af.History = make(models.EntityHistory)
	}
	return af.History, nil
}

func (a *ColdArchive) path(entityID string) string {
	return filepath.Join(a.dir, entityID+archiveSuffix)
}
