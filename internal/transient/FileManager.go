package transient

import (
	"fmt"
	json "github.com/goccy/go-json"
	"os"
	"promod/internal/models"
	"promod/internal/providers"
	"promod/internal/transient/interfaces"
	"sort"
	"time"
)

const snapshotVersion = 1

// FileManager moves live transient records between the in-memory store and
// a compressed snapshot file.
type FileManager struct {
	transients providers.TransientProviderInterface
	compressor interfaces.CompressorInterface
	logger     providers.Logger
	now        func() time.Time
}

func NewFileManager(compressor interfaces.CompressorInterface, transients providers.TransientProviderInterface, logger providers.Logger) *FileManager {
	return &FileManager{
		compressor: compressor,
		transients: transients,
		logger:     logger,
		now:        time.Now,
	}
}

func (f *FileManager) snapshot() *models.TransientSnapshot {
	keys := f.transients.Keys()
	sort.Strings(keys)

	snap := &models.TransientSnapshot{
		Version: snapshotVersion,
		SavedAt: f.now().UTC(),
		Records: make([]models.TransientRecord, 0, len(keys)),
	}
	for _, k := range keys {
		value, expireAt, ok := f.transients.GetWithExpiration(k)
		if !ok {
			continue
		}
		snap.Records = append(snap.Records, models.TransientRecord{Key: k, Value: value, ExpireAt: expireAt.UTC()})
	}
	return snap
}

func (f *FileManager) SaveToFile(fileName string) error {
	jsonData, err := json.Marshal(f.snapshot())
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

// LoadFromFile restores records that have not expired yet, keeping their
// original deadline. A missing file is not an error.
func (f *FileManager) LoadFromFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressedData, err := f.compressor.Decompress(data)
	if err != nil {
		return err
	}

	var snap models.TransientSnapshot
	if err := json.Unmarshal(decompressedData, &snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}

	now := f.now()
	restored := 0
	for _, r := range snap.Records {
		ttl := r.ExpireAt.Sub(now)
		if ttl < time.Second {
			continue
		}
		if err := f.transients.Set(r.Key, r.Value, ttl); err != nil {
			f.logger.Errorf(providers.TypeApp, "Restore transient record: %s", err)
			continue
		}
		restored++
	}
	f.logger.Infof(providers.TypeApp, "Restored %d of %d transient records", restored, len(snap.Records))
	return nil
}
