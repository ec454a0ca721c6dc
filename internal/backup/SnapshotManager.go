package backup

import (
	"fmt"
	"os"
	"reactbot/internal/backup/interfaces"
	"reactbot/internal/providers"
	"reactbot/internal/storage"
	"time"

	json "github.com/goccy/go-json"
)

const SnapshotVersion = 1

// Snapshot holds every stored document, keyed by collection then by key.
type Snapshot struct {
	Version     int                                               `json:"version"`
	CreatedAt   time.Time                                         `json:"created_at"`
	Collections map[storage.Collection]map[string]json.RawMessage `json:"collections"`
}

// Count returns the number of documents per collection.
func (s *Snapshot) Count() map[storage.Collection]int {
	out := make(map[storage.Collection]int, len(s.Collections))
	for c, docs := range s.Collections {
		out[c] = len(docs)
	}
	return out
}

type SnapshotManager struct {
	store      storage.DocumentStoreInterface
	compressor interfaces.CompressorInterface
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
	now        func() time.Time
}

func NewSnapshotManager(compressor interfaces.CompressorInterface, store storage.DocumentStoreInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *SnapshotManager {
	return &SnapshotManager{
		compressor: compressor,
		store:      store,
		logger:     logger,
		metrics:    metrics,
		now:        time.Now,
	}
}

// Take reads every document of every collection.
func (f *SnapshotManager) Take() (*Snapshot, error) {
	snap := &Snapshot{
		Version:     SnapshotVersion,
		CreatedAt:   f.now().UTC(),
		Collections: make(map[storage.Collection]map[string]json.RawMessage, len(storage.Collections)),
	}
	for _, c := range storage.Collections {
		keys, err := f.store.Keys(c)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", c, err)
		}
		docs := make(map[string]json.RawMessage, len(keys))
		for _, key := range keys {
			raw, err := f.store.Load(c, key)
			if err != nil {
				return nil, fmt.Errorf("load %s/%s: %w", c, key, err)
			}
			docs[key] = raw
		}
		snap.Collections[c] = docs
	}
	return snap, nil
}

func (f *SnapshotManager) SaveToFile(fileName string) error {
	start := time.Now()
	defer func() { f.metrics.ObservePersistenceDuration(time.Since(start)) }()

	snap, err := f.Take()
	if err != nil {
		return err
	}

	jsonData, err := json.Marshal(snap)
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

	for c, n := range snap.Count() {
		f.metrics.SetDocumentsTotal(string(c), n)
	}
	return os.Rename(tmpFile, fileName)
}

func (f *SnapshotManager) Close() {
	f.compressor.Close()
}

// LoadFromFile reads a snapshot. A missing file yields nil without error.
func (f *SnapshotManager) LoadFromFile(fileName string) (*Snapshot, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	decompressed, err := f.compressor.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", fileName, err)
	}

	var snap Snapshot
	if err = json.Unmarshal(decompressed, &snap); err != nil {
		return nil, fmt.Errorf("decode %s: %w", fileName, err)
	}
	if snap.Version > SnapshotVersion {
		return nil, fmt.Errorf("snapshot %s has unsupported version %d", fileName, snap.Version)
	}
	return &snap, nil
}

// Empty reports whether no collection holds a document.
func (f *SnapshotManager) Empty() (bool, error) {
	for _, c := range storage.Collections {
		keys, err := f.store.Keys(c)
		if err != nil {
			return false, err
		}
		if len(keys) > 0 {
			return false, nil
		}
	}
	return true, nil
}

// RestoreIfEmpty writes the snapshot documents back, but only into an empty
// store. It returns the number of restored documents.
func (f *SnapshotManager) RestoreIfEmpty(fileName string) (int, error) {
	empty, err := f.Empty()
	if err != nil {
		return 0, err
	}
	if !empty {
		return 0, nil
	}

	snap, err := f.LoadFromFile(fileName)
	if err != nil || snap == nil {
		return 0, err
	}

	restored := 0
	for c, docs := range snap.Collections {
		for key, raw := range docs {
			if err = f.store.Save(c, key, raw); err != nil {
				f.logger.Warnf(providers.TypeStore, "Skipping %s/%s while restoring: %s", c, key, err)
				continue
			}
			restored++
		}
	}
	return restored, nil
}
