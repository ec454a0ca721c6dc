package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reactbot/internal/providers"
	"reactbot/internal/structures"
	"sort"
	"strings"
	"sync"
)

type Collection string

const (
	Users    Collection = "user_data"
	Servers  Collection = "server_data"
	Activity Collection = "activity"
)

var Collections = []Collection{Users, Servers, Activity}

var (
	ErrNotFound   = errors.New("document not found")
	ErrInvalidKey = errors.New("invalid document key")
)

const docExt = ".json"

// DocumentStoreInterface is a whole-document key-value store. Lock
// serializes read-modify-write cycles on one key.
type DocumentStoreInterface interface {
	Load(collection Collection, key string) ([]byte, error)
	Save(collection Collection, key string, data []byte) error
	Keys(collection Collection) ([]string, error)
	Lock(collection Collection, key string) func()
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

type FileStore struct {
	root   string
	mode   os.FileMode
	logger providers.Logger

	locksMu sync.Mutex
	locks   map[string]*keyLock
}

func NewFileStore(conf *structures.Config, logger providers.Logger) (DocumentStoreInterface, error) {
	fs := &FileStore{
		root:   conf.Persistence.DataDir,
		mode:   0644,
		logger: logger,
		locks:  make(map[string]*keyLock),
	}
	for _, c := range Collections {
		if err := os.MkdirAll(filepath.Join(fs.root, string(c)), 0755); err != nil {
			return nil, fmt.Errorf("create %s directory: %w", c, err)
		}
	}
	return fs, nil
}

func (fs *FileStore) path(collection Collection, key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(fs.root, string(collection), key+docExt), nil
}

func (fs *FileStore) Load(collection Collection, key string) ([]byte, error) {
	p, err := fs.path(collection, key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Save writes the document through a temp file and rename so readers never
// see a partial document.
func (fs *FileStore) Save(collection Collection, key string, data []byte) error {
	p, err := fs.path(collection, key)
	if err != nil {
		return err
	}

	tmpFile := p + ".tmp"
	file, err := os.OpenFile(tmpFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fs.mode)
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

	if err = os.Rename(tmpFile, p); err != nil {
		fs.logger.Errorf(providers.TypeStore, "Unable to replace %s: %s", p, err)
		os.Remove(tmpFile)
		return err
	}
	return nil
}

func (fs *FileStore) Keys(collection Collection) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(fs.root, string(collection)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, docExt) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, docExt))
	}
	sort.Strings(keys)
	return keys, nil
}

func (fs *FileStore) Lock(collection Collection, key string) func() {
	id := string(collection) + "/" + key

	fs.locksMu.Lock()
	l, ok := fs.locks[id]
	if !ok {
		l = &keyLock{}
		fs.locks[id] = l
	}
	l.refs++
	fs.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		fs.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(fs.locks, id)
		}
		fs.locksMu.Unlock()
	}
}
