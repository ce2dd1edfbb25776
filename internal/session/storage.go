package session

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/linistrate/linictl/internal/model"
	"github.com/pkg/errors"
)

const (
	// FileName is the durable session file, holding the serialized user
	// record and bearer token.
	FileName = "session.json"

	dirPerm  = 0o700
	filePerm = 0o600
)

var (
	ErrStorage = errors.New("session storage error")
)

// Storage persists the session record. Read returns nil without error when
// no session has been stored.
type Storage interface {
	Read() (*model.Session, error)
	Write(*model.Session) error
	Discard() error
}

// FileStorage keeps the session record as a JSON file under the state
// directory, readable only by the owner.
type FileStorage struct {
	path string
}

func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, errors.Wrap(ErrStorage, err.Error())
	}

	return &FileStorage{path: filepath.Join(dir, FileName)}, nil
}

func (f *FileStorage) Read() (*model.Session, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, errors.Wrap(ErrStorage, err.Error())
	}

	record := &model.Session{}
	if err := json.Unmarshal(data, record); err != nil {
		return nil, errors.Wrap(ErrStorage, "malformed session file: "+err.Error())
	}

	return record, nil
}

func (f *FileStorage) Write(record *model.Session) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return errors.Wrap(ErrStorage, err.Error())
	}

	if err := os.WriteFile(f.path, data, filePerm); err != nil {
		return errors.Wrap(ErrStorage, err.Error())
	}

	return nil
}

func (f *FileStorage) Discard() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(ErrStorage, err.Error())
	}

	return nil
}

// MemStorage is an in-memory Storage for tests and ephemeral sessions.
type MemStorage struct {
	record *model.Session
}

func NewMemStorage() *MemStorage {
	return &MemStorage{}
}

func (m *MemStorage) Read() (*model.Session, error) {
	return m.record, nil
}

func (m *MemStorage) Write(record *model.Session) error {
	m.record = record
	return nil
}

func (m *MemStorage) Discard() error {
	m.record = nil
	return nil
}
