package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/pribylovaa/sciarticles/internal/models"
)

// File — хранилище сессии в JSON-файле: состояние переживает перезапуск
// процесса (CLI живёт от вызова до вызова).
//
// Контракт:
//  1. OpenFile читает существующий файл; отсутствие файла — пустая сессия;
//  2. Set/Clear сначала меняют состояние в памяти, затем пишут на диск
//     атомарно (временный файл + rename), права 0600;
//  3. ошибка записи не откатывает состояние в памяти — Clear обязан быть
//     виден немедленно даже при сбое диска (битую запись починит
//     следующий успешный Set).
type File struct {
	mu   sync.RWMutex
	path string
	cur  *models.Session
}

// OpenFile открывает (и при наличии — читает) файл сессии по пути path.
func OpenFile(path string) (*File, error) {
	const op = "session.OpenFile"

	f := &File{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return f, nil
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var s models.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%s: corrupt session file %q: %w", op, path, err)
	}

	f.cur = &s
	return f, nil
}

func (f *File) Get() (*models.Session, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.cur == nil {
		return nil, false
	}

	cp := *f.cur
	return &cp, true
}

func (f *File) Set(s *models.Session) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if s == nil {
		f.cur = nil
	} else {
		cp := *s
		f.cur = &cp
	}

	_ = f.persistLocked()
}

func (f *File) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.cur = nil
	_ = f.persistLocked()
}

// persistLocked пишет текущее состояние на диск; вызывается под mu.
func (f *File) persistLocked() error {
	if f.cur == nil {
		err := os.Remove(f.path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}

		return nil
	}

	data, err := json.Marshal(f.cur)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), f.path)
}
