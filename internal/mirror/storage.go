package mirror

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Storage 镜像持久化端口
type Storage interface {
	Load() ([]byte, error)
	Save(data []byte) error
}

// FileStorage 基于单文件的持久化实现，写入走临时文件加原子改名
type FileStorage struct {
	path string
}

// NewFileStorage 创建文件存储实例
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Load 读取快照；文件不存在视为空镜像
func (s *FileStorage) Load() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart mirror: %w", err)
	}
	return data, nil
}

// Save 原子写入快照
func (s *FileStorage) Save(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create mirror directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".cart-mirror-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write cart mirror: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace cart mirror: %w", err)
	}
	return nil
}

// MemoryStorage 内存存储实现，测试与临时会话使用
type MemoryStorage struct {
	data []byte
}

// NewMemoryStorage 创建内存存储实例
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Load 返回当前快照
func (s *MemoryStorage) Load() ([]byte, error) {
	return s.data, nil
}

// Save 替换当前快照
func (s *MemoryStorage) Save(data []byte) error {
	s.data = append([]byte(nil), data...)
	return nil
}
