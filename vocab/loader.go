package vocab

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/rushteam/triagekit/core"
)

// Loader 词表加载器接口
// 支持从不同来源加载词表（本地文件、Store 等），返回的 Catalog 已通过 Validate。
type Loader interface {
	// Load 加载词表，source 是数据源标识（文件路径、store key 等）
	Load(ctx context.Context, source string) (*Catalog, error)
}

// FileLoader 本地文件词表加载器，按扩展名选择格式：.yaml/.yml、.json、.toml
type FileLoader struct{}

// NewFileLoader 创建本地文件词表加载器
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load 从本地文件加载词表
func (l *FileLoader) Load(_ context.Context, path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Parse(data, strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
}

// Parse 按格式解析并校验词表，format 取值 yaml/yml/json/toml。
func Parse(data []byte, format string) (*Catalog, error) {
	var c Catalog
	var err error
	switch format {
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &c)
	case "json":
		err = json.Unmarshal(data, &c)
	case "toml":
		err = toml.Unmarshal(data, &c)
	default:
		return nil, core.NewDomainError(core.ModuleVocab, core.ErrorCodeNotSupported,
			fmt.Sprintf("vocab: unsupported catalog format %q", format))
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s catalog: %w", format, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// StoreLoader 从 core.Store 加载 JSON 格式的词表（如 Redis 中集中下发的词表）。
type StoreLoader struct {
	Store core.Store
}

// NewStoreLoader 创建 Store 词表加载器
func NewStoreLoader(store core.Store) *StoreLoader {
	return &StoreLoader{Store: store}
}

// Load 从 Store 读取 key 对应的词表
func (l *StoreLoader) Load(ctx context.Context, key string) (*Catalog, error) {
	if l.Store == nil {
		return nil, fmt.Errorf("vocab: store loader has no store")
	}
	data, err := l.Store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load catalog %q from %s: %w", key, l.Store.Name(), err)
	}
	return Parse(data, "json")
}

// Save 以 JSON 格式写入词表，供 StoreLoader 读取。
func Save(ctx context.Context, store core.Store, key string, c *Catalog) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return store.Set(ctx, key, data)
}
