package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/brettsmiles-bit/ai-video-maker/application/ports/outbound"
	"github.com/brettsmiles-bit/ai-video-maker/domain"
)

type manifestDocument struct {
	Assets []domain.AssetRecord `json:"assets"`
}

// fileAssetManifest keeps every record in memory and rewrites the JSON
// document on each Put. Writes go through a temp file and a rename.
type fileAssetManifest struct {
	logger  outbound.LoggerPort
	path    string
	mu      sync.Mutex
	records map[domain.AssetKey]domain.AssetRecord
}

func NewFileAssetManifest(logger outbound.LoggerPort, path string) (outbound.AssetManifestPort, error) {
	m := &fileAssetManifest{
		logger:  logger,
		path:    path,
		records: map[domain.AssetKey]domain.AssetRecord{},
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read asset manifest: %w", err)
	}

	var doc manifestDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		logger.ErrorWithFields(err, "Asset manifest is corrupt, starting empty", map[string]interface{}{
			"path": path,
		})
		return m, nil
	}
	for _, record := range doc.Assets {
		m.records[record.Key()] = record
	}
	return m, nil
}

func (m *fileAssetManifest) Get(_ context.Context, key domain.AssetKey) (*domain.AssetRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.records[key]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (m *fileAssetManifest) Put(_ context.Context, record domain.AssetRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[record.Key()] = record
	return m.flush()
}

func (m *fileAssetManifest) flush() error {
	doc := manifestDocument{Assets: make([]domain.AssetRecord, 0, len(m.records))}
	for _, record := range m.records {
		doc.Assets = append(doc.Assets, record)
	}
	sort.Slice(doc.Assets, func(i, j int) bool {
		if doc.Assets[i].SceneNumber != doc.Assets[j].SceneNumber {
			return doc.Assets[i].SceneNumber < doc.Assets[j].SceneNumber
		}
		return doc.Assets[i].Kind < doc.Assets[j].Kind
	})

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(m.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write asset manifest: %w", err)
	}
	if err := os.Rename(tmp, m.path); err != nil {
		m.logger.ErrorWithFields(err, "Failed to replace asset manifest", map[string]interface{}{
			"path": m.path,
		})
		return err
	}
	return nil
}
