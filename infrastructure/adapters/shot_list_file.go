package adapters

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/brettsmiles-bit/ai-video-maker/application/ports/outbound"
	"github.com/brettsmiles-bit/ai-video-maker/domain"
	"gopkg.in/yaml.v3"
)

// ShotListFile reads and writes shot lists on disk. Files ending in .yaml or
// .yml are YAML; everything else is JSON in either the {"scenes": [...]} or
// the bare list shape.
type ShotListFile interface {
	Read(fileName string) (domain.ShotList, error)
	Write(fileName string, shots domain.ShotList) error
}

type shotListFile struct {
	logger outbound.LoggerPort
}

func NewShotListFile(logger outbound.LoggerPort) ShotListFile {
	return &shotListFile{
		logger: logger,
	}
}

type shotListDocument struct {
	Scenes domain.ShotList `json:"scenes" yaml:"scenes"`
}

func (f *shotListFile) Read(fileName string) (domain.ShotList, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}

	var doc shotListDocument
	if isYAML(fileName) {
		err = yaml.Unmarshal(data, &doc)
	} else if strings.HasPrefix(strings.TrimSpace(string(data)), "[") {
		err = json.Unmarshal(data, &doc.Scenes)
	} else {
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		f.logger.ErrorWithFields(err, "failed to decode shot list", map[string]interface{}{
			"file": fileName,
		})
		return nil, fmt.Errorf("failed to decode shot list %s: %w", fileName, err)
	}

	if err := doc.Scenes.Validate(); err != nil {
		return nil, err
	}
	return doc.Scenes, nil
}

func (f *shotListFile) Write(fileName string, shots domain.ShotList) error {
	doc := shotListDocument{Scenes: shots}

	var data []byte
	var err error
	if isYAML(fileName) {
		data, err = yaml.Marshal(doc)
	} else {
		data, err = json.MarshalIndent(doc, "", "  ")
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(fileName, data, 0o644); err != nil {
		f.logger.ErrorWithFields(err, "failed to write shot list", map[string]interface{}{
			"file": fileName,
		})
		return err
	}
	return nil
}

func isYAML(fileName string) bool {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
