package domain

import (
	"fmt"
	"sort"
	"strings"
)

type VisualType string

const (
	VideoVisualType        VisualType = "video"
	ImageVisualType        VisualType = "image"
	StockFootageVisualType VisualType = "stock_footage"
)

var VisualTypes = []VisualType{VideoVisualType, ImageVisualType, StockFootageVisualType}

func (v VisualType) Valid() bool {
	for _, t := range VisualTypes {
		if t == v {
			return true
		}
	}
	return false
}

type Scene struct {
	SceneNumber   int        `json:"scene_number" yaml:"scene_number" binding:"required"`
	NarrationText string     `json:"narration_text" yaml:"narration_text" binding:"required"`
	VisualPrompt  string     `json:"visual_prompt" yaml:"visual_prompt" binding:"required"`
	VisualType    VisualType `json:"visual_type" yaml:"visual_type" binding:"required,oneof=video image stock_footage"`
}

// ShotList is the ordered collection of scenes a video is built from. The
// slice order is whatever the producer gave it; scene numbers define the
// order of the final video.
type ShotList []Scene

func (s ShotList) Sorted() ShotList {
	sorted := make(ShotList, len(s))
	copy(sorted, s)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SceneNumber < sorted[j].SceneNumber
	})
	return sorted
}

func (s ShotList) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("%w: no scenes", ErrInvalidShotList)
	}
	seen := make(map[int]struct{}, len(s))
	for _, scene := range s {
		if _, ok := seen[scene.SceneNumber]; ok {
			return fmt.Errorf("%w: duplicate scene number %d", ErrInvalidShotList, scene.SceneNumber)
		}
		seen[scene.SceneNumber] = struct{}{}
		if strings.TrimSpace(scene.NarrationText) == "" {
			return fmt.Errorf("%w: scene %d has no narration", ErrInvalidShotList, scene.SceneNumber)
		}
		if !scene.VisualType.Valid() {
			return fmt.Errorf("%w: scene %d has unknown visual type %q", ErrInvalidShotList, scene.SceneNumber, scene.VisualType)
		}
	}
	return nil
}

func (s ShotList) SceneNumbers() []int {
	numbers := make([]int, 0, len(s))
	for _, scene := range s {
		numbers = append(numbers, scene.SceneNumber)
	}
	return numbers
}
