package domain

import (
	"fmt"
	"path/filepath"
	"time"
)

type AssetKind string

const (
	AudioAssetKind AssetKind = "audio"
	ImageAssetKind AssetKind = "image"
	VideoAssetKind AssetKind = "video"
)

type AssetStatus string

const (
	AssetPending  AssetStatus = "pending"
	AssetComplete AssetStatus = "complete"
	AssetFailed   AssetStatus = "failed"
)

type AssetKey struct {
	SceneNumber int
	Kind        AssetKind
}

func (k AssetKey) String() string {
	return fmt.Sprintf("scene_%d/%s", k.SceneNumber, k.Kind)
}

type AssetRecord struct {
	SceneNumber int         `json:"scene_number"`
	Kind        AssetKind   `json:"kind"`
	Path        string      `json:"path"`
	Status      AssetStatus `json:"status"`
	Size        int64       `json:"size"`
	Checksum    string      `json:"sha256,omitempty"`
	Error       string      `json:"error,omitempty"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (r AssetRecord) Key() AssetKey {
	return AssetKey{SceneNumber: r.SceneNumber, Kind: r.Kind}
}

// AssetLayout maps a scene number and asset kind to its on-disk path. The
// path depends on nothing else, so it doubles as the cache key across runs.
type AssetLayout struct {
	AudioDir  string
	VisualDir string
}

func (l AssetLayout) Path(sceneNumber int, kind AssetKind) string {
	switch kind {
	case AudioAssetKind:
		return filepath.Join(l.AudioDir, fmt.Sprintf("scene_%d.mp3", sceneNumber))
	case ImageAssetKind:
		return filepath.Join(l.VisualDir, fmt.Sprintf("scene_%d.png", sceneNumber))
	default:
		return filepath.Join(l.VisualDir, fmt.Sprintf("scene_%d.mp4", sceneNumber))
	}
}

func (l AssetLayout) AudioPath(sceneNumber int) string {
	return l.Path(sceneNumber, AudioAssetKind)
}

func (l AssetLayout) ImagePath(sceneNumber int) string {
	return l.Path(sceneNumber, ImageAssetKind)
}

func (l AssetLayout) VideoPath(sceneNumber int) string {
	return l.Path(sceneNumber, VideoAssetKind)
}

// VisualKindFor returns the asset kind the dispatcher fetches for a visual
// type. Stock footage and generated video both land in the .mp4 slot.
func VisualKindFor(visualType VisualType) AssetKind {
	if visualType == ImageVisualType {
		return ImageAssetKind
	}
	return VideoAssetKind
}

type VideoJobOutcome string

const (
	VideoJobReady    VideoJobOutcome = "ready"
	VideoJobFailed   VideoJobOutcome = "failed"
	VideoJobTimedOut VideoJobOutcome = "timed_out"
)
