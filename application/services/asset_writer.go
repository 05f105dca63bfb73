package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/brettsmiles-bit/ai-video-maker/application/ports/outbound"
	"github.com/brettsmiles-bit/ai-video-maker/domain"
)

var errEmptyAsset = errors.New("remote returned an empty body")

// openAsset starts the remote transfer for an asset. A nil reader with a nil
// error means there is nothing to store.
type openAsset func(ctx context.Context) (io.ReadCloser, error)

// assetWriter is the write path shared by every fetcher: skip what the
// manifest already holds, stream into a partial file, then publish it with
// a rename so a crash never leaves a truncated asset at the final path.
type assetWriter struct {
	logger   outbound.LoggerPort
	manifest outbound.AssetManifestPort
	layout   domain.AssetLayout
	now      func() time.Time
}

func newAssetWriter(logger outbound.LoggerPort, manifest outbound.AssetManifestPort, layout domain.AssetLayout) *assetWriter {
	return &assetWriter{
		logger:   logger,
		manifest: manifest,
		layout:   layout,
		now:      time.Now,
	}
}

func (w *assetWriter) write(ctx context.Context, scene domain.Scene, kind domain.AssetKind, provider string, open openAsset) error {
	path := w.layout.Path(scene.SceneNumber, kind)
	key := domain.AssetKey{SceneNumber: scene.SceneNumber, Kind: kind}
	fields := map[string]interface{}{
		"scene_number": scene.SceneNumber,
		"kind":         kind,
		"provider":     provider,
		"path":         path,
	}

	done, err := w.alreadyMaterialized(ctx, key, path)
	if err != nil {
		w.logger.ErrorWithFields(err, "Failed to read asset manifest", fields)
		return err
	}
	if done {
		w.logger.DebugWithFields("Asset already present, skipping", fields)
		return nil
	}

	body, err := open(ctx)
	if err != nil {
		return w.fail(ctx, key, path, provider, err, fields)
	}
	if body == nil {
		w.logger.InfoWithFields("Provider has nothing for this scene, skipping", fields)
		return nil
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			w.logger.ErrorWithFields(err, "Failed to close the asset stream", fields)
		}
	}(body)

	if err := w.manifest.Put(ctx, domain.AssetRecord{
		SceneNumber: scene.SceneNumber,
		Kind:        kind,
		Path:        path,
		Status:      domain.AssetPending,
		UpdatedAt:   w.now(),
	}); err != nil {
		w.logger.ErrorWithFields(err, "Failed to record pending asset", fields)
		return err
	}

	size, checksum, err := w.store(path, body)
	if err != nil {
		return w.fail(ctx, key, path, provider, err, fields)
	}

	if err := w.manifest.Put(ctx, domain.AssetRecord{
		SceneNumber: scene.SceneNumber,
		Kind:        kind,
		Path:        path,
		Status:      domain.AssetComplete,
		Size:        size,
		Checksum:    checksum,
		UpdatedAt:   w.now(),
	}); err != nil {
		w.logger.ErrorWithFields(err, "Failed to record completed asset", fields)
		return err
	}

	fields["size"] = size
	w.logger.InfoWithFields("Asset saved", fields)
	return nil
}

// alreadyMaterialized reports whether the asset can be reused. Files only
// reach the final path through a rename, so a non-empty file is adopted as
// complete unless a complete record disagrees with its size.
func (w *assetWriter) alreadyMaterialized(ctx context.Context, key domain.AssetKey, path string) (bool, error) {
	record, err := w.manifest.Get(ctx, key)
	if err != nil {
		return false, err
	}

	info, statErr := os.Stat(path)
	if statErr != nil || info.IsDir() || info.Size() == 0 {
		return false, nil
	}

	if record != nil && record.Status == domain.AssetComplete {
		return record.Size == info.Size(), nil
	}

	checksum, err := fileChecksum(path)
	if err != nil {
		return false, err
	}
	err = w.manifest.Put(ctx, domain.AssetRecord{
		SceneNumber: key.SceneNumber,
		Kind:        key.Kind,
		Path:        path,
		Status:      domain.AssetComplete,
		Size:        info.Size(),
		Checksum:    checksum,
		UpdatedAt:   w.now(),
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (w *assetWriter) store(path string, body io.Reader) (int64, string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, "", fmt.Errorf("failed to create asset directory: %w", err)
	}

	partial := path + ".part"
	file, err := os.Create(partial)
	if err != nil {
		return 0, "", fmt.Errorf("failed to create partial file: %w", err)
	}

	hash := sha256.New()
	size, err := io.Copy(io.MultiWriter(file, hash), body)
	if err == nil && size == 0 {
		err = errEmptyAsset
	}
	if err == nil {
		err = file.Sync()
	}
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(partial)
		return 0, "", fmt.Errorf("failed to write asset: %w", err)
	}

	if err := os.Rename(partial, path); err != nil {
		_ = os.Remove(partial)
		return 0, "", fmt.Errorf("failed to publish asset: %w", err)
	}
	return size, hex.EncodeToString(hash.Sum(nil)), nil
}

func (w *assetWriter) fail(ctx context.Context, key domain.AssetKey, path string, provider string, cause error, fields map[string]interface{}) error {
	_ = os.Remove(path + ".part")
	w.logger.ErrorWithFields(cause, "Failed to fetch asset", fields)

	err := w.manifest.Put(context.WithoutCancel(ctx), domain.AssetRecord{
		SceneNumber: key.SceneNumber,
		Kind:        key.Kind,
		Path:        path,
		Status:      domain.AssetFailed,
		Error:       cause.Error(),
		UpdatedAt:   w.now(),
	})
	if err != nil {
		w.logger.ErrorWithFields(err, "Failed to record failed asset", fields)
	}
	return fmt.Errorf("%s %s for scene %d: %w", provider, key.Kind, key.SceneNumber, cause)
}

func fileChecksum(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
