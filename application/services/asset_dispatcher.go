package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/brettsmiles-bit/ai-video-maker/application/ports/inbound"
	"github.com/brettsmiles-bit/ai-video-maker/application/ports/outbound"
	"github.com/brettsmiles-bit/ai-video-maker/channel_utils"
	"github.com/brettsmiles-bit/ai-video-maker/domain"
)

type AssetFetchers struct {
	Audio          inbound.AssetFetcherPort
	Image          inbound.AssetFetcherPort
	StockFootage   inbound.AssetFetcherPort
	GeneratedVideo inbound.AssetFetcherPort
}

// visualFor picks the visual fetcher for a scene. Anything that is not an
// image or stock footage is generated as video.
func (f AssetFetchers) visualFor(visualType domain.VisualType) inbound.AssetFetcherPort {
	switch visualType {
	case domain.ImageVisualType:
		return f.Image
	case domain.StockFootageVisualType:
		return f.StockFootage
	default:
		return f.GeneratedVideo
	}
}

type fetchTask struct {
	scene   domain.Scene
	fetcher inbound.AssetFetcherPort
}

type fetchResult struct {
	task fetchTask
	err  error
}

type assetDispatcher struct {
	logger     outbound.LoggerPort
	fetchPool  outbound.TaskDispatcher
	workerPool outbound.TaskDispatcher
	fetchers   AssetFetchers
}

// NewAssetDispatcher runs fetches on fetchPool, whose size bounds how many
// remote calls are in flight. workerPool carries the bookkeeping tasks.
func NewAssetDispatcher(logger outbound.LoggerPort, fetchPool outbound.TaskDispatcher, workerPool outbound.TaskDispatcher,
	fetchers AssetFetchers) inbound.AssetDispatcherPort {
	return &assetDispatcher{
		logger:     logger,
		fetchPool:  fetchPool,
		workerPool: workerPool,
		fetchers:   fetchers,
	}
}

func (d *assetDispatcher) Dispatch(ctx context.Context, shots domain.ShotList) (<-chan domain.ProgressEvent, error) {
	audioTasks := make([]fetchTask, 0, len(shots))
	visualTasks := make([]fetchTask, 0, len(shots))
	for _, scene := range shots {
		audioTasks = append(audioTasks, fetchTask{scene: scene, fetcher: d.fetchers.Audio})
		visualTasks = append(visualTasks, fetchTask{scene: scene, fetcher: d.fetchers.visualFor(scene.VisualType)})
	}
	total := len(audioTasks) + len(visualTasks)

	d.logger.InfoWithFields("Dispatching asset tasks", map[string]interface{}{
		"scenes": len(shots),
		"tasks":  total,
	})

	audioResults, err := d.runLane(ctx, audioTasks)
	if err != nil {
		return nil, err
	}
	visualResults, err := d.runLane(ctx, visualTasks)
	if err != nil {
		return nil, err
	}
	results, err := channel_utils.MergeChannels(d.workerPool, audioResults, visualResults)
	if err != nil {
		return nil, err
	}

	out := make(chan domain.ProgressEvent, total)
	err = d.workerPool.Submit(func() {
		defer close(out)
		completed := 0
		for result := range results {
			completed++
			event := domain.ProgressEvent{
				Completed:   completed,
				Total:       total,
				Fraction:    float64(completed) / float64(total),
				SceneNumber: result.task.scene.SceneNumber,
				Kind:        result.task.fetcher.Kind(),
			}
			if result.err != nil {
				event.Error = result.err.Error()
			}
			out <- event
		}
		d.logger.InfoWithFields("All asset tasks finished", map[string]interface{}{
			"tasks": completed,
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// runLane submits every task of a lane to the fetch pool and reports each
// result once it finishes. The lane channel closes after the last result.
func (d *assetDispatcher) runLane(ctx context.Context, tasks []fetchTask) (<-chan fetchResult, error) {
	results := make(chan fetchResult, len(tasks))

	err := d.workerPool.Submit(func() {
		defer close(results)

		var wg sync.WaitGroup
		for _, task := range tasks {
			wg.Add(1)
			err := d.fetchPool.Submit(func() {
				defer wg.Done()
				results <- fetchResult{task: task, err: d.runTask(ctx, task)}
			})
			if err != nil {
				wg.Done()
				results <- fetchResult{task: task, err: err}
			}
		}
		wg.Wait()
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (d *assetDispatcher) runTask(ctx context.Context, task fetchTask) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic while fetching %s for scene %d: %v", task.fetcher.Kind(), task.scene.SceneNumber, p)
			d.logger.ErrorWithFields(err, "Asset task panicked", map[string]interface{}{
				"scene_number": task.scene.SceneNumber,
				"kind":         task.fetcher.Kind(),
			})
		}
	}()
	return task.fetcher.Fetch(ctx, task.scene)
}
