package channel_utils

import (
	"sync"

	"github.com/brettsmiles-bit/ai-video-maker/application/ports/outbound"
)

// MergeChannels fans several channels into one that closes after all of
// them have closed. Forwarders run on workerPool, which must have room for
// len(channels)+1 long-lived tasks.
func MergeChannels[T any](workerPool outbound.TaskDispatcher, channels ...<-chan T) (<-chan T, error) {
	var wg sync.WaitGroup
	merged := make(chan T)

	output := func(c <-chan T) {
		defer wg.Done()
		for val := range c {
			merged <- val
		}
	}

	wg.Add(len(channels))
	for i, c := range channels {
		ch := c
		err := workerPool.Submit(func() {
			output(ch)
		})
		if err != nil {
			wg.Add(-(len(channels) - i))
			go func() {
				wg.Wait()
				close(merged)
			}()
			return nil, err
		}
	}

	err := workerPool.Submit(func() {
		wg.Wait()
		close(merged)
	})
	if err != nil {
		return nil, err
	}

	return merged, nil
}
