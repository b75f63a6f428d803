package workers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/John-6670/SimpleSocialApp/pkg/logger"
	"github.com/John-6670/SimpleSocialApp/pkg/queue"
	"github.com/stretchr/testify/assert"
)

func newTestWorker() *EngagementWorker {
	consumer := queue.NewKafkaConsumer([]string{"localhost:9092"}, "engagement-events", "test-group")
	return NewEngagementWorker(consumer, nil, nil, nil, nil, time.Hour, logger.New("error", "text"))
}

func TestWorkerLifecycle(t *testing.T) {
	t.Run("stop before start is safe and start returns promptly", func(t *testing.T) {
		w := newTestWorker()

		assert.NoError(t, w.Stop())
		assert.ErrorIs(t, w.Start(), context.Canceled)
	})

	t.Run("stop from another goroutine unblocks start", func(t *testing.T) {
		w := newTestWorker()

		var wg sync.WaitGroup
		wg.Add(1)
		var startErr error
		go func() {
			defer wg.Done()
			startErr = w.Start()
		}()

		assert.NoError(t, w.Stop())
		wg.Wait()
		assert.Error(t, startErr)
	})
}
