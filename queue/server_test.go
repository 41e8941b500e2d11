package queue_test

import (
	"testing"
	"time"

	"sigantara/file-api/queue"

	"github.com/stretchr/testify/assert"
)

func TestRetryDelayDoubles(t *testing.T) {
	assert.Equal(t, 2*time.Second, queue.RetryDelay(1))
	assert.Equal(t, 4*time.Second, queue.RetryDelay(2))
	assert.Equal(t, 8*time.Second, queue.RetryDelay(3))
}

func TestRetryDelayStrictlyIncreasing(t *testing.T) {
	for n := 1; n < 10; n++ {
		assert.Greater(t, queue.RetryDelay(n+1), queue.RetryDelay(n))
	}
}
