package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewUnreachable(t *testing.T) {
	_, err := New("127.0.0.1:1", "", 0, time.Second)
	assert.ErrorContains(t, err, "failed to connect to Redis")
}
