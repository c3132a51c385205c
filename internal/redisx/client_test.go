package redisx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_TimeoutsConfigured(t *testing.T) {
	c := New("localhost:6379")
	defer func() { _ = c.Close() }()

	opt := c.Options()
	assert.Equal(t, "localhost:6379", opt.Addr)
	assert.Equal(t, 2*time.Second, opt.DialTimeout)
	assert.Equal(t, 2*time.Second, opt.ReadTimeout)
	assert.Equal(t, 2*time.Second, opt.WriteTimeout)
}
