package utils

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortManager_AllocatesAndReleases(t *testing.T) {
	pm := NewPortManager(4444, 2)

	first, err := pm.GetPort()
	require.NoError(t, err)
	second, err := pm.GetPort()
	require.NoError(t, err)

	assert.Equal(t, 4444, first)
	assert.Equal(t, 4445, second)

	_, err = pm.GetPort()
	assert.Error(t, err)

	pm.ReleasePort(first)
	again, err := pm.GetPort()
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestPortManager_ReleaseUnknownPort(t *testing.T) {
	pm := NewPortManager(4444, 1)
	pm.ReleasePort(9999)

	assert.Len(t, pm.inUse, 1)
}

func TestPortManager_ConcurrentCallersGetDistinctPorts(t *testing.T) {
	pm := NewPortManager(5000, 16)

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		ports = make(map[int]bool)
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			port, err := pm.GetPort()
			if err != nil {
				return
			}
			mu.Lock()
			ports[port] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, ports, 16)
}
