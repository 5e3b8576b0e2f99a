package clip

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCreateGetDelete(t *testing.T) {
	r := NewRegistry()
	c := r.Create("generator.solid-color", 0)
	require.NotEqual(t, uuid.Nil, c.ID)

	got, err := r.Get(c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, got)

	require.NoError(t, r.Delete(c.ID))
	_, err = r.Get(c.ID)
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestRegistryDeleteUnknown(t *testing.T) {
	r := NewRegistry()
	err := r.Delete(uuid.New())
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestRegistryList(t *testing.T) {
	r := NewRegistry()
	r.Create("a", 0)
	r.Create("b", 0)
	assert.Len(t, r.List(), 2)
}

func TestRegistryConcurrentReadersDoNotBlockEachOther(t *testing.T) {
	r := NewRegistry()
	c := r.Create("a", 0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Get(c.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}
