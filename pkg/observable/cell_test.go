package observable

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCell_SubscribeReceivesCurrentValue(t *testing.T) {
	c := NewCell("a")
	ch, cancel := c.Subscribe()
	defer cancel()

	assert.Equal(t, "a", <-ch)
}

func TestCell_SetNotifiesEverySubscriber(t *testing.T) {
	c := NewCell(0)
	first, cancelFirst := c.Subscribe()
	defer cancelFirst()
	second, cancelSecond := c.Subscribe()
	defer cancelSecond()
	<-first
	<-second

	c.Set(7)

	assert.Equal(t, 7, <-first)
	assert.Equal(t, 7, <-second)
	assert.Equal(t, 7, c.Get())
}

func TestCell_SlowReaderSeesLatestOnly(t *testing.T) {
	c := NewCell(0)
	ch, cancel := c.Subscribe()
	defer cancel()

	c.Set(1)
	c.Set(2)
	c.Set(3)

	assert.Equal(t, 3, <-ch)
	select {
	case v := <-ch:
		t.Fatalf("unexpected extra value %d", v)
	default:
	}
}

func TestCell_CancelClosesChannel(t *testing.T) {
	c := NewCell(0)
	ch, cancel := c.Subscribe()
	<-ch
	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, c.Subscribers())

	c.Set(5)
	assert.Equal(t, 5, c.Get())
}

func TestCell_UpdateAppliesUnderLock(t *testing.T) {
	c := NewCell(0)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Update(func(v int) int { return v + 1 })
		}()
	}
	wg.Wait()
	require.Equal(t, 50, c.Get())
}

func TestCell_ReadOnlyViewTracksCell(t *testing.T) {
	c := NewCell([]string{"x"})
	view := c.ReadOnly()
	c.Set([]string{"y", "z"})

	assert.Equal(t, []string{"y", "z"}, view.Get())
	ch, cancel := view.Subscribe()
	defer cancel()
	assert.Equal(t, []string{"y", "z"}, <-ch)
}
