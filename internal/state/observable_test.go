package state

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservable(t *testing.T) {
	t.Run("holds initial value", func(t *testing.T) {
		o := NewObservable(7)
		assert.Equal(t, 7, o.Value())
	})

	t.Run("set replaces value", func(t *testing.T) {
		o := NewObservable("a")
		o.Set("b")
		assert.Equal(t, "b", o.Value())
	})

	t.Run("update applies function", func(t *testing.T) {
		o := NewObservable(1)
		got := o.Update(func(v int) int { return v + 41 })
		assert.Equal(t, 42, got)
		assert.Equal(t, 42, o.Value())
	})

	t.Run("slow subscriber sees latest value", func(t *testing.T) {
		o := NewObservable(0)
		ch, cancel := o.Subscribe()
		defer cancel()

		for i := 1; i <= 10; i++ {
			o.Set(i)
		}

		select {
		case v := <-ch:
			assert.Equal(t, 10, v)
		case <-time.After(time.Second):
			t.Fatal("no value delivered")
		}

		select {
		case v := <-ch:
			t.Fatalf("unexpected extra value %d", v)
		default:
		}
	})

	t.Run("every subscriber is notified", func(t *testing.T) {
		o := NewObservable(0)
		a, cancelA := o.Subscribe()
		defer cancelA()
		b, cancelB := o.Subscribe()
		defer cancelB()

		o.Set(3)

		assert.Equal(t, 3, <-a)
		assert.Equal(t, 3, <-b)
	})

	t.Run("cancel closes channel and stops delivery", func(t *testing.T) {
		o := NewObservable(0)
		ch, cancel := o.Subscribe()

		cancel()
		cancel()
		o.Set(1)

		_, ok := <-ch
		assert.False(t, ok)
	})

	t.Run("concurrent writers", func(t *testing.T) {
		o := NewObservable(0)
		ch, cancel := o.Subscribe()
		defer cancel()

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					o.Update(func(v int) int { return v + 1 })
				}
			}()
		}
		wg.Wait()

		require.Equal(t, 800, o.Value())
		assert.Equal(t, 800, <-ch)
	})
}
