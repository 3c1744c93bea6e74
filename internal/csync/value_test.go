package csync

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValueGetSet(t *testing.T) {
	t.Parallel()

	v := NewValue("light")
	require.Equal(t, "light", v.Get())

	v.Set("dark")
	require.Equal(t, "dark", v.Get())
}

func TestValueStruct(t *testing.T) {
	t.Parallel()

	type prefs struct {
		Theme string
		Ok    bool
	}

	v := NewValue(prefs{Theme: "dark", Ok: true})
	require.Equal(t, prefs{Theme: "dark", Ok: true}, v.Get())

	v.Set(prefs{Theme: "light"})
	require.Equal(t, prefs{Theme: "light"}, v.Get())
}

func TestValueRejectsReferenceTypes(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() { NewValue(&struct{}{}) })
	require.Panics(t, func() { NewValue([]string{"a"}) })
	require.Panics(t, func() { NewValue(map[string]int{"a": 1}) })
}

func TestValueConcurrentAccess(t *testing.T) {
	t.Parallel()

	v := NewValue(0)
	var wg sync.WaitGroup
	for i := range 100 {
		wg.Go(func() { v.Set(i) })
		wg.Go(func() { _ = v.Get() })
	}
	wg.Wait()

	got := v.Get()
	require.GreaterOrEqual(t, got, 0)
	require.Less(t, got, 100)
}
