package notify

import (
	"sync"
	"testing"
)

func TestMarkShownFirstWins(t *testing.T) {
	state := NewState()
	if !state.MarkShown(CategoryPluginUpdates) {
		t.Fatal("first MarkShown should return true")
	}
	if state.MarkShown(CategoryPluginUpdates) {
		t.Fatal("second MarkShown should return false")
	}
	if !state.Shown(CategoryPluginUpdates) {
		t.Fatal("Shown should report the category")
	}
}

func TestMarkShownConcurrent(t *testing.T) {
	state := NewState()

	const goroutines = 32
	var wg sync.WaitGroup
	firsts := make(chan bool, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			firsts <- state.MarkShown(CategoryNewChannel)
		}()
	}
	wg.Wait()
	close(firsts)

	var winners int
	for first := range firsts {
		if first {
			winners++
		}
	}
	if winners != 1 {
		t.Errorf("expected exactly one winner, got %d", winners)
	}
}

func TestRememberIncompatibleReturnsOnlyNew(t *testing.T) {
	state := NewState()

	fresh := state.RememberIncompatible([]string{"a", "b"})
	if len(fresh) != 2 {
		t.Fatalf("expected both ids fresh, got %v", fresh)
	}

	fresh = state.RememberIncompatible([]string{"b", "c"})
	if len(fresh) != 1 || fresh[0] != "c" {
		t.Fatalf("expected only c fresh, got %v", fresh)
	}
}

func TestResetClearsEverything(t *testing.T) {
	state := NewState()
	state.MarkShown(CategoryPluginUpdates)
	state.RememberIncompatible([]string{"a"})

	state.Reset()

	if state.Shown(CategoryPluginUpdates) {
		t.Error("Reset should clear shown categories")
	}
	if fresh := state.RememberIncompatible([]string{"a"}); len(fresh) != 1 {
		t.Error("Reset should clear the incompatible cache")
	}
}
