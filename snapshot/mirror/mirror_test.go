package mirror_test

import (
	"sync"
	"testing"
	"time"

	"github.com/buildstate/buildstate/common/stats"
	"github.com/buildstate/buildstate/snapshot"
	"github.com/buildstate/buildstate/snapshot/mirror"
)

func TestGetReturnsIdenticalObject(t *testing.T) {
	m := mirror.New(stats.NilStatsReceiver())
	snap := snapshot.NewFileSnapshot("/f", "f", "aa", time.Now())

	if cached := m.PutIfAbsent("/f", snap); cached != snap {
		t.Fatalf("first put should win")
	}
	got1, ok := m.Get("/f")
	if !ok {
		t.Fatalf("expected a hit")
	}
	got2, _ := m.Get("/f")
	if got1 != got2 || got1 != snap {
		t.Errorf("repeated lookups must return the identical object")
	}
}

func TestPutIfAbsentLoserAdoptsWinner(t *testing.T) {
	m := mirror.New(stats.NilStatsReceiver())
	winner := snapshot.NewFileSnapshot("/f", "f", "aa", time.Now())
	loser := snapshot.NewFileSnapshot("/f", "f", "aa", time.Now())

	m.PutIfAbsent("/f", winner)
	if cached := m.PutIfAbsent("/f", loser); cached != winner {
		t.Errorf("second put must return the already-cached value")
	}
}

func TestPutIfAbsentConcurrent(t *testing.T) {
	m := mirror.New(stats.NilStatsReceiver())
	const workers = 16
	results := make([]snapshot.FSSnapshot, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = m.PutIfAbsent("/f", snapshot.NewMissingSnapshot("/f"))
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		if results[i] != results[0] {
			t.Fatalf("all callers must observe the same canonical snapshot")
		}
	}
	if m.Len() != 1 {
		t.Errorf("expected exactly one entry, got %d", m.Len())
	}
}

func TestGetTreeReadsThroughCanonicalEntry(t *testing.T) {
	m := mirror.New(stats.NilStatsReceiver())
	dir := snapshot.NewDirSnapshot("/d", "d", nil)

	// Cached via the plain path cache, visible to tree lookups.
	m.PutIfAbsent("/d", dir)
	got, ok := m.GetTree("/d")
	if !ok || got != dir {
		t.Errorf("tree lookup should read through the plain entry for a directory")
	}

	// A cached file never serves a tree request.
	m.PutIfAbsent("/f", snapshot.NewFileSnapshot("/f", "f", "aa", time.Now()))
	if _, ok := m.GetTree("/f"); ok {
		t.Errorf("file entry must not serve tree lookups")
	}
}

func TestPutTreeIfAbsent(t *testing.T) {
	m := mirror.New(stats.NilStatsReceiver())
	dir := snapshot.NewDirSnapshot("/d", "d", nil)
	other := snapshot.NewDirSnapshot("/d", "d", nil)

	if got := m.PutTreeIfAbsent("/d", dir); got != dir {
		t.Fatalf("first tree put should win")
	}
	if got := m.PutTreeIfAbsent("/d", other); got != dir {
		t.Errorf("second tree put must return the cached directory")
	}
	// The same canonical entry serves plain lookups.
	if got, _ := m.Get("/d"); got != dir {
		t.Errorf("plain lookup should return the tree entry")
	}
}
