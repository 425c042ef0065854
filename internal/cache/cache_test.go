package cache

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ppiankov/isnad/internal/model"
)

func TestMemoryLayer(t *testing.T) {
	m := NewMemoryLayer(time.Minute)

	if _, ok := m.Get("missing"); ok {
		t.Error("Expected miss")
	}

	value := []byte(`{"a":1}`)
	if err := m.Put("k", value); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	value[0] = 'x'

	got, ok := m.Get("k")
	if !ok || string(got) != `{"a":1}` {
		t.Errorf("Expected stored copy, got %q", got)
	}
	got[0] = 'y'
	if again, _ := m.Get("k"); string(again) != `{"a":1}` {
		t.Errorf("Reads must not alias the stored value, got %q", again)
	}

	_ = m.Drop("k")
	if _, ok := m.Get("k"); ok {
		t.Error("Expected miss after drop")
	}
}

func TestMemoryLayer_NoExpiry(t *testing.T) {
	m := NewMemoryLayer(0)
	_ = m.Put("k", []byte(`1`))
	if _, ok := m.Get("k"); !ok {
		t.Error("Expected entry without ttl to stay")
	}
}

func TestDiskLayer_RoundTripAndExpiry(t *testing.T) {
	dir := t.TempDir()
	d := NewDiskLayer(dir, time.Hour)

	if err := d.Put(LatestKey, []byte(`{"id":"1"}`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, ok := d.Get(LatestKey)
	if !ok || string(got) != `{"id":"1"}` {
		t.Errorf("Unexpected value %q", got)
	}

	if _, err := os.Stat(filepath.Join(dir, "isnad_v1_latest.cache")); err != nil {
		t.Errorf("Expected portable file name: %v", err)
	}
	if matches, _ := filepath.Glob(filepath.Join(dir, ".tmp-*")); len(matches) != 0 {
		t.Errorf("Temp files left behind: %v", matches)
	}

	short := NewDiskLayer(dir, time.Nanosecond)
	if err := short.Put("short", []byte(`1`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, ok := short.Get("short"); ok {
		t.Error("Expected expired entry to miss")
	}

	if err := d.Put("bad", []byte("not json")); err == nil {
		t.Error("Expected error for non-JSON value")
	}

	if err := d.Drop("never-written"); err != nil {
		t.Errorf("Dropping a missing entry should succeed, got %v", err)
	}
}

func TestLatestStore_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	cfg := model.CacheConfig{Enabled: true, Dir: dir, MemoryTTL: time.Minute, DiskTTL: time.Hour}

	if err := NewLatestStore(cfg).Save(sampleReport("from-disk")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// a fresh process sees only the disk layer
	memory := NewMemoryLayer(time.Minute)
	second := NewLatestStoreOver(memory, NewDiskLayer(dir, time.Hour))
	r, ok, err := second.Load()
	if err != nil || !ok || r.ID != "from-disk" {
		t.Fatalf("Expected disk hit, got %v %v %v", r, ok, err)
	}
	if _, ok := memory.Get(LatestKey); !ok {
		t.Error("Expected disk hit promoted to memory")
	}
}

type failingLayer struct{}

func (failingLayer) Get(string) ([]byte, bool) { return nil, false }
func (failingLayer) Put(string, []byte) error  { return errors.New("disk full") }
func (failingLayer) Drop(string) error         { return nil }

func TestLatestStore_LayerFailure(t *testing.T) {
	memory := NewMemoryLayer(time.Minute)
	store := NewLatestStoreOver(memory, failingLayer{})

	err := store.Save(sampleReport("x"))
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("Expected layer error, got %v", err)
	}
	// the faster layer still holds the report for this process
	if r, ok, _ := store.Load(); !ok || r.ID != "x" {
		t.Error("Expected memory layer to keep the report")
	}
}

func TestLatestStore_CorruptEntry(t *testing.T) {
	memory := NewMemoryLayer(time.Minute)
	_ = memory.Put(LatestKey, []byte(`{"id": 7}`))

	if _, _, err := NewLatestStoreOver(memory).Load(); err == nil {
		t.Error("Expected decode error")
	}
}

func sampleReport(id string) *model.Report {
	return &model.Report{
		ID:       id,
		Input:    "إنما الأعمال بالنيات",
		Provider: "gemini",
		Result:   model.Fallback(),
		Severity: model.ClassUncertain,
	}
}

func TestLatestStore_LastWriteWins(t *testing.T) {
	store := NewLatestStore(model.CacheConfig{Enabled: true, Dir: t.TempDir(), MemoryTTL: time.Minute, DiskTTL: time.Hour})

	if _, ok, err := store.Load(); ok || err != nil {
		t.Fatalf("Expected empty store, got ok=%v err=%v", ok, err)
	}

	for _, id := range []string{"a", "b", "c"} {
		if err := store.Save(sampleReport(id)); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	r, ok, err := store.Load()
	if err != nil || !ok {
		t.Fatalf("Load failed: ok=%v err=%v", ok, err)
	}
	if r.ID != "c" {
		t.Errorf("Expected latest report c, got %s", r.ID)
	}
	if r.Result.Verdict != model.VerdictGharib {
		t.Errorf("Verdict lost in round trip: %q", r.Result.Verdict)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, ok, _ := store.Load(); ok {
		t.Error("Expected empty store after clear")
	}
}

func TestLatestStore_Disabled(t *testing.T) {
	store := NewLatestStore(model.CacheConfig{Enabled: false})
	if err := store.Save(sampleReport("x")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	r, ok, err := store.Load()
	if err != nil || !ok || r.ID != "x" {
		t.Errorf("Expected in-process report, got %v %v %v", r, ok, err)
	}
}

func TestLatestStore_ConcurrentSaves(t *testing.T) {
	store := NewLatestStore(model.CacheConfig{Enabled: true, Dir: t.TempDir(), MemoryTTL: time.Minute, DiskTTL: time.Hour})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := store.Save(sampleReport(string(rune('a' + i)))); err != nil {
				t.Errorf("Save failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	r, ok, err := store.Load()
	if err != nil || !ok {
		t.Fatalf("Expected one complete report, got ok=%v err=%v", ok, err)
	}
	if len(r.ID) != 1 {
		t.Errorf("Unexpected report id %q", r.ID)
	}
}
