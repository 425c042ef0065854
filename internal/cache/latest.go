package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/ppiankov/isnad/internal/model"
)

// LatestStore holds exactly one report: each Save replaces the previous one.
// There is no history and no ordering token; the last Save wins in every layer.
type LatestStore struct {
	mu     sync.Mutex
	layers []Layer // fastest first
}

// NewLatestStore builds the store from configuration.
// With caching disabled the store is memory-only for the life of the process.
func NewLatestStore(cfg model.CacheConfig) *LatestStore {
	if !cfg.Enabled || cfg.Dir == "" {
		return NewLatestStoreOver(NewMemoryLayer(cfg.MemoryTTL))
	}
	return NewLatestStoreOver(NewMemoryLayer(cfg.MemoryTTL), NewDiskLayer(cfg.Dir, cfg.DiskTTL))
}

// NewLatestStoreOver stacks the given layers, fastest first
func NewLatestStoreOver(layers ...Layer) *LatestStore {
	return &LatestStore{layers: layers}
}

// Save replaces the stored report in every layer
func (s *LatestStore) Save(r *model.Report) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, l := range s.layers {
		if err := l.Put(LatestKey, data); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("store latest report: %w", err)
	}
	return nil
}

// Load returns the stored report, or false when there is none.
// A hit in a slower layer is copied into the faster ones.
func (s *LatestStore) Load() (*model.Report, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, l := range s.layers {
		data, ok := l.Get(LatestKey)
		if !ok {
			continue
		}

		var r model.Report
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, false, fmt.Errorf("decode latest report: %w", err)
		}
		for _, faster := range s.layers[:i] {
			_ = faster.Put(LatestKey, data)
		}
		return &r, true, nil
	}

	return nil, false, nil
}

// Clear forgets the stored report
func (s *LatestStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, l := range s.layers {
		errs = append(errs, l.Drop(LatestKey))
	}
	return errors.Join(errs...)
}
