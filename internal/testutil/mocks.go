package testutil

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/FoxxDev-Collab/pricefeed-app/internal/models"
)

// MockSettingsSource is an in-memory settings table that counts loads.
type MockSettingsSource struct {
	mu      sync.Mutex
	entries map[string]models.SettingEntry
	loadErr error
	gate    chan struct{}

	calls   atomic.Int32
	started chan struct{}
}

// NewMockSettingsSource creates a source holding the given string values.
func NewMockSettingsSource(values map[string]string) *MockSettingsSource {
	m := &MockSettingsSource{
		entries: make(map[string]models.SettingEntry),
		started: make(chan struct{}, 64),
	}
	for k, v := range values {
		m.Set(k, v)
	}
	return m
}

// LoadAll implements settings.Source.
func (m *MockSettingsSource) LoadAll(ctx context.Context) ([]models.SettingEntry, error) {
	m.calls.Add(1)
	select {
	case m.started <- struct{}{}:
	default:
	}

	m.mu.Lock()
	gate := m.gate
	m.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make([]models.SettingEntry, 0, len(m.entries))
	for _, e := range m.entries {
		if e.Value != nil {
			v := *e.Value
			e.Value = &v
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Set stores a value, keeping the existing type or defaulting to string.
func (m *MockSettingsSource) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		e = models.SettingEntry{Key: key, ValueType: models.ValueTypeString}
	}
	e.Value = &value
	m.entries[key] = e
}

// SetTyped stores a value together with its declared type.
func (m *MockSettingsSource) SetTyped(key, value string, vt models.ValueType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = models.SettingEntry{Key: key, Value: &value, ValueType: vt}
}

// SetNull stores a NULL value.
func (m *MockSettingsSource) SetNull(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.entries[key]
	e.Key = key
	e.Value = nil
	m.entries[key] = e
}

// SetLoadError makes every load fail with err until cleared with nil.
func (m *MockSettingsSource) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

// Block makes loads wait until Release is called.
func (m *MockSettingsSource) Block() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gate = make(chan struct{})
}

// Release lets blocked loads continue.
func (m *MockSettingsSource) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gate != nil {
		close(m.gate)
		m.gate = nil
	}
}

// Started receives one value per load that reached the source.
func (m *MockSettingsSource) Started() <-chan struct{} {
	return m.started
}

// CallCount is the number of LoadAll calls.
func (m *MockSettingsSource) CallCount() int {
	return int(m.calls.Load())
}
