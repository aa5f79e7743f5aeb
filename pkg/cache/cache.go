package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
//
// Implementations must be safe for concurrent use. A miss is reported as
// (nil, false, nil); errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// TTLs for cached pipeline stages. Results are pure functions of their
// inputs, so entries only expire to bound disk and memory use.
const (
	TTLAspects = 7 * 24 * time.Hour
	TTLWheel   = 7 * 24 * time.Hour
)

// =============================================================================
// Keys
// =============================================================================

// AspectsKeyOpts are the options that change an aspect computation.
type AspectsKeyOpts struct {
	ZodiacMode     string             `json:"zodiac_mode"`
	Ayanamsa       float64            `json:"ayanamsa"`
	Orbs           map[string]float64 `json:"orbs,omitempty"`
	IncludeObjects []string           `json:"include_objects,omitempty"`
	Vargas         []string           `json:"vargas,omitempty"`
}

// WheelKeyOpts are the options that change a wheel build.
type WheelKeyOpts struct {
	TemplateHash   string   `json:"template_hash"`
	AspectsHash    string   `json:"aspects_hash"`
	IncludeObjects []string `json:"include_objects,omitempty"`
	IncludeAngles  bool     `json:"include_angles"`
	Collision      bool     `json:"collision"`
	SymbolRadius   float64  `json:"symbol_radius"`
	SymbolScale    float64  `json:"symbol_scale"`
}

// Keyer derives cache keys for pipeline stages.
type Keyer interface {
	// AspectsKey keys the aspect sets computed from a set of layers.
	AspectsKey(layersHash string, opts AspectsKeyOpts) string

	// WheelKey keys an assembled wheel.
	WheelKey(layersHash string, opts WheelKeyOpts) string
}

// DefaultKeyer hashes every option into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// AspectsKey implements Keyer.
func (DefaultKeyer) AspectsKey(layersHash string, opts AspectsKeyOpts) string {
	return hashKey("aspects", layersHash, opts)
}

// WheelKey implements Keyer.
func (DefaultKeyer) WheelKey(layersHash string, opts WheelKeyOpts) string {
	return hashKey("wheel", layersHash, opts)
}
