package wheel

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/chartwheel/pkg/chart"
)

// IDGenerator returns a fresh identifier on every call.
type IDGenerator func() string

// NewUUIDGenerator returns random UUIDv4 identifiers. It is the default.
func NewUUIDGenerator() IDGenerator {
	return uuid.NewString
}

// SequentialIDs returns prefix-1, prefix-2, ... Safe for concurrent use.
func SequentialIDs(prefix string) IDGenerator {
	var n atomic.Int64
	return func() string {
		return fmt.Sprintf("%s-%d", prefix, n.Add(1))
	}
}

// Option configures Build.
type Option func(*builder)

// WithIncludeObjects restricts planet rings to the given body ids. It takes
// precedence over Settings.IncludeObjects. Angles are not affected.
func WithIncludeObjects(ids []string) Option {
	return func(b *builder) { b.include = ids }
}

// WithVargas supplies pre-derived divisional sub-layers keyed by sub-layer id
// (see varga.SubLayerID). Missing sub-layers are derived on demand.
func WithVargas(layers map[string]chart.Layer) Option {
	return func(b *builder) { b.vargas = layers }
}

// WithSettings sets the chart settings used for collision handling, angle
// inclusion and object filtering.
func WithSettings(s chart.Settings) Option {
	return func(b *builder) { b.settings = s }
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(b *builder) {
		if gen != nil {
			b.newID = gen
		}
	}
}

// WithLogger sets the logger. Build is silent by default.
func WithLogger(l *log.Logger) Option {
	return func(b *builder) {
		if l != nil {
			b.logger = l
		}
	}
}

func defaultBuilder() *builder {
	return &builder{
		newID:  NewUUIDGenerator(),
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
}
