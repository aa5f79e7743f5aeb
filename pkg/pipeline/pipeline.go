// Package pipeline runs the chart pipeline shared by the CLI and the HTTP
// server.
//
// # Stages
//
//  1. Prepare: validate layers, shift longitudes into the sidereal frame when
//     requested, derive the divisional sub-layers the template references
//  2. Aspects: compute every intra- and inter-layer aspect set
//  3. Wheel: assemble the template's rings from layers and aspect sets
//
// Aspects and wheels are cached by content hash, so repeated runs over the
// same chart and options skip the work.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Layers:   []chart.Layer{natal, transit},
//	    Template: "transit",
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(len(result.Wheel.Rings))
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartwheel/pkg/aspect"
	"github.com/matzehuels/chartwheel/pkg/cache"
	"github.com/matzehuels/chartwheel/pkg/chart"
	"github.com/matzehuels/chartwheel/pkg/errors"
	"github.com/matzehuels/chartwheel/pkg/template"
	"github.com/matzehuels/chartwheel/pkg/wheel"
)

// DefaultTemplate is used when Options names no template.
const DefaultTemplate = "natal"

// DefaultBatchJobs bounds ExecuteBatch concurrency when the caller passes 0.
const DefaultBatchJobs = 4

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Name     string         `json:"name,omitempty"`
	Layers   []chart.Layer  `json:"layers"`
	Settings chart.Settings `json:"settings"`

	// Template is a builtin name or a template file path. TemplateDoc, when
	// set, takes precedence.
	Template    string             `json:"template,omitempty"`
	TemplateDoc *template.Document `json:"template_doc,omitempty"`

	// IncludeObjects restricts planet rings. It overrides Settings.IncludeObjects
	// for the wheel stage only.
	IncludeObjects []string `json:"include_objects,omitempty"`

	// Refresh bypasses cache reads. Results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger      *log.Logger       `json:"-"`
	IDGenerator wheel.IDGenerator `json:"-"`

	doc       template.Document
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Wheel is the assembled wheel.
	Wheel wheel.Result

	// AspectSets holds every computed aspect set keyed by set id.
	AspectSets map[string]aspect.Set

	// LayersHash is the content hash of the prepared layers.
	LayersHash string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LayerCount  int
	SetCount    int
	PairCount   int
	RingCount   int
	ItemCount   int
	AspectsTime time.Duration
	WheelTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	AspectsHit bool `json:"aspects_hit"`
	WheelHit   bool `json:"wheel_hit"`
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the layers, normalizes settings and resolves
// the template. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateLayers(); err != nil {
		return err
	}
	if err := o.Settings.Normalize(); err != nil {
		return err
	}
	if err := o.resolveTemplate(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ValidateLayers requires at least one layer, valid identifiers and unique
// layer ids.
func (o *Options) ValidateLayers() error {
	if len(o.Layers) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "at least one layer is required")
	}
	seen := make(map[string]bool, len(o.Layers))
	for _, l := range o.Layers {
		if err := l.Validate(); err != nil {
			return err
		}
		if seen[l.ID] {
			return errors.New(errors.ErrCodeInvalidLayer, "duplicate layer id %q", l.ID)
		}
		seen[l.ID] = true
	}
	return nil
}

func (o *Options) resolveTemplate() error {
	if o.TemplateDoc != nil {
		o.doc = *o.TemplateDoc
	} else {
		if o.Template == "" {
			o.Template = DefaultTemplate
		}
		doc, err := template.Resolve(o.Template)
		if err != nil {
			return err
		}
		o.doc = doc
	}
	return o.doc.Validate()
}

// TemplateDocument returns the resolved template. It is only meaningful
// after ValidateAndSetDefaults.
func (o *Options) TemplateDocument() template.Document {
	return o.doc
}

// AspectsKeyOpts returns cache key options for the aspects stage. vargaIDs
// are the sorted ids of the prepared varga sub-layers, each of which adds an
// intra-layer set.
func (o *Options) AspectsKeyOpts(vargaIDs []string) cache.AspectsKeyOpts {
	return cache.AspectsKeyOpts{
		ZodiacMode:     string(o.Settings.ZodiacMode),
		Ayanamsa:       o.Settings.Ayanamsa,
		Orbs:           o.Settings.Orbs,
		IncludeObjects: o.Settings.IncludeObjects,
		Vargas:         vargaIDs,
	}
}

// WheelKeyOpts returns cache key options for the wheel stage.
func (o *Options) WheelKeyOpts(templateHash, aspectsHash string) cache.WheelKeyOpts {
	return cache.WheelKeyOpts{
		TemplateHash:   templateHash,
		AspectsHash:    aspectsHash,
		IncludeObjects: o.includeObjects(),
		IncludeAngles:  o.Settings.IncludeAngles,
		Collision:      o.Settings.Collision.Enabled,
		SymbolRadius:   o.Settings.Collision.Radius,
		SymbolScale:    o.Settings.Collision.Scale,
	}
}

func (o *Options) includeObjects() []string {
	if len(o.IncludeObjects) > 0 {
		return o.IncludeObjects
	}
	return o.Settings.IncludeObjects
}

// LayerIDs returns the ids of the input layers in input order.
func (o *Options) LayerIDs() []string {
	ids := make([]string, len(o.Layers))
	for i, l := range o.Layers {
		ids[i] = l.ID
	}
	return ids
}
