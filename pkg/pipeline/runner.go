package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/chartwheel/pkg/aspect"
	"github.com/matzehuels/chartwheel/pkg/cache"
	"github.com/matzehuels/chartwheel/pkg/observability"
	"github.com/matzehuels/chartwheel/pkg/wheel"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so cache handling lives in one place.
//
// The Runner holds no per-run state. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs prepare → aspects → wheel with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	prepared, err := r.PrepareLayers(opts.Layers, opts.Settings, opts.doc)
	if err != nil {
		return nil, fmt.Errorf("prepare: %w", err)
	}
	result := &Result{}
	result.Stats.LayerCount = len(prepared.Layers)
	if result.LayersHash, err = cache.HashJSON(prepared.Layers); err != nil {
		return nil, fmt.Errorf("hash layers: %w", err)
	}

	// Stage 1: Aspects
	aspectsStart := time.Now()
	sets, aspectsHit, err := r.AspectsWithCacheInfo(ctx, prepared, result.LayersHash, opts)
	if err != nil {
		return nil, fmt.Errorf("aspects: %w", err)
	}
	result.AspectSets = sets
	result.Stats.AspectsTime = time.Since(aspectsStart)
	result.Stats.SetCount = len(sets)
	result.Stats.PairCount = countPairs(sets)
	result.CacheInfo.AspectsHit = aspectsHit

	r.Logger.Info("computed aspects",
		"sets", result.Stats.SetCount,
		"pairs", result.Stats.PairCount,
		"cached", aspectsHit,
		"duration", result.Stats.AspectsTime)

	// Stage 2: Wheel
	wheelStart := time.Now()
	w, wheelHit, err := r.WheelWithCacheInfo(ctx, prepared, sets, result.LayersHash, opts)
	if err != nil {
		return nil, fmt.Errorf("wheel: %w", err)
	}
	result.Wheel = w
	result.Stats.WheelTime = time.Since(wheelStart)
	result.Stats.RingCount = len(w.Rings)
	result.Stats.ItemCount = countItems(w)
	result.CacheInfo.WheelHit = wheelHit

	r.Logger.Info("assembled wheel",
		"template", w.TemplateID,
		"rings", result.Stats.RingCount,
		"items", result.Stats.ItemCount,
		"cached", wheelHit,
		"duration", result.Stats.WheelTime)
	if unresolved := w.Unresolved(); len(unresolved) > 0 {
		r.Logger.Warn("unresolved rings", "rings", unresolved)
	}

	return result, nil
}

// Aspects runs the prepare and aspects stages only. The template still
// decides which varga sub-layers get an intra-layer set.
func (r *Runner) Aspects(ctx context.Context, opts Options) (map[string]aspect.Set, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	prepared, err := r.PrepareLayers(opts.Layers, opts.Settings, opts.doc)
	if err != nil {
		return nil, false, fmt.Errorf("prepare: %w", err)
	}
	layersHash, err := cache.HashJSON(prepared.Layers)
	if err != nil {
		return nil, false, fmt.Errorf("hash layers: %w", err)
	}
	return r.AspectsWithCacheInfo(ctx, prepared, layersHash, opts)
}

// AspectsWithCacheInfo computes one intra-layer set per prepared layer, one
// inter-layer set per layer pair and one intra-layer set per varga
// sub-layer. The bool reports a cache hit.
func (r *Runner) AspectsWithCacheInfo(ctx context.Context, p Prepared, layersHash string, opts Options) (map[string]aspect.Set, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	hooks := observability.Pipeline()
	vargaIDs := sortedKeys(p.Vargas)
	cacheKey := r.Keyer.AspectsKey(layersHash, opts.AspectsKeyOpts(vargaIDs))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var sets map[string]aspect.Set
			if err := json.Unmarshal(data, &sets); err == nil {
				observability.Cache().OnCacheHit(ctx, "aspects")
				return sets, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "aspects")
	}

	start := time.Now()
	hooks.OnAspectsStart(ctx, len(p.Layers))
	sets := aspect.ComputeAll(p.Layers, opts.Settings)
	for _, id := range vargaIDs {
		s := aspect.ComputeIntraLayer(id, p.Vargas[id].Positions, opts.Settings)
		sets[s.ID] = s
	}
	hooks.OnAspectsComplete(ctx, len(sets), countPairs(sets), time.Since(start), nil)

	if data, err := json.Marshal(sets); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLAspects); err == nil {
			observability.Cache().OnCacheSet(ctx, "aspects", len(data))
		}
	}
	return sets, false, nil
}

// WheelWithCacheInfo assembles the template's wheel. The bool reports a
// cache hit. Collision failures are returned unchanged so callers can match
// the UNRESOLVED_COLLISION code.
func (r *Runner) WheelWithCacheInfo(ctx context.Context, p Prepared, sets map[string]aspect.Set, layersHash string, opts Options) (wheel.Result, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return wheel.Result{}, false, err
	}

	tpl, err := opts.doc.Wheel()
	if err != nil {
		return wheel.Result{}, false, err
	}
	templateHash, err := cache.HashJSON(opts.doc)
	if err != nil {
		return wheel.Result{}, false, fmt.Errorf("hash template: %w", err)
	}
	aspectsHash, err := cache.HashJSON(sets)
	if err != nil {
		return wheel.Result{}, false, fmt.Errorf("hash aspects: %w", err)
	}
	cacheKey := r.Keyer.WheelKey(layersHash, opts.WheelKeyOpts(templateHash, aspectsHash))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached wheel.Result
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "wheel")
				return cached, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "wheel")
	}

	buildOpts := []wheel.Option{
		wheel.WithSettings(opts.Settings),
		wheel.WithVargas(p.Vargas),
		wheel.WithLogger(opts.Logger),
	}
	if len(opts.IncludeObjects) > 0 {
		buildOpts = append(buildOpts, wheel.WithIncludeObjects(opts.IncludeObjects))
	}
	if opts.IDGenerator != nil {
		buildOpts = append(buildOpts, wheel.WithIDGenerator(opts.IDGenerator))
	}
	if opts.Name != "" {
		tpl.Name = opts.Name
	}

	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnWheelStart(ctx, tpl.ID, len(tpl.Rings))
	w, err := wheel.Build(tpl, p.ByID(), sets, buildOpts...)
	hooks.OnWheelComplete(ctx, tpl.ID, countItems(w), time.Since(start), err)
	if err != nil {
		return wheel.Result{}, false, err
	}

	if data, err := json.Marshal(w); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLWheel); err == nil {
			observability.Cache().OnCacheSet(ctx, "wheel", len(data))
		}
	}
	return w, false, nil
}

// ExecuteBatch runs Execute for every options value with at most jobs runs
// in flight. Results are in input order. The first error cancels the
// remaining runs and is returned.
func (r *Runner) ExecuteBatch(ctx context.Context, batch []Options, jobs int) ([]*Result, error) {
	return r.ExecuteBatchFunc(ctx, batch, jobs, nil)
}

// ExecuteBatchFunc is ExecuteBatch with a callback invoked after each
// successful run with the number of finished runs so far. onDone may be
// called from several goroutines.
func (r *Runner) ExecuteBatchFunc(ctx context.Context, batch []Options, jobs int, onDone func(done, total int)) ([]*Result, error) {
	if jobs <= 0 {
		jobs = DefaultBatchJobs
	}
	results := make([]*Result, len(batch))
	var finished atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i := range batch {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := r.Execute(ctx, batch[i])
			if err != nil {
				name := batch[i].Name
				if name == "" {
					name = fmt.Sprintf("#%d", i+1)
				}
				return fmt.Errorf("chart %s: %w", name, err)
			}
			results[i] = res
			if n := finished.Add(1); onDone != nil {
				onDone(int(n), len(batch))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func countPairs(sets map[string]aspect.Set) int {
	n := 0
	for _, s := range sets {
		n += len(s.Pairs)
	}
	return n
}

func countItems(w wheel.Result) int {
	n := 0
	for _, ring := range w.Rings {
		n += len(ring.Items)
	}
	return n
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
