// Package pkg provides the core libraries for Chartwheel chart layout.
//
// # Overview
//
// Chartwheel turns astrological chart data (planet positions, house cusps and
// angles for one or more layers such as natal, transit or progressed) into a
// renderer-ready wheel: concentric rings of sign segments, house cusps,
// planet glyphs and aspect links, each carrying the geometry a drawing layer
// needs. The pkg directory is organized into these areas:
//
//  1. [chart] - Layers, positions, houses, settings and zodiac arithmetic
//  2. [aspect] - Aspect classification and aspect sets within and across layers
//  3. [varga] - Divisional (harmonic) sub-layers derived from a layer
//  4. [wheel] - Ring assembly and the collision resolver in [wheel/collision]
//  5. [template] - Wheel templates in TOML, YAML or JSON, plus the builtins
//  6. [pipeline] - Orchestration (prepare → aspects → wheel) with caching
//  7. [io] - Chart documents in and wheel results out
//  8. [cache], [errors], [observability], [buildinfo] - Infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	Chart document (layers + settings)
//	         ↓
//	    [pipeline] prepare (sidereal shift, varga sub-layers)
//	         ↓
//	    [aspect] package (intra- and inter-layer aspect sets)
//	         ↓
//	    [wheel] package (rings from a [template], collision resolution)
//	         ↓
//	    JSON wheel result
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/chartwheel/pkg/io"
//	    "github.com/matzehuels/chartwheel/pkg/pipeline"
//	)
//
//	doc, _ := io.ImportDocument("natal.toml")
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, _ := runner.Execute(context.Background(), doc.Options())
//	_ = io.WriteResult(result, os.Stdout)
//
// # Error Handling
//
// Library errors carry a machine-readable [errors.Code]. Check them with
// errors.Is(err, errors.ErrCodeUnresolvedCollision) and friends; the HTTP
// server maps codes to status codes.
package pkg
