// Package chart defines the input data model for chart layout and the zodiac
// arithmetic shared by aspect classification and wheel assembly.
//
// # Overview
//
// A chart is described by one or more [Layer] values. Each layer is a named
// snapshot of body positions at one moment (natal, transit, progressed, ...)
// with optional [HouseData] for house-cusp lookup. Layers are supplied by an
// external ephemeris collaborator; this package never computes positions.
//
// # Longitudes
//
// All longitudes are ecliptic degrees. Every consumer normalizes them with
// [Normalize] into [0, 360) before classification or placement:
//
//	chart.Normalize(-10)  // 350
//	chart.Normalize(360)  // 0
//	chart.SignIndex(359.999) // 11 (Pisces)
//	chart.SignDegree(45)  // 15
//
// # Houses
//
// [HouseIndex] locates the cusp interval containing a longitude. Cusps are
// walked in house-number order and the interval that crosses 0° is handled
// explicitly, so a longitude of 5° with cusp 12 at 340° and cusp 1 at 10°
// lands in house index 11.
//
// Cusp keys are strings ("1".."12") so that documents with malformed keys
// still decode; such keys are ignored rather than reported.
//
// # Settings
//
// [Settings] carries per-request options: zodiac mode, orbs, included objects
// and collision handling. Call [Settings.Normalize] to apply defaults and
// validate before use.
package chart
