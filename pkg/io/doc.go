// Package io reads chart documents and writes pipeline results.
//
// # Chart documents
//
// A chart document names a template and carries the layers and settings for
// one wheel. JSON, TOML and YAML are accepted; the format follows the file
// extension:
//
//	name = "Ada"
//	template = "natal"
//
//	[settings]
//	zodiac_mode = "tropical"
//
//	[[layers]]
//	id = "natal"
//	kind = "natal"
//
//	[layers.positions.sun]
//	longitude = 25.0
//	speed = 0.98
//
// A template that is a relative file path is resolved against the
// document's directory.
//
// # Results
//
// [WriteResult] writes the wheel and every aspect set as one JSON object:
//
//	{"wheel": {...}, "aspect_sets": {"intra:natal": {...}}}
package io
