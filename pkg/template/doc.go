// Package template loads wheel templates from TOML, YAML and JSON files and
// ships a set of builtin templates.
//
// A [Document] is the on-disk form. Rings carry an order index and a source
// table:
//
//	[[rings]]
//	slug = "natal-planets"
//	type = "planets"
//	inner_radius = 150.0
//	outer_radius = 230.0
//	order = 2
//	source = { kind = "layer-planets", layer = "natal", include_angles = true }
//
// [Document.Wheel] validates the document and converts it to a
// [wheel.Template] with rings sorted by order. Validation also rejects aspect
// rings that would be built before the planet rings their set refers to.
//
// Builtins: natal, transit, biwheel, vedic.
package template
