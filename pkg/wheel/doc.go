// Package wheel assembles chart wheels from templates.
//
// A [Template] is an ordered list of [RingDefinition] values. Each ring names
// a [DataSource], one of:
//
//   - [StaticZodiac] and [StaticNakshatra]: fixed segments
//   - [LayerHouses]: the house cusps of a layer
//   - [LayerPlanets] and [LayerVargaPlanets]: bodies of a layer or of one of
//     its divisional charts
//   - [AspectSetSource]: links between bodies placed on earlier rings
//
// [Build] walks the rings in order and keeps every finished ring, so an
// aspect ring can find the planet items its pairs point at. Templates must
// therefore list planet rings before the aspect rings that use them:
//
//	res, err := wheel.Build(tpl, layers, sets,
//		wheel.WithSettings(settings),
//		wheel.WithLogger(logger),
//	)
//
// Missing inputs never fail a build. A ring whose layer, houses or aspect set
// is absent comes back with nil Items (see [Ring.Resolved]), and aspect pairs
// with an endpoint that is not on the wheel are dropped. When collision
// handling is enabled, planet rings are passed through the collision package
// and an impossible layout is the one error Build returns.
//
// Every wheel, ring and item gets a fresh identifier from the configured
// [IDGenerator] (random UUIDs by default).
package wheel
