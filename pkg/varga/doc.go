// Package varga derives divisional charts from a base layer.
//
// A divisional chart Dn splits every sign into n equal parts and maps each
// part onto a whole sign, cycling from Aries. The mapping used here is the
// cyclic one, lon × n mod 360, for every supported division:
//
//	nav := varga.Derive(natal, varga.Divisions[5]) // D9
//	nav.ID // "natal:D9"
//
// Derived layers carry no latitude or speed.
package varga
