// Package geometry provides the procedural geometry for computed lab
// apparatus.
//
//   - [TripodLegs]: leg placement for a tripod stand of given height and splay
//   - [Route]: delivery tube path through control points
//   - [Vec3], [Transform]: vector math and shape placement
//
// All functions are pure and deterministic.
//
// # Example
//
//	legs := geometry.TripodLegs(3, 0.15)
//	path := geometry.Route(points)
//	samples := geometry.Samples(path, 64)
package geometry
