// Package viz is a terminal rendering surface for scene descriptions.
//
// It projects the entities of a [scene.Description] onto a braille [Canvas]
// through a [Camera], plots the energy profile with asciigraph, and wraps
// both in a Bubble Tea [Model] that drives a [driver.Driver]:
//
//   - [SceneWireframe]: world-space outline of every visible entity
//   - [Render3D]: painter's-order projection of a wireframe
//   - [EnergyPlot]: energy curve with a marker under the current progress
//
// # Key Bindings
//
//	Space - Play/Pause
//	[ ]   - Scrub progress
//	1 2 3 - Switch view level
//	L     - Toggle looping
//	T     - Cycle color themes
//	Q     - Quit
package viz
