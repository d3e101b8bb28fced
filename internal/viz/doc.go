// Package viz hosts the particle simulation in a terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: drives a [sim.Host] from a tick loop and draws the balls
//   - [Canvas]: Braille-based pixel canvas, 2x4 dots per cell
//   - Themes with a distinct colour for the lead ball
//
// # Key Bindings
//
//	Arrows - Tilt the device (switches to manual tilt)
//	C      - Level the device
//	R      - Rotate the screen a quarter turn
//	Space  - Pause/Resume simulation
//	T      - Cycle color themes
//	?      - Show help overlay
//	Q      - Quit
package viz
