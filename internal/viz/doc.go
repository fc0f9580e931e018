// Package viz renders simulations in the terminal.
//
//   - [PlotRadii] and [PlotHistogram]: asciigraph charts of stored runs
//   - [RunSummary] and [DistributionSummary]: lipgloss panels
//   - [LiveModel]: a Bubble Tea program stepping a simulator live
//   - [Canvas]: braille dot canvas used by the live view
//
// # Key Bindings
//
//	Space  - Pause/Resume simulation
//	R      - Restart from the initial population
//	←→↑↓   - Rotate the camera
//	+/-    - Zoom
//	0      - Reset the camera to the x–y projection
//	T      - Cycle color themes
//	L      - Toggle the angular momentum vector
package viz
