// Package viz renders runs in the terminal.
//
//   - [Replay]: a Bubble Tea model that plays a finished run back on a
//     braille [Canvas], with trails, pause, speed control and restart
//   - [PlotCoordinates], [PlotSeparation]: asciigraph line charts
//
// # Key Bindings
//
//	Space - Pause/Resume playback
//	R     - Restart
//	+/-   - Double/halve playback speed
//	[]    - Seek backward/forward
//	I     - Toggle the initial-conditions panel
//	?     - Show help overlay
package viz
