// Package viz draws both demos in the terminal with Bubble Tea.
//
//   - [CollideModel]: two boxes on a track with live momentum and energy charts
//   - [GlobeModel]: a rotating braille globe with velocity, Ω and Coriolis arrows
//   - [Canvas]: braille pixel canvas shared by both views
//
// # Collision keys
//
//	Space - Start/Pause
//	R     - Reset with the current inputs
//	T     - Toggle light/dark theme (resets the run)
//	M     - Toggle elastic/inelastic for the next reset
//	+/-   - Time scale
//	Tab   - Select input, Up/Down to adjust it
//
// # Globe keys
//
//	Space  - Rotation on/off
//	[ ]    - Visual speed slider
//	Arrows - Move the selected point
//	W/S    - North/south velocity, A/D east/west velocity
//	0      - Zero the velocity
//	T      - Toggle theme
//	X/Y    - Tilt/turn the camera
package viz
