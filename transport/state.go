// SPDX-License-Identifier: EPL-2.0

package transport

// State is the transport state of a Player.
type State int

const (
	Playing State = iota
	Paused
	// Exiting is terminal.
	Exiting
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Exiting:
		return "exiting"
	default:
		return "unknown"
	}
}
