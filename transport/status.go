// SPDX-License-Identifier: EPL-2.0

package transport

import (
	"fmt"
	"path/filepath"

	"github.com/ik5/audseek/utils"
)

// longest file name shown on the status line, in bytes
const maxNameLen = 29

func displayName(path string) string {
	if path == "" {
		return ""
	}

	name := filepath.Base(path)
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}
	return name
}

// Status formats the one-line progress report:
//
//	> 42.1%  (0:03:25 - 0205.3s)   [track.mp3]
//
// with the position in percent, the position as H:MM:SS estimated from the
// frame metrics, and the played time. The indicator is '>' while playing,
// ' ' while paused and '*' when resuming failed. The line ends in '\r' so
// the next report overwrites it.
func (p *Player) Status() string {
	pos := p.Position()

	per := int64(0)
	if p.size > 0 {
		per = utils.MulDiv(pos, 1000, p.size)
	}
	loc := p.metrics.BytesToSeconds(pos)
	played := p.Played()

	indicator := '>'
	if p.state != Playing {
		indicator = ' '
		if p.resumeFailed {
			indicator = '*'
		}
	}

	return fmt.Sprintf("%c %02d.%d%%  (%d:%02d:%02d - %04d.%ds)   [%s]\r",
		indicator,
		per/10, per%10,
		loc/3600, (loc%3600)/60, loc%60,
		played/1000, (played/100)%10,
		p.name)
}
