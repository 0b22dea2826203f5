// SPDX-License-Identifier: EPL-2.0

package transport

import (
	"fmt"

	"github.com/ik5/audseek/utils"
)

const (
	keyEsc   = 0x1b
	keyCtrlC = 0x03
	// the jump key, and the mark slot every seek writes the old position to
	keyBack = '\''

	// larger counts saturate instead of wrapping
	maxCount = 1 << 40
)

// HandleKey applies one byte of control input. done reports that the byte
// completed a command which ends the current drain pass: a seek, a jump, a
// successful pause toggle or quit. A failed jump or resume returns an error
// and leaves the state unchanged.
func (p *Player) HandleKey(c byte) (bool, error) {
	switch p.armed {
	case 'm':
		p.armed = 0
		p.marks[c] = p.Position()
		p.log.Debug().Str("mark", string(rune(c))).Int64("position", p.marks[c]).Msg("mark set")
		return false, nil
	case keyBack:
		p.armed = 0
		return p.jump(c)
	}

	switch c {
	case 'J':
		p.seekBy(600 * p.takeCount(1))
		return true, nil
	case 'K':
		p.seekBy(-600 * p.takeCount(1))
		return true, nil
	case 'j':
		p.seekBy(60 * p.takeCount(1))
		return true, nil
	case 'k':
		p.seekBy(-60 * p.takeCount(1))
		return true, nil
	case 'l':
		p.seekBy(10 * p.takeCount(1))
		return true, nil
	case 'h':
		p.seekBy(-10 * p.takeCount(1))
		return true, nil
	case '%':
		if n := p.takeCount(0); n <= 100 {
			p.seek(p.metrics.PercentToBytes(n, p.size))
		}
		return true, nil
	case 'G':
		p.seek(p.metrics.SecondsToBytes(60 * p.takeCount(0)))
		return true, nil
	case 'i':
		p.count = 0
		fmt.Fprint(p.status, p.Status())
		return false, nil
	case 'm', keyBack:
		p.count = 0
		p.armed = c
		return false, nil
	case 'p', ' ':
		p.count = 0
		if err := p.setPaused(p.state == Playing); err != nil {
			return false, err
		}
		return true, nil
	case 'P':
		if p.count > 0 {
			p.autoPauseAt = p.Played() + p.takeCount(0)*60000
			p.log.Debug().Int64("at_ms", p.autoPauseAt).Msg("auto-pause scheduled")
		} else {
			p.autoPauseAt = 0
		}
		return false, nil
	case 'q', keyCtrlC:
		p.count = 0
		p.setState(Exiting)
		return true, nil
	case keyEsc:
		p.count = 0
		return false, nil
	}

	if c >= '0' && c <= '9' {
		p.count = min(p.count*10+int64(c-'0'), maxCount)
	}

	return false, nil
}

// takeCount returns the pending count, or def when none was typed, and
// clears it.
func (p *Player) takeCount(def int64) int64 {
	n := p.count
	p.count = 0
	if n == 0 {
		return def
	}
	return n
}

func (p *Player) jump(key byte) (bool, error) {
	target := p.marks[key]
	// 0 doubles as "unset", so a mark at the very start cannot be jumped to
	if target <= 0 {
		return false, fmt.Errorf("%w: %q", ErrNoMark, key)
	}

	p.seek(target)
	return true, nil
}

// seekBy moves relative to the current position by the estimated byte
// equivalent of seconds.
func (p *Player) seekBy(seconds int64) {
	p.seek(utils.AddSat(p.Position(), p.metrics.SecondsToBytes(seconds)))
}

func (p *Player) seek(target int64) {
	from := p.Position()
	p.marks[keyBack] = from
	p.pos = utils.Clamp(target, 0, p.size)
	p.seekPending = true

	p.log.Debug().Int64("from", from).Int64("to", p.pos).Int64("target", target).Msg("seek")
}
