// SPDX-License-Identifier: EPL-2.0

package audiotest

import "io"

// ScriptedInput replays a fixed sequence of command bytes. Once the script
// is used up a blocking poll behaves like a closed terminal: it reports
// ready and the read returns io.EOF. Non-blocking polls just report that
// nothing is pending.
type ScriptedInput struct {
	script []byte
	// PollErr, when set, is returned by every Poll.
	PollErr error
	// Closed makes the input report end of file once the script is empty,
	// even for non-blocking polls.
	Closed bool
}

// NewScriptedInput returns an input that yields script byte by byte.
func NewScriptedInput(script string) *ScriptedInput {
	return &ScriptedInput{script: []byte(script)}
}

// Push appends more command bytes.
func (s *ScriptedInput) Push(script string) {
	s.script = append(s.script, script...)
}

// Pending returns the bytes not read yet.
func (s *ScriptedInput) Pending() string {
	return string(s.script)
}

func (s *ScriptedInput) Poll(block bool) (bool, error) {
	if s.PollErr != nil {
		return false, s.PollErr
	}
	if len(s.script) > 0 {
		return true, nil
	}
	return block || s.Closed, nil
}

func (s *ScriptedInput) ReadByte() (byte, error) {
	if len(s.script) == 0 {
		return 0, io.EOF
	}
	b := s.script[0]
	s.script = s.script[1:]
	return b, nil
}
