// SPDX-License-Identifier: EPL-2.0

package audiotest

import "github.com/ik5/audseek/audio"

// RecordingDevice is an audio.Device that keeps everything written to it.
type RecordingDevice struct {
	OpenErr      error
	ConfigureErr error
	WriteErr     error

	IsOpen bool
	Opens  int
	Closes int
	// Rates lists every configured sample rate in order.
	Rates []int
	// PCM holds all written samples.
	PCM    []int16
	Writes int
}

var _ audio.Device = (*RecordingDevice)(nil)

func (d *RecordingDevice) Open() error {
	if d.OpenErr != nil {
		return d.OpenErr
	}
	d.IsOpen = true
	d.Opens++
	return nil
}

func (d *RecordingDevice) Configure(sampleRate int) error {
	if d.ConfigureErr != nil {
		return d.ConfigureErr
	}
	if !d.IsOpen {
		return audio.ErrNotConfigured
	}
	d.Rates = append(d.Rates, sampleRate)
	return nil
}

func (d *RecordingDevice) Write(pcm []int16) error {
	if d.WriteErr != nil {
		return d.WriteErr
	}
	if !d.IsOpen || len(d.Rates) == 0 {
		return audio.ErrNotConfigured
	}
	d.Writes++
	d.PCM = append(d.PCM, pcm...)
	return nil
}

func (d *RecordingDevice) Close() error {
	d.IsOpen = false
	d.Closes++
	return nil
}
