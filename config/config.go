// SPDX-License-Identifier: EPL-2.0

// Package config loads player defaults from a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	EnvDevice = "AUDSEEK_DEVICE"
	// EnvLegacyDevice is consulted when EnvDevice is not set.
	EnvLegacyDevice = "OSSDSP"
	EnvBuffer       = "AUDSEEK_BUFFER"
	EnvFrames       = "AUDSEEK_FRAMES"
	EnvLog          = "AUDSEEK_LOG"
)

type Config struct {
	// Device names the output, see device.New.
	Device string
	// Buffer is the decode window capacity in bytes, 0 for the default.
	Buffer int
	// Frames is the device buffer size in sample frames, 0 for the default.
	Frames int
	// LogFile receives debug logs when set.
	LogFile string
}

// Load reads the given env files (".env" when none are given) and overlays
// the process environment, which always wins. Missing files are ignored.
func Load(files ...string) (*Config, error) {
	values := map[string]string{}

	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		m, err := godotenv.Read(f)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
		for k, v := range m {
			if _, ok := values[k]; !ok {
				values[k] = v
			}
		}
	}

	get := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return values[key]
	}

	cfg := &Config{
		Device:  get(EnvDevice),
		LogFile: get(EnvLog),
	}
	if cfg.Device == "" {
		cfg.Device = get(EnvLegacyDevice)
	}

	var err error
	if cfg.Buffer, err = positiveInt(EnvBuffer, get(EnvBuffer)); err != nil {
		return nil, err
	}
	if cfg.Frames, err = positiveInt(EnvFrames, get(EnvFrames)); err != nil {
		return nil, err
	}

	return cfg, nil
}

func positiveInt(key, v string) (int, error) {
	if v == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s: negative value %d", key, n)
	}
	return n, nil
}
