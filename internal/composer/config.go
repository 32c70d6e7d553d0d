package composer

import (
	"os"

	"gopkg.in/yaml.v2"
)

// PreeditMethod selects how raw keystrokes map to kana. ROMAN drives the
// rewrite-table state machine this package implements; KANA (direct kana
// keyboards) is out of scope but kept as an enum value so Config can
// still round-trip a file written for it.
type PreeditMethod int

const (
	PreeditRoman PreeditMethod = iota
	PreeditKana
)

// Request carries client-supplied context for a single composing
// session: nothing here is persisted, it only shapes how the current
// input is interpreted.
type Request struct {
	// SpecialRomanjiTable selects an alternate rewrite table resource
	// name; empty means the default system table.
	SpecialRomanjiTable string `yaml:"special_romanji_table"`
	// ZeroQuerySuggestion enables empty-input prediction queries;
	// carried through for parity with the original request shape even
	// though this package does not implement prediction itself.
	ZeroQuerySuggestion bool `yaml:"zero_query_suggestion"`
}

// Config is the persistent, user-level settings object. A nil *Config is
// always valid input to Composer methods and is treated as
// DefaultConfig().
type Config struct {
	PreeditMethod        PreeditMethod   `yaml:"preedit_method"`
	UseAutoIMETurnOff    bool            `yaml:"use_auto_ime_turn_off"`
	ShiftKeyModeSwitch   ShiftModeSwitch `yaml:"shift_key_mode_switch"`
	SessionKeymap        string          `yaml:"session_keymap"`
	TimeoutThresholdMsec int64           `yaml:"composing_timeout_threshold_msec"`
}

// DefaultConfig returns the settings Composer falls back to when
// constructed or reset with a nil Config, matching the original's
// shipped defaults (romaji input, auto IME turn-off on, shift switches
// to half-width ASCII).
func DefaultConfig() *Config {
	return &Config{
		PreeditMethod:        PreeditRoman,
		UseAutoIMETurnOff:    true,
		ShiftKeyModeSwitch:   ShiftModeASCII,
		SessionKeymap:        "MSIME",
		TimeoutThresholdMsec: 0,
	}
}

// LoadConfig reads a YAML-encoded Config from path, starting from
// DefaultConfig() so any field the file omits keeps its default value.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadRequest reads a YAML-encoded Request from path.
func LoadRequest(path string) (*Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	req := &Request{}
	if err := yaml.Unmarshal(data, req); err != nil {
		return nil, err
	}
	return req, nil
}
