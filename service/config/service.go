// Package config loads the optional designer-wrapper YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/thirukguru/designer-wrapper/model"
	"gopkg.in/yaml.v3"
)

// DefaultBZeroThreshold is written to the MRtrix config when neither the
// command line nor the config file sets one.
const DefaultBZeroThreshold = 61.0

const defaultMrtrixConfPath = "~/.mrtrix.conf"

// MrtrixSettings controls the MRtrix configuration file.
type MrtrixSettings struct {
	ConfigPath     string   `yaml:"config_path"`
	BZeroThreshold *float64 `yaml:"bzero_threshold"`
}

// File models the YAML config.
type File struct {
	Programs model.Programs `yaml:"programs"`
	Mrtrix   MrtrixSettings `yaml:"mrtrix"`
	DBPath   string         `yaml:"db_path"`
}

type service struct{}

// Service loads configuration and merges it with parsed flags.
type Service interface {
	Load(path string) (*File, error)
	Apply(cfg *File, flags *model.Flags)
}

// NewService creates a new config service.
func NewService() Service {
	return &service{}
}

// Defaults returns the configuration used when no file is given.
func Defaults() *File {
	return &File{
		Programs: model.DefaultPrograms(),
		Mrtrix:   MrtrixSettings{ConfigPath: defaultMrtrixConfPath},
	}
}

// Load reads path and fills unset fields with defaults. An empty path
// returns the defaults.
func (s *service) Load(path string) (*File, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, model.Validationf("config file %s does not exist", path)
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var loaded File
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, model.Validationf("invalid config %s: %v", path, err)
	}

	mergePrograms(&cfg.Programs, loaded.Programs)
	if loaded.Mrtrix.ConfigPath != "" {
		cfg.Mrtrix.ConfigPath = loaded.Mrtrix.ConfigPath
	}
	cfg.Mrtrix.BZeroThreshold = loaded.Mrtrix.BZeroThreshold
	cfg.DBPath = loaded.DBPath

	return cfg, nil
}

// Apply fills flags left unset on the command line from cfg.
func (s *service) Apply(cfg *File, flags *model.Flags) {
	if cfg == nil || flags == nil {
		return
	}
	if flags.BZeroThreshold == nil {
		v := DefaultBZeroThreshold
		if cfg.Mrtrix.BZeroThreshold != nil {
			v = *cfg.Mrtrix.BZeroThreshold
		}
		flags.BZeroThreshold = &v
	}
	if flags.DBPath == "" {
		flags.DBPath = cfg.DBPath
	}
}

func mergePrograms(dst *model.Programs, src model.Programs) {
	set := func(d *string, v string) {
		if strings.TrimSpace(v) != "" {
			*d = v
		}
	}
	set(&dst.Designer, src.Designer)
	set(&dst.Mrconvert, src.Mrconvert)
	set(&dst.Tmi, src.Tmi)
	set(&dst.Bash, src.Bash)
	set(&dst.DTIQCScript, src.DTIQCScript)
}
