package sweep

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/qecworks/steanelab/internal/circuit"
	"github.com/qecworks/steanelab/internal/encode"
)

// ConfigError reports a sweep definition that failed to load or
// validate, with the CUE source position when available.
type ConfigError struct {
	Config  string
	Field   string
	Message string
	Pos     token.Pos
}

func (e *ConfigError) Error() string {
	where := e.Config
	if e.Field != "" {
		where = fmt.Sprintf("%s.%s", e.Config, e.Field)
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), where, e.Message)
	}
	return fmt.Sprintf("%s: %s", where, e.Message)
}

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// Load reads every CUE file under dir and extracts the sweep
// configurations from the top-level "config" struct, one configuration
// per labeled field. Labels become configuration names.
func Load(dir string) ([]Config, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("sweep directory not found: %s", dir)
	}
	if err != nil {
		return nil, fmt.Errorf("accessing sweep directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	cueFiles, err := findCUEFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning sweep directory: %w", err)
	}
	if len(cueFiles) == 0 {
		return nil, fmt.Errorf("no CUE files found in %s", dir)
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instances loaded from %s", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, fmt.Errorf("loading CUE files: %w", inst.Err)
	}
	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("building CUE value: %w", err)
	}

	configsVal := value.LookupPath(cue.ParsePath("config"))
	if !configsVal.Exists() {
		return nil, fmt.Errorf("no top-level config struct in %s", dir)
	}
	iter, err := configsVal.Fields()
	if err != nil {
		return nil, fmt.Errorf("iterating configs: %w", err)
	}

	var configs []Config
	for iter.Next() {
		cfg, err := parseConfig(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	if len(configs) == 0 {
		return nil, fmt.Errorf("config struct in %s is empty", dir)
	}
	return configs, nil
}

// parseConfig extracts one Config from its CUE value. Missing optional
// fields fall back to defaults; type mismatches surface with position.
func parseConfig(name string, v cue.Value) (Config, error) {
	cfg := Config{
		Name:        name,
		Setup:       encode.SetupExp,
		CycleBasis:  circuit.BasisZ,
		IcebergKind: encode.CheckW,
		Basis:       circuit.BasisZ,
	}

	if s, err := lookupString(v, "setup"); err != nil {
		return Config{}, posError(name, "setup", v, err)
	} else if s != "" {
		cfg.Setup = encode.Setup(s)
	}

	if n, err := lookupInt(v, "cycles"); err != nil {
		return Config{}, posError(name, "cycles", v, err)
	} else {
		cfg.Cycles = n
	}

	if s, err := lookupString(v, "cycle_basis"); err != nil {
		return Config{}, posError(name, "cycle_basis", v, err)
	} else if s != "" {
		cfg.CycleBasis = circuit.Basis(s)
	}

	if n, err := lookupInt(v, "iceberg_every"); err != nil {
		return Config{}, posError(name, "iceberg_every", v, err)
	} else {
		cfg.IcebergEvery = n
	}

	if s, err := lookupString(v, "iceberg_kind"); err != nil {
		return Config{}, posError(name, "iceberg_kind", v, err)
	} else if s != "" {
		cfg.IcebergKind = encode.CheckKind(s)
	}

	if f, err := lookupFloat(v, "theta"); err != nil {
		return Config{}, posError(name, "theta", v, err)
	} else {
		cfg.Theta = f
	}

	if s, err := lookupString(v, "basis"); err != nil {
		return Config{}, posError(name, "basis", v, err)
	} else if s != "" {
		cfg.Basis = circuit.Basis(s)
	}

	if n, err := lookupInt(v, "shots"); err != nil {
		return Config{}, posError(name, "shots", v, err)
	} else {
		cfg.Shots = n
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, &ConfigError{Config: name, Message: err.Error(), Pos: v.Pos()}
	}
	return cfg, nil
}

func lookupString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", fmt.Errorf("must be a string: %v", err)
	}
	return s, nil
}

func lookupInt(v cue.Value, field string) (int, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return 0, nil
	}
	n, err := fv.Int64()
	if err != nil {
		return 0, fmt.Errorf("must be an integer: %v", err)
	}
	return int(n), nil
}

func lookupFloat(v cue.Value, field string) (float64, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return 0, nil
	}
	f, err := fv.Float64()
	if err != nil {
		return 0, fmt.Errorf("must be a number: %v", err)
	}
	return f, nil
}

func posError(config, field string, v cue.Value, err error) *ConfigError {
	return &ConfigError{
		Config:  config,
		Field:   field,
		Message: err.Error(),
		Pos:     v.LookupPath(cue.ParsePath(field)).Pos(),
	}
}

func findCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
