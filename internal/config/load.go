package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/roach88/quadsql/internal/codec"
)

//go:embed schema.cue
var schemaCUE string

// LoadError reports a configuration file that could not be read or decoded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load config %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads a configuration file, choosing the decoder by extension.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &LoadError{Path: path, Err: err}
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		cfg, err = decodeYAML(data)
	case ".toml":
		cfg, err = decodeTOML(data)
	case ".cue":
		cfg, err = decodeCUE(data, path)
	default:
		err = fmt.Errorf("unsupported config format %q: use .yaml, .toml or .cue", ext)
	}
	if err != nil {
		return Config{}, &LoadError{Path: path, Err: err}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, &LoadError{Path: path, Err: err}
	}
	return cfg, nil
}

type yamlConfig struct {
	DB       string    `yaml:"db"`
	Adapter  string    `yaml:"adapter"`
	Prefixes yaml.Node `yaml:"prefixes"`
}

func decodeYAML(data []byte) (Config, error) {
	var raw yamlConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse YAML: %w", err)
	}

	cfg := Config{DB: raw.DB, Adapter: raw.Adapter}
	switch raw.Prefixes.Kind {
	case 0:
		// prefixes omitted
	case yaml.MappingNode:
		content := raw.Prefixes.Content
		for i := 0; i+1 < len(content); i += 2 {
			key, value := content[i], content[i+1]
			if value.Kind != yaml.ScalarNode {
				return Config{}, fmt.Errorf("line %d: prefix %q must map to a string", value.Line, key.Value)
			}
			cfg.Prefixes = append(cfg.Prefixes, codec.Prefix{Label: key.Value, Stem: value.Value})
		}
	default:
		return Config{}, fmt.Errorf("line %d: prefixes must be a mapping of label to stem", raw.Prefixes.Line)
	}
	return cfg, nil
}

type tomlConfig struct {
	DB       string            `toml:"db"`
	Adapter  string            `toml:"adapter"`
	Prefixes map[string]string `toml:"prefixes"`
}

func decodeTOML(data []byte) (Config, error) {
	var raw tomlConfig
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return Config{}, fmt.Errorf("parse TOML: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("unknown keys: %v", undecoded)
	}

	cfg := Config{DB: raw.DB, Adapter: raw.Adapter}
	// Maps lose order; MetaData.Keys reports keys in document order.
	for _, key := range md.Keys() {
		if len(key) == 2 && key[0] == "prefixes" {
			cfg.Prefixes = append(cfg.Prefixes, codec.Prefix{Label: key[1], Stem: raw.Prefixes[key[1]]})
		}
	}
	return cfg, nil
}

func decodeCUE(data []byte, path string) (Config, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Config{}, fmt.Errorf("compile schema: %w", err)
	}

	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return Config{}, formatCUEError(err)
	}

	v = schema.LookupPath(cue.ParsePath("#Config")).Unify(v)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return Config{}, formatCUEError(err)
	}

	var cfg Config
	var err error
	if cfg.DB, err = lookupString(v, "db"); err != nil {
		return Config{}, err
	}
	if cfg.Adapter, err = lookupString(v, "adapter"); err != nil {
		return Config{}, err
	}

	prefixes := v.LookupPath(cue.ParsePath("prefixes"))
	if prefixes.Exists() {
		iter, err := prefixes.Fields()
		if err != nil {
			return Config{}, formatCUEError(err)
		}
		for iter.Next() {
			stem, err := iter.Value().String()
			if err != nil {
				return Config{}, formatCUEError(err)
			}
			cfg.Prefixes = append(cfg.Prefixes, codec.Prefix{Label: iter.Label(), Stem: stem})
		}
	}
	return cfg, nil
}

func lookupString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() || !fv.IsConcrete() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

// formatCUEError keeps the first CUE error with its position.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		return fmt.Errorf("%s: %s", positions[0], first.Error())
	}
	return first
}
