package pipeline

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/fpminer/pkg/errors"
)

// LoadOptions reads mining options from a TOML, YAML or JSON file, chosen by
// extension. Keys missing from the file keep their DefaultOptions value and
// unknown keys are rejected.
//
// Example fpminer.toml:
//
//	format = "basket"
//	min_support = 0.02
//	must_contain = "^milk$"
//	find_min_number_of_itemsets = true
//	min_number_of_itemsets = 50
func LoadOptions(path string) (Options, error) {
	if err := errs.ValidatePath(path); err != nil {
		return Options{}, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Options{}, errs.Wrap(errs.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return Options{}, errs.Wrap(errs.ErrCodeInvalidPath, err, "read config %s", path)
	}
	opts, err := DecodeOptions(data, filepath.Ext(path))
	if err != nil {
		return Options{}, errs.Wrap(errs.ErrCodeInvalidOption, err, "config %s", path)
	}
	return opts, nil
}

// DecodeOptions decodes options on top of DefaultOptions. The extension
// selects the syntax: ".toml", ".yaml", ".yml" or ".json".
func DecodeOptions(data []byte, ext string) (Options, error) {
	opts := DefaultOptions()
	switch strings.ToLower(ext) {
	case ".toml":
		md, err := toml.Decode(string(data), &opts)
		if err != nil {
			return Options{}, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Options{}, errs.New(errs.ErrCodeInvalidOption, "unknown key %q", undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
			return Options{}, err
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&opts); err != nil {
			return Options{}, err
		}
	default:
		return Options{}, errs.New(errs.ErrCodeUnsupported, "unsupported config format %q (must be one of: .toml, .yaml, .yml, .json)", ext)
	}
	return opts, nil
}
