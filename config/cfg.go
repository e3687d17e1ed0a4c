package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	ShorthandConfig struct {
		ForceImportant bool `yaml:"force_important"`
		// SkipInvalid keeps rule sets which failed to expand as they were
		// instead of failing whole source.
		SkipInvalid bool `yaml:"skip_invalid"`
	}

	InputConfig struct {
		Format          InputFormat `yaml:"format" validate:"gte=0,lte=3"`
		Encoding        string      `yaml:"encoding"`
		CSSExtensions   []string    `yaml:"css_extensions" validate:"min=1,dive,required,startswith=."`
		HTMLExtensions  []string    `yaml:"html_extensions" validate:"dive,required,startswith=."`
		XHTMLExtensions []string    `yaml:"xhtml_extensions" validate:"dive,required,startswith=."`
	}

	OutputConfig struct {
		// Suffix is added to the file name (before extension) when results are
		// written next to sources.
		Suffix    string `yaml:"suffix"`
		Overwrite bool   `yaml:"overwrite"`
		// Repack produces modified copy of zip container instead of
		// extracting results.
		Repack bool `yaml:"repack"`
	}

	Config struct {
		Version   int             `yaml:"version" validate:"eq=1"`
		Shorthand ShorthandConfig `yaml:"shorthand"`
		Input     InputConfig     `yaml:"input"`
		Output    OutputConfig    `yaml:"output"`
		Logging   LoggingConfig   `yaml:"logging"`
		Reporting ReporterConfig  `yaml:"reporting"`
	}
)

// FormatFor decides how file should be treated based on its extension when
// format is not forced by configuration. Unknown extensions yield
// InputFormatAuto.
func (conf *InputConfig) FormatFor(path string) InputFormat {
	if conf.Format != InputFormatAuto {
		return conf.Format
	}
	ext := filepath.Ext(path)
	match := func(e string) bool { return strings.EqualFold(e, ext) }
	switch {
	case len(ext) == 0:
		return InputFormatAuto
	case slices.ContainsFunc(conf.CSSExtensions, match):
		return InputFormatCss
	case slices.ContainsFunc(conf.HTMLExtensions, match):
		return InputFormatHtml
	case slices.ContainsFunc(conf.XHTMLExtensions, match):
		return InputFormatXhtml
	}
	return InputFormatAuto
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
