package state

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/encoding/ianaindex"

	"cssr/config"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start:    time.Now(),
		Pipeline: config.PipelineExpand,
		Format:   config.InputFormatAuto,
	}
}

// ApplyConfig copies processing defaults from configuration. Command line
// flags are applied afterwards and take precedence.
func (e *LocalEnv) ApplyConfig(cfg *config.Config) error {
	e.Format = cfg.Input.Format
	e.Overwrite = cfg.Output.Overwrite
	e.Repack = cfg.Output.Repack
	e.ForceImportant = cfg.Shorthand.ForceImportant
	e.SkipInvalid = cfg.Shorthand.SkipInvalid
	return e.SetCodePage(cfg.Input.Encoding)
}

// SetCodePage selects source encoding by IANA name, empty name means UTF-8
// (no decoding).
func (e *LocalEnv) SetCodePage(name string) error {
	name = strings.TrimSpace(name)
	if len(name) == 0 {
		e.CodePage = nil
		return nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return fmt.Errorf("unknown character set '%s': %w", name, err)
	}
	if enc == nil {
		return fmt.Errorf("character set '%s' is not supported", name)
	}
	e.CodePage = enc
	return nil
}
