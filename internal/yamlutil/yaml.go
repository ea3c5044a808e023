// Package yamlutil decodes configuration files with goccy/go-yaml.
package yamlutil

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize caps configuration input at 1MB.
const MaxInputSize = 1 << 20

var (
	ErrEmpty          = errors.New("yamlutil: empty document")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

// DecodeError is a YAML syntax or schema error. Detail holds the
// goccy-formatted message, including the offending source line when the
// parser knows it.
type DecodeError struct {
	Detail string
	Err    error
}

func (e *DecodeError) Error() string { return "yamlutil: " + e.Detail }

func (e *DecodeError) Unwrap() error { return e.Err }

// DecodeStrict decodes data into v. Unknown keys are errors, so a
// misspelled option is reported instead of silently ignored. Durations
// are written the way time.ParseDuration reads them ("90s", "2m").
func DecodeStrict(data []byte, v any) error {
	if v == nil {
		return ErrNilDestination
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return ErrEmpty
	}

	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return &DecodeError{Detail: yaml.FormatError(err, false, true), Err: err}
	}
	return nil
}
