package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// Binder turns a merged map[string]any into a typed, validated
// configuration struct.
//
// Binding is two-staged: mapstructure decodes the untyped map into the
// target struct (weakly typed, so "8080" binds to an int field, "30s"
// to a time.Duration), then go-playground/validator checks the result
// against `validate` tags. Field mapping uses the `config` tag.
type Binder struct {
	validator *validator.Validate
}

// BindError reports a failure in one of the two binding stages, so
// callers can tell malformed data (decode) from bad values (validate).
type BindError struct {
	// Stage is "decode" or "validate".
	Stage string

	// Err is the underlying mapstructure or validator error.
	Err error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("config %s error: %v", e.Stage, e.Err)
}

// Unwrap enables errors.Is and errors.As on the underlying error.
func (e *BindError) Unwrap() error {
	return e.Err
}

// NewBinder returns a Binder with the default decode hooks (string to
// time.Duration, comma-separated string to slice, weak typing) and the
// standard validator rule set.
func NewBinder() *Binder {
	return &Binder{
		validator: validator.New(),
	}
}

// Bind decodes source into target, which must be a pointer to a struct,
// and validates the result. On failure a *BindError identifies the
// stage; after a validate failure the target may be partially
// populated.
func (b *Binder) Bind(source map[string]any, target any) error {
	if err := b.decode(source, target); err != nil {
		return &BindError{Stage: "decode", Err: err}
	}
	if err := b.validator.Struct(target); err != nil {
		return &BindError{Stage: "validate", Err: err}
	}
	return nil
}

func (b *Binder) decode(source map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		TagName: "config",
	})
	if err != nil {
		return err
	}
	return decoder.Decode(source)
}
