package table

import (
	"errors"
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"github.com/leapstack-labs/sqlkit/pkg/template"
)

// ErrMissingParameter is returned when a required method argument is
// neither passed nor configured.
var ErrMissingParameter = errors.New("missing required parameter")

// CallOption configures how a dialect method reads its configuration.
type CallOption func(*Call)

// Call holds the per-invocation settings of a dialect method.
type Call struct {
	Vars       template.Vars
	SkipConfig bool
}

// WithVars sets the variables used to expand the method configuration.
func WithVars(vars template.Vars) CallOption {
	return func(c *Call) { c.Vars = vars }
}

// SkipConfig ignores the method configuration; only passed arguments count.
func SkipConfig() CallOption {
	return func(c *Call) { c.SkipConfig = true }
}

// NewCall applies opts.
func NewCall(opts ...CallOption) Call {
	var c Call
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// MergeOptions decodes the expanded configuration block for method into
// dst, then overlays the non-zero fields of args. Both args and dst are
// structs (or pointers to structs) with mapstructure tags; fields that
// should be overridable must carry ",omitempty".
func (t *Table) MergeOptions(method string, args, dst any, opts ...CallOption) error {
	call := NewCall(opts...)

	merged := make(map[string]any)
	if !call.SkipConfig {
		cfg, err := t.MethodConfig(method, call.Vars)
		if err != nil {
			return err
		}
		for k, v := range cfg {
			merged[k] = v
		}
	}

	if args != nil {
		overrides := make(map[string]any)
		if err := mapstructure.Decode(args, &overrides); err != nil {
			return fmt.Errorf("table %q method %q: encoding arguments: %w", t.Name, method, err)
		}
		for k, v := range overrides {
			merged[k] = v
		}
	}

	if err := DecodeOptions(merged, dst); err != nil {
		return fmt.Errorf("table %q method %q: %w", t.Name, method, err)
	}
	return nil
}

// DecodeOptions decodes a loosely typed options block into dst. Strings
// are converted to numbers and booleans where needed, and a single value
// is accepted where a list is expected.
func DecodeOptions(raw map[string]any, dst any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           dst,
		WeaklyTypedInput: true,
		ErrorUnused:      false,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("decoding options: %w", err)
	}
	return nil
}

// Require returns an error wrapping ErrMissingParameter when value is empty.
func (t *Table) Require(method, param, value string) error {
	if value == "" {
		return fmt.Errorf("table %q method %q: %w %q", t.Name, method, ErrMissingParameter, param)
	}
	return nil
}
