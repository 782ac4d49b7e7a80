// Package profile holds the injected validation profile: transport limits and
// the extension-method policy applied by frame checks. Profiles are loaded
// from YAML and compiled once; checks consult them read-only.
package profile

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

type (
	// Profile is a compiled validation profile.
	Profile struct {
		// MaxFrameBytes bounds the size of one JSON-RPC frame. Zero disables
		// the size check.
		MaxFrameBytes int

		allowedExt []string
		schemas    map[string]*jsonschema.Schema
	}

	// Config is the YAML shape of a profile.
	Config struct {
		// MaxFrameBytes bounds one frame's byte length. Zero disables.
		MaxFrameBytes int `yaml:"max_frame_bytes"`
		// AllowedExtMethods lists extension methods tolerated by the
		// implementation lane. Entries ending in "*" match by prefix. Empty
		// means all extension methods are allowed.
		AllowedExtMethods []string `yaml:"allowed_ext_methods"`
		// ExtPayloadSchemas maps an extension method to a JSON Schema its
		// params must satisfy.
		ExtPayloadSchemas map[string]map[string]any `yaml:"ext_payload_schemas"`
	}
)

// Default returns a permissive profile: no size limit, all extension methods
// allowed, no payload schemas.
func Default() *Profile {
	return &Profile{}
}

// Load reads and compiles a profile from a YAML file.
func Load(path string) (*Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("profile: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("profile: parse %s: %w", path, err)
	}
	return Compile(cfg)
}

// Compile builds a Profile from its config, compiling any payload schemas.
func Compile(cfg Config) (*Profile, error) {
	if cfg.MaxFrameBytes < 0 {
		return nil, errors.New("profile: max_frame_bytes must not be negative")
	}
	p := &Profile{
		MaxFrameBytes: cfg.MaxFrameBytes,
		allowedExt:    cfg.AllowedExtMethods,
	}
	if len(cfg.ExtPayloadSchemas) > 0 {
		p.schemas = make(map[string]*jsonschema.Schema, len(cfg.ExtPayloadSchemas))
		for method, doc := range cfg.ExtPayloadSchemas {
			compiler := jsonschema.NewCompiler()
			url := "profile://" + method
			if err := compiler.AddResource(url, normalize(doc)); err != nil {
				return nil, fmt.Errorf("profile: schema for %s: %w", method, err)
			}
			sch, err := compiler.Compile(url)
			if err != nil {
				return nil, fmt.Errorf("profile: schema for %s: %w", method, err)
			}
			p.schemas[method] = sch
		}
	}
	return p, nil
}

// ExtMethodAllowed reports whether an extension method passes the allow list.
func (p *Profile) ExtMethodAllowed(method string) bool {
	if len(p.allowedExt) == 0 {
		return true
	}
	for _, pattern := range p.allowedExt {
		if pattern == method {
			return true
		}
		if prefix, ok := strings.CutSuffix(pattern, "*"); ok && strings.HasPrefix(method, prefix) {
			return true
		}
	}
	return false
}

// SchemaFor returns the compiled payload schema for an extension method, or
// nil when none is configured.
func (p *Profile) SchemaFor(method string) *jsonschema.Schema {
	return p.schemas[method]
}

// normalize rewrites YAML maps into the JSON-compatible shape the schema
// compiler expects.
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	default:
		return val
	}
}
