// Package config loads gitview settings from a YAML file.
//
// The file is decoded with yaml.v3, checked against an embedded CUE schema
// that also supplies defaults, and decoded into a Config:
//
//	backend: hosted
//	branch: main
//	hosted:
//	  owner: jmgilman
//	  repo: content
//	user:
//	  name: Jane Doe
//	  email: jane@example.com
//	log:
//	  level: debug
package config

import (
	"context"
	_ "embed"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/jmgilman/gitview/errors"
	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable holding the default config path.
const EnvPath = "GITVIEW_CONFIG"

// DefaultPath is used when EnvPath is unset.
const DefaultPath = ".gitview.yaml"

// Backend names.
const (
	BackendNative = "native"
	BackendCLI    = "cli"
	BackendHosted = "hosted"
)

//go:embed schema.cue
var schemaSource string

// Config is the validated configuration.
type Config struct {
	Backend string  `json:"backend"`
	Branch  string  `json:"branch"`
	Path    string  `json:"path,omitempty"`
	Bare    bool    `json:"bare"`
	Hosted  *Hosted `json:"hosted,omitempty"`
	User    *User   `json:"user,omitempty"`
	Log     Log     `json:"log"`
}

// Hosted configures the GitHub backend.
type Hosted struct {
	Owner     string `json:"owner"`
	Repo      string `json:"repo"`
	BaseURL   string `json:"base_url,omitempty"`
	TokenEnv  string `json:"token_env"`
	CacheSize int    `json:"cache_size"`
}

// User is the commit author.
type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Log configures logging.
type Log struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// Path returns the config path named by GITVIEW_CONFIG, or DefaultPath.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads and validates the config file at path.
func Load(ctx context.Context, fs billy.Filesystem, path string) (*Config, error) {
	data, err := util.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WithContext(
				errors.Wrap(err, errors.CodeNotFound, "config file not found"),
				"path", path,
			)
		}
		return nil, errors.WithContext(
			errors.Wrap(err, errors.CodeInvalidConfig, "failed to read config file"),
			"path", path,
		)
	}

	cfg, err := Parse(ctx, data)
	if err != nil {
		return nil, errors.WithContext(err, "path", path)
	}
	return cfg, nil
}

// Parse validates YAML config data. Empty data yields the defaults.
func Parse(ctx context.Context, data []byte) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeTimeout, "context cancelled before parsing config")
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "config is not valid YAML")
	}
	if raw == nil {
		raw = map[string]interface{}{}
	}

	cctx := cuecontext.New()
	schema := cctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "embedded config schema is invalid")
	}

	value := schema.LookupPath(cue.ParsePath("#Config")).Unify(cctx.Encode(raw))
	if err := value.Validate(cue.Concrete(true), cue.Final(), cue.All()); err != nil {
		return nil, validationError(err)
	}

	var cfg Config
	if err := value.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks constraints that span fields.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendHosted:
		if c.Hosted == nil {
			return fieldError("hosted", "hosted backend requires a hosted section")
		}
	case BackendNative, BackendCLI:
		if c.Path == "" {
			return fieldError("path", c.Backend+" backend requires a path")
		}
	default:
		return fieldError("backend", "unknown backend "+c.Backend)
	}
	return nil
}

func fieldError(field, msg string) error {
	return errors.WithContext(errors.New(errors.CodeInvalidConfig, msg), "field", field)
}

// validationError flattens CUE's error list into the error context.
func validationError(err error) error {
	var issues []string
	for _, e := range cueerrors.Errors(err) {
		issues = append(issues, e.Error())
	}
	return errors.WithContextMap(
		errors.Wrap(err, errors.CodeInvalidConfig, "config validation failed"),
		map[string]interface{}{
			"issues":  issues,
			"details": cueerrors.Details(err, nil),
		},
	)
}
