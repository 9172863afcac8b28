package cli

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/toyz/vtable/internal/delegates"
	"github.com/toyz/vtable/internal/errors"
	"github.com/toyz/vtable/internal/generator"
	"github.com/toyz/vtable/internal/utils"
)

// ConfigFileName is the configuration file looked up in the working directory
const ConfigFileName = ".vtable.yaml"

// Config holds the configuration for the CLI generator
type Config struct {
	// Directories is the list of directories to scan for annotated Go files.
	// A trailing /... scans the whole tree.
	Directories []string

	// ModuleName overrides the module path read from go.mod
	ModuleName string

	// ConfigFile is the YAML file to load. When empty ConfigFileName is used
	// if it exists.
	ConfigFile string

	// Delegates are used by annotations without -Delegates
	Delegates []string

	// Output is the generated file name
	Output string

	// Templates are extra delegates built from slot type templates
	Templates []delegates.TemplateConfig

	// List prints the visit order of every interface instead of writing files
	List bool

	// Verify type-checks written packages
	Verify bool

	// Verbose enables detailed logging and error reporting
	Verbose bool
}

// FileConfig is the content of .vtable.yaml
type FileConfig struct {
	Module    string                     `yaml:"module"`
	Output    string                     `yaml:"output"`
	Delegates []string                   `yaml:"delegates"`
	Templates []delegates.TemplateConfig `yaml:"templates"`
}

// LoadFileConfig reads path. A missing file is an error only when required.
func LoadFileConfig(path string, required bool) (*FileConfig, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if !required && stderrors.Is(err, fs.ErrNotExist) {
			return &FileConfig{}, nil
		}
		return nil, errors.WrapConfigurationError(path, "read", err)
	}
	return ParseFileConfig(path, content)
}

// ParseFileConfig decodes and validates a configuration file. Unknown keys
// are rejected.
func ParseFileConfig(name string, content []byte) (*FileConfig, error) {
	var cfg FileConfig

	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.Wrapf(errors.ConfigurationErrorCode, err, "failed to decode configuration '%s': %v", name, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.ConfigurationError(name, err.Error())
	}
	return &cfg, nil
}

// Validate checks the values of the file
func (c *FileConfig) Validate() error {
	if c.Module != "" {
		if err := utils.ValidateModulePath(c.Module); err != nil {
			return err
		}
	}
	if c.Output != "" {
		if err := ValidateOutputName(c.Output); err != nil {
			return err
		}
	}
	if err := utils.ValidateEach("delegates", utils.IsValidGoIdentifier("delegate"))(c.Delegates); err != nil {
		return err
	}
	if err := utils.Unique[string]("delegates")(c.Delegates); err != nil {
		return err
	}

	names := make([]string, len(c.Templates))
	for i, t := range c.Templates {
		names[i] = t.Name
	}
	return utils.Unique[string]("templates")(names)
}

// ValidateOutputName checks a generated file name. It must carry the
// generated file prefix so later runs do not parse it as a source file.
func ValidateOutputName(name string) error {
	switch {
	case strings.ContainsAny(name, `/\`) || name != filepath.Base(name):
		return fmt.Errorf("output %q must be a file name, not a path", name)
	case !strings.HasPrefix(name, utils.GeneratedFilePrefix):
		return fmt.Errorf("output %q must start with %q", name, utils.GeneratedFilePrefix)
	case !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go"):
		return fmt.Errorf("output %q must be a non-test .go file", name)
	}
	return nil
}

// Apply fills the fields that were not set on the command line from file
func (c *Config) Apply(file *FileConfig) {
	if c.ModuleName == "" {
		c.ModuleName = file.Module
	}
	if c.Output == "" {
		c.Output = file.Output
	}
	if len(c.Delegates) == 0 {
		c.Delegates = file.Delegates
	}
	c.Templates = append(c.Templates, file.Templates...)
}

// OutputName returns the generated file name
func (c *Config) OutputName() string {
	if c.Output == "" {
		return generator.DefaultFileName
	}
	return c.Output
}

// Load applies the configuration file named by ConfigFile, or ConfigFileName
// in dir when it exists
func (c *Config) Load(dir string) error {
	path, required := c.ConfigFile, true
	if path == "" {
		path, required = filepath.Join(dir, ConfigFileName), false
	}

	file, err := LoadFileConfig(path, required)
	if err != nil {
		return err
	}
	c.Apply(file)

	if c.Output != "" {
		if err := ValidateOutputName(c.Output); err != nil {
			return errors.ConfigurationError("output", err.Error())
		}
	}
	return nil
}
