package credentials

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Provider supplies named secrets to vendor adapters.
type Provider interface {
	Get(name string) (string, error)
}

// Options holds configuration overrides passed to New().
type Options struct {
	// Dir is the secret-file directory consulted when the environment has
	// no value. Defaults to $CREDENTIALS_DIRECTORY.
	Dir string
}

// ChainProvider checks the process environment, then falls back to files in
// a secrets directory named after the credential.
type ChainProvider struct {
	dir string
}

// New constructs a ChainProvider.
func New(optFns ...func(o *Options)) *ChainProvider {
	opts := Options{Dir: os.Getenv("CREDENTIALS_DIRECTORY")}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &ChainProvider{dir: opts.Dir}
}

// Get resolves a credential by name.
func (p *ChainProvider) Get(name string) (string, error) {
	if v := os.Getenv(name); v != "" {
		return v, nil
	}
	if p.dir == "" {
		return "", fmt.Errorf("credential %s: not in environment and no credentials directory configured", name)
	}
	b, err := os.ReadFile(filepath.Join(p.dir, name))
	if err != nil {
		return "", fmt.Errorf("credential %s: %w", name, err)
	}
	return strings.TrimSpace(string(b)), nil
}

// Static is a fixed in-memory Provider for tests.
type Static map[string]string

// Get resolves a credential from the map.
func (s Static) Get(name string) (string, error) {
	v, ok := s[name]
	if !ok {
		return "", fmt.Errorf("credential %s: not configured", name)
	}
	return v, nil
}
