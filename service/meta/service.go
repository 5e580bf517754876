package meta

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"
)

// Service loads configuration and graph documents through afs, expanding
// ${env.NAME} expressions before decoding.
type Service struct {
	fs      afs.Service
	baseURL string
	options []storage.Option
}

// URL resolves a location against the base URL.
func (s *Service) URL(location string) string {
	if s.baseURL == "" || !url.IsRelative(location) {
		return location
	}
	return url.Join(s.baseURL, location)
}

// Download reads a document and expands environment expressions.
func (s *Service) Download(ctx context.Context, location string) ([]byte, error) {
	URL := s.URL(location)
	data, err := s.fs.DownloadWithURL(ctx, URL, s.options...)
	if err != nil {
		return nil, fmt.Errorf("failed to download %v: %w", URL, err)
	}
	return []byte(expandEnvExpr(string(data))), nil
}

// Load decodes a YAML or JSON document into target; the format is taken from
// the URL extension and defaults to YAML.
func (s *Service) Load(ctx context.Context, location string, target interface{}) error {
	data, err := s.Download(ctx, location)
	if err != nil {
		return err
	}
	return Decode(Format(location), data, target)
}

// Format returns document format derived from the location extension.
func Format(location string) string {
	switch ext := strings.ToLower(path.Ext(location)); ext {
	case ".json":
		return FormatJSON
	case ".hcl":
		return FormatHCL
	default:
		return FormatYAML
	}
}

// Decode decodes YAML or JSON data into target
func Decode(format string, data []byte, target interface{}) error {
	switch format {
	case FormatJSON:
		if err := sonic.Unmarshal(data, target); err != nil {
			return fmt.Errorf("failed to decode json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, target); err != nil {
			return fmt.Errorf("failed to decode yaml: %w", err)
		}
	default:
		return fmt.Errorf("unsupported format: %v", format)
	}
	return nil
}

// New creates a meta service, options are passed to every download (for
// example an embed.FS).
func New(fs afs.Service, baseURL string, options ...storage.Option) *Service {
	if fs == nil {
		fs = afs.New()
	}
	return &Service{fs: fs, baseURL: baseURL, options: options}
}
