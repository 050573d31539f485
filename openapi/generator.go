// Package openapi renders the console API description without starting a
// server.
package openapi

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"

	"github.com/fortressguard/fortress/internal/server"
)

// NewAPI registers the console operations on a detached mux. The result
// only describes the API; its handlers have no sessions to serve.
func NewAPI(version string) huma.API {
	mux := http.NewServeMux()
	api := humago.New(mux, server.HumaConfig(version, false))
	server.Register(api, nil, version, "")
	return api
}

// WriteSpec saves the OpenAPI document of api to outputPath, as YAML when
// the file ends in .yaml or .yml and as JSON otherwise.
func WriteSpec(api huma.API, outputPath string) error {
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	var (
		spec []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(outputPath)) {
	case ".yaml", ".yml":
		spec, err = GenerateSpecYAML(api)
	default:
		spec, err = GenerateSpec(api)
	}
	if err != nil {
		return fmt.Errorf("failed to generate OpenAPI spec: %w", err)
	}

	if err := os.WriteFile(outputPath, spec, 0644); err != nil {
		return fmt.Errorf("failed to save OpenAPI spec to %s: %w", outputPath, err)
	}
	return nil
}

// GenerateSpec returns the OpenAPI document of api as JSON.
func GenerateSpec(api huma.API) ([]byte, error) {
	return api.OpenAPI().MarshalJSON()
}

// GenerateSpecYAML returns the OpenAPI document of api as YAML.
func GenerateSpecYAML(api huma.API) ([]byte, error) {
	return api.OpenAPI().YAML()
}

// RouteCount returns the number of operations in api.
func RouteCount(api huma.API) int {
	spec := api.OpenAPI()
	if spec == nil {
		return 0
	}

	count := 0
	for _, item := range spec.Paths {
		if item == nil {
			continue
		}
		for _, op := range []*huma.Operation{item.Get, item.Post, item.Put, item.Delete, item.Patch, item.Head, item.Options} {
			if op != nil {
				count++
			}
		}
	}
	return count
}
