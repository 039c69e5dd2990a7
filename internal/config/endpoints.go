package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v2"
)

// endpointsFile is the on-disk layout of an endpoints file:
//
//	endpoints:
//	  joke:
//	    base_url: https://api.chucknorris.io
//	    path: /jokes/random
//	  comments:
//	    base_url: http://localhost:8080
type endpointsFile struct {
	Endpoints EndpointSet `yaml:"endpoints"`
}

// LoadEndpointsFile reads endpoint overrides from a YAML file. Resources
// absent from the file, or an empty file, yield empty endpoints. Unknown
// keys are rejected.
func LoadEndpointsFile(path string) (EndpointSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return EndpointSet{}, err
	}
	defer f.Close()

	var file endpointsFile
	dec := yaml.NewDecoder(f)
	dec.SetStrict(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return EndpointSet{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return file.Endpoints, nil
}
