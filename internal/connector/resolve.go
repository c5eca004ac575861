package connector

import "os"

// Provider names.
const (
	ProviderFile       = "file"
	ProviderRoastWorld = "roastworld"
)

// Resolve picks the provider for a CLI input: a path naming an existing
// regular file is read locally, anything else is treated as a remote roast
// id or URL.
func Resolve(input string) string {
	if info, err := os.Stat(input); err == nil && info.Mode().IsRegular() {
		return ProviderFile
	}
	return ProviderRoastWorld
}

// Open resolves input and constructs the matching registered Source.
func Open(input string, cfg Config) (Source, string, error) {
	name := Resolve(input)
	ctor, err := Get(name)
	if err != nil {
		return nil, name, err
	}
	return ctor(cfg), name, nil
}
