package conformance

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FixtureDir is the directory this package's own tests load fixtures
// from, mirroring MongooseMoo-barn/conformance/loader.go's TestPath
// constant.
const FixtureDir = "testdata"

// LoadedSuite pairs a parsed Suite with the file it came from.
type LoadedSuite struct {
	File  string
	Suite Suite
}

// LoadDir walks dir for *.yaml fixture files and parses each into a
// Suite, the way MongooseMoo-barn/conformance/loader.go's LoadAllTests
// walks its own YAML tree (filepath.Walk + yaml.Unmarshal), generalized
// from MOO TestSuite/TestCase to this package's Suite/Case.
func LoadDir(dir string) ([]LoadedSuite, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("conformance: read %s: %w", dir, err)
	}
	var out []LoadedSuite
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("conformance: read %s: %w", path, err)
		}
		var s Suite
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("conformance: parse %s: %w", path, err)
		}
		out = append(out, LoadedSuite{File: e.Name(), Suite: s})
	}
	return out, nil
}
