package conformance

import "testing"

// TestConformanceFixtures loads every YAML suite in testdata/ and runs
// it, mirroring MongooseMoo-barn/conformance/conformance_test.go's
// TestConformance (load all -> run all -> subtest per case).
func TestConformanceFixtures(t *testing.T) {
	suites, err := LoadDir(FixtureDir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(suites) == 0 {
		t.Fatal("no conformance fixtures loaded")
	}

	for _, ls := range suites {
		ls := ls
		t.Run(ls.File, func(t *testing.T) {
			results := RunSuite(ls.Suite)
			for _, r := range results {
				r := r
				t.Run(r.Case.Name, func(t *testing.T) {
					if !r.Passed {
						t.Errorf("%s", r.Detail)
					}
				})
			}
		})
	}
}
