// Package testsupport provides fixture helpers and a seeded reference
// backend for tests across the module.
package testsupport

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"
)

// LoadFixture reads test data from a fixture file relative to the test
// package directory.
func LoadFixture(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to load fixture from %s: %v", path, err)
	}
	return data
}

// LoadFixtureJSON reads a JSON fixture and unmarshals it into dest.
func LoadFixtureJSON(t *testing.T, path string, dest any) {
	t.Helper()

	if err := json.Unmarshal(LoadFixture(t, path), dest); err != nil {
		t.Fatalf("failed to unmarshal JSON fixture from %s: %v", path, err)
	}
}

// CompareWithGolden checks actual against the golden file at path. Running
// with UPDATE_GOLDEN=1 rewrites the golden file instead of failing.
func CompareWithGolden(t *testing.T, path string, actual []byte) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDEN") == "1" {
		if err := os.WriteFile(path, actual, 0644); err != nil {
			t.Fatalf("failed to update golden file %s: %v", path, err)
		}
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to load golden file from %s: %v", path, err)
	}
	if !bytes.Equal(expected, actual) {
		t.Errorf("output does not match golden file %s\nexpected:\n%s\nactual:\n%s", path, expected, actual)
	}
}

// CompareWithGoldenJSON marshals actual with indentation before comparing,
// so golden files stay diffable.
func CompareWithGoldenJSON(t *testing.T, path string, actual any) {
	t.Helper()

	data, err := json.MarshalIndent(actual, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal value for golden comparison: %v", err)
	}
	CompareWithGolden(t, path, data)
}
