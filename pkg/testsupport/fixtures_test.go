package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFixture(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")
	testContent := []byte("test fixture content")

	if err := os.WriteFile(testFile, testContent, 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	result := LoadFixture(t, testFile)
	if string(result) != string(testContent) {
		t.Errorf("expected %q, got %q", testContent, result)
	}
}

func TestLoadFixtureJSON(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.json")
	testData := map[string]interface{}{
		"name":  "test",
		"value": 42,
	}

	jsonData, err := json.Marshal(testData)
	if err != nil {
		t.Fatalf("failed to marshal test data: %v", err)
	}
	if err := os.WriteFile(testFile, jsonData, 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	var result map[string]interface{}
	LoadFixtureJSON(t, testFile, &result)

	if result["name"] != "test" {
		t.Errorf("expected name=test, got %v", result["name"])
	}
	if result["value"] != float64(42) { // JSON unmarshals numbers as float64
		t.Errorf("expected value=42, got %v", result["value"])
	}
}

func TestCompareWithGolden(t *testing.T) {
	tmpDir := t.TempDir()
	goldenFile := filepath.Join(tmpDir, "test.golden")
	content := []byte("expected output content")

	if err := os.WriteFile(goldenFile, content, 0644); err != nil {
		t.Fatalf("failed to create golden file: %v", err)
	}

	CompareWithGolden(t, goldenFile, content)
}

func TestCompareWithGoldenUpdates(t *testing.T) {
	tmpDir := t.TempDir()
	goldenFile := filepath.Join(tmpDir, "test.golden")
	content := []byte("regenerated output")

	t.Setenv("UPDATE_GOLDEN", "1")
	CompareWithGolden(t, goldenFile, content)

	result, err := os.ReadFile(goldenFile)
	if err != nil {
		t.Fatalf("failed to read written golden file: %v", err)
	}
	if string(result) != string(content) {
		t.Errorf("expected %q, got %q", content, result)
	}
}

func TestCompareWithGoldenJSON(t *testing.T) {
	tmpDir := t.TempDir()
	goldenFile := filepath.Join(tmpDir, "test.json")
	value := map[string]interface{}{"test": "data", "number": 123}

	expected, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal test data: %v", err)
	}
	if err := os.WriteFile(goldenFile, expected, 0644); err != nil {
		t.Fatalf("failed to create golden file: %v", err)
	}

	CompareWithGoldenJSON(t, goldenFile, value)
}
