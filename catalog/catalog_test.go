package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleYAML = `datasets:
  coads:
    url: http://test.opendap.org/dap/data/nc/coads_climatology.nc
    description: COADS climatology
  local:
    url: http://localhost:8001/SimpleGrid
timeout: 30s
user_agent: godap-cli
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(c.Datasets) != 2 {
		t.Fatalf("datasets = %d", len(c.Datasets))
	}
	if c.Datasets["coads"].Description != "COADS climatology" {
		t.Fatalf("description = %q", c.Datasets["coads"].Description)
	}
	if c.Timeout != 30*time.Second {
		t.Fatalf("timeout = %v", c.Timeout)
	}
	if c.UserAgent != "godap-cli" {
		t.Fatalf("user agent = %q", c.UserAgent)
	}
}

func TestParseRejectsMissingURL(t *testing.T) {
	_, err := Parse([]byte("datasets:\n  broken:\n    description: no url\n"))
	if err == nil {
		t.Fatal("entry without url must fail")
	}
}

func TestParseRejectsBadYAML(t *testing.T) {
	if _, err := Parse([]byte("datasets: [not a map")); err == nil {
		t.Fatal("malformed yaml must fail")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Resolve("local") != "http://localhost:8001/SimpleGrid" {
		t.Fatalf("resolve = %q", c.Resolve("local"))
	}
}

func TestResolvePassesThroughUnknown(t *testing.T) {
	c, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatal(err)
	}
	if got := c.Resolve("http://example.org/other"); got != "http://example.org/other" {
		t.Fatalf("resolve = %q", got)
	}
	var nilCat *Catalog
	if got := nilCat.Resolve("name"); got != "name" {
		t.Fatalf("nil resolve = %q", got)
	}
}
