package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadResources(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"array", `[{"resourceType":"Goal","id":"G1"},{"resourceType":"Consent","id":"C1"}]`, 2},
		{"bundle", `{"resourceType":"Bundle","entry":[{"resource":{"resourceType":"Goal","id":"G1"}},{"fullUrl":"x"}]}`, 1},
		{"single resource", `{"resourceType":"Encounter","id":"E1"}`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resources, err := readResources(writeTemp(t, tt.content))
			require.NoError(t, err)
			assert.Len(t, resources, tt.want)
		})
	}

	_, err := readResources(writeTemp(t, `not json`))
	assert.Error(t, err)
}

func TestPrintJSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printJSON(&out, map[string]int{"count": 2}))
	assert.Equal(t, "{\n  \"count\": 2\n}\n", out.String())
}
