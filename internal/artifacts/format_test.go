package artifacts

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeArtifact stores spec under the v1 envelope at path.
func writeArtifact(t *testing.T, path, format, kind string, spec any) {
	t.Helper()
	body, err := json.Marshal(spec)
	require.NoError(t, err)
	fields := map[string]json.RawMessage{}
	require.NoError(t, json.Unmarshal(body, &fields))
	fields["format"], _ = json.Marshal(format)
	fields["kind"], _ = json.Marshal(kind)
	data, err := json.MarshalIndent(fields, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}
