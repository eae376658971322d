package meshtest

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScenarios(t *testing.T) {
	files, err := FindScenarios("testdata")
	require.NoError(t, err)
	require.NotEmpty(t, files, "no scenario files found")

	for _, file := range files {
		file := file
		t.Run(filepath.Base(file), func(t *testing.T) {
			var buf bytes.Buffer
			err := RunFile(context.Background(), file, &buf)
			if err != nil {
				t.Logf("script output:\n%s", buf.String())
			}
			require.NoError(t, err)
		})
	}
}
