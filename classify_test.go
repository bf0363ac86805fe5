package axe

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cwd := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(cwd, "paper.pdf"), []byte("%PDF"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(cwd, "papers"), 0755))
	configured := filepath.Join(cwd, "configured")

	tests := []struct {
		name   string
		target string
		want   SourceItem
	}{
		{"dot is cwd", ".", SourceItem{Locator: cwd, Kind: KindDirectory}},
		{"path sentinel", "path", SourceItem{Locator: configured, Kind: KindConfiguredPath}},
		{"relative file", "paper.pdf", SourceItem{Locator: filepath.Join(cwd, "paper.pdf"), Kind: KindFile}},
		{"absolute file", filepath.Join(cwd, "paper.pdf"), SourceItem{Locator: filepath.Join(cwd, "paper.pdf"), Kind: KindFile}},
		{"directory", "papers", SourceItem{Locator: filepath.Join(cwd, "papers"), Kind: KindDirectory}},
		{"abs URL", "https://arxiv.org/abs/2103.15538", SourceItem{Locator: "https://arxiv.org/abs/2103.15538", Kind: KindURLOrID}},
		{"bare id", "2103.15538", SourceItem{Locator: "2103.15538", Kind: KindURLOrID}},
		{"arxiv host without id", "arxiv.org/list/cs.CL", SourceItem{Locator: "arxiv.org/list/cs.CL", Kind: KindURLOrID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.target, configured, cwd)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyNotFound(t *testing.T) {
	cwd := t.TempDir()

	_, err := Classify("./does-not-exist", "", cwd)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "./does-not-exist", nf.Target)
	assert.Equal(t, FailureNotFound, FailureKindOf(err))
}

func TestClassifyExistingPathBeatsIdentifier(t *testing.T) {
	cwd := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(cwd, "2103.15538"), 0755))

	got, err := Classify("2103.15538", "", cwd)
	require.NoError(t, err)
	assert.Equal(t, KindDirectory, got.Kind)
}
