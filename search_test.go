package axe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchOutputs(t *testing.T) {
	ctx := context.Background()
	l := openTestLedger(t)
	out := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(out, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}
	transformer := write("transformer.txt", "We propose the Transformer, based solely on attention mechanisms. "+
		"Attention layers replace recurrence. The attention weights are learned.")
	resnet := write("resnet.md", "# Deep Residual Learning\n\nResidual networks ease the training of deep networks.")
	pdf := write("resnet.pdf", "%PDF attention")

	require.NoError(t, l.Record(ctx, "r", ConversionJob{
		Item: SourceItem{Locator: "1706.03762", Kind: KindURLOrID}, Identifier: "1706.03762",
		Title: "Attention Is All You Need", Format: FormatText, Outcome: Success(transformer),
	}))
	require.NoError(t, l.Record(ctx, "r", ConversionJob{
		Item: SourceItem{Locator: "1512.03385", Kind: KindURLOrID}, Identifier: "1512.03385",
		Title: "Deep Residual Learning", Format: FormatMarkdown, Outcome: Success(resnet, pdf),
	}))
	require.NoError(t, l.Record(ctx, "r", ConversionJob{
		Item: SourceItem{Locator: "gone", Kind: KindURLOrID}, Format: FormatText,
		Outcome: Success(filepath.Join(out, "deleted.txt")),
	}))
	require.NoError(t, l.Record(ctx, "r", ConversionJob{
		Item: SourceItem{Locator: "x", Kind: KindURLOrID}, Format: FormatText,
		Outcome: Failed(FailureNetwork, "timeout"),
	}))

	t.Run("exact", func(t *testing.T) {
		results, err := l.SearchOutputs(ctx, "ATTENTION mechanisms", 10, false)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, transformer, results[0].Path)
		assert.Equal(t, "1706.03762", results[0].Identifier)
		assert.Equal(t, 1.0, results[0].Score)
		assert.Contains(t, strings.ToLower(results[0].Context), "attention mechanisms")
	})

	t.Run("exact miss", func(t *testing.T) {
		results, err := l.SearchOutputs(ctx, "atention", 10, false)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("fuzzy", func(t *testing.T) {
		results, err := l.SearchOutputs(ctx, "atention", 10, true)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, transformer, results[0].Path)
		assert.Less(t, results[0].Score, 1.0)
		assert.Greater(t, results[0].Score, 0.5)
	})

	t.Run("limit", func(t *testing.T) {
		results, err := l.SearchOutputs(ctx, "the", 1, false)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, resnet, results[0].Path)
	})

	t.Run("empty query", func(t *testing.T) {
		_, err := l.SearchOutputs(ctx, "  ", 10, false)
		assert.True(t, errors.Is(err, ErrValidation))
	})
}

func TestExtractContextAt(t *testing.T) {
	text := strings.Repeat("a", 100) + " needle " + strings.Repeat("b", 100)
	pos := strings.Index(text, "needle")

	got := extractContextAt(text, pos, len("needle"), 20)
	assert.Equal(t, "...aaaaaaaaa needle bbbbbbbbb...", got)

	assert.Equal(t, "short", extractContextAt("short", 0, 5, 20))
}

func TestSearchOutputsNonASCIIContext(t *testing.T) {
	ctx := context.Background()
	l := openTestLedger(t)

	// KELVIN SIGN lowercases to a one-byte "k".
	path := filepath.Join(t.TempDir(), "kelvin.txt")
	text := strings.Repeat("\u212a", 100) + " the transformer architecture"
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))
	require.NoError(t, l.Record(ctx, "r", ConversionJob{
		Item: SourceItem{Locator: "k", Kind: KindURLOrID}, Format: FormatText, Outcome: Success(path),
	}))

	results, err := l.SearchOutputs(ctx, "Transformer", 10, false)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Context, "the transformer architecture")
}

func TestFoldCase(t *testing.T) {
	text := "\u212aelvin in \u0130stanbul: Transformer"
	lower, offsets := foldCase(text)
	assert.Len(t, offsets, len(lower)+1)

	pos := strings.Index(lower, "transformer")
	require.GreaterOrEqual(t, pos, 0)
	start, end := offsets[pos], offsets[pos+len("transformer")]
	assert.Equal(t, "Transformer", text[start:end])

	assert.Equal(t, 0, offsets[strings.Index(lower, "kelvin")])
}
