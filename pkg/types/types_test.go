package types_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-article-page/pkg/types"
)

func TestBlock_PlainText(t *testing.T) {
	t.Run("段落は空白を正規化して平坦化する", func(t *testing.T) {
		block := types.Paragraph(
			types.Text("Call  "),
			types.CodeSpan("Render"),
			types.Text("\n\tto produce the page."),
		)
		assert.Equal(t, "Call Render to produce the page.", block.PlainText())
	})

	t.Run("コードサンプルは一切加工されない", func(t *testing.T) {
		code := "func main() {\n\tfmt.Println(\"hi\")\n}"
		block := types.CodeSample(code)
		assert.Equal(t, code, block.PlainText())
		assert.True(t, block.IsCode())
	})
}

func TestDocument_CodeSamples(t *testing.T) {
	doc := &types.Document{
		Blocks: []types.Block{
			types.Paragraph(types.Text("intro")),
			types.CodeSample("first"),
			types.Paragraph(types.Text("middle")),
			types.CodeSample("second"),
		},
	}

	samples := doc.CodeSamples()
	require.Len(t, samples, 2)
	assert.Equal(t, []string{"first", "second"}, samples)
}

func TestDocument_PlainText(t *testing.T) {
	doc := &types.Document{
		Title:       "Title",
		PublishedAt: "May 22nd, 2019",
		Blocks: []types.Block{
			types.Paragraph(types.Text("Body.")),
			types.CodeSample("code()"),
		},
	}

	assert.Equal(t, "Title\n\nMay 22nd, 2019\n\nBody.\n\ncode()", doc.PlainText())
}

// TestDocument_JSONRoundTrip は、著述ドキュメントのJSONでの入出力を確認します。
// render コマンドの --input はこの形式を読み込みます。
func TestDocument_JSONRoundTrip(t *testing.T) {
	doc := &types.Document{
		Title:          "JSON Test",
		PublishedAt:    "May 22nd, 2019",
		StylesheetHref: "../styles.css",
		Blocks: []types.Block{
			types.Paragraph(types.Text("text "), types.CodeSpan("code")),
			types.CodeSample("verbatim\n\tcode"),
		},
	}

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var decoded types.Document
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, *doc, decoded)
}

func TestURLReport_OK(t *testing.T) {
	assert.True(t, types.URLReport{URL: "https://example.com"}.OK())
	assert.False(t, types.URLReport{Error: errors.New("boom")}.OK())
	assert.False(t, types.URLReport{Findings: []string{"違反"}}.OK())
}
