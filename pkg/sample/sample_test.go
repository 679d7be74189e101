package sample_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-article-page/pkg/parse"
	"github.com/shouni/go-article-page/pkg/render"
	"github.com/shouni/go-article-page/pkg/sample"
	"github.com/shouni/go-article-page/pkg/verify"
)

// TestArticle_EndToEnd は、正準ドキュメントの描画が記事ページとしての
// 期待をすべて満たすことを確認するエンドツーエンドのシナリオです。
func TestArticle_EndToEnd(t *testing.T) {
	html, err := render.New().Render(sample.Article())
	require.NoError(t, err)

	// 見出し・タイムスタンプ
	assert.Contains(t, html, "<h1>Golang Testing with Interfaces</h1>")
	assert.Contains(t, html, "<time>May 22nd, 2019</time>")

	// 少なくとも5つのコードブロックが著述順のまま存在する
	assert.GreaterOrEqual(t, strings.Count(html, "<pre><code>"), 5)

	// スタイルシートはドキュメント位置からの相対参照
	assert.Contains(t, html, `<link rel="stylesheet" href="../styles.css">`)
}

// TestArticle_CodeSampleOrder は、コードサンプルが著述順のまま保持されることを確認します。
func TestArticle_CodeSampleOrder(t *testing.T) {
	samples := sample.Article().CodeSamples()
	require.GreaterOrEqual(t, len(samples), 5)

	// 記事の展開順: 具象実装 → インターフェース定義 → リファクタリング → フェイク → テスト
	assert.Contains(t, samples[0], "sql.Open")
	assert.Contains(t, samples[1], "type UserStore interface")
	assert.Contains(t, samples[2], "store UserStore")
	assert.Contains(t, samples[3], "fakeUserStore")
	assert.Contains(t, samples[4], "func TestGetUserName")
}

// TestPageHTML_MatchesArticle は、埋め込みフィクスチャと著述された Go の値が
// 同じ記事を表していることを確認します。
func TestPageHTML_MatchesArticle(t *testing.T) {
	doc, err := parse.ParseBytes([]byte(sample.PageHTML))
	require.NoError(t, err)

	authored := sample.Article()
	assert.Equal(t, authored.Title, doc.Title)
	assert.Equal(t, authored.PublishedAt, doc.PublishedAt)
	assert.Equal(t, authored.StylesheetHref, doc.StylesheetHref)

	// コードサンプルは内部の空白を含めてバイト単位で一致する
	require.Equal(t, len(authored.CodeSamples()), len(doc.CodeSamples()))
	for i, want := range authored.CodeSamples() {
		assert.Equal(t, want, doc.CodeSamples()[i], "コードサンプル [%d] が一致しません", i+1)
	}

	// ブロック数と種別の並びも一致する
	require.Equal(t, len(authored.Blocks), len(doc.Blocks))
	for i := range authored.Blocks {
		assert.Equal(t, authored.Blocks[i].Kind, doc.Blocks[i].Kind, "ブロック [%d] の種別が一致しません", i+1)
	}
}

// TestPageHTML_PassesVerification は、埋め込みフィクスチャがページ検証を
// そのまま通過することを確認します。
func TestPageHTML_PassesVerification(t *testing.T) {
	report, doc, err := verify.CheckPageBytes([]byte(sample.PageHTML))
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.True(t, report.OK(), "違反: %v", report.Findings)
}

// TestArticle_ReturnsFreshValue は、呼び出し側での変更が後続の呼び出しに
// 影響しないことを確認します。
func TestArticle_ReturnsFreshValue(t *testing.T) {
	first := sample.Article()
	first.Title = "mutated"
	first.Blocks[0].Spans[0].Text = "mutated"

	second := sample.Article()
	assert.Equal(t, "Golang Testing with Interfaces", second.Title)
	assert.NotEqual(t, "mutated", second.Blocks[0].Spans[0].Text)
}
