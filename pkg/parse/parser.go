package parse

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/shouni/go-article-page/pkg/types"
)

// Parser は、Fetcher を使って記事ページから Document を復元するプロセスを管理します。
type Parser struct {
	fetcher Fetcher
}

// NewParser は、新しいParserのインスタンスを生成します。
func NewParser(fetcher Fetcher) (*Parser, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("parse.NewParser: Fetcher cannot be nil")
	}
	return &Parser{
		fetcher: fetcher,
	}, nil
}

// ----------------------------------------------------------------------
// 定数定義 (解析関連のみ)
// ----------------------------------------------------------------------
const (
	// articleContainerSelectors は、記事コンテナの特定に使用するセレクターです。
	// DOMの出現順で最初に一致した要素をコンテナとして採用します。
	articleContainerSelectors = "article, main, div[role='main'], #content, .post, .post-content"

	// dateSelectors は、公開日の特定に使用するセレクターです。
	// <time> 要素を優先し、無い場合は .date クラスにフォールバックします。
	dateSelectors = "time"
	dateFallback  = ".date"

	stylesheetSelector = "link[rel='stylesheet']"
)

// ----------------------------------------------------------------------
// メイン関数 (メソッド化)
// ----------------------------------------------------------------------

// FetchAndParse は指定されたURLからページを取得し、Document を復元します。
func (p *Parser) FetchAndParse(ctx context.Context, url string) (*types.Document, error) {
	// 1. Fetcherから生のバイト配列を取得 (通信の責務)
	htmlBytes, err := p.fetcher.FetchBytes(ctx, url)
	if err != nil {
		return nil, err
	}

	// 2. goquery.Documentに変換 (解析の責務)
	return ParseBytes(htmlBytes)
}

// ParseBytes は、HTMLのバイト配列から Document を復元します。
func ParseBytes(htmlBytes []byte) (*types.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(htmlBytes))
	if err != nil {
		return nil, fmt.Errorf("HTML解析に失敗しました: %w", err)
	}
	return ParseDocument(doc)
}

// ParseDocument は、goquery.Document から記事の Document を復元します。
// タイトル・公開日・スタイルシート参照と、段落およびコードサンプルを
// DOMの出現順のまま抽出します。コードサンプルの空白は一切加工しません。
// 記事コンテナが見つからないページはエラーです（ゼロ値のドキュメントは返しません）。
func ParseDocument(doc *goquery.Document) (*types.Document, error) {
	container := ArticleContainer(doc)
	if container.Length() == 0 {
		return nil, fmt.Errorf("記事コンテナが見つかりませんでした (セレクター: %s)", articleContainerSelectors)
	}

	result := &types.Document{
		Title:          strings.TrimSpace(container.Find("h1").First().Text()),
		PublishedAt:    extractDate(container),
		StylesheetHref: doc.Find(stylesheetSelector).First().AttrOr("href", ""),
	}

	// 段落と pre を DOM の出現順に走査する。
	// 公開日を含む段落はメタデータでありコンテンツブロックではないため除外する。
	container.Find("p, pre").Each(func(i int, s *goquery.Selection) {
		if s.Is("pre") {
			result.Blocks = append(result.Blocks, types.CodeSample(extractCode(s)))
			return
		}
		if s.HasClass("date") || s.Find(dateSelectors).Length() > 0 {
			return
		}
		spans := extractSpans(s)
		if !hasVisibleText(spans) {
			return
		}
		result.Blocks = append(result.Blocks, types.Paragraph(spans...))
	})

	return result, nil
}

// ArticleContainer は、記事コンテナとして採用するセレクションを返します。
// 一致する要素が無い場合は空のセレクションを返します（呼び出し側で Length を確認）。
func ArticleContainer(doc *goquery.Document) *goquery.Selection {
	return doc.Find(articleContainerSelectors).First()
}

// ----------------------------------------------------------------------
// 抽出ヘルパー
// ----------------------------------------------------------------------

// extractDate は、記事コンテナから表示用の公開日文字列を抽出します。
// 公開日は表示フォーマットのまま扱い、日付としてのパースは行いません。
func extractDate(container *goquery.Selection) string {
	date := strings.TrimSpace(container.Find(dateSelectors).First().Text())
	if date == "" {
		date = strings.TrimSpace(container.Find(dateFallback).First().Text())
	}
	return date
}

// extractCode は、pre 要素からコードサンプルのテキストを一字一句そのまま取り出します。
// <pre><code>...</code></pre> の形式では code 要素の内容を採用します。
func extractCode(pre *goquery.Selection) string {
	if code := pre.Find("code").First(); code.Length() > 0 {
		return code.Text()
	}
	return pre.Text()
}

// extractSpans は、段落の子ノードをインラインスパン列へ変換します。
// テキストノードはそのまま、<code> 要素はインラインコードスパンとして、
// それ以外の要素（a, strong など）はテキストに平坦化して取り込みます。
func extractSpans(p *goquery.Selection) []types.Span {
	var spans []types.Span
	p.Contents().Each(func(i int, sel *goquery.Selection) {
		node := sel.Get(0)
		if node == nil {
			return
		}
		switch node.Type {
		case html.TextNode:
			if node.Data != "" {
				spans = append(spans, types.Text(node.Data))
			}
		case html.ElementNode:
			text := sel.Text()
			if text == "" {
				return
			}
			if node.Data == "code" {
				spans = append(spans, types.CodeSpan(text))
			} else {
				spans = append(spans, types.Text(text))
			}
		}
	})
	return spans
}

// hasVisibleText は、スパン列が空白以外のテキストを含むかを返します。
func hasVisibleText(spans []types.Span) bool {
	for _, span := range spans {
		if strings.TrimSpace(span.Text) != "" {
			return true
		}
	}
	return false
}
