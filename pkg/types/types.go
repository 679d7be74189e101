package types

import (
	"strings"

	textUtils "github.com/shouni/go-utils/text"
)

// ----------------------------------------------------------------------
// コンテンツブロックの定義
// ----------------------------------------------------------------------

// BlockKind は、コンテンツブロックの種別を表します。
// ブロックは「段落」か「コードサンプル」のいずれかです。
type BlockKind string

const (
	// KindParagraph は、通常のテキスト段落を表します。
	KindParagraph BlockKind = "paragraph"
	// KindCode は、空白をそのまま保持するコードサンプルを表します。
	KindCode BlockKind = "code"
)

// Span は、段落内のインライン要素（テキストの連続、またはインラインコード）を表します。
type Span struct {
	Text string `json:"text"`
	Code bool   `json:"code,omitempty"` // true の場合、インラインコードスパン
}

// Block は、記事本文の1単位です。Kind に応じて Spans または Code のどちらかを保持します。
type Block struct {
	Kind  BlockKind `json:"kind"`
	Spans []Span    `json:"spans,omitempty"` // KindParagraph の場合のみ
	Code  string    `json:"code,omitempty"`  // KindCode の場合のみ。空白・改行は一切加工しない
}

// Paragraph は、与えられたスパン列から段落ブロックを生成します。
func Paragraph(spans ...Span) Block {
	return Block{Kind: KindParagraph, Spans: spans}
}

// CodeSample は、リテラルテキストからコードサンプルブロックを生成します。
// テキストは検証・整形されず、そのまま保持されます。
func CodeSample(code string) Block {
	return Block{Kind: KindCode, Code: code}
}

// Text は、通常のテキストスパンを生成するヘルパーです。
func Text(s string) Span {
	return Span{Text: s}
}

// CodeSpan は、インラインコードスパンを生成するヘルパーです。
func CodeSpan(s string) Span {
	return Span{Text: s, Code: true}
}

// IsCode は、ブロックがコードサンプルであるかを返します。
func (b Block) IsCode() bool {
	return b.Kind == KindCode
}

// PlainText は、ブロックをプレーンテキストに平坦化します。
// 段落は空白を正規化して返し、コードサンプルは一切加工せずそのまま返します。
func (b Block) PlainText() string {
	if b.IsCode() {
		return b.Code
	}
	var sb strings.Builder
	for _, span := range b.Spans {
		sb.WriteString(span.Text)
	}
	return textUtils.NormalizeText(sb.String())
}

// ----------------------------------------------------------------------
// ドキュメントの定義
// ----------------------------------------------------------------------

// Document は、静的な記事ページのデータモデルです。
// タイトルと公開日はちょうど1つずつ存在し、スタイルシート参照は
// ドキュメントの位置からの相対パス（例: ../styles.css）です。
// 公開日は表示用の文字列であり、日付としてパースされません。
type Document struct {
	Title          string  `json:"title"`
	PublishedAt    string  `json:"published_at"`
	StylesheetHref string  `json:"stylesheet_href"`
	Blocks         []Block `json:"blocks"`
}

// PlainText は、ドキュメント全体をプレーンテキストに平坦化します。
// タイトル・公開日・各ブロックを空行区切りで連結します。
func (d *Document) PlainText() string {
	parts := make([]string, 0, len(d.Blocks)+2)
	if d.Title != "" {
		parts = append(parts, d.Title)
	}
	if d.PublishedAt != "" {
		parts = append(parts, d.PublishedAt)
	}
	for _, b := range d.Blocks {
		if text := b.PlainText(); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n")
}

// CodeSamples は、コードサンプルブロックのテキストを出現順に返します。
func (d *Document) CodeSamples() []string {
	var samples []string
	for _, b := range d.Blocks {
		if b.IsCode() {
			samples = append(samples, b.Code)
		}
	}
	return samples
}

// ----------------------------------------------------------------------
// 監査結果の定義
// ----------------------------------------------------------------------

// URLReport は、特定のURLのページ検証結果、またはその処理中に発生したエラーを保持します。
// これは、ParallelAuditor の出力として利用されます。
type URLReport struct {
	URL      string   // 処理対象のURL
	Title    string   // 抽出された記事タイトル（取得できた場合）
	Findings []string // 検証違反のリスト（空なら構造上の問題なし）
	Error    error    // 処理中に発生したエラー
}

// OK は、エラーも検証違反もない場合に true を返します。
func (r URLReport) OK() bool {
	return r.Error == nil && len(r.Findings) == 0
}
