package render

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/shouni/go-article-page/pkg/types"
)

// ----------------------------------------------------------------------
// ページテンプレートの定義
// ----------------------------------------------------------------------

// pageTemplate は、記事ページの固定クローム（container/article ラッパー）です。
// ドキュメント自身の内容以外のパラメータは受け取りません。変数テンプレートや
// 外部状態への反応は仕様外です（テンプレートシステムではなく固定の描画面）。
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="utf-8">
	<title>{{.Title}}</title>
	<link rel="stylesheet" href="{{.StylesheetHref}}">
</head>
<body>
	<div class="container">
		<article>
			<h1>{{.Title}}</h1>
			<p class="date"><time>{{.PublishedAt}}</time></p>
{{- range .Blocks}}
{{- if .IsCode}}
			<pre><code>{{.Code}}</code></pre>
{{- else}}
			<p>{{range .Spans}}{{if .Code}}<code>{{.Text}}</code>{{else}}{{.Text}}{{end}}{{end}}</p>
{{- end}}
{{- end}}
		</article>
	</div>
</body>
</html>
`

// テンプレートが不正な場合は起動時に検出する
var parsedPageTemplate = template.Must(template.New("page").Parse(pageTemplate))

// ----------------------------------------------------------------------
// Renderer
// ----------------------------------------------------------------------

// Renderer は、Document を正準のHTMLページへ描画します。
// 描画は決定的であり、同じドキュメントを何度描画しても同一のバイト列になります
// （隠れた可変状態は持ちません）。
type Renderer struct {
	tmpl *template.Template
}

// New は、新しい Renderer のインスタンスを生成します。
func New() *Renderer {
	return &Renderer{tmpl: parsedPageTemplate}
}

// RenderTo は、ドキュメントを w へ描画します。
// コードサンプルは空白・改行を一字一句そのまま出力します（エスケープのみ。
// 実行・評価・シンタックスハイライトは行いません）。
func (r *Renderer) RenderTo(w io.Writer, doc *types.Document) error {
	if doc == nil {
		return fmt.Errorf("render: ドキュメントが nil です")
	}
	if err := r.tmpl.Execute(w, doc); err != nil {
		return fmt.Errorf("ページの描画に失敗しました: %w", err)
	}
	return nil
}

// Render は、ドキュメントをHTML文字列として描画します。
func (r *Renderer) Render(doc *types.Document) (string, error) {
	var sb strings.Builder
	if err := r.RenderTo(&sb, doc); err != nil {
		return "", err
	}
	return sb.String(), nil
}
