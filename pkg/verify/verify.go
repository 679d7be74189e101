package verify

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/shouni/go-article-page/pkg/parse"
	"github.com/shouni/go-article-page/pkg/render"
	"github.com/shouni/go-article-page/pkg/types"
)

// ----------------------------------------------------------------------
// 検証レポート
// ----------------------------------------------------------------------

// Report は、検証で見つかった違反を蓄積します。
// 検証は途中で中断せず、見つかった違反をすべて収集します。
type Report struct {
	Findings []string
}

// Addf は、違反を1件追加します。
func (r *Report) Addf(format string, args ...any) {
	r.Findings = append(r.Findings, fmt.Sprintf(format, args...))
}

// OK は、違反が1件も無い場合に true を返します。
func (r Report) OK() bool {
	return len(r.Findings) == 0
}

// merge は、別のレポートの違反を取り込みます。
func (r *Report) merge(other Report) {
	r.Findings = append(r.Findings, other.Findings...)
}

// ----------------------------------------------------------------------
// ドキュメントモデルの検証
// ----------------------------------------------------------------------

// CheckDocument は、Document がデータモデルの不変条件を満たすかを検証します。
//   - タイトルがちょうど1つ（空でない）
//   - 公開日がちょうど1つ（空でない）
//   - スタイルシート参照がドキュメント位置からの相対パスで、
//     ドキュメントの格納ディレクトリより1階層上を指すこと
//   - コンテンツブロックが1つ以上存在すること
func CheckDocument(doc *types.Document) Report {
	var report Report
	if doc == nil {
		report.Addf("ドキュメントが nil です")
		return report
	}

	if strings.TrimSpace(doc.Title) == "" {
		report.Addf("タイトルがありません")
	}
	if strings.TrimSpace(doc.PublishedAt) == "" {
		report.Addf("公開日がありません")
	}

	switch href := doc.StylesheetHref; {
	case href == "":
		report.Addf("スタイルシート参照がありません")
	case path.IsAbs(href) || strings.Contains(href, "://"):
		report.Addf("スタイルシート参照が相対パスではありません: %s", href)
	case !strings.HasPrefix(href, "../"):
		report.Addf("スタイルシート参照がドキュメントの1階層上を指していません: %s", href)
	}

	if len(doc.Blocks) == 0 {
		report.Addf("コンテンツブロックが1つもありません")
	}
	return report
}

// ----------------------------------------------------------------------
// ページ全体の検証
// ----------------------------------------------------------------------

// CheckPage は、解析済みのHTMLページを検証し、復元した Document と共に返します。
// マークアップ上の数量チェック（タイトル・公開日がちょうど1つ）に加えて、
// ラウンドトリップ特性を確認します:
//   - 描画したコードサンプルのテキストが、元のテキストとバイト単位で一致すること
//   - 描画が冪等であること（同じドキュメントの再描画は同一の出力になること）
func CheckPage(doc *goquery.Document) (Report, *types.Document) {
	var report Report

	container := parse.ArticleContainer(doc)
	if container.Length() == 0 {
		report.Addf("記事コンテナが見つかりません")
		return report, nil
	}
	if n := container.Find("h1").Length(); n != 1 {
		report.Addf("タイトル見出しがちょうど1つではありません (実際: %d)", n)
	}
	if n := container.Find("time, .date").Length(); n == 0 {
		report.Addf("公開日の要素が見つかりません")
	} else if container.Find("time").Length() > 1 {
		report.Addf("公開日の要素が複数あります (実際: %d)", container.Find("time").Length())
	}
	if n := doc.Find("link[rel='stylesheet']").Length(); n != 1 {
		report.Addf("スタイルシートのリンクがちょうど1つではありません (実際: %d)", n)
	}

	parsed, err := parse.ParseDocument(doc)
	if err != nil {
		report.Addf("ドキュメントの復元に失敗しました: %v", err)
		return report, nil
	}
	report.merge(CheckDocument(parsed))
	report.merge(checkRoundTrip(parsed))

	return report, parsed
}

// CheckPageBytes は、HTMLのバイト配列に対して CheckPage を実行します。
func CheckPageBytes(htmlBytes []byte) (Report, *types.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(htmlBytes))
	if err != nil {
		return Report{}, nil, fmt.Errorf("HTML解析に失敗しました: %w", err)
	}
	report, parsed := CheckPage(doc)
	return report, parsed, nil
}

// checkRoundTrip は、描画・再解析のラウンドトリップ特性を検証します。
func checkRoundTrip(doc *types.Document) Report {
	var report Report
	renderer := render.New()

	first, err := renderer.Render(doc)
	if err != nil {
		report.Addf("ドキュメントの描画に失敗しました: %v", err)
		return report
	}

	// 冪等性: 同じドキュメントの再描画は同一のバイト列になる
	second, err := renderer.Render(doc)
	if err != nil || first != second {
		report.Addf("描画が冪等ではありません（同一ドキュメントの再描画結果が一致しません）")
	}

	reparsed, err := parse.ParseBytes([]byte(first))
	if err != nil {
		report.Addf("描画結果の再解析に失敗しました: %v", err)
		return report
	}

	// コードサンプルのバイト単位ラウンドトリップ
	original := doc.CodeSamples()
	recovered := reparsed.CodeSamples()
	if len(original) != len(recovered) {
		report.Addf("コードサンプル数がラウンドトリップで変化しました (元: %d, 復元: %d)", len(original), len(recovered))
		return report
	}
	for i := range original {
		if original[i] != recovered[i] {
			report.Addf("コードサンプル [%d] がラウンドトリップで一致しません", i+1)
		}
	}

	// 描画の安定性: 復元したドキュメントの描画も同一の出力になる
	third, err := renderer.Render(reparsed)
	if err != nil || first != third {
		report.Addf("描画結果が安定していません（復元ドキュメントの再描画が一致しません）")
	}
	return report
}

// ----------------------------------------------------------------------
// スタイルシート参照の解決
// ----------------------------------------------------------------------

// ResolveStylesheet は、スタイルシート参照をドキュメントの位置から相対的に解決します。
// これはファイルサーバーとの唯一の契約（「このファイルの位置を基準にリンクを
// 解決して配信する」）を検証用に再現するものです。
func ResolveStylesheet(docPath, href string) (string, error) {
	if href == "" {
		return "", fmt.Errorf("スタイルシート参照が空です")
	}
	if path.IsAbs(href) || strings.Contains(href, "://") {
		return "", fmt.Errorf("スタイルシート参照が相対パスではありません: %s", href)
	}
	return path.Join(path.Dir(docPath), href), nil
}
