package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/shouni/go-article-page/pkg/render"
	"github.com/shouni/go-article-page/pkg/sample"
	"github.com/shouni/go-article-page/pkg/types"
	"github.com/shouni/go-article-page/pkg/verify"
)

// コマンドラインフラグ変数を定義
var (
	renderInput  string // --input JSONで著述されたドキュメントファイル
	renderOutput string // --out 出力先ファイル (未指定なら標準出力)
)

// loadDocument は、描画対象のドキュメントを決定します。
// --input が未指定の場合は、組み込みの正準記事を使用します。
func loadDocument(inputPath string) (*types.Document, error) {
	if inputPath == "" {
		log.Println("入力が指定されていないため、組み込みの記事ドキュメントを描画します...")
		return sample.Article(), nil
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("ドキュメントファイルの読み込みエラー: %w", err)
	}

	var doc types.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("ドキュメントJSONのパースエラー (ファイル: %s): %w", inputPath, err)
	}
	return &doc, nil
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "記事ドキュメントを正準のHTMLページとして描画します",
	Long:  `組み込みの記事、または --input で指定したJSONドキュメントを、固定のページクローム（container/article ラッパーとスタイルシート参照）を持つHTMLページとして描画します。`,
	Args:  cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {

		// 1. 描画対象ドキュメントの決定
		doc, err := loadDocument(renderInput)
		if err != nil {
			return err
		}

		// 2. 描画前にデータモデルの不変条件を確認
		if report := verify.CheckDocument(doc); !report.OK() {
			for _, finding := range report.Findings {
				log.Printf("警告: %s", finding)
			}
		}

		// 3. 描画の実行
		html, err := render.New().Render(doc)
		if err != nil {
			return fmt.Errorf("ページの描画エラー: %w", err)
		}

		// 4. 結果の出力
		if renderOutput == "" {
			fmt.Print(html)
			return nil
		}
		if err := os.WriteFile(renderOutput, []byte(html), 0o644); err != nil {
			return fmt.Errorf("出力ファイルの書き込みエラー (ファイル: %s): %w", renderOutput, err)
		}
		log.Printf("ページを書き出しました: %s (%dバイト)", renderOutput, len(html))
		return nil
	},
}

func init() {
	// サブコマンド固有のフラグ定義
	renderCmd.Flags().StringVarP(&renderInput, "input", "i", "", "描画対象のドキュメントJSONファイル (未指定なら組み込みの記事)")
	renderCmd.Flags().StringVarP(&renderOutput, "out", "o", "", "出力先のHTMLファイル (未指定なら標準出力)")
}
