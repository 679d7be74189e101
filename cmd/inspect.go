package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/shouni/go-article-page/pkg/parse"
	"github.com/shouni/go-article-page/pkg/types"
)

// コマンドラインフラグ変数を定義
var (
	inspectURL  string // --url 取得対象のURL
	inspectFile string // --file ローカルのHTMLファイル
)

// runInspectPipeline は、記事ページの復元を実行するメインロジックです。
func runInspectPipeline(rawURL string, parser *parse.Parser, overallTimeout time.Duration) (*types.Document, error) {
	// 1. 全体処理のコンテキストを設定
	ctx, cancel := context.WithTimeout(context.Background(), overallTimeout)
	defer cancel()

	// 2. 復元の実行
	doc, err := parser.FetchAndParse(ctx, rawURL)
	if err != nil {
		// エラーのラッピング
		return nil, fmt.Errorf("記事ページの復元エラー (URL: %s): %w", rawURL, err)
	}

	return doc, nil
}

// resolveInspectTarget は、--file と --url からドキュメントを復元します。
func resolveInspectTarget() (*types.Document, error) {
	// ローカルファイルが指定された場合は、ネットワークを介さずに解析する
	if inspectFile != "" {
		htmlBytes, err := os.ReadFile(inspectFile)
		if err != nil {
			return nil, fmt.Errorf("HTMLファイルの読み込みエラー: %w", err)
		}
		return parse.ParseBytes(htmlBytes)
	}

	// URLのスキーム補完とバリデーション
	processedURL, err := ensureScheme(inspectURL)
	if err != nil {
		return nil, fmt.Errorf("URLスキームの処理エラー: %w", err)
	}
	log.Printf("処理対象URL: %s (全体タイムアウト: %s)\n", processedURL, overallTimeout())

	// 依存性の初期化 (共有フェッチャーを使用)
	fetcher := GetGlobalFetcher()
	if fetcher == nil {
		return nil, fmt.Errorf("HTTPクライアントが初期化されていません。rootコマンドのPreRunを確認してください")
	}

	parser, err := parse.NewParser(fetcher)
	if err != nil {
		return nil, fmt.Errorf("Parserの初期化エラー: %w", err)
	}

	return runInspectPipeline(processedURL, parser, overallTimeout())
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "記事ページからドキュメントを復元し、内容を表示します",
	Long:  `指定されたURLまたはローカルのHTMLファイルから記事ページを解析し、タイトル・公開日・スタイルシート参照・コンテンツブロックを復元して表示します。`,
	Args:  cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {

		if inspectURL == "" && inspectFile == "" {
			return fmt.Errorf("--url または --file のいずれかを指定してください")
		}

		// 1. ドキュメントの復元
		doc, err := resolveInspectTarget()
		if err != nil {
			return fmt.Errorf("復元パイプラインの実行エラー: %w", err)
		}

		// 2. 結果の出力
		codeCount := len(doc.CodeSamples())
		fmt.Println("--- 復元されたドキュメント ---")
		fmt.Printf("タイトル: %s\n", doc.Title)
		fmt.Printf("公開日: %s\n", doc.PublishedAt)
		fmt.Printf("スタイルシート参照: %s\n", doc.StylesheetHref)
		fmt.Printf("ブロック数: %d (うちコードサンプル: %d)\n", len(doc.Blocks), codeCount)
		fmt.Println("-----------------------------")
		fmt.Println(doc.PlainText())
		fmt.Println("-----------------------------")

		return nil
	},
}

func init() {
	// サブコマンド固有のフラグ定義
	inspectCmd.Flags().StringVarP(&inspectURL, "url", "u", "", "復元対象のURL")
	inspectCmd.Flags().StringVarP(&inspectFile, "file", "f", "", "復元対象のローカルHTMLファイル")
}
