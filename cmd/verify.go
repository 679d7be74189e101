package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/shouni/go-article-page/pkg/types"
	"github.com/shouni/go-article-page/pkg/verify"
)

// コマンドラインフラグ変数を定義
var (
	verifyURL  string // --url 検証対象のURL
	verifyFile string // --file ローカルのHTMLファイル
)

// fetchVerifyTarget は、検証対象ページのバイト列を取得します。
func fetchVerifyTarget() ([]byte, string, error) {
	if verifyFile != "" {
		htmlBytes, err := os.ReadFile(verifyFile)
		if err != nil {
			return nil, "", fmt.Errorf("HTMLファイルの読み込みエラー: %w", err)
		}
		return htmlBytes, verifyFile, nil
	}

	processedURL, err := ensureScheme(verifyURL)
	if err != nil {
		return nil, "", fmt.Errorf("URLスキームの処理エラー: %w", err)
	}
	log.Printf("検証対象URL: %s (全体タイムアウト: %s)\n", processedURL, overallTimeout())

	fetcher := GetGlobalFetcher()
	if fetcher == nil {
		return nil, "", fmt.Errorf("HTTPクライアントが初期化されていません。rootコマンドのPreRunを確認してください")
	}

	ctx, cancel := context.WithTimeout(context.Background(), overallTimeout())
	defer cancel()

	htmlBytes, err := fetcher.FetchBytes(ctx, processedURL)
	if err != nil {
		return nil, "", fmt.Errorf("ページの取得エラー (URL: %s): %w", processedURL, err)
	}
	return htmlBytes, processedURL, nil
}

// printReport は、検証結果を整形して表示します。
func printReport(target string, report verify.Report, doc *types.Document) {
	fmt.Println("--- ページ検証結果 ---")
	fmt.Printf("対象: %s\n", target)
	if doc != nil {
		fmt.Printf("タイトル: %s\n", doc.Title)
		fmt.Printf("公開日: %s\n", doc.PublishedAt)
		fmt.Printf("コードサンプル数: %d\n", len(doc.CodeSamples()))
	}
	if report.OK() {
		fmt.Println("✅ 構造上の問題は見つかりませんでした")
	} else {
		for _, finding := range report.Findings {
			fmt.Printf("❌ %s\n", finding)
		}
	}
	fmt.Println("-----------------------")
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "記事ページの構造不変条件を検証します",
	Long: `指定されたURLまたはローカルのHTMLファイルを解析し、記事ページとしての構造不変条件を検証します:
タイトルと公開日がちょうど1つずつ存在すること、スタイルシート参照がドキュメントの1階層上を指すこと、
コードサンプルが描画・再解析のラウンドトリップでバイト単位に保存されること、描画が冪等であること。`,
	Args: cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {

		if verifyURL == "" && verifyFile == "" {
			return fmt.Errorf("--url または --file のいずれかを指定してください")
		}

		// 1. 検証対象の取得
		htmlBytes, target, err := fetchVerifyTarget()
		if err != nil {
			return err
		}

		// 2. 検証の実行
		report, doc, err := verify.CheckPageBytes(htmlBytes)
		if err != nil {
			return fmt.Errorf("検証パイプラインの実行エラー: %w", err)
		}

		// 3. 結果の出力
		printReport(target, report, doc)

		if !report.OK() {
			return fmt.Errorf("検証違反が %d 件見つかりました", len(report.Findings))
		}
		return nil
	},
}

func init() {
	// サブコマンド固有のフラグ定義
	verifyCmd.Flags().StringVarP(&verifyURL, "url", "u", "", "検証対象のURL")
	verifyCmd.Flags().StringVarP(&verifyFile, "file", "f", "", "検証対象のローカルHTMLファイル")
}
