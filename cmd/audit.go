package cmd

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/shouni/go-article-page/pkg/audit"
	"github.com/shouni/go-article-page/pkg/feed"
	"github.com/shouni/go-article-page/pkg/httpclient"
)

// コマンドラインフラグ変数を定義
var (
	auditURLs   string // --urls フラグで受け取るカンマ区切りのURLリスト
	auditFeed   string // --feed フラグで受け取るフィードURL (記事発見に利用)
	concurrency int    // --concurrency フラグで受け取る並列実行数
)

// runAuditPipeline は、並列監査を実行するメインロジックです。
func runAuditPipeline(urls []string, auditor *audit.Auditor, concurrency int) {

	// 1. ParallelAuditorの初期化
	parallel := audit.NewParallelAuditor(auditor, concurrency)

	// 2. 全体処理のコンテキストを設定
	ctx, cancel := context.WithTimeout(context.Background(), overallTimeout())
	defer cancel()

	log.Printf("並列監査開始 (対象URL数: %d, 最大同時実行数: %d, 全体タイムアウト: %s)\n",
		len(urls), concurrency, overallTimeout())

	// 3. メインロジックの実行
	results := parallel.AuditInParallel(ctx, urls)

	// 4. 結果の出力
	fmt.Println("--- 並列監査結果 ---")

	okCount := 0
	ngCount := 0

	for i, res := range results {
		if res.OK() {
			okCount++
			fmt.Printf("✅ [%d] %s\n", i+1, res.URL)
			fmt.Printf("     タイトル: %s\n", res.Title)
			continue
		}
		ngCount++
		fmt.Printf("❌ [%d] %s\n", i+1, res.URL)
		if res.Error != nil {
			fmt.Printf("     エラー: %v\n", res.Error)
		}
		for _, finding := range res.Findings {
			fmt.Printf("     違反: %s\n", finding)
		}
	}

	fmt.Println("--------------------")
	fmt.Printf("完了: 合格 %d 件, 不合格 %d 件\n", okCount, ngCount)
}

// collectAuditURLs は、フラグ・フィード・標準入力から監査対象URLを決定します。
func collectAuditURLs(ctx context.Context) ([]string, error) {
	if auditURLs != "" {
		return strings.Split(auditURLs, ","), nil
	}

	// --feed が指定された場合は、フィードから記事URLを発見する
	if auditFeed != "" {
		fetcher := GetGlobalFetcher()
		if fetcher == nil {
			return nil, fmt.Errorf("HTTPクライアントの取得に失敗しました")
		}
		processedURL, err := ensureScheme(auditFeed)
		if err != nil {
			return nil, fmt.Errorf("フィードURLスキームの処理エラー: %w", err)
		}
		parsedFeed, err := feed.NewParser(fetcher).FetchAndParse(ctx, processedURL)
		if err != nil {
			return nil, fmt.Errorf("フィードからの記事発見エラー: %w", err)
		}
		return feed.GetAllLinks(feed.NewFeedAdapter(parsedFeed)), nil
	}

	// 標準入力からURLを一行ずつ読み込む
	log.Println("URLが指定されていないため、標準入力からURLを読み込みます (Ctrl+DまたはEOFで終了)...")
	var urls []string
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		url := strings.TrimSpace(scanner.Text())
		if url != "" {
			urls = append(urls, url)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("標準入力の読み取りエラー: %w", err)
	}
	return urls, nil
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "複数の記事ページを並列で検証します",
	Long:  `--urls フラグでカンマ区切りのURLリストを受け取るか、--feed で指定したRSS/Atomフィードから記事URLを発見するか、標準入力からURLを一行ずつ読み込み、指定された最大同時実行数で並列検証を実行します。`,
	Args:  cobra.NoArgs, // 位置引数は取らない

	RunE: func(cmd *cobra.Command, args []string) error {

		// 1. 依存性の初期化 (リトライ付きHTTPクライアント -> Auditor)
		client := httpclient.New(time.Duration(Flags.TimeoutSec) * time.Second)
		client.WithMaxRetries(uint64(Flags.MaxRetries))

		auditor, err := audit.NewAuditor(client)
		if err != nil {
			return fmt.Errorf("Auditorの初期化エラー: %w", err)
		}

		// 2. 処理対象URLのリストを決定
		ctx, cancel := context.WithTimeout(context.Background(), overallTimeout())
		defer cancel()

		urls, err := collectAuditURLs(ctx)
		if err != nil {
			return err
		}

		normalized := make([]string, 0, len(urls))
		for _, u := range urls {
			processedURL, err := ensureScheme(strings.TrimSpace(u))
			if err != nil {
				return fmt.Errorf("URLスキームの処理エラー (%s): %w", u, err)
			}
			normalized = append(normalized, processedURL)
		}

		if len(normalized) == 0 {
			return fmt.Errorf("処理対象のURLが一つも指定されていません")
		}

		// 3. メインロジックの実行
		runAuditPipeline(normalized, auditor, concurrency)

		return nil
	},
}

func init() {
	// --urls フラグ: カンマ区切りのURLリスト
	auditCmd.Flags().StringVarP(&auditURLs, "urls", "u", "",
		"検証対象のカンマ区切りURLリスト (例: url1,url2,url3)")

	// --feed フラグ: フィードからの記事発見
	auditCmd.Flags().StringVar(&auditFeed, "feed", "",
		"記事URLの発見に使用するRSS/AtomフィードのURL")

	// --concurrency フラグ: 並列実行数の指定
	auditCmd.Flags().IntVarP(&concurrency, "concurrency", "c",
		audit.DefaultMaxConcurrency,
		fmt.Sprintf("最大並列実行数 (デフォルト: %d)", audit.DefaultMaxConcurrency))

	// 互いに排他的な入力ソース
	auditCmd.MarkFlagsMutuallyExclusive("urls", "feed")
}
