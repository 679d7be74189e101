package audit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/shouni/go-article-page/pkg/types"
	"github.com/shouni/go-article-page/pkg/verify"
)

const (
	// DefaultMaxConcurrency は、並列監査のデフォルトの最大同時実行数を定義します。
	DefaultMaxConcurrency = 4
	// DefaultAuditRateLimit は、レートリミッターを定義します。
	DefaultAuditRateLimit = 500 * time.Millisecond
)

// DocumentFetcher は、URLから解析済みのgoquery.Documentを取得する機能のインターフェースです。
// httpclient.Client がこのインターフェースを満たします。
type DocumentFetcher interface {
	FetchDocument(ctx context.Context, url string) (*goquery.Document, error)
}

// Auditor は、単一の記事ページを取得して構造検証を実行します。
type Auditor struct {
	fetcher DocumentFetcher
}

// NewAuditor は、新しいAuditorのインスタンスを生成します。
func NewAuditor(fetcher DocumentFetcher) (*Auditor, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("audit.NewAuditor: DocumentFetcher cannot be nil")
	}
	return &Auditor{fetcher: fetcher}, nil
}

// AuditURL は、指定されたURLのページを取得・検証し、結果をレポートとして返します。
func (a *Auditor) AuditURL(ctx context.Context, url string) types.URLReport {
	doc, err := a.fetcher.FetchDocument(ctx, url)
	if err != nil {
		return types.URLReport{
			URL:   url,
			Error: fmt.Errorf("ページの取得に失敗しました: %w", err),
		}
	}

	report, parsed := verify.CheckPage(doc)
	result := types.URLReport{
		URL:      url,
		Findings: report.Findings,
	}
	if parsed != nil {
		result.Title = parsed.Title
	}
	return result
}

// ParallelAuditor は、複数の記事ページを並列に検証する構造体です。
type ParallelAuditor struct {
	auditor        *Auditor
	maxConcurrency int           // 最大並列数を保持するフィールド
	rateLimit      time.Duration // レートリミッターを保持するフィールド
}

// NewParallelAuditor は ParallelAuditor を初期化します。
// 依存性として Auditor と、最大同時実行数を受け取ります。
func NewParallelAuditor(auditor *Auditor, maxConcurrency int) *ParallelAuditor {
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultMaxConcurrency
	}
	return &ParallelAuditor{
		auditor:        auditor,
		maxConcurrency: maxConcurrency,
		rateLimit:      DefaultAuditRateLimit,
	}
}

// AuditInParallel は、すべてのURLを並列に検証し、結果のリストを返します。
func (p *ParallelAuditor) AuditInParallel(ctx context.Context, urls []string) []types.URLReport {
	var wg sync.WaitGroup
	resultsChan := make(chan types.URLReport, len(urls))

	// バッファ付きチャネルをセマフォとして使用し、同時実行数を制限する
	semaphore := make(chan struct{}, p.maxConcurrency)

	ticker := time.NewTicker(p.rateLimit)
	defer ticker.Stop()
	rateLimiter := ticker.C

	for _, url := range urls {
		wg.Add(1)

		// リソース（スロット）の確保。maxConcurrency件実行中の場合はここでブロックして待機。
		semaphore <- struct{}{}

		go func(u string) {
			defer wg.Done()

			// 処理完了後にリソース（スロット）を解放。他の待機中のGoroutineが実行可能になる。
			defer func() { <-semaphore }()

			select {
			case <-rateLimiter:
				// レートリミット間隔が経過し、リクエストが許可された
			case <-ctx.Done():
				resultsChan <- types.URLReport{
					URL:   u,
					Error: ctx.Err(),
				}
				return
			}

			resultsChan <- p.auditor.AuditURL(ctx, u)
		}(url)
	}

	wg.Wait()
	close(resultsChan)

	var finalResults []types.URLReport
	for res := range resultsChan {
		finalResults = append(finalResults, res)
	}

	return finalResults
}
