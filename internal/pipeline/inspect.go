package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"

	"github.com/shouni/go-article-page/pkg/parse"
	"github.com/shouni/go-article-page/pkg/types"
	"github.com/shouni/go-article-page/pkg/verify"
)

// InspectURL は、URLから記事ページを取得し、Document の復元と構造検証までを
// 一括で実行する処理パイプラインです。CLIを介さずライブラリとして使う場合の
// 既定のエントリポイントになります。
func InspectURL(rawURL string) (*types.Document, verify.Report, error) {
	const (
		clientTimeout  = 30 * time.Second
		overallTimeout = 60 * time.Second
	)

	// 1. 外部の Fetcher 実装を初期化 (依存性の初期化)
	fetcher := httpkit.New(clientTimeout)

	// 2. Parser を初期化 (DI)
	parser, err := parse.NewParser(fetcher)
	if err != nil {
		return nil, verify.Report{}, fmt.Errorf("Parserの初期化エラー: %w", err)
	}

	// 3. 全体処理のコンテキストを設定
	ctx, cancel := context.WithTimeout(context.Background(), overallTimeout)
	defer cancel()

	// 4. 復元と検証の実行
	doc, err := parser.FetchAndParse(ctx, rawURL)
	if err != nil {
		return nil, verify.Report{}, fmt.Errorf("記事ページの復元エラー: %w", err)
	}

	return doc, verify.CheckDocument(doc), nil
}
