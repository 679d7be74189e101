package main

import (
	"github.com/shouni/go-article-page/cmd"
)

// main 関数は、CLIのエントリポイントです。エラーハンドリングとプロセス終了は
// cmd.Execute (clibase) 側で一元化されています。
func main() {
	cmd.Execute()
}
