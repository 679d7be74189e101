// Package sample は、このモジュールが扱う正準の記事ページ
// 「Golang Testing with Interfaces」を提供します。
// 記事は Go の値として author され、同じ内容の完成済みHTMLページが
// フィクスチャとして埋め込まれています。
package sample

import (
	_ "embed"

	"github.com/shouni/go-article-page/pkg/types"
)

// PageHTML は、完成済みのマークアップとして配信される記事ページ本体です。
// 文字エンコーディングは UTF-8、スタイルシートは ../styles.css を相対参照します。
//
//go:embed page.html
var PageHTML string

// ----------------------------------------------------------------------
// コードサンプル (空白・改行は記事の原文そのまま)
// ----------------------------------------------------------------------

const codeConcrete = `func GetUserName(id int) (string, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return "", err
	}
	defer db.Close()

	var name string
	err = db.QueryRow("SELECT name FROM users WHERE id = $1", id).Scan(&name)
	return name, err
}`

const codeInterface = `type UserStore interface {
	UserName(id int) (string, error)
}`

const codeRefactored = `func GetUserName(store UserStore, id int) (string, error) {
	name, err := store.UserName(id)
	if err != nil {
		return "", fmt.Errorf("looking up user %d: %v", id, err)
	}
	return name, nil
}`

const codeFake = `type fakeUserStore struct {
	names map[int]string
}

func (f *fakeUserStore) UserName(id int) (string, error) {
	name, ok := f.names[id]
	if !ok {
		return "", errors.New("user not found")
	}
	return name, nil
}`

const codeTest = `func TestGetUserName(t *testing.T) {
	store := &fakeUserStore{names: map[int]string{1: "Ada"}}

	name, err := GetUserName(store, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "Ada" {
		t.Errorf("got %q, want %q", name, "Ada")
	}
}`

const codeRun = `$ go test ./users
ok      example.com/users       0.004s`

// ----------------------------------------------------------------------
// 正準ドキュメント
// ----------------------------------------------------------------------

// Article は、正準の記事ドキュメントを構築して返します。
// 呼び出しごとに新しい値を返すため、呼び出し側が自由に変更できます。
func Article() *types.Document {
	return &types.Document{
		Title:          "Golang Testing with Interfaces",
		PublishedAt:    "May 22nd, 2019",
		StylesheetHref: "../styles.css",
		Blocks: []types.Block{
			types.Paragraph(
				types.Text("Testing code that talks to a real database, a clock, or the network is painful. The tests are slow, flaky, and need infrastructure that your laptop and your CI server have to agree on. Go's answer to this problem is small interfaces."),
			),
			types.Paragraph(
				types.Text("Consider a function that looks up a user's name. The first version reaches straight for the database:"),
			),
			types.CodeSample(codeConcrete),
			types.Paragraph(
				types.Text("This function is almost impossible to unit test. It opens its own connection, so every test needs a running Postgres instance with the right schema and the right rows."),
			),
			types.Paragraph(
				types.Text("The fix is to describe what the function needs, not where it comes from. In Go we do that with an interface:"),
			),
			types.CodeSample(codeInterface),
			types.Paragraph(
				types.Text("Note that the interface is defined by the consumer. "),
				types.CodeSpan("GetUserName"),
				types.Text(" does not care whether the implementation is Postgres, Redis, or a map in memory; it only needs something that can answer "),
				types.CodeSpan("UserName"),
				types.Text("."),
			),
			types.CodeSample(codeRefactored),
			types.Paragraph(
				types.Text("In production we pass a real store backed by "),
				types.CodeSpan("database/sql"),
				types.Text(", while tests can substitute anything that satisfies the interface. Writing a fake by hand is usually all you need:"),
			),
			types.CodeSample(codeFake),
			types.Paragraph(
				types.Text("The test wires the fake in and exercises the logic without touching a database:"),
			),
			types.CodeSample(codeTest),
			types.Paragraph(
				types.Text("Run it with "),
				types.CodeSpan("go test"),
				types.Text(" and the whole suite finishes in milliseconds:"),
			),
			types.CodeSample(codeRun),
			types.Paragraph(
				types.Text("That is the entire technique. Keep interfaces small, define them next to the code that uses them, and accept them as parameters. Your tests will stay fast, and your packages will stay loosely coupled."),
			),
		},
	}
}
