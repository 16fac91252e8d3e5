// Kookingクライアントのエントリポイント。
// APIゲートウェイへのログイン、レシピ・材料・買い物リストの閲覧、
// フロントエンド開発用のプロキシ起動を行う。
package main

import "github.com/nao1215/kooking/internal/cli"

func main() {
	cli.Execute()
}
