// Package cli はkookingコマンドのサブコマンドを定義する。
//
// 各コマンドは実行前にセッションを復元して初期化し、対応する画面のパスへ
// ルーターで遷移してガードを適用してから処理を行う。
// APIが401を返した場合は保存済みトークンが破棄され、ルーターはログイン画面へ遷移する。
package cli
