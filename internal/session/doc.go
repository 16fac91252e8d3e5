// Package session はクライアント側の認証セッションを管理する。
//
// Storeは認証トークンとログイン中ユーザーのプロフィールを保持する唯一の場所であり、
// ログイン・ユーザー登録・プロフィール取得・ログアウトの状態遷移をすべて仲介する。
// トークンとプロフィールは永続ストアに保存され、プロセスを再起動しても復元される。
//
// セッションを変更するネットワーク処理はStoreごとのミューテックスで直列化され、
// 到着順に完了する。ログアウトはこのミューテックスを待たないため、
// 処理中に401ハンドラから呼ばれてもデッドロックしない。
package session
