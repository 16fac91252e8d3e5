// Package mockapi はKookingバックエンドAPIのインメモリ実装を提供する。
//
// ローカル開発（kooking proxy --mock）とテストで使用する。
// ログイン、ユーザー登録、プロフィール取得、レシピ、材料、買い物リストの
// 主要なエンドポイントを実装し、レスポンス形式はバックエンドに合わせている。
// 認証はJWT（HS256）で行い、パスワードはbcryptでハッシュ化して保持する。
package mockapi
