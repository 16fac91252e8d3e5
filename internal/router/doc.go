// Package router は画面のパスとルート定義を対応付け、遷移前にガードを適用する。
//
// パスの照合にはgorilla/muxを使う。ガードはセッションの認証状態を参照し、
// 認証が必要なルートへの未認証の遷移を /login へ、ゲスト専用ルートへの
// 認証済みの遷移を /dashboard へ振り替える。
package router
