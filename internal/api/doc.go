// Package api はKookingバックエンドのREST APIをGoのメソッドとして提供する。
//
// 各メソッドはバックエンドのリソースと動詞の組に1対1で対応し、
// 引数をパス・クエリ・JSONボディに詰め替えるだけで独自のロジックは持たない。
// 通信そのものとトークン処理はhttpclientパッケージが担う。
package api
