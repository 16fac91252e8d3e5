// Package storage はクライアント側の永続ストレージを提供する。
//
// ブラウザのlocalStorageに相当する永続ストア（SQLite）と、
// sessionStorageに相当するプロセス内のセッションスコープストア（メモリ）を持つ。
// どちらも文字列キーと文字列値の単純なKVSとして扱う。
package storage
