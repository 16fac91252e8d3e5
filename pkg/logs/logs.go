// Package logs は標準logパッケージの上に詳細ログの切り替えを提供する。
//
// 通常のログはlog.Printfと同じく常に出力し、Printvで出力する詳細ログは
// SetVerbose(true)の場合のみ出力する。CLIの --verbose フラグから切り替える。
package logs

import (
	"io"
	"log"
	"sync/atomic"
)

var verbose atomic.Bool

// SetVerbose は詳細ログを出力するかどうかを設定する。
func SetVerbose(v bool) {
	verbose.Store(v)
}

// Verbose は詳細ログが有効かどうかを返す。
func Verbose() bool {
	return verbose.Load()
}

// Printf はログを常に出力する。
func Printf(format string, args ...any) {
	log.Printf(format, args...)
}

// Printv は詳細ログが有効な場合のみログを出力する。
func Printv(format string, args ...any) {
	if verbose.Load() {
		log.Printf("[verbose] "+format, args...)
	}
}

// SetOutput はログの出力先を変更する。
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}
