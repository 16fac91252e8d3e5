package logs

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"
)

// TestPrintv は詳細ログの切り替えを検証する。
// グローバル状態を書き換えるため並列実行しない。
func TestPrintv(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		SetVerbose(false)
	})

	t.Run("詳細ログが無効な場合は出力されないこと", func(t *testing.T) {
		buf.Reset()
		SetVerbose(false)
		Printv("hidden %d", 1)
		if buf.Len() != 0 {
			t.Errorf("出力されるべきでないログが出力された: %q", buf.String())
		}
	})

	t.Run("詳細ログが有効な場合はプレフィックス付きで出力されること", func(t *testing.T) {
		buf.Reset()
		SetVerbose(true)
		Printv("shown %d", 2)
		if !strings.Contains(buf.String(), "[verbose] shown 2") {
			t.Errorf("出力 = %q, want contains %q", buf.String(), "[verbose] shown 2")
		}
		if !Verbose() {
			t.Error("Verbose() = false, want true")
		}
	})

	t.Run("Printfは常に出力されること", func(t *testing.T) {
		buf.Reset()
		SetVerbose(false)
		Printf("always %s", "on")
		if !strings.Contains(buf.String(), "always on") {
			t.Errorf("出力 = %q", buf.String())
		}
	})
}
