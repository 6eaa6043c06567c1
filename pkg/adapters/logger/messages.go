package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration level messages (info)
		"Rendering poster (%d bytes of markdown)": "ポスターを生成中 (Markdown %d バイト)",
		"Poster rendered in %d ms":                "ポスターを %d ms で生成しました",
		"Render failed after %d ms: %v":           "%d ms 後に生成に失敗しました: %v",
		"Starting mdposter %s in %s mode":         "mdposter %s を %s モードで起動します",
		"Output saved to %s":                      "出力を %s に保存しました",
		"Interrupted, shutting down...":           "中断されました。シャットダウン中...",

		// Launch stage
		"Launching %s browser from %s (%s)":      "%s ブラウザを %s から起動中 (%s)",
		"Starting %s (headless=%t, %d switches)": "%s を起動中 (headless=%t, スイッチ %d 個)",
		"Browser ready in %d ms":                 "ブラウザが %d ms で準備完了しました",
		"Browser closed":                         "ブラウザを閉じました",
		"Failed to close browser: %v":            "ブラウザを閉じられませんでした: %v",

		// Readiness stage
		"Navigating to poster page (%d byte URL)":           "ポスターページへ移動中 (URL %d バイト)",
		"Page loaded in %d ms":                              "ページを %d ms で読み込みました",
		"Marker %s visible after %d ms":                     "%s が %d ms 後に表示されました",
		"%d images settled in %d ms":                        "%d 枚の画像が %d ms で確定しました",
		"%d of %d images failed to load":                    "%d / %d 枚の画像を読み込めませんでした",
		"Images did not settle within %s, capturing anyway": "画像が %s 以内に確定しなかったため、そのままキャプチャします",
		"Image wait failed, capturing anyway: %v":           "画像の待機に失敗したため、そのままキャプチャします: %v",
		"Blocked %s request":                                "%s リクエストをブロックしました",
		"Failed to resolve paused request %s: %v":           "一時停止中のリクエスト %s を処理できませんでした: %v",

		// Capture stage
		"Capturing %.0fx%.0f region at (%.0f, %.0f)": "%.0fx%.0f の領域を (%.0f, %.0f) でキャプチャ中",
		"Captured %d bytes":                          "%d バイトをキャプチャしました",

		// Encode stage
		"Resized capture to %dx%d": "キャプチャを %dx%d に縮小しました",
		"Encoded %d bytes as %s":   "%d バイトを %s としてエンコードしました",

		// HTTP
		"Listening on %s":                  "%s で待ち受け中",
		"Shutdown did not complete: %v":    "シャットダウンが完了しませんでした: %v",
		"Poster request rejected: %v":      "ポスターのリクエストを拒否しました: %v",
		"Handler panicked: %v":             "ハンドラーでパニックが発生しました: %v",
		"Failed to read image %s: %v":      "画像 %s を読み込めませんでした: %v",
		"Failed to render poster page: %v": "ポスターページを描画できませんでした: %v",
		"Poster page listening on %s":      "ポスターページを %s で配信中",
		"Poster page server stopped: %v":   "ポスターページのサーバーが停止しました: %v",

		// Debug output
		"Failed to save debug output: %v": "デバッグ出力の保存に失敗しました: %v",
	})
}
