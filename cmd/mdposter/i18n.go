// Package main provides localization for the mdposter CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Configuration": "設定",
		"Server":        "サーバー",
		"Browser":       "ブラウザ設定",
		"Output":        "出力",
		"Debug":         "デバッグ",
		"Logging":       "ログ",

		// Root command
		"Render Markdown as poster images": "Markdownをポスター画像に変換",
		"mdposter renders Markdown in a headless browser and returns the poster as an image URL.": "mdposterはMarkdownをヘッドレスブラウザで描画し、ポスター画像のURLを返します。",

		// Serve command
		"Run the poster HTTP service":                                        "ポスターHTTPサービスを起動",
		"Serve the generate endpoint, the poster page and persisted images.": "生成エンドポイント、ポスターページ、保存済み画像を配信します。",

		// Render command
		"Render a Markdown file to a poster image":                                     "Markdownファイルをポスター画像に変換",
		"Render FILE (or stdin when FILE is - or omitted) and write the poster image.": "FILE（- または省略時は標準入力）を描画し、ポスター画像を書き出します。",

		// Version command
		"Show version information": "バージョン情報を表示",
		"mdposter version %s":      "mdposter バージョン %s",

		// Configuration flags
		"YAML configuration file":                             "YAML設定ファイル",
		"Environment file loaded before MDPOSTER_* variables": "MDPOSTER_* 変数より前に読み込む環境ファイル",
		"Deployment mode (development, production)":           "実行モード（development, production）",

		// Browser flags
		"Path to Chrome executable":                         "Chrome実行ファイルのパス",
		"Production browser provider (rod, playwright)":     "本番用ブラウザプロバイダー（rod, playwright）",
		"Directory the provider downloads the browser into": "プロバイダーがブラウザをダウンロードするディレクトリ",
		"Overall render budget per request":                 "1リクエストあたりの描画時間の上限",
		"Maximum simultaneous browser sessions (0 = auto)":  "同時ブラウザセッション数の上限（0 = 自動）",

		// Server flags
		"Listen address": "待ち受けアドレス",
		"Public base URL the browser loads the poster page from":       "ブラウザがポスターページを読み込む公開ベースURL",
		"Maximum request body size in bytes":                           "リクエストボディの最大サイズ（バイト）",
		"Load the poster page from this server instead of a local one": "ローカルではなくこのサーバーからポスターページを読み込む",

		// Output flags
		"Result form (persist, inline)":                "結果の形式（persist, inline）",
		"Directory persisted posters are written to":   "保存するポスターの出力先ディレクトリ",
		"Output image file path (required)":            "出力画像ファイルパス（必須）",
		"Image format (png, jpeg)":                     "画像形式（png, jpeg）",
		"Downscale posters wider than this (0 = keep)": "この幅を超えるポスターを縮小（0 = 縮小しない）",
		"Padding around the poster in pixels":          "ポスター周囲の余白（ピクセル）",
		"Background color (hex, e.g., #ffffff)":        "背景色（16進数、例: #ffffff）",

		// Debug flags
		"Enable debug output":        "デバッグ出力を有効化",
		"Directory for debug output": "デバッグ出力のディレクトリ",

		// Logging flags
		"Log level (debug, info, warn, error)": "ログレベル（debug, info, warn, error）",
		"Log format (console, json)":           "ログ形式（console, json）",
		"Write JSON logs to a rotating file":   "JSONログをローテーションするファイルに出力",
		"Suppress all log output":              "全てのログ出力を抑制",

		"Output render summary to file (Markdown format)": "生成サマリーをファイルに出力（Markdown形式）",

		// Runtime messages
		"Starting mdposter %s in %s mode": "mdposter %s を %s モードで起動します",
		"Output saved to %s":              "出力を %s に保存しました",
		"Interrupted, shutting down...":   "中断されました。シャットダウン中...",
		"Summary saved to %s":             "サマリーを %s に保存しました",
		"Failed to write summary: %s":     "サマリーの書き込みに失敗しました: %s",

		// Summary content
		"Render Summary": "生成サマリー",
		"Generated":      "生成日時",
		"Version":        "バージョン",
		"Request":        "リクエスト",
		"Results":        "実行結果",
		"Resources":      "リソース",
		"Settings":       "設定",
		"Image Details":  "画像詳細",
		"Item":           "項目",
		"Value":          "値",

		// Results section
		"Source":         "入力",
		"stdin":          "標準入力",
		"Browser Launch": "ブラウザ起動",
		"Page Load":      "ページ読み込み",
		"Poster Visible": "ポスター表示",
		"Images Settled": "画像確定",
		"Status":         "状態",
		"Succeeded":      "成功",
		"Failed":         "失敗",
		"Timeout":        "タイムアウト",

		// Resources section
		"Images":           "画像",
		"loaded":           "読み込み済み",
		"failed":           "失敗",
		"Requests Allowed": "許可したリクエスト",
		"Requests Blocked": "ブロックしたリクエスト",

		// Settings section
		"Mode":     "モード",
		"Viewport": "ビューポート",
		"Format":   "形式",
		"None":     "なし",

		// Image details section
		"File":        "ファイル",
		"File Size":   "ファイルサイズ",
		"Poster Size": "ポスターサイズ",
	})
}
