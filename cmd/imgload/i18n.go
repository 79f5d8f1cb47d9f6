// Package main provides localization for the imgload CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Output":           "出力先",
		"Playback":         "再生",
		"Decoding":         "デコード",
		"Layout and Style": "レイアウトとスタイル",
		"Debug":            "デバッグ",
		"Logging":          "ログ",

		// Root command
		"Decode and play images and animations": "画像とアニメーションをデコードして再生",
		"imgload decodes still images and animations in the background, plays them with their own frame timing and extracts their frames.": "imgloadは静止画とアニメーションをバックグラウンドでデコードし、各フレームの表示時間どおりに再生し、フレームを抽出します。",

		// Commands
		"Play an image or animation in real time": "画像またはアニメーションをリアルタイムで再生",
		"Write every frame of an animation as an image": "アニメーションの全フレームを画像として書き出し",
		"Create a contact sheet of an animation":        "アニメーションのコンタクトシートを作成",
		"Show version information":                      "バージョン情報を表示",
		"imgload version %s":                            "imgload バージョン %s",

		// Common flags
		"Configuration file (YAML or TOML)":                     "設定ファイル（YAMLまたはTOML）",
		"Log level (debug, info, warn, error)":                  "ログレベル（debug, info, warn, error）",
		"Suppress all log output":                               "全てのログ出力を抑制",
		"Duration of frames that specify none, in milliseconds": "表示時間を持たないフレームの表示時間（ミリ秒）",
		"Largest file that will be read (0 = unlimited)":        "読み込むファイルの最大サイズ（0 = 無制限）",
		"Enable debug output":                                   "デバッグ出力を有効化",
		"Directory for debug output":                            "デバッグ出力のディレクトリ",
		"Serve Prometheus metrics on this address":              "このアドレスでPrometheusメトリクスを公開",

		// Playback flags
		"Stop after this many cycles (0 = until interrupted)": "この回数だけ再生して終了（0 = 中断されるまで）",
		"Animation clock period in milliseconds":              "アニメーションクロックの周期（ミリ秒）",
		"Reload the file whenever it changes":                 "ファイルが変更されるたびに再読み込み",

		// Output flags
		"Output directory (required)":                        "出力ディレクトリ（必須）",
		"Output image path (required)":                       "出力画像パス（必須）",
		"Image format (png, jpeg)":                           "画像形式（png, jpeg）",
		"Quality preset (low, medium, high)":                 "品質プリセット（low, medium, high）",
		"Output execution summary to file (Markdown format)": "実行サマリーをファイルに出力（Markdown形式）",

		// Layout flags
		"Number of columns (min: 1)":            "カラム数（最小: 1）",
		"Width of each frame in pixels":         "各フレームの幅（ピクセル）",
		"Background color (hex, e.g., #dcdcdc)": "背景色（16進数、例: #dcdcdc）",
		"Omit the header banner":                "ヘッダーバナーを省略",

		// Runtime messages
		"Output saved to %s":            "出力を %s に保存しました",
		"Summary saved to %s":           "サマリーを %s に保存しました",
		"Failed to write summary: %s":   "サマリーの書き込みに失敗しました: %s",
		"Interrupted, shutting down...": "中断されました。シャットダウン中...",
		"Metrics server stopped: %v":    "メトリクスサーバーが停止しました: %v",

		// Error messages
		"Exactly one file argument is required": "ファイル引数を1つだけ指定してください",
	})
}
