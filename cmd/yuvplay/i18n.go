// Package main provides localization for the yuvplay CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Source":       "入力",
		"Pipeline":     "パイプライン",
		"Presentation": "表示",
		"Snapshot":     "スナップショット",
		"Output":       "出力先",
		"Debug":        "デバッグ",
		"Logging":      "ログ",

		// Commands
		"Play raw and containerized video with a decoupled decode and present pipeline": "デコードと表示を分離したパイプラインで動画を再生",
		"Play a video file":                        "動画ファイルを再生",
		"Print stream information without playing": "再生せずにストリーム情報を表示",
		"Show version information":                 "バージョン情報を表示",
		"yuvplay version %s":                       "yuvplay バージョン %s",
		"Invalid configuration: %s":                "設定が不正です: %s",

		// Source flags
		"YAML or TOML configuration file":                  "YAML または TOML の設定ファイル",
		"Input format (yuv, y4m, ffmpeg; default: detect)": "入力形式 (yuv, y4m, ffmpeg。既定: 自動判別)",
		"Frame width, required for raw yuv":                "フレーム幅 (raw yuv では必須)",
		"Frame height, required for raw yuv":               "フレーム高さ (raw yuv では必須)",
		"Frame rate (overrides the container)":             "フレームレート (コンテナの値を上書き)",
		"Stop after this many frames (0 = all)":            "このフレーム数で停止 (0 = すべて)",

		// Pipeline flags
		"Frame channel capacity (default: 4)":                     "フレームチャネルの容量 (既定: 4)",
		"Longest wait for a frame per tick in milliseconds":       "ティックごとのフレーム待ち時間の上限 (ミリ秒)",
		"Present interval in milliseconds (0 = one frame period)": "表示間隔 (ミリ秒、0 = 1フレーム周期)",
		"Consecutive present failures before stopping":            "停止までに許容する連続表示失敗回数",
		"Queued frames on quit (discard, present-last)":           "終了時のキュー内フレームの扱い (discard, present-last)",

		// Presentation flags
		"Display backend (sdl, ffplay, snapshot, null)":      "表示バックエンド (sdl, ffplay, snapshot, null)",
		"Window title":                                       "ウィンドウタイトル",
		"Let the display refresh pace presentation (sdl only)": "ディスプレイのリフレッシュで表示を同期 (sdl のみ)",
		"Path to ffmpeg executable":                          "ffmpeg 実行ファイルのパス",
		"Path to ffplay executable":                          "ffplay 実行ファイルのパス",

		// Snapshot flags
		"Directory for snapshot images":               "スナップショット画像の保存先",
		"Save every Nth presented frame":              "表示した N フレームごとに保存",
		"Snapshot width in pixels (0 = source width)": "スナップショットの幅 (ピクセル、0 = 元の幅)",
		"Overlay text color (hex, e.g., #ffffff)":     "オーバーレイ文字色 (16進数、例: #ffffff)",
		"Overlay bar color (hex, e.g., #000000)":      "オーバーレイ帯の色 (16進数、例: #000000)",
		"TrueType font for the overlay":               "オーバーレイ用 TrueType フォント",

		// Output flags
		"Write a Markdown playback summary to this path":        "再生サマリーを Markdown でこのパスに書き出す",
		"Serve Prometheus metrics on this address (e.g., :9090)": "このアドレスで Prometheus メトリクスを公開 (例: :9090)",

		// Debug and logging flags
		"Enable debug output":                  "デバッグ出力を有効化",
		"Directory for debug output":           "デバッグ出力先ディレクトリ",
		"Log level (debug, info, warn, error)": "ログレベル (debug, info, warn, error)",
		"Suppress all log output":              "すべてのログ出力を抑制",

		// Probe output
		"Format":     "形式",
		"Codec":      "コーデック",
		"Resolution": "解像度",
		"Frame rate": "フレームレート",
		"Frames":     "フレーム数",
		"Duration":   "長さ",
		"Fragmented": "フラグメント",

		// Playback summary
		"Playback Summary":  "再生サマリー",
		"Playback":          "再生",
		"Settings":          "設定",
		"Generated at":      "生成日時",
		"Unknown":           "不明",
		"Path":              "パス",
		"File Size":         "ファイルサイズ",
		"Frame Rate":        "フレームレート",
		"Stop Reason":       "停止理由",
		"Decoded":           "デコード",
		"Presented":         "表示",
		"Dropped":           "破棄",
		"Empty Ticks":       "空ティック",
		"Present Errors":    "表示エラー",
		"Unreleased Frames": "未解放フレーム",
		"Decode Error":      "デコードエラー",
		"Wall Time":         "経過時間",
		"Effective Rate":    "実効レート",
		"Decoder Blocked":   "デコーダ待機時間",
		"Presenter":         "プレゼンター",
		"Queue Capacity":    "キュー容量",
		"Tick Interval":     "ティック間隔",
		"VSync":             "垂直同期",
		"Take Timeout":      "取得タイムアウト",
		"Drain Policy":      "終了時の扱い",
		"Frame Limit":       "フレーム上限",
	})
}
