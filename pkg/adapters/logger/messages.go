package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration level messages (info)
		"Opening %s":                "%s を開いています",
		"Playing %dx%d at %.2f fps": "%dx%d を %.2f fps で再生中",
		"Playback finished (%s): %d decoded, %d presented, %d dropped": "再生終了 (%s): デコード %d, 表示 %d, 破棄 %d",
		"Pipeline %s -> %s (%s)":            "パイプライン %s -> %s (%s)",
		"Interrupted, shutting down...":     "中断されました。シャットダウン中...",
		"Using presenter %s":                "プレゼンター %s を使用します",
		"Metrics listening on %s":           "メトリクスを %s で公開中",
		"Snapshots written to %s":           "スナップショットを %s に保存しました",
		"Summary written to %s":             "サマリーを %s に保存しました",
		"Report written to %s":              "レポートを %s に保存しました",

		// Decode stage
		"Consumer stopped, decoder exiting after %d frames": "表示側が停止したため、%d フレームでデコーダを終了します",
		"Frame limit %d reached":                            "フレーム上限 %d に達しました",
		"End of stream after %d frames":                     "%d フレームでストリーム終端に達しました",
		"Frame %d rejected by closed channel":               "フレーム %d はチャネルが閉じていたため破棄されました",

		// Present stage
		"Present loop finished: %d ticks, %d presented, %d empty, %d errors, %d dropped": "表示ループ終了: ティック %d, 表示 %d, 空 %d, エラー %d, 破棄 %d",
		"Quit requested":                       "終了が要求されました",
		"Playing out %d queued frames":         "キュー内の %d フレームを再生します",
		"Drained %d frames without presenting": "%d フレームを表示せずに破棄しました",

		// Warnings
		"Decode failed, ending stream: %s":          "デコードに失敗したためストリームを終了します: %s",
		"Present failed for frame %d: %s":           "フレーム %d の表示に失敗しました: %s",
		"%d frames were not released":               "%d フレームが解放されていません",
		"Failed to close source: %s":                "ソースのクローズに失敗しました: %s",
		"Failed to destroy surface: %s":             "サーフェスの破棄に失敗しました: %s",
		"Failed to save debug frame: %s":            "デバッグフレームの保存に失敗しました: %s",
		"Failed to save run report: %s":             "実行レポートの保存に失敗しました: %s",
		"Failed to write summary: %s":               "サマリーの書き込みに失敗しました: %s",
		"Metrics server stopped: %s":                "メトリクスサーバーが停止しました: %s",
		"Unexpected take error: %s":                 "予期しない取得エラー: %s",
		"Presenter %s not available, falling back to %s": "プレゼンター %s は利用できません。%s にフォールバックします",

		// Errors
		"Failed to open source: %s":                 "ソースを開けませんでした: %s",
		"Failed to create surface: %s":              "サーフェスを作成できませんでした: %s",
		"%d consecutive present failures, stopping": "表示が %d 回連続で失敗したため停止します",
	})
}
