package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Playback (info)
		"Playing %s":                      "%s を再生中",
		"Reloading %s":                    "%s を再読み込み中",
		"Loaded %s: %s %dx%d, %d frames":  "%s を読み込みました: %s %dx%d, %d フレーム",
		"Extracting %d frames from %s":    "%[2]s から %[1]d フレームを抽出中",
		"Extracted %d frames":             "%d フレームを抽出しました",
		"Wrote %d frames to %s":           "%d フレームを %s に書き出しました",
		"Interrupted, shutting down...":   "中断されました。シャットダウン中...",
		"Starting pipeline":               "パイプラインを開始します",
		"Pipeline completed successfully": "パイプラインが正常に完了しました",

		// Loader tasks (debug)
		"Task %s: opening %s":                                          "タスク %s: %s を開いています",
		"Task %s: committed %s %dx%d, %d frame(s)":                     "タスク %s: %s %dx%d, %d フレームを確定しました",
		"Task %s: superseded before commit":                            "タスク %s: 確定前に置き換えられました",
		"Task %s: superseded at commit":                                "タスク %s: 確定時に置き換えられました",
		"Task %s: advance superseded":                                  "タスク %s: フレーム送りが置き換えられました",
		"Task %s: advance superseded at commit":                        "タスク %s: 確定時にフレーム送りが置き換えられました",
		"Task %s: dropping failure of superseded request: %v":          "タスク %s: 置き換え済みリクエストの失敗を破棄します: %v",
		"Task %s: dropping advance failure of superseded sequence: %v": "タスク %s: 置き換え済みシーケンスのフレーム送り失敗を破棄します: %v",
		"Detected %s (%d bytes)":                                       "%s を検出しました (%d バイト)",
		"Compositing frame %d (previous disposal %s)":                  "フレーム %d を合成中 (直前の破棄方法 %s)",
		"Cycle %d completed in %v":                                     "%d 周目が %v で完了しました",

		// Layout stage
		"Calculating layout":                      "レイアウトを計算中",
		"Layout calculated: %dx%d sheet, %d rows": "レイアウト計算完了: %dx%d シート, %d 行",

		// Banner stage
		"Generating banner":       "バナーを生成中",
		"Banner generated: %dx%d": "バナー生成完了: %dx%d",

		// Encode stage
		"Composing sheet of %d frames":       "%d フレームのシートを合成中",
		"Sheet encoded: %d frames, %d bytes": "シートのエンコード完了: %d フレーム, %d バイト",

		// Warnings
		"Failed to load %s: %v":             "%s の読み込みに失敗しました: %v",
		"Failed to advance to frame %d: %v": "フレーム %d への送りに失敗しました: %v",
		"Failed to publish %T: %v":          "%T の通知に失敗しました: %v",
		"Failed to close sequence: %v":      "シーケンスのクローズに失敗しました: %v",
		"Failed to save frame %d: %v":       "フレーム %d の保存に失敗しました: %v",
		"Failed to save sheet: %v":          "シートの保存に失敗しました: %v",
		"Watch error: %v":                   "監視エラー: %v",

		// Errors
		"Failed to extract frames: %s":   "フレームの抽出に失敗しました: %s",
		"Failed to calculate layout: %s": "レイアウトの計算に失敗しました: %s",
		"Failed to generate banner: %s":  "バナーの生成に失敗しました: %s",
		"Failed to compose sheet: %s":    "シートの合成に失敗しました: %s",
		"Failed to write output: %s":     "出力の書き込みに失敗しました: %s",
	})
}
