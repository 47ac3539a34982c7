package webhookService

import (
	"fmt"
	"strings"

	"ProjectBodycheck/internal/entity"
)

// User-facing texts. The bot speaks Japanese, matching the platform
// audience.
const (
	msgStart = "はじめまして！\n正面写真と側面写真の2枚で姿勢を解析します。\n\n" +
		"1) まずは「front」または「side」と送信\n" +
		"2) 続けて該当の写真を“画像として”送信\n" +
		"（※共有リンクやファイルではなく、写真として送ってください）"

	msgHelp = "メニュー:\n・「開始」…手順の案内\n・「front」…正面写真を送る準備\n・「side」…側面写真を送る準備"

	msgFetchFailed = "画像の取得に失敗しました。\n" +
		"・LINEアプリから“直接”画像を送ってください（共有URL不可）\n" +
		"・うまくいかない場合は別の画像でも試してください"

	msgUnreadableImage = "画像を読み込めませんでした。別の写真で、同じ向きのものをもう一度送ってください。"

	msgAnalyzing = "2枚そろいました。解析を開始します。少々お待ちください。"

	msgAnalyzerDown = "解析サーバとの通信に失敗しました。時間を置いて再度お試しください。"
)

func msgSlotDeclared(slot entity.PhotoSlot) string {
	return fmt.Sprintf("%s を受け付けました。続けて %s の写真を送ってください。", slot, slot)
}

func msgSlotStored(filled entity.PhotoSlot) string {
	remaining := filled.Other()
	return fmt.Sprintf("%s の写真を受け付けました。次は「%s」と送って、続けて %s の写真を送ってください。",
		filled, remaining, remaining)
}

// formatResult renders the emoji score block plus metric groups and advice
// lines for a push message.
func formatResult(result *entity.AnalysisResult) string {
	var lines []string

	lines = append(lines, "【AI体型診断】")
	lines = append(lines, fmt.Sprintf("🌟 総合スコア：%.1f", result.Scores.Overall))
	lines = append(lines, fmt.Sprintf("📏 姿勢スコア：%.1f", result.Scores.Posture))
	lines = append(lines, fmt.Sprintf("⚖️ ボディバランススコア：%.1f", result.Scores.Balance))
	lines = append(lines, fmt.Sprintf("💪 筋肉脂肪スコア：%.1f", result.Scores.MuscleFat))
	lines = append(lines, fmt.Sprintf("👗 ファッション映えスコア：%.1f", result.Scores.Fashion))

	if len(result.FrontMetrics) > 0 {
		lines = append(lines, fmt.Sprintf("[正面] 肩角度: %.1f, 骨盤傾き: %.1f",
			result.FrontMetrics["shoulder_angle"], result.FrontMetrics["pelvis_tilt"]))
	}
	if len(result.SideMetrics) > 0 {
		lines = append(lines, fmt.Sprintf("[側面] 猫背: %.3f, 頭位: %.3f",
			result.SideMetrics["kyphosis"], result.SideMetrics["forward_head"]))
	}

	if len(result.Advice) > 0 {
		lines = append(lines, "アドバイス:")
		for i, a := range result.Advice {
			if i == 3 {
				break
			}
			lines = append(lines, "・"+a)
		}
	}

	return strings.Join(lines, "\n")
}
