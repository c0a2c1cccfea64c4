package matchmaker

import "strings"

// TopicAll “不限主题”池的键；NormalizeTopic 的空结果在入队时映射到它
const TopicAll = "all"

// NormalizeDifficulty 难度统一小写
func NormalizeDifficulty(d string) string {
	return strings.ToLower(strings.TrimSpace(d))
}

// NormalizeTopic 主题归一化：空串 / 空白 / "all"（任意大小写）都视为不限主题，
// 返回 ""；其余返回去空格后的小写。池键只用归一化后的值比较。
func NormalizeTopic(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if t == TopicAll {
		return ""
	}
	return t
}

func topicKey(topic string) string {
	if topic == "" {
		return TopicAll
	}
	return topic
}
