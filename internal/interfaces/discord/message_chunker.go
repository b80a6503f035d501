package discord

import "strings"

// DiscordMessageLimit 出站消息长度上限
// Discord 硬限制是 2000, 留出余量给代码块闭合等修饰
const DiscordMessageLimit = 1900

// ChunkMessage 按默认上限分块消息
func ChunkMessage(text string) []string {
	return Chunk(text, DiscordMessageLimit)
}

// Chunk 把文本切成若干段, 每段不超过 maxLength, 优先在行边界分割
// 纯函数; 对已满足长度限制的块再切一次返回原样 (幂等)
func Chunk(text string, maxLength int) []string {
	if len(text) <= maxLength {
		return []string{text}
	}

	var chunks []string
	var buf string

	for _, line := range strings.Split(text, "\n") {
		// 加上这一行 (含分隔换行) 会超限时, 先冲刷缓冲
		if buf != "" && len(buf)+1+len(line) > maxLength {
			chunks = append(chunks, buf)
			buf = ""
		}

		// 单行超限: 硬切成定长片段, 最后一片留作新的缓冲起点
		if len(line) > maxLength {
			for len(line) > maxLength {
				chunks = append(chunks, line[:maxLength])
				line = line[maxLength:]
			}
			buf = line
			continue
		}

		if buf == "" {
			buf = line
		} else {
			buf = buf + "\n" + line
		}
	}

	if buf != "" {
		chunks = append(chunks, buf)
	}

	// 全空白输入等情况下一个块都没产出, 退化为截取前 maxLength 字符
	if len(chunks) == 0 {
		return []string{text[:maxLength]}
	}

	return chunks
}
