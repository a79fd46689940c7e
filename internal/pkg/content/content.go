package content

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldhtml "github.com/yuin/goldmark/renderer/html"
)

var (
	// 入库前剥离全部 HTML
	strict = bluemonday.StrictPolicy()

	md = goldmark.New(
		goldmark.WithExtensions(extension.Strikethrough, extension.Linkify),
		goldmark.WithRendererOptions(
			goldhtml.WithHardWraps(),
		),
	)
	ugc = bluemonday.UGCPolicy()
)

func init() {
	ugc.RequireNoFollowOnLinks(true)
	ugc.AddTargetBlankToFullyQualifiedLinks(true)
}

// 反转义后可能出现新的标签，最多重复这么多轮
const maxSanitizePasses = 5

// Sanitize 去掉所有标签并裁剪首尾空白，结果可能为空
func Sanitize(raw string) string {
	text := raw
	for i := 0; i < maxSanitizePasses; i++ {
		// StrictPolicy 会转义实体，存储纯文本
		next := html.UnescapeString(strict.Sanitize(text))
		if next == text {
			return strings.TrimSpace(text)
		}
		text = next
	}
	// 多层编码未收敛，保留转义后的形式
	return strings.TrimSpace(strict.Sanitize(text))
}

// RenderMarkdown 把纯文本评论按 markdown 渲染成安全的 HTML
func RenderMarkdown(source string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return ugc.Sanitize(html.EscapeString(source))
	}
	return ugc.Sanitize(buf.String())
}
