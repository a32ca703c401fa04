package security

import (
	"html"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizerService はUIから受け取った自由記述テキストを保存前に無害化する。
type TextSanitizerService interface {
	// StripTags はHTMLタグをすべて取り除いたプレーンテキストを返す。
	// 実体参照はデコードし、"&" などの文字はそのまま残す。
	StripTags(s string) string

	// SafeURL はhttp/httpsの絶対URLのみを返し、それ以外は空文字列にする。
	SafeURL(raw string) string
}

// maxStripPasses は多重エンコードされた入力に対する除去の繰り返し上限。
const maxStripPasses = 8

type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はStrictPolicyを使うTextSanitizerServiceを生成する。
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{policy: bluemonday.StrictPolicy()}
}

func (s *textSanitizer) StripTags(in string) string {
	if in == "" {
		return ""
	}
	// デコードで現れたタグも除去するため、結果が変わらなくなるまで繰り返す。
	cur := in
	for i := 0; i < maxStripPasses; i++ {
		next := html.UnescapeString(s.policy.Sanitize(cur))
		if next == cur {
			return next
		}
		cur = next
	}
	// 上限に達した場合はエスケープしたまま返す
	return s.policy.Sanitize(cur)
}

func (s *textSanitizer) SafeURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	u, err := url.Parse(trimmed)
	if err != nil || u.Host == "" {
		return ""
	}
	if !isAllowedScheme(u.Scheme) {
		return ""
	}
	return trimmed
}

var _ TextSanitizerService = (*textSanitizer)(nil)
