package generator

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	tagRe       = regexp.MustCompile(`</?[a-zA-Z]+>`)
	titleLineRe = regexp.MustCompile(`^\s*\d{1,2}\.\s+(.+)$`)
)

// StripTags removes markup-like tags (<think>, </b> ...) that some models
// leak into completions. Removal repeats until nothing changes, so nested
// input such as "<<b>b>" cannot leave a tag behind.
func StripTags(raw string) string {
	for {
		next := tagRe.ReplaceAllString(raw, "")
		if next == raw {
			return strings.TrimSpace(next)
		}
		raw = next
	}
}

// ParseTitles 从 "1. xxx" 形式的编号列表中提取标题，最多 MaxTitles 个。
// Text without any numbered line is a parse failure rather than an empty list.
func ParseTitles(text string) ([]string, error) {
	titles := make([]string, 0, MaxTitles)
	for _, line := range strings.Split(text, "\n") {
		m := titleLineRe.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil {
			continue
		}
		title := cleanTitle(m[1])
		if title == "" {
			continue
		}
		titles = append(titles, title)
		if len(titles) == MaxTitles {
			break
		}
	}
	if len(titles) == 0 {
		return nil, ErrParse
	}
	return titles, nil
}

// cleanTitle drops markdown emphasis and quotes wrapped around the whole
// title, repeating until nothing changes so a second pass is a no-op.
func cleanTitle(s string) string {
	s = strings.TrimSpace(s)
	for {
		next := unwrapOnce(s)
		if next == s {
			return s
		}
		s = next
	}
}

var titleWrappers = [][2]string{{"**", "**"}, {"__", "__"}, {`"`, `"`}, {"“", "”"}}

func unwrapOnce(s string) string {
	for _, w := range titleWrappers {
		open, closing := w[0], w[1]
		if len(s) <= len(open)+len(closing) || !strings.HasPrefix(s, open) || !strings.HasSuffix(s, closing) {
			continue
		}
		inner := s[len(open) : len(s)-len(closing)]
		if strings.Contains(inner, open) || strings.Contains(inner, closing) {
			continue
		}
		return strings.TrimSpace(inner)
	}
	return s
}

// FormatTitles renders titles back into the numbered form ParseTitles reads.
func FormatTitles(titles []string) string {
	var b strings.Builder
	for i, t := range titles {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strconv.Itoa(i+1) + ". " + t)
	}
	return b.String()
}
