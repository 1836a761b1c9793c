package generator

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// MockLLM 一个简单的占位实现，便于本地调试，不调用外部模型。
type MockLLM struct{}

var (
	mockKeywordRe = regexp.MustCompile(`title options about (.+)\.\n`)
	mockTitleRe   = regexp.MustCompile(`(?m)^# (.+)$`)
)

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	if km := mockKeywordRe.FindStringSubmatch(prompt.User); km != nil {
		kw := titleCase(km[1])
		return fmt.Sprintf("1. Essential %s Guide\n2. Definitive %s Tips\n3. %s Secrets Experts Use\n4. Ultimate %s Checklist", kw, kw, kw, kw), nil
	}

	title := "Untitled"
	if tm := mockTitleRe.FindStringSubmatch(prompt.User); tm != nil {
		title = tm[1]
	}
	var sb strings.Builder
	sb.WriteString("# " + title + "\n\n")
	sb.WriteString("## Introduction\n\n这里是一段自动生成的引言。\n\n")
	for i := 1; i <= 3; i++ {
		sb.WriteString(fmt.Sprintf("## Section %d\n\n### Details\n\nPlaceholder paragraph %d.\n\n", i, i))
	}
	sb.WriteString("## Conclusion\n\nThat's all for now.\n")
	return sb.String(), nil
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
