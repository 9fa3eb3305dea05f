// Package dsl 解析样式中的小型文本语法：CSS 字体简写、字体族列表与颜色。
package dsl

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	styleLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{4}|[0-9A-Fa-f]{3})\b`},
		{Name: "Size", Pattern: `(?:\d+\.\d+|\d+|\.\d+)(?i:px|pt|mm|cm|in|em)\b`},
		{Name: "Number", Pattern: `(?:\d+\.\d+|\d+|\.\d+)%?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"|'(?:\\.|[^'])*'`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Punct", Pattern: `[,/()]`},
	})

	fontParser = participle.MustBuild[fontExpr](
		participle.Lexer(styleLexer),
		participle.Elide("Whitespace"),
	)
	familyParser = participle.MustBuild[familyList](
		participle.Lexer(styleLexer),
		participle.Elide("Whitespace"),
	)
	colorParser = participle.MustBuild[colorExpr](
		participle.Lexer(styleLexer),
		participle.Elide("Whitespace"),
	)
)

// fontExpr 对应 CSS font 简写：[style] [weight] size[/line-height] family[, family]*。
type fontExpr struct {
	Modifiers  []string      `parser:"@(Ident | Number)*"`
	Size       string        `parser:"@Size"`
	LineHeight *string       `parser:"( '/' @(Size | Number) )?"`
	Families   []*familyExpr `parser:"@@ ( ',' @@ )*"`
}

type familyList struct {
	Families []*familyExpr `parser:"@@ ( ',' @@ )*"`
}

// familyExpr 是单个字体族：带引号的字符串或若干标识符（例如 Times New Roman）。
type familyExpr struct {
	Quoted *string  `parser:"  @String"`
	Words  []string `parser:"| @Ident+"`
}

func (f *familyExpr) name() string {
	if f.Quoted != nil {
		s := *f.Quoted
		if len(s) >= 2 {
			s = s[1 : len(s)-1]
		}
		return strings.TrimSpace(s)
	}
	return strings.Join(f.Words, " ")
}

// colorExpr 是 #hex、具名颜色或 rgb()/rgba() 函数。
type colorExpr struct {
	Hex  *string    `parser:"  @Color"`
	Call *colorCall `parser:"| @@"`
}

type colorCall struct {
	Name string   `parser:"@Ident"`
	Args []string `parser:"( '(' @Number ( ','? @Number )* ')' )?"`
}

func families(exprs []*familyExpr) []string {
	out := make([]string, 0, len(exprs))
	for _, e := range exprs {
		if name := e.name(); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// ParseFamilies 解析逗号分隔的字体族列表，例如 `"Go Mono", monospace`。
func ParseFamilies(src string) ([]string, error) {
	list, err := familyParser.ParseString("", src)
	if err != nil {
		return nil, fmt.Errorf("解析字体族失败: %w", err)
	}
	names := families(list.Families)
	if len(names) == 0 {
		return nil, fmt.Errorf("字体族为空")
	}
	return names, nil
}
