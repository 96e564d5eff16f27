package encode

import (
	"fmt"
	"strings"

	"github.com/signadot/patchwork/ir"

	"github.com/fatih/color"
	"github.com/goccy/go-yaml/lexer"
	"github.com/goccy/go-yaml/printer"
)

type Colorable struct {
	Type ir.Type
	Attr ColorAttr
}

type ColorAttr int

const (
	FieldColor ColorAttr = iota
	ValueColor
	SepColor
)

type Colors struct {
	Default func(string, ...any) string
	Map     map[Colorable]func(string, ...any) string
}

func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map:     map[Colorable]func(string, ...any) string{},
	}
	for _, t := range ir.Types() {
		colors.Map[Colorable{Type: t, Attr: SepColor}] = color.RGB(255, 0, 196).SprintfFunc()
	}
	able := Colorable{Attr: ValueColor}

	able.Type = ir.NumberType
	colors.Map[able] = color.RGB(128, 216, 236).SprintfFunc()

	able.Type = ir.NullType
	colors.Map[able] = color.RGB(168, 0, 196).SprintfFunc()

	able.Type = ir.BoolType
	colors.Map[able] = color.CyanString

	able.Type = ir.StringType
	colors.Map[able] = color.RGB(8, 196, 16).SprintfFunc()

	able.Type = ir.ObjectType
	able.Attr = FieldColor
	colors.Map[able] = color.RGB(128, 168, 196).SprintfFunc()
	able.Attr = SepColor
	colors.Map[able] = color.RGB(196, 128, 128).SprintfFunc()
	return colors
}

func colorDefault(s string, _ ...any) string {
	return s
}

func (c *Colors) Color(t ir.Type, attr ColorAttr, v string) string {
	f := c.Map[Colorable{Type: t, Attr: attr}]
	if f == nil {
		f = c.Default
	}
	return f("%s", v)
}

// yaml colors YAML text by re-lexing it.
func (c *Colors) yaml(src string) string {
	prop := func(t ir.Type, attr ColorAttr) printer.PrintFunc {
		return func() *printer.Property {
			// split a colored marker around the text it wraps
			marked := c.Color(t, attr, "\x00")
			pre, post, _ := strings.Cut(marked, "\x00")
			return &printer.Property{Prefix: pre, Suffix: post}
		}
	}
	var p printer.Printer
	p.MapKey = prop(ir.ObjectType, FieldColor)
	p.String = prop(ir.StringType, ValueColor)
	p.Number = prop(ir.NumberType, ValueColor)
	p.Bool = prop(ir.BoolType, ValueColor)
	tokens := lexer.Tokenize(src)
	out := p.PrintTokens(tokens)
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}

// Sprintf colors a whole line with the color for t and attr.
func (c *Colors) Sprintf(t ir.Type, attr ColorAttr, format string, args ...any) string {
	return c.Color(t, attr, fmt.Sprintf(format, args...))
}
