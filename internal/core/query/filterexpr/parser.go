// Package filterexpr parses textual filter expressions into Condition trees.
//
// The grammar covers exactly what a Condition can express:
//
//	expr     = and { "OR" and }
//	and      = term { "AND" term }
//	term     = column "=" literal | "(" expr ")"
//	literal  = string | number | "true" | "false" | "null"
//
// AND binds tighter than OR and both fold to the left. Keywords are case
// insensitive; strings take single or double quotes.
package filterexpr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/satishbabariya/dynquery/internal/core/query/domain"
)

// ErrSyntax wraps every parse failure.
var ErrSyntax = errors.New("invalid filter expression")

var filterLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Keyword", Pattern: `(?i)\b(AND|OR|TRUE|FALSE|NULL)\b`},
	{Name: "String", Pattern: `'(?:\\.|[^'\\])*'|"(?:\\.|[^"\\])*"`},
	{Name: "Number", Pattern: `-?\d+(?:\.\d+)?(?:[eE][-+]?\d+)?`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_$]*`},
	{Name: "Punct", Pattern: `[().=]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

type orExpr struct {
	Pos   lexer.Position
	Left  *andExpr   `@@`
	Right []*andExpr `( "OR" @@ )*`
}

type andExpr struct {
	Left  *term   `@@`
	Right []*term `( "AND" @@ )*`
}

type term struct {
	Eq  *equality `  @@`
	Sub *orExpr   `| "(" @@ ")"`
}

type equality struct {
	Pos    lexer.Position
	Column string   `@Ident ( @"." @Ident )?`
	Value  *literal `"=" @@`
}

type literal struct {
	String *string `  @String`
	Number *string `| @Number`
	Bool   *string `| @( "TRUE" | "FALSE" )`
	Null   bool    `| @"NULL"`
}

var parser = participle.MustBuild[orExpr](
	participle.Lexer(filterLexer),
	participle.Elide("Whitespace"),
	participle.Unquote("String"),
	participle.CaseInsensitive("Keyword"),
)

// Parse parses expr into a Condition. An empty or blank expression yields nil.
func Parse(expr string) (*domain.Condition, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, nil
	}

	ast, err := parser.ParseString("filter", expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return ast.condition()
}

func (e *orExpr) condition() (*domain.Condition, error) {
	cond, err := e.Left.condition()
	if err != nil {
		return nil, err
	}
	for _, right := range e.Right {
		next, err := right.condition()
		if err != nil {
			return nil, err
		}
		cond = domain.Or(cond, next)
	}
	return cond, nil
}

func (e *andExpr) condition() (*domain.Condition, error) {
	cond, err := e.Left.condition()
	if err != nil {
		return nil, err
	}
	for _, right := range e.Right {
		next, err := right.condition()
		if err != nil {
			return nil, err
		}
		cond = domain.And(cond, next)
	}
	return cond, nil
}

func (t *term) condition() (*domain.Condition, error) {
	if t.Sub != nil {
		return t.Sub.condition()
	}
	value, err := t.Eq.Value.value()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSyntax, t.Eq.Pos, err)
	}
	return domain.Eq(t.Eq.Column, value), nil
}

func (l *literal) value() (interface{}, error) {
	switch {
	case l.String != nil:
		return *l.String, nil
	case l.Number != nil:
		if i, err := strconv.ParseInt(*l.Number, 10, 64); err == nil {
			return i, nil
		}
		return strconv.ParseFloat(*l.Number, 64)
	case l.Bool != nil:
		return strings.EqualFold(*l.Bool, "true"), nil
	default:
		return nil, nil
	}
}
