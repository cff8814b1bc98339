// Package paramlit parses parameter lists written on the command line, e.g.
//
//	1, -2, 3.5, 'it''s', x'0aff', null, 7u, true
//
// into a value.Params. Strings use SQL quoting; a trailing u marks an
// unsigned integer; true and false bind as 1 and 0.
package paramlit

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/satishbabariya/dengine/dberr"
	"github.com/satishbabariya/dengine/value"
)

var paramLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Hex", Pattern: `[xX]'[0-9a-fA-F]*'`},
	{Name: "String", Pattern: `'(?:''|[^'])*'`},
	{Name: "Uint", Pattern: `\d+[uU]`},
	{Name: "Float", Pattern: `-?\d+(?:\.\d+(?:[eE][+-]?\d+)?|[eE][+-]?\d+)`},
	{Name: "Int", Pattern: `-?\d+`},
	{Name: "Keyword", Pattern: `(?i:null|true|false)\b`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Whitespace", Pattern: `\s+`},
})

type list struct {
	Items []*literal `parser:"( @@ ( Comma @@ )* )?"`
}

type literal struct {
	Hex     *string `parser:"  @Hex"`
	String  *string `parser:"| @String"`
	Uint    *string `parser:"| @Uint"`
	Float   *string `parser:"| @Float"`
	Int     *string `parser:"| @Int"`
	Keyword *string `parser:"| @Keyword"`
}

var parser = participle.MustBuild[list](
	participle.Lexer(paramLexer),
	participle.Elide("Whitespace"),
)

// Parse parses a comma-separated literal list. An empty or blank input is an
// empty list.
func Parse(src string) (value.Params, error) {
	if strings.TrimSpace(src) == "" {
		return value.Params{}, nil
	}

	l, err := parser.ParseString("params", src)
	if err != nil {
		return nil, dberr.Conversionf("params: %s", err.Error())
	}

	out := make(value.Params, 0, len(l.Items))
	for i, it := range l.Items {
		v, err := it.value()
		if err != nil {
			return nil, dberr.Conversionf("params: item %d: %s", i, err.Error())
		}
		out = append(out, v)
	}
	return out, nil
}

func (l *literal) value() (value.Value, error) {
	switch {
	case l.Hex != nil:
		b, err := hex.DecodeString((*l.Hex)[2 : len(*l.Hex)-1])
		if err != nil {
			return value.Null(), err
		}
		return value.Bytes(b), nil
	case l.String != nil:
		s := (*l.String)[1 : len(*l.String)-1]
		return value.Text(strings.ReplaceAll(s, "''", "'")), nil
	case l.Uint != nil:
		u, err := strconv.ParseUint((*l.Uint)[:len(*l.Uint)-1], 10, 64)
		if err != nil {
			return value.Null(), err
		}
		return value.Uint(u), nil
	case l.Float != nil:
		f, err := strconv.ParseFloat(*l.Float, 64)
		if err != nil {
			return value.Null(), err
		}
		return value.Float(f), nil
	case l.Int != nil:
		i, err := strconv.ParseInt(*l.Int, 10, 64)
		if err != nil {
			return value.Null(), err
		}
		return value.Int(i), nil
	case l.Keyword != nil:
		switch strings.ToLower(*l.Keyword) {
		case "true":
			return value.Int(1), nil
		case "false":
			return value.Int(0), nil
		}
	}
	return value.Null(), nil
}
