package api

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/patrickhuang888/orcarrow/orc/common"
	"github.com/patrickhuang888/orcarrow/pb/pb"
)

// ParseSchema parses a Hive/ORC type string like
// struct<a:int,b:array<string>,m:map<string,double>,d:decimal(10,2)>
// into a normalized tree.
func ParseSchema(s string) (*TypeDescription, error) {
	p := &parser{s: s}
	td, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.s) {
		return nil, p.errorf("extra characters")
	}
	if _, err := td.Normalize(); err != nil {
		return nil, err
	}
	return td, nil
}

type parser struct {
	s   string
	pos int
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return errors.Wrapf(common.ErrMismatchedSchema, "parse %q at %d: %s", p.s, p.pos, errors.Errorf(format, args...))
}

func (p *parser) skipSpace() {
	for p.pos < len(p.s) && p.s[p.pos] == ' ' {
		p.pos++
	}
}

func (p *parser) peek() byte {
	p.skipSpace()
	if p.pos < len(p.s) {
		return p.s[p.pos]
	}
	return 0
}

func (p *parser) expect(c byte) error {
	if p.peek() != c {
		return p.errorf("expect %q", c)
	}
	p.pos++
	return nil
}

func (p *parser) word() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		if c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			p.pos++
			continue
		}
		break
	}
	return p.s[start:p.pos]
}

func (p *parser) name() (string, error) {
	if p.peek() != '`' {
		n := p.word()
		if n == "" {
			return "", p.errorf("expect field name")
		}
		return n, nil
	}
	p.pos++
	sb := strings.Builder{}
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		p.pos++
		if c == '`' {
			if p.pos < len(p.s) && p.s[p.pos] == '`' { // escaped
				sb.WriteByte('`')
				p.pos++
				continue
			}
			return sb.String(), nil
		}
		sb.WriteByte(c)
	}
	return "", p.errorf("unterminated quoted name")
}

func (p *parser) number() (uint32, error) {
	n, err := strconv.ParseUint(p.word(), 10, 32)
	if err != nil {
		return 0, p.errorf("expect number")
	}
	return uint32(n), nil
}

func (p *parser) parseType() (*TypeDescription, error) {
	category := strings.ToLower(p.word())
	switch category {
	case "boolean":
		return &TypeDescription{Kind: pb.Type_BOOLEAN}, nil
	case "tinyint", "byte":
		return &TypeDescription{Kind: pb.Type_BYTE}, nil
	case "smallint", "short":
		return &TypeDescription{Kind: pb.Type_SHORT}, nil
	case "int", "integer":
		return &TypeDescription{Kind: pb.Type_INT}, nil
	case "bigint", "long":
		return &TypeDescription{Kind: pb.Type_LONG}, nil
	case "float":
		return &TypeDescription{Kind: pb.Type_FLOAT}, nil
	case "double":
		return &TypeDescription{Kind: pb.Type_DOUBLE}, nil
	case "string":
		return &TypeDescription{Kind: pb.Type_STRING}, nil
	case "binary":
		return &TypeDescription{Kind: pb.Type_BINARY}, nil
	case "date":
		return &TypeDescription{Kind: pb.Type_DATE}, nil
	case "timestamp":
		save := p.pos
		if strings.ToLower(p.word()) == "with" {
			for _, w := range []string{"local", "time", "zone"} {
				if strings.ToLower(p.word()) != w {
					return nil, p.errorf("expect %s", w)
				}
			}
			return &TypeDescription{Kind: pb.Type_TIMESTAMP_INSTANT}, nil
		}
		p.pos = save
		return &TypeDescription{Kind: pb.Type_TIMESTAMP}, nil

	case "decimal":
		td := &TypeDescription{Kind: pb.Type_DECIMAL, Precision: DefaultDecimalPrecision, Scale: DefaultDecimalScale}
		if p.peek() != '(' {
			return td, nil
		}
		p.pos++
		var err error
		if td.Precision, err = p.number(); err != nil {
			return nil, err
		}
		if err = p.expect(','); err != nil {
			return nil, err
		}
		if td.Scale, err = p.number(); err != nil {
			return nil, err
		}
		if td.Precision == 0 || td.Precision > 38 || td.Scale > td.Precision {
			return nil, p.errorf("decimal(%d,%d) out of range", td.Precision, td.Scale)
		}
		return td, p.expect(')')

	case "char", "varchar":
		td := &TypeDescription{Kind: pb.Type_VARCHAR}
		if category == "char" {
			td.Kind = pb.Type_CHAR
		}
		if err := p.expect('('); err != nil {
			return nil, err
		}
		var err error
		if td.MaximumLength, err = p.number(); err != nil {
			return nil, err
		}
		return td, p.expect(')')

	case "array":
		td := &TypeDescription{Kind: pb.Type_LIST}
		return td, p.parseChildren(td, false)
	case "map":
		td := &TypeDescription{Kind: pb.Type_MAP}
		return td, p.parseChildren(td, false)
	case "uniontype":
		td := &TypeDescription{Kind: pb.Type_UNION}
		return td, p.parseChildren(td, false)
	case "struct":
		td := &TypeDescription{Kind: pb.Type_STRUCT}
		return td, p.parseChildren(td, true)
	}
	return nil, p.errorf("unknown type %q", category)
}

func (p *parser) parseChildren(td *TypeDescription, named bool) error {
	if err := p.expect('<'); err != nil {
		return err
	}
	if p.peek() == '>' {
		p.pos++
		return nil
	}
	for {
		if named {
			n, err := p.name()
			if err != nil {
				return err
			}
			if err = p.expect(':'); err != nil {
				return err
			}
			td.ChildrenNames = append(td.ChildrenNames, n)
		}
		child, err := p.parseType()
		if err != nil {
			return err
		}
		td.Children = append(td.Children, child)
		switch p.peek() {
		case ',':
			p.pos++
		case '>':
			p.pos++
			return nil
		default:
			return p.errorf("expect ',' or '>'")
		}
	}
}
