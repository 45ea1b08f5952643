package api

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/patrickhuang888/orcarrow/orc/common"
	"github.com/patrickhuang888/orcarrow/pb/pb"
)

// TypeDescription is one node of the ORC logical type tree. Id is the column
// index assigned by pre-order traversal.
type TypeDescription struct {
	Id            uint32
	Kind          pb.Type_Kind
	ChildrenNames []string
	Children      []*TypeDescription

	// decimal
	Precision uint32
	Scale     uint32
	// char, varchar
	MaximumLength uint32
}

const (
	DefaultDecimalPrecision = 38
	DefaultDecimalScale     = 10
)

var categoryNames = map[pb.Type_Kind]string{
	pb.Type_BOOLEAN:           "boolean",
	pb.Type_BYTE:              "tinyint",
	pb.Type_SHORT:             "smallint",
	pb.Type_INT:               "int",
	pb.Type_LONG:              "bigint",
	pb.Type_FLOAT:             "float",
	pb.Type_DOUBLE:            "double",
	pb.Type_STRING:            "string",
	pb.Type_BINARY:            "binary",
	pb.Type_TIMESTAMP:         "timestamp",
	pb.Type_LIST:              "array",
	pb.Type_MAP:               "map",
	pb.Type_STRUCT:            "struct",
	pb.Type_UNION:             "uniontype",
	pb.Type_DECIMAL:           "decimal",
	pb.Type_DATE:              "date",
	pb.Type_VARCHAR:           "varchar",
	pb.Type_CHAR:              "char",
	pb.Type_TIMESTAMP_INSTANT: "timestamp with local time zone",
}

func (td *TypeDescription) IsPrimitive() bool {
	switch td.Kind {
	case pb.Type_LIST, pb.Type_MAP, pb.Type_STRUCT, pb.Type_UNION:
		return false
	}
	return true
}

// String returns the type string accepted by ParseSchema
func (td *TypeDescription) String() string {
	sb := &strings.Builder{}
	td.writeTo(sb)
	return sb.String()
}

func (td *TypeDescription) writeTo(sb *strings.Builder) {
	sb.WriteString(categoryNames[td.Kind])
	switch td.Kind {
	case pb.Type_DECIMAL:
		fmt.Fprintf(sb, "(%d,%d)", td.Precision, td.Scale)
	case pb.Type_CHAR, pb.Type_VARCHAR:
		fmt.Fprintf(sb, "(%d)", td.MaximumLength)
	case pb.Type_LIST, pb.Type_MAP, pb.Type_UNION:
		sb.WriteByte('<')
		for i, c := range td.Children {
			if i != 0 {
				sb.WriteByte(',')
			}
			c.writeTo(sb)
		}
		sb.WriteByte('>')
	case pb.Type_STRUCT:
		sb.WriteByte('<')
		for i, c := range td.Children {
			if i != 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(quoteName(td.ChildrenNames[i]))
			sb.WriteByte(':')
			c.writeTo(sb)
		}
		sb.WriteByte('>')
	}
}

func quoteName(name string) string {
	for _, r := range name {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return "`" + strings.ReplaceAll(name, "`", "``") + "`"
		}
	}
	return name
}

// Tree prints the tree with column ids, one node a line
func (td *TypeDescription) Tree() string {
	sb := &strings.Builder{}
	td.printTree(sb, "", 0)
	return sb.String()
}

func (td *TypeDescription) printTree(sb *strings.Builder, name string, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	if name != "" {
		sb.WriteString(name)
		sb.WriteString(": ")
	}
	fmt.Fprintf(sb, "%s (id %d)\n", categoryNames[td.Kind], td.Id)
	for i, c := range td.Children {
		childName := ""
		if i < len(td.ChildrenNames) {
			childName = td.ChildrenNames[i]
		}
		c.printTree(sb, childName, depth+1)
	}
}

// Normalize checks the tree shape, sets ids and flats the tree to a slice in
// pre-order, so that schemas[i].Id == i
func (td *TypeDescription) Normalize() (schemas []*TypeDescription, err error) {
	if err = walkSchema(&schemas, td); err != nil {
		return nil, err
	}
	return
}

// pre-order traverse
func walkSchema(schemas *[]*TypeDescription, node *TypeDescription) error {
	if err := node.checkShape(); err != nil {
		return err
	}
	node.Id = uint32(len(*schemas))
	*schemas = append(*schemas, node)
	for _, td := range node.Children {
		if err := walkSchema(schemas, td); err != nil {
			return err
		}
	}
	return nil
}

func (td *TypeDescription) checkShape() error {
	n := len(td.Children)
	switch td.Kind {
	case pb.Type_STRUCT:
		if len(td.ChildrenNames) != n {
			return errors.Wrapf(common.ErrMismatchedSchema, "struct has %d children and %d names", n, len(td.ChildrenNames))
		}
	case pb.Type_LIST:
		if n != 1 {
			return errors.Wrapf(common.ErrMismatchedSchema, "list has %d children", n)
		}
	case pb.Type_MAP:
		if n != 2 {
			return errors.Wrapf(common.ErrMismatchedSchema, "map has %d children", n)
		}
	case pb.Type_UNION:
		if n == 0 || n > 256 {
			return errors.Wrapf(common.ErrMismatchedSchema, "union has %d variants", n)
		}
	default:
		if n != 0 {
			return errors.Wrapf(common.ErrMismatchedSchema, "%s has %d children", td.Kind, n)
		}
	}
	return nil
}

// Column finds the node of column id in a normalized tree
func (td *TypeDescription) Column(id uint32) *TypeDescription {
	if td.Id == id {
		return td
	}
	for i, c := range td.Children {
		// children ids ascend, skip subtrees before id
		if i+1 < len(td.Children) && td.Children[i+1].Id <= id {
			continue
		}
		return c.Column(id)
	}
	return nil
}

// MaximumId returns the largest column id of the subtree
func (td *TypeDescription) MaximumId() uint32 {
	if len(td.Children) == 0 {
		return td.Id
	}
	return td.Children[len(td.Children)-1].MaximumId()
}

// Select keeps the named children of a normalized root struct, ids unchanged
func (td *TypeDescription) Select(names ...string) (*TypeDescription, error) {
	if td.Kind != pb.Type_STRUCT {
		return nil, errors.Wrapf(common.ErrMismatchedSchema, "select from %s", td.Kind)
	}
	projected := &TypeDescription{Id: td.Id, Kind: td.Kind}
	for _, name := range names {
		found := false
		for i, n := range td.ChildrenNames {
			if n == name {
				projected.ChildrenNames = append(projected.ChildrenNames, n)
				projected.Children = append(projected.Children, td.Children[i])
				found = true
				break
			}
		}
		if !found {
			return nil, errors.Wrapf(common.ErrMismatchedSchema, "no column %s", name)
		}
	}
	return projected, nil
}

// Projection returns ids of the tree, a projected tree yields the ids of
// its kept subtrees and their ancestors
func (td *TypeDescription) Projection() []uint32 {
	var ids []uint32
	var walk func(node *TypeDescription)
	walk = func(node *TypeDescription) {
		ids = append(ids, node.Id)
		for _, c := range node.Children {
			walk(c)
		}
	}
	walk(td)
	return ids
}

func SchemasToTypes(schemas []*TypeDescription) []*pb.Type {
	t := make([]*pb.Type, len(schemas))
	for i, v := range schemas {
		t[i] = &pb.Type{Kind: v.Kind.Enum(), Subtypes: make([]uint32, len(v.Children))}
		if len(v.ChildrenNames) != 0 {
			t[i].FieldNames = append([]string(nil), v.ChildrenNames...)
		}
		for j, vc := range v.Children {
			t[i].Subtypes[j] = vc.Id
		}
		switch v.Kind {
		case pb.Type_DECIMAL:
			p, s := v.Precision, v.Scale
			t[i].Precision = &p
			t[i].Scale = &s
		case pb.Type_CHAR, pb.Type_VARCHAR:
			l := v.MaximumLength
			t[i].MaximumLength = &l
		}
	}
	return t
}

// FromTypes rebuilds the tree from a flattened footer type list, root at 0
func FromTypes(types []*pb.Type) (*TypeDescription, error) {
	if len(types) == 0 {
		return nil, errors.Wrap(common.ErrMismatchedSchema, "no types")
	}
	nodes := make([]*TypeDescription, len(types))
	for i, t := range types {
		nodes[i] = &TypeDescription{Id: uint32(i), Kind: t.GetKind(), Precision: t.GetPrecision(), Scale: t.GetScale(),
			MaximumLength: t.GetMaximumLength()}
		if t.GetKind() == pb.Type_STRUCT {
			nodes[i].ChildrenNames = append([]string(nil), t.GetFieldNames()...)
		}
	}
	for i, t := range types {
		for _, sub := range t.GetSubtypes() {
			if int(sub) <= i || int(sub) >= len(nodes) {
				return nil, errors.Wrapf(common.ErrMismatchedSchema, "type %d has subtype %d", i, sub)
			}
			nodes[i].Children = append(nodes[i].Children, nodes[sub])
		}
	}
	root := nodes[0]
	schemas, err := root.Normalize()
	if err != nil {
		return nil, err
	}
	if len(schemas) != len(types) {
		return nil, errors.Wrapf(common.ErrMismatchedSchema, "%d types reachable of %d", len(schemas), len(types))
	}
	for i, s := range schemas {
		if s != nodes[i] {
			return nil, errors.Wrapf(common.ErrMismatchedSchema, "type %d out of pre-order", i)
		}
	}
	return root, nil
}
