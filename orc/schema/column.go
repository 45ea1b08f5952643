// Package schema pairs nodes of the ORC type tree with the arrow fields they
// decode into.
package schema

import (
	"fmt"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/patrickhuang888/orcarrow/orc/api"
	"github.com/patrickhuang888/orcarrow/orc/common"
	"github.com/patrickhuang888/orcarrow/pb/pb"
)

var logger = log.New()

func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}

// Column is one ORC type node bound to its output field within a stripe.
// The footer is shared by all columns of the stripe and never modified.
type Column struct {
	name         string
	dataType     *api.TypeDescription
	field        arrow.Field
	footer       *pb.StripeFooter
	numberOfRows uint64
}

func NewColumn(name string, dataType *api.TypeDescription, footer *pb.StripeFooter, numberOfRows uint64,
	field arrow.Field) *Column {
	return &Column{name: name, dataType: dataType, field: field, footer: footer, numberOfRows: numberOfRows}
}

func (c *Column) Name() string {
	return c.name
}

func (c *Column) DataType() *api.TypeDescription {
	return c.dataType
}

func (c *Column) Field() arrow.Field {
	return c.field
}

func (c *Column) ColumnID() uint32 {
	return c.dataType.Id
}

func (c *Column) NumberOfRows() uint64 {
	return c.numberOfRows
}

func (c *Column) Footer() *pb.StripeFooter {
	return c.footer
}

func (c *Column) String() string {
	return fmt.Sprintf("column %s (id %d, %s)", c.name, c.dataType.Id, c.dataType.Kind)
}

// Encoding returns the footer encoding entry of the column
func (c *Column) Encoding() (*pb.ColumnEncoding, error) {
	encodings := c.footer.GetColumns()
	if int(c.dataType.Id) >= len(encodings) {
		return nil, errors.Wrapf(common.ErrInvalidColumn, "%s has no encoding, footer has %d", c, len(encodings))
	}
	return encodings[c.dataType.Id], nil
}

func (c *Column) DictionarySize() uint32 {
	encodings := c.footer.GetColumns()
	if int(c.dataType.Id) >= len(encodings) {
		return 0
	}
	return encodings[c.dataType.Id].GetDictionarySize()
}

func (c *Column) child(name string, dataType *api.TypeDescription, field arrow.Field) *Column {
	return &Column{name: name, dataType: dataType, field: field, footer: c.footer, numberOfRows: c.numberOfRows}
}

func (c *Column) mismatch() error {
	return errors.Wrapf(common.ErrMismatchedSchema, "orc type %s, arrow type %s", c.dataType, c.field.Type)
}

// Children pairs the type children with the children of the output field.
// Leaves have none. The result is derived anew on every call.
func (c *Column) Children() ([]*Column, error) {
	fieldType := c.field.Type
	td := c.dataType
	logger.Tracef("resolve children of %s to %s", c, fieldType)

	switch td.Kind {
	case pb.Type_STRUCT:
		st, ok := fieldType.(*arrow.StructType)
		if !ok || st.NumFields() != len(td.Children) {
			return nil, c.mismatch()
		}
		children := make([]*Column, len(td.Children))
		for i, ctd := range td.Children {
			children[i] = c.child(td.ChildrenNames[i], ctd, st.Field(i))
		}
		return children, nil

	case pb.Type_LIST:
		lt, ok := fieldType.(*arrow.ListType)
		if !ok {
			return nil, c.mismatch()
		}
		return []*Column{c.child("item", td.Children[0], lt.ElemField())}, nil

	case pb.Type_MAP:
		mt, ok := fieldType.(*arrow.MapType)
		if !ok {
			return nil, c.mismatch()
		}
		if mt.KeysSorted {
			return nil, errors.Wrapf(common.ErrUnsupportedTypeVariant, "%s sorted map", c)
		}
		entries, ok := mt.Elem().(*arrow.StructType)
		if !ok {
			return nil, errors.Wrapf(common.ErrUnexpected, "arrow map with non-struct entry type %s", mt.Elem())
		}
		if entries.NumFields() != 2 {
			return nil, errors.Wrapf(common.ErrUnexpected, "arrow map with %d columns per entry (expected 2)",
				entries.NumFields())
		}
		return []*Column{
			c.child("key", td.Children[0], entries.Field(0)),
			c.child("value", td.Children[1], entries.Field(1)),
		}, nil

	case pb.Type_UNION:
		ut, ok := fieldType.(arrow.UnionType)
		if !ok {
			return nil, c.mismatch()
		}
		fields := ut.Fields()
		codes := ut.TypeCodes()
		if len(fields) != len(td.Children) {
			return nil, c.mismatch()
		}
		children := make([]*Column, len(td.Children))
		for i, ctd := range td.Children {
			if int(codes[i]) != i {
				return nil, errors.Wrapf(common.ErrMismatchedSchema, "%s variant %d has type code %d", c, i,
					codes[i])
			}
			children[i] = c.child(strconv.Itoa(i), ctd, fields[i])
		}
		return children, nil
	}

	return nil, nil
}

// CheckLeaf checks a primitive type can be decoded into the output field type
func (c *Column) CheckLeaf() error {
	td := c.dataType
	if !td.IsPrimitive() {
		return nil
	}
	ft := c.field.Type
	var ok bool

	switch td.Kind {
	case pb.Type_BOOLEAN:
		ok = ft.ID() == arrow.BOOL
	case pb.Type_BYTE:
		ok = ft.ID() == arrow.INT8
	case pb.Type_SHORT:
		ok = ft.ID() == arrow.INT16
	case pb.Type_INT:
		ok = ft.ID() == arrow.INT32
	case pb.Type_LONG:
		ok = ft.ID() == arrow.INT64
	case pb.Type_FLOAT:
		ok = ft.ID() == arrow.FLOAT32
	case pb.Type_DOUBLE:
		ok = ft.ID() == arrow.FLOAT64
	case pb.Type_STRING, pb.Type_VARCHAR, pb.Type_CHAR:
		switch ft.ID() {
		case arrow.STRING, arrow.LARGE_STRING, arrow.BINARY:
			ok = true
		case arrow.DICTIONARY:
			dt := ft.(*arrow.DictionaryType)
			ok = dt.ValueType.ID() == arrow.STRING && arrow.IsInteger(dt.IndexType.ID())
		}
	case pb.Type_BINARY:
		ok = ft.ID() == arrow.BINARY || ft.ID() == arrow.LARGE_BINARY
	case pb.Type_DECIMAL:
		ok = ft.ID() == arrow.DECIMAL128
	case pb.Type_DATE:
		ok = ft.ID() == arrow.DATE32
	case pb.Type_TIMESTAMP, pb.Type_TIMESTAMP_INSTANT:
		ok = ft.ID() == arrow.TIMESTAMP
	}

	if !ok {
		return c.mismatch()
	}
	return nil
}
