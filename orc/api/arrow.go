package api

import (
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/pkg/errors"

	"github.com/patrickhuang888/orcarrow/orc/common"
	"github.com/patrickhuang888/orcarrow/pb/pb"
)

// ArrowType returns the default arrow type congruent with the tree
func (td *TypeDescription) ArrowType() arrow.DataType {
	switch td.Kind {
	case pb.Type_BOOLEAN:
		return arrow.FixedWidthTypes.Boolean
	case pb.Type_BYTE:
		return arrow.PrimitiveTypes.Int8
	case pb.Type_SHORT:
		return arrow.PrimitiveTypes.Int16
	case pb.Type_INT:
		return arrow.PrimitiveTypes.Int32
	case pb.Type_LONG:
		return arrow.PrimitiveTypes.Int64
	case pb.Type_FLOAT:
		return arrow.PrimitiveTypes.Float32
	case pb.Type_DOUBLE:
		return arrow.PrimitiveTypes.Float64
	case pb.Type_STRING, pb.Type_VARCHAR, pb.Type_CHAR:
		return arrow.BinaryTypes.String
	case pb.Type_BINARY:
		return arrow.BinaryTypes.Binary
	case pb.Type_DECIMAL:
		precision, scale := td.Precision, td.Scale
		if precision == 0 {
			precision, scale = DefaultDecimalPrecision, DefaultDecimalScale
		}
		return &arrow.Decimal128Type{Precision: int32(precision), Scale: int32(scale)}
	case pb.Type_DATE:
		return arrow.FixedWidthTypes.Date32
	case pb.Type_TIMESTAMP:
		return &arrow.TimestampType{Unit: arrow.Nanosecond}
	case pb.Type_TIMESTAMP_INSTANT:
		return &arrow.TimestampType{Unit: arrow.Nanosecond, TimeZone: "UTC"}
	case pb.Type_LIST:
		return arrow.ListOf(td.Children[0].ArrowType())
	case pb.Type_MAP:
		return arrow.MapOf(td.Children[0].ArrowType(), td.Children[1].ArrowType())
	case pb.Type_STRUCT:
		fields := make([]arrow.Field, len(td.Children))
		for i, c := range td.Children {
			fields[i] = c.ArrowField(td.ChildrenNames[i])
		}
		return arrow.StructOf(fields...)
	case pb.Type_UNION:
		fields := make([]arrow.Field, len(td.Children))
		codes := make([]arrow.UnionTypeCode, len(td.Children))
		for i, c := range td.Children {
			fields[i] = c.ArrowField(strconv.Itoa(i))
			codes[i] = arrow.UnionTypeCode(i)
		}
		return arrow.DenseUnionOf(fields, codes)
	}
	return arrow.Null
}

func (td *TypeDescription) ArrowField(name string) arrow.Field {
	return arrow.Field{Name: name, Type: td.ArrowType(), Nullable: true}
}

// ArrowSchema maps a root struct to a schema, one field per child
func (td *TypeDescription) ArrowSchema() (*arrow.Schema, error) {
	if td.Kind != pb.Type_STRUCT {
		return nil, errors.Wrapf(common.ErrMismatchedSchema, "root type %s is not struct", td.Kind)
	}
	fields := make([]arrow.Field, len(td.Children))
	for i, c := range td.Children {
		fields[i] = c.ArrowField(td.ChildrenNames[i])
	}
	return arrow.NewSchema(fields, nil), nil
}
