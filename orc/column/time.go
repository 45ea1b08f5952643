package column

import (
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/pkg/errors"

	"github.com/patrickhuang888/orcarrow/orc/api"
	"github.com/patrickhuang888/orcarrow/orc/common"
	"github.com/patrickhuang888/orcarrow/orc/encoding"
	"github.com/patrickhuang888/orcarrow/pb/pb"
)

// timestamps have seconds from 2015-01-01 in signed DATA and encoded nanos in
// unsigned SECONDARY. Timestamp columns count from the writer timezone and
// decode to wall clock, instant columns count from UTC.
func newTimestampDecoder(b *base, kind pb.ColumnEncoding_Kind, loc *time.Location) (ArrayBatchDecoder, error) {
	seconds, err := b.intStream(pb.Stream_DATA, kind, true)
	if err != nil {
		return nil, err
	}
	nanos, err := b.intStream(pb.Stream_SECONDARY, kind, false)
	if err != nil {
		return nil, err
	}

	instant := b.column.DataType().Kind == pb.Type_TIMESTAMP_INSTANT
	if instant {
		loc = time.UTC
	}
	unit := b.column.Field().Type.(*arrow.TimestampType).Unit
	multiplier := int64(unit.Multiplier())

	return &valueDecoder[arrow.Timestamp]{base: b,
		next: func() (arrow.Timestamp, error) {
			s, err := seconds.Next()
			if err != nil {
				return 0, b.streamErr(err, pb.Stream_DATA)
			}
			encoded, err := nanos.Next()
			if err != nil {
				return 0, b.streamErr(err, pb.Stream_SECONDARY)
			}
			n := encoding.DecodingNano(uint64(encoded))
			if !encoding.ValidNanos(n) {
				return 0, errors.Wrapf(common.ErrCorrupt, "%s nanos %d", b.column, n)
			}

			t := api.Timestamp{Loc: loc, Seconds: s, Nanos: uint32(n)}.Time()
			var ns int64
			if instant {
				ns = t.UnixNano()
			} else {
				ns = api.WallClockNanos(t)
			}
			return arrow.Timestamp(floorDiv(ns, multiplier)), nil
		},
		newArray: func(values []arrow.Timestamp, valid []bool) arrow.Array {
			return buildArray(array.NewTimestampBuilder(b.mem, b.column.Field().Type.(*arrow.TimestampType)), values,
				valid)
		}}, nil
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
