// Package pb holds the subset of the ORC footer protocol (orc_proto.proto)
// read by the stripe decoder. Messages are encoded and decoded with protowire;
// unknown fields are skipped.
package pb

import (
	"fmt"
	"strings"

	"google.golang.org/protobuf/encoding/protowire"
)

type Stream struct {
	Kind   *Stream_Kind
	Column *uint32
	Length *uint64
}

func (m *Stream) GetKind() Stream_Kind {
	if m != nil && m.Kind != nil {
		return *m.Kind
	}
	return Stream_PRESENT
}

func (m *Stream) GetColumn() uint32 {
	if m != nil && m.Column != nil {
		return *m.Column
	}
	return 0
}

func (m *Stream) GetLength() uint64 {
	if m != nil && m.Length != nil {
		return *m.Length
	}
	return 0
}

func (m *Stream) String() string {
	return fmt.Sprintf("kind:%s column:%d length:%d", m.GetKind(), m.GetColumn(), m.GetLength())
}

func (m *Stream) Unmarshal(b []byte) error {
	*m = Stream{}
	return walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n := consumeVarint(typ, b)
			if n > 0 {
				m.Kind = Stream_Kind(v).Enum()
			}
			return n, nil
		case 2:
			v, n := consumeVarint(typ, b)
			if n > 0 {
				c := uint32(v)
				m.Column = &c
			}
			return n, nil
		case 3:
			v, n := consumeVarint(typ, b)
			if n > 0 {
				m.Length = &v
			}
			return n, nil
		}
		return 0, nil
	})
}

func (m *Stream) Marshal() ([]byte, error) {
	var b []byte
	if m.Kind != nil {
		b = appendVarint(b, 1, uint64(*m.Kind))
	}
	if m.Column != nil {
		b = appendVarint(b, 2, uint64(*m.Column))
	}
	if m.Length != nil {
		b = appendVarint(b, 3, *m.Length)
	}
	return b, nil
}

type ColumnEncoding struct {
	Kind           *ColumnEncoding_Kind
	DictionarySize *uint32
}

func (m *ColumnEncoding) GetKind() ColumnEncoding_Kind {
	if m != nil && m.Kind != nil {
		return *m.Kind
	}
	return ColumnEncoding_DIRECT
}

func (m *ColumnEncoding) GetDictionarySize() uint32 {
	if m != nil && m.DictionarySize != nil {
		return *m.DictionarySize
	}
	return 0
}

func (m *ColumnEncoding) String() string {
	return fmt.Sprintf("kind:%s dictionarySize:%d", m.GetKind(), m.GetDictionarySize())
}

func (m *ColumnEncoding) Unmarshal(b []byte) error {
	*m = ColumnEncoding{}
	return walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n := consumeVarint(typ, b)
			if n > 0 {
				m.Kind = ColumnEncoding_Kind(v).Enum()
			}
			return n, nil
		case 2:
			v, n := consumeVarint(typ, b)
			if n > 0 {
				s := uint32(v)
				m.DictionarySize = &s
			}
			return n, nil
		}
		return 0, nil
	})
}

func (m *ColumnEncoding) Marshal() ([]byte, error) {
	var b []byte
	if m.Kind != nil {
		b = appendVarint(b, 1, uint64(*m.Kind))
	}
	if m.DictionarySize != nil {
		b = appendVarint(b, 2, uint64(*m.DictionarySize))
	}
	return b, nil
}

type StripeFooter struct {
	Streams        []*Stream
	Columns        []*ColumnEncoding
	WriterTimezone *string
}

func (m *StripeFooter) GetStreams() []*Stream {
	if m != nil {
		return m.Streams
	}
	return nil
}

func (m *StripeFooter) GetColumns() []*ColumnEncoding {
	if m != nil {
		return m.Columns
	}
	return nil
}

func (m *StripeFooter) GetWriterTimezone() string {
	if m != nil && m.WriterTimezone != nil {
		return *m.WriterTimezone
	}
	return ""
}

func (m *StripeFooter) String() string {
	sb := strings.Builder{}
	for _, s := range m.GetStreams() {
		fmt.Fprintf(&sb, "streams:<%s> ", s.String())
	}
	for _, c := range m.GetColumns() {
		fmt.Fprintf(&sb, "columns:<%s> ", c.String())
	}
	if m.WriterTimezone != nil {
		fmt.Fprintf(&sb, "writerTimezone:%q", m.GetWriterTimezone())
	}
	return strings.TrimSpace(sb.String())
}

func (m *StripeFooter) Unmarshal(b []byte) error {
	*m = StripeFooter{}
	return walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n := consumeBytes(typ, b)
			if n <= 0 {
				return n, nil
			}
			s := &Stream{}
			if err := s.Unmarshal(v); err != nil {
				return 0, err
			}
			m.Streams = append(m.Streams, s)
			return n, nil
		case 2:
			v, n := consumeBytes(typ, b)
			if n <= 0 {
				return n, nil
			}
			c := &ColumnEncoding{}
			if err := c.Unmarshal(v); err != nil {
				return 0, err
			}
			m.Columns = append(m.Columns, c)
			return n, nil
		case 3:
			v, n := consumeBytes(typ, b)
			if n > 0 {
				tz := string(v)
				m.WriterTimezone = &tz
			}
			return n, nil
		}
		return 0, nil
	})
}

func (m *StripeFooter) Marshal() ([]byte, error) {
	var b []byte
	for _, s := range m.Streams {
		sb, err := s.Marshal()
		if err != nil {
			return nil, err
		}
		b = appendMessage(b, 1, sb)
	}
	for _, c := range m.Columns {
		cb, err := c.Marshal()
		if err != nil {
			return nil, err
		}
		b = appendMessage(b, 2, cb)
	}
	if m.WriterTimezone != nil {
		b = appendMessage(b, 3, []byte(*m.WriterTimezone))
	}
	return b, nil
}

type StripeInformation struct {
	Offset       *uint64
	IndexLength  *uint64
	DataLength   *uint64
	FooterLength *uint64
	NumberOfRows *uint64
}

func (m *StripeInformation) GetOffset() uint64 {
	if m != nil && m.Offset != nil {
		return *m.Offset
	}
	return 0
}

func (m *StripeInformation) GetIndexLength() uint64 {
	if m != nil && m.IndexLength != nil {
		return *m.IndexLength
	}
	return 0
}

func (m *StripeInformation) GetDataLength() uint64 {
	if m != nil && m.DataLength != nil {
		return *m.DataLength
	}
	return 0
}

func (m *StripeInformation) GetFooterLength() uint64 {
	if m != nil && m.FooterLength != nil {
		return *m.FooterLength
	}
	return 0
}

func (m *StripeInformation) GetNumberOfRows() uint64 {
	if m != nil && m.NumberOfRows != nil {
		return *m.NumberOfRows
	}
	return 0
}

func (m *StripeInformation) Unmarshal(b []byte) error {
	*m = StripeInformation{}
	return walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		var dst **uint64
		switch num {
		case 1:
			dst = &m.Offset
		case 2:
			dst = &m.IndexLength
		case 3:
			dst = &m.DataLength
		case 4:
			dst = &m.FooterLength
		case 5:
			dst = &m.NumberOfRows
		default:
			return 0, nil
		}
		v, n := consumeVarint(typ, b)
		if n > 0 {
			*dst = &v
		}
		return n, nil
	})
}

func (m *StripeInformation) Marshal() ([]byte, error) {
	var b []byte
	for i, v := range []*uint64{m.Offset, m.IndexLength, m.DataLength, m.FooterLength, m.NumberOfRows} {
		if v != nil {
			b = appendVarint(b, protowire.Number(i+1), *v)
		}
	}
	return b, nil
}

type ColumnStatistics struct {
	NumberOfValues *uint64
}

func (m *ColumnStatistics) GetNumberOfValues() uint64 {
	if m != nil && m.NumberOfValues != nil {
		return *m.NumberOfValues
	}
	return 0
}

func (m *ColumnStatistics) Unmarshal(b []byte) error {
	*m = ColumnStatistics{}
	return walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != 1 {
			return 0, nil
		}
		v, n := consumeVarint(typ, b)
		if n > 0 {
			m.NumberOfValues = &v
		}
		return n, nil
	})
}

func (m *ColumnStatistics) Marshal() ([]byte, error) {
	var b []byte
	if m.NumberOfValues != nil {
		b = appendVarint(b, 1, *m.NumberOfValues)
	}
	return b, nil
}

type StripeStatistics struct {
	ColStats []*ColumnStatistics
}

func (m *StripeStatistics) GetColStats() []*ColumnStatistics {
	if m != nil {
		return m.ColStats
	}
	return nil
}

func (m *StripeStatistics) Unmarshal(b []byte) error {
	*m = StripeStatistics{}
	return walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != 1 {
			return 0, nil
		}
		v, n := consumeBytes(typ, b)
		if n <= 0 {
			return n, nil
		}
		cs := &ColumnStatistics{}
		if err := cs.Unmarshal(v); err != nil {
			return 0, err
		}
		m.ColStats = append(m.ColStats, cs)
		return n, nil
	})
}

func (m *StripeStatistics) Marshal() ([]byte, error) {
	var b []byte
	for _, cs := range m.ColStats {
		cb, err := cs.Marshal()
		if err != nil {
			return nil, err
		}
		b = appendMessage(b, 1, cb)
	}
	return b, nil
}

type Type struct {
	Kind          *Type_Kind
	Subtypes      []uint32
	FieldNames    []string
	MaximumLength *uint32
	Precision     *uint32
	Scale         *uint32
}

func (m *Type) GetKind() Type_Kind {
	if m != nil && m.Kind != nil {
		return *m.Kind
	}
	return Type_BOOLEAN
}

func (m *Type) GetSubtypes() []uint32 {
	if m != nil {
		return m.Subtypes
	}
	return nil
}

func (m *Type) GetFieldNames() []string {
	if m != nil {
		return m.FieldNames
	}
	return nil
}

func (m *Type) GetMaximumLength() uint32 {
	if m != nil && m.MaximumLength != nil {
		return *m.MaximumLength
	}
	return 0
}

func (m *Type) GetPrecision() uint32 {
	if m != nil && m.Precision != nil {
		return *m.Precision
	}
	return 0
}

func (m *Type) GetScale() uint32 {
	if m != nil && m.Scale != nil {
		return *m.Scale
	}
	return 0
}

func (m *Type) Unmarshal(b []byte) error {
	*m = Type{}
	return walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n := consumeVarint(typ, b)
			if n > 0 {
				m.Kind = Type_Kind(v).Enum()
			}
			return n, nil
		case 2:
			if typ == protowire.BytesType { // packed
				v, n := protowire.ConsumeBytes(b)
				if n < 0 {
					return n, nil
				}
				for len(v) > 0 {
					x, k := protowire.ConsumeVarint(v)
					if k < 0 {
						return k, nil
					}
					m.Subtypes = append(m.Subtypes, uint32(x))
					v = v[k:]
				}
				return n, nil
			}
			v, n := consumeVarint(typ, b)
			if n > 0 {
				m.Subtypes = append(m.Subtypes, uint32(v))
			}
			return n, nil
		case 3:
			v, n := consumeBytes(typ, b)
			if n > 0 {
				m.FieldNames = append(m.FieldNames, string(v))
			}
			return n, nil
		case 4, 5, 6:
			v, n := consumeVarint(typ, b)
			if n > 0 {
				x := uint32(v)
				switch num {
				case 4:
					m.MaximumLength = &x
				case 5:
					m.Precision = &x
				default:
					m.Scale = &x
				}
			}
			return n, nil
		}
		return 0, nil
	})
}

func (m *Type) Marshal() ([]byte, error) {
	var b []byte
	if m.Kind != nil {
		b = appendVarint(b, 1, uint64(*m.Kind))
	}
	if len(m.Subtypes) != 0 {
		var packed []byte
		for _, s := range m.Subtypes {
			packed = protowire.AppendVarint(packed, uint64(s))
		}
		b = appendMessage(b, 2, packed)
	}
	for _, name := range m.FieldNames {
		b = appendMessage(b, 3, []byte(name))
	}
	if m.MaximumLength != nil {
		b = appendVarint(b, 4, uint64(*m.MaximumLength))
	}
	if m.Precision != nil {
		b = appendVarint(b, 5, uint64(*m.Precision))
	}
	if m.Scale != nil {
		b = appendVarint(b, 6, uint64(*m.Scale))
	}
	return b, nil
}

// walkFields calls fn for every field in b. fn returns the number of bytes of
// the field value it consumed, 0 to have the field skipped, or a negative
// protowire error code.
func walkFields(b []byte, fn func(num protowire.Number, typ protowire.Type, b []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		m, err := fn(num, typ, b)
		if err != nil {
			return err
		}
		if m == 0 {
			m = protowire.ConsumeFieldValue(num, typ, b)
		}
		if m < 0 {
			return protowire.ParseError(m)
		}
		b = b[m:]
	}
	return nil
}

func consumeVarint(typ protowire.Type, b []byte) (uint64, int) {
	if typ != protowire.VarintType {
		return 0, 0
	}
	return protowire.ConsumeVarint(b)
}

func consumeBytes(typ protowire.Type, b []byte) ([]byte, int) {
	if typ != protowire.BytesType {
		return nil, 0
	}
	return protowire.ConsumeBytes(b)
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendMessage(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}
