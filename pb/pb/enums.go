package pb

import "strconv"

type CompressionKind int32

const (
	CompressionKind_NONE   CompressionKind = 0
	CompressionKind_ZLIB   CompressionKind = 1
	CompressionKind_SNAPPY CompressionKind = 2
	CompressionKind_LZO    CompressionKind = 3
	CompressionKind_LZ4    CompressionKind = 4
	CompressionKind_ZSTD   CompressionKind = 5
)

var CompressionKind_name = map[int32]string{
	0: "NONE",
	1: "ZLIB",
	2: "SNAPPY",
	3: "LZO",
	4: "LZ4",
	5: "ZSTD",
}

var CompressionKind_value = map[string]int32{
	"NONE":   0,
	"ZLIB":   1,
	"SNAPPY": 2,
	"LZO":    3,
	"LZ4":    4,
	"ZSTD":   5,
}

func (x CompressionKind) Enum() *CompressionKind {
	p := new(CompressionKind)
	*p = x
	return p
}

func (x CompressionKind) String() string {
	return enumName(CompressionKind_name, int32(x))
}

type Stream_Kind int32

const (
	Stream_PRESENT           Stream_Kind = 0
	Stream_DATA              Stream_Kind = 1
	Stream_LENGTH            Stream_Kind = 2
	Stream_DICTIONARY_DATA   Stream_Kind = 3
	Stream_DICTIONARY_COUNT  Stream_Kind = 4
	Stream_SECONDARY         Stream_Kind = 5
	Stream_ROW_INDEX         Stream_Kind = 6
	Stream_BLOOM_FILTER      Stream_Kind = 7
	Stream_BLOOM_FILTER_UTF8 Stream_Kind = 8
	Stream_ENCRYPTED_INDEX   Stream_Kind = 9
	Stream_ENCRYPTED_DATA    Stream_Kind = 10
	Stream_STRIPE_STATISTICS Stream_Kind = 100
	Stream_FILE_STATISTICS   Stream_Kind = 101
)

var Stream_Kind_name = map[int32]string{
	0:   "PRESENT",
	1:   "DATA",
	2:   "LENGTH",
	3:   "DICTIONARY_DATA",
	4:   "DICTIONARY_COUNT",
	5:   "SECONDARY",
	6:   "ROW_INDEX",
	7:   "BLOOM_FILTER",
	8:   "BLOOM_FILTER_UTF8",
	9:   "ENCRYPTED_INDEX",
	10:  "ENCRYPTED_DATA",
	100: "STRIPE_STATISTICS",
	101: "FILE_STATISTICS",
}

func (x Stream_Kind) Enum() *Stream_Kind {
	p := new(Stream_Kind)
	*p = x
	return p
}

func (x Stream_Kind) String() string {
	return enumName(Stream_Kind_name, int32(x))
}

// IsIndex reports whether the stream lives in the stripe's index section.
func (x Stream_Kind) IsIndex() bool {
	return x == Stream_ROW_INDEX || x == Stream_BLOOM_FILTER || x == Stream_BLOOM_FILTER_UTF8
}

type ColumnEncoding_Kind int32

const (
	ColumnEncoding_DIRECT        ColumnEncoding_Kind = 0
	ColumnEncoding_DICTIONARY    ColumnEncoding_Kind = 1
	ColumnEncoding_DIRECT_V2     ColumnEncoding_Kind = 2
	ColumnEncoding_DICTIONARY_V2 ColumnEncoding_Kind = 3
)

var ColumnEncoding_Kind_name = map[int32]string{
	0: "DIRECT",
	1: "DICTIONARY",
	2: "DIRECT_V2",
	3: "DICTIONARY_V2",
}

func (x ColumnEncoding_Kind) Enum() *ColumnEncoding_Kind {
	p := new(ColumnEncoding_Kind)
	*p = x
	return p
}

func (x ColumnEncoding_Kind) String() string {
	return enumName(ColumnEncoding_Kind_name, int32(x))
}

type Type_Kind int32

const (
	Type_BOOLEAN           Type_Kind = 0
	Type_BYTE              Type_Kind = 1
	Type_SHORT             Type_Kind = 2
	Type_INT               Type_Kind = 3
	Type_LONG              Type_Kind = 4
	Type_FLOAT             Type_Kind = 5
	Type_DOUBLE            Type_Kind = 6
	Type_STRING            Type_Kind = 7
	Type_BINARY            Type_Kind = 8
	Type_TIMESTAMP         Type_Kind = 9
	Type_LIST              Type_Kind = 10
	Type_MAP               Type_Kind = 11
	Type_STRUCT            Type_Kind = 12
	Type_UNION             Type_Kind = 13
	Type_DECIMAL           Type_Kind = 14
	Type_DATE              Type_Kind = 15
	Type_VARCHAR           Type_Kind = 16
	Type_CHAR              Type_Kind = 17
	Type_TIMESTAMP_INSTANT Type_Kind = 18
)

var Type_Kind_name = map[int32]string{
	0:  "BOOLEAN",
	1:  "BYTE",
	2:  "SHORT",
	3:  "INT",
	4:  "LONG",
	5:  "FLOAT",
	6:  "DOUBLE",
	7:  "STRING",
	8:  "BINARY",
	9:  "TIMESTAMP",
	10: "LIST",
	11: "MAP",
	12: "STRUCT",
	13: "UNION",
	14: "DECIMAL",
	15: "DATE",
	16: "VARCHAR",
	17: "CHAR",
	18: "TIMESTAMP_INSTANT",
}

func (x Type_Kind) Enum() *Type_Kind {
	p := new(Type_Kind)
	*p = x
	return p
}

func (x Type_Kind) String() string {
	return enumName(Type_Kind_name, int32(x))
}

func enumName(names map[int32]string, v int32) string {
	if s, ok := names[v]; ok {
		return s
	}
	return strconv.Itoa(int(v))
}
