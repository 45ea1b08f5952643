package encoding

import "time"

// seconds of timestamp DATA are relative to 2015-01-01 00:00:00
var TimestampBase = time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC).Unix()

const maxNanos = 999_999_999

// EncodingNano stores nanos with trailing zeros count in the low 3 bits
func EncodingNano(nanos uint64) (encoded uint64) {
	if nanos == 0 {
		return 0
	} else if nanos%100 != 0 {
		return nanos << 3 // no encoding if less 2 zeros
	}
	nanos /= 100
	trailingZeros := 1
	for nanos%10 == 0 && trailingZeros < 7 { // 3 bits
		nanos /= 10
		trailingZeros++
	}
	return nanos<<3 | uint64(trailingZeros)
}

func DecodingNano(encoded uint64) (nano int64) {
	zeros := 0x07 & encoded
	nano = int64(encoded >> 3)
	if zeros != 0 {
		for i := 0; i <= int(zeros); i++ {
			nano *= 10
		}
	}
	return
}

// TimestampSeconds combines epoch seconds (DATA plus base) and SECONDARY encoded
// nanos. Negative seconds carry a borrow.
func TimestampSeconds(seconds int64, encodedNanos uint64) (int64, int64) {
	nanos := DecodingNano(encodedNanos)
	if seconds < 0 && nanos > 999_999 {
		seconds--
	}
	return seconds, nanos
}

func ValidNanos(nanos int64) bool {
	return nanos >= 0 && nanos <= maxNanos
}
