package api

import (
	"time"
)

var epoch = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

// FromDays converts days since 1970-01-01
func FromDays(days int32) time.Time {
	return epoch.AddDate(0, 0, int(days))
}

// ToDays days from 1970, Jan, 1 UTC
func ToDays(d time.Time) int32 {
	y, m, day := d.Date()
	return int32(time.Date(y, m, day, 0, 0, 0, 0, time.UTC).Sub(epoch).Hours() / 24)
}

// Timestamp as stored in a stripe, seconds since 2015-01-01 00:00:00 of Loc
type Timestamp struct {
	Loc     *time.Location
	Seconds int64
	Nanos   uint32
}

func baseSeconds(loc *time.Location) int64 {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(2015, time.January, 1, 0, 0, 0, 0, loc).Unix()
}

func (t Timestamp) Time() time.Time {
	loc := t.Loc
	if loc == nil {
		loc = time.UTC
	}
	secs := baseSeconds(loc) + t.Seconds
	if secs < 0 && t.Nanos > 999_999 {
		secs--
	}
	return time.Unix(secs, int64(t.Nanos)).In(loc)
}

// WallClockNanos returns nanoseconds of the local wall clock reading as if it were UTC
func WallClockNanos(t time.Time) int64 {
	y, m, d := t.Date()
	h, mi, s := t.Clock()
	return time.Date(y, m, d, h, mi, s, t.Nanosecond(), time.UTC).UnixNano()
}

// GetTimestamp stores t relative to the base of loc. Negative seconds with
// nanos over a millisecond are stored one up, as writers do
func GetTimestamp(t time.Time, loc *time.Location) Timestamp {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	secs := t.Unix()
	nanos := t.Nanosecond()
	if secs < 0 && nanos > 999_999 {
		secs++
	}
	return Timestamp{Loc: loc, Seconds: secs - baseSeconds(loc), Nanos: uint32(nanos)}
}
