// Package orc reads stripes of an ORC file into arrow records.
//
// The file tail is parsed elsewhere, callers hand in the file compression, the
// type tree and the stripe information. Stripes are independent of each other.
package orc

import (
	log "github.com/sirupsen/logrus"

	"github.com/patrickhuang888/orcarrow/orc/column"
	"github.com/patrickhuang888/orcarrow/orc/common"
	"github.com/patrickhuang888/orcarrow/orc/encoding"
	orcio "github.com/patrickhuang888/orcarrow/orc/io"
	"github.com/patrickhuang888/orcarrow/orc/schema"
	"github.com/patrickhuang888/orcarrow/orc/stream"
	"github.com/patrickhuang888/orcarrow/orc/stripe"
)

var logger = log.New()

func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}

// SetAllLogLevel sets level of every package of the reader
func SetAllLogLevel(level log.Level) {
	SetLogLevel(level)
	column.SetLogLevel(level)
	common.SetLogLevel(level)
	encoding.SetLogLevel(level)
	orcio.SetLogLevel(level)
	schema.SetLogLevel(level)
	stream.SetLogLevel(level)
	stripe.SetLogLevel(level)
}
