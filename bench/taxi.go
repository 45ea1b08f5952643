package main

import (
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	log "github.com/sirupsen/logrus"

	"github.com/patrickhuang888/orcarrow/orc"
	"github.com/patrickhuang888/orcarrow/orc/api"
	"github.com/patrickhuang888/orcarrow/orc/config"
	"github.com/patrickhuang888/orcarrow/orc/encoding"
	orcio "github.com/patrickhuang888/orcarrow/orc/io"
	"github.com/patrickhuang888/orcarrow/orc/stream"
	"github.com/patrickhuang888/orcarrow/orc/stripe"
	"github.com/patrickhuang888/orcarrow/pb/pb"
)

const (
	taxiSchema = "struct<vendor_id:int,pickup_time:timestamp,passenger_count:int,trip_distance:double," +
		"store_and_fwd_flag:string,fare_amount:decimal(8,2)>"
	rows = 1_000_000
)

var flags = []string{"N", "Y"}

func init() {
	log.SetLevel(log.InfoLevel)
	orc.SetAllLogLevel(log.WarnLevel)
}

// taxi builds one stripe of generated trips, flags dictionary encoded
func taxi(wopts *config.WriterOptions) ([]byte, stripe.FileMetadata, *stripe.StripeMetadata, error) {
	b := stripe.NewBuilder(rows, wopts)
	for id := uint32(0); id <= 6; id++ {
		b.SetEncoding(id, pb.ColumnEncoding_DIRECT_V2, 0)
	}
	b.SetEncoding(5, pb.ColumnEncoding_DICTIONARY_V2, uint32(len(flags)))

	vendor := stream.NewIntWriter(1, pb.Stream_DATA, wopts, true, true)
	seconds := stream.NewIntWriter(2, pb.Stream_DATA, wopts, true, true)
	nanos := stream.NewIntWriter(2, pb.Stream_SECONDARY, wopts, true, false)
	passengers := stream.NewIntWriter(3, pb.Stream_DATA, wopts, true, true)
	distance := stream.NewDoubleWriter(4, pb.Stream_DATA, wopts)
	flag := stream.NewIntWriter(5, pb.Stream_DATA, wopts, true, false)
	dict := stream.NewBytesWriter(5, pb.Stream_DICTIONARY_DATA, wopts)
	dictLength := stream.NewIntWriter(5, pb.Stream_LENGTH, wopts, true, false)
	fare := stream.NewVarIntWriter(6, pb.Stream_DATA, wopts)
	scale := stream.NewIntWriter(6, pb.Stream_SECONDARY, wopts, true, true)

	for _, f := range flags {
		dict.Write([]byte(f))
		dictLength.Write(int64(len(f)))
	}

	start := time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < rows; i++ {
		vendor.Write(int64(1 + i%2))
		ts := api.GetTimestamp(start.Add(time.Duration(i)*7*time.Second+time.Duration(i%1000)*time.Millisecond),
			time.UTC)
		seconds.Write(ts.Seconds)
		nanos.Write(int64(encoding.EncodingNano(uint64(ts.Nanos))))
		passengers.Write(int64(1 + i%6))
		distance.Write(float64(i%300) / 10)
		flag.Write(int64(i % 50 / 49))
		fare.Write(big.NewInt(int64(250 + i%7000)))
		scale.Write(2)
	}

	for _, w := range []*stream.Writer{vendor.Writer, seconds.Writer, nanos.Writer, passengers.Writer, distance.Writer,
		flag.Writer, dict.Writer, dictLength.Writer, fare.Writer, scale.Writer} {
		if err := b.AddWriter(w); err != nil {
			return nil, stripe.FileMetadata{}, nil, err
		}
	}
	buf, info, err := b.Build(0)
	return buf, b.File(), info, err
}

func main() {
	wopts := config.DefaultWriterOptions()
	wopts.WriterTimezone = "UTC"
	buf, file, info, err := taxi(&wopts)
	if err != nil {
		fmt.Printf("%+v", err)
		os.Exit(1)
	}
	log.Infof("stripe of %d rows, %d bytes", rows, len(buf))

	td, err := api.ParseSchema(taxiSchema)
	if err != nil {
		fmt.Printf("%+v", err)
		os.Exit(1)
	}
	schema, err := td.ArrowSchema()
	if err != nil {
		fmt.Printf("%+v", err)
		os.Exit(1)
	}

	opts := config.DefaultReaderOptions()
	opts.BatchSize = 100_000

	begin := time.Now()
	s, err := stripe.New(orcio.NewMemSource(buf), file, td, schema.Fields(), 0, info, &opts)
	if err != nil {
		fmt.Printf("%+v", err)
		os.Exit(1)
	}
	reader, err := orc.NewStripeReader(s, schema, &opts)
	if err != nil {
		fmt.Printf("%+v", err)
		os.Exit(1)
	}
	defer reader.Release()

	var total int64
	for reader.Remaining() != 0 {
		rec, err := reader.Next()
		if err != nil {
			fmt.Printf("%+v", err)
			os.Exit(1)
		}
		if total == 0 {
			pickup := rec.Column(1).(*array.Timestamp)
			fare := rec.Column(5).(*array.Decimal128)
			unit := pickup.DataType().(*arrow.TimestampType).Unit
			log.Infof("first trip, pick-up %s, fare %s", pickup.Value(0).ToTime(unit), fare.Value(0).ToString(2))
		}
		total += rec.NumRows()
		rec.Release()
		log.Debugf("rows now: %d", total)
	}
	elapsed := time.Since(begin)
	fmt.Printf("total rows %d in %s, %.0f rows/s\n", total, elapsed, float64(total)/elapsed.Seconds())
}
