package encoding

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"github.com/patrickhuang888/orcarrow/orc/common"
)

// values longer are read in steps, so a corrupt length fails at the end of
// the stream before it is allocated
const bytesReadStep = 64 * 1024

// DecodeBytes reads exactly length bytes of string/binary DATA
func DecodeBytes(in io.Reader, length int) ([]byte, error) {
	if length <= bytesReadStep {
		value := make([]byte, length)
		if _, err := io.ReadFull(in, value); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil, errors.Wrapf(common.ErrCorrupt, "bytes data short of %d", length)
			}
			return nil, errors.WithStack(err)
		}
		return value, nil
	}

	buf := bytes.NewBuffer(make([]byte, 0, bytesReadStep))
	n, err := io.CopyN(buf, in, int64(length))
	if err != nil {
		if err == io.EOF {
			return nil, errors.Wrapf(common.ErrCorrupt, "bytes data short of %d, got %d", length, n)
		}
		return nil, errors.WithStack(err)
	}
	return buf.Bytes(), nil
}
