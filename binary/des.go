package binary

import (
	"encoding/binary"
	"runtime"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var ErrShortData = errors.New("invalid length")

func NewDes(data []byte) Des {
	return Des{
		data: data,
	}
}

// Des reads values in the order they were written by Ser. The first failure is recorded and every
// following read returns a zero value, so callers only need to check Error once.
type Des struct {
	data []byte
	err  error
}

func (d Des) RemainingData() []byte {
	return d.data
}

func (d *Des) Error() error {
	return d.err
}

func (d *Des) fail(err error) {
	d.err = errors.Wrap(err, getCaller())
}

func (d *Des) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || len(d.data) < n {
		d.fail(ErrShortData)
		return nil
	}
	b := d.data[:n]
	d.data = d.data[n:]
	return b
}

func (d *Des) ReadUint8() uint8 {
	b := d.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}
func (d *Des) ReadUint32() uint32 {
	b := d.take(4)
	if b == nil {
		return 0
	}
	return DefaultEndian.Uint32(b)
}
func (d *Des) ReadUint64() uint64 {
	b := d.take(8)
	if b == nil {
		return 0
	}
	return DefaultEndian.Uint64(b)
}

func (d *Des) ReadUvarint() uint64 {
	if d.err != nil {
		return 0
	}
	v, x := binary.Uvarint(d.data)
	if x <= 0 {
		d.fail(errors.New("invalid uvarint"))
		return 0
	}
	d.data = d.data[x:]
	return v
}

func (d *Des) ReadFixedByteArray(length int) []byte {
	b := d.take(length)
	if b == nil {
		return make([]byte, length)
	}
	return b
}

func (d *Des) ReadByteSlice() []byte {
	length := d.ReadUvarint()
	if d.err != nil {
		return []byte{}
	}
	if length > uint64(len(d.data)) {
		d.fail(ErrShortData)
		return []byte{}
	}
	return d.take(int(length))
}

func (d *Des) ReadString() string {
	return string(d.ReadByteSlice())
}

func getCaller() string {
	_, file, line, _ := runtime.Caller(3)
	fileSpl := strings.Split(file, "/")
	return fileSpl[len(fileSpl)-1] + ":" + strconv.FormatInt(int64(line), 10)
}
