package biotab

import (
	"bufio"
	"compress/bzip2"
	"io"

	"github.com/carbocation/pfx"
	"github.com/klauspost/pgzip"
	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

type DataType byte

const (
	DataTypeInvalid DataType = iota
	DataTypeNoCompression
	DataTypeGzip
	DataTypeZip
	DataTypeXZ
	DataTypeBZip2
)

func (d DataType) String() string {
	switch d {
	case DataTypeNoCompression:
		return "uncompressed"
	case DataTypeGzip:
		return "gzip"
	case DataTypeZip:
		return "zip"
	case DataTypeXZ:
		return "xz"
	case DataTypeBZip2:
		return "bzip2"
	}

	return "invalid"
}

// Byte code signatures from https://stackoverflow.com/a/19127748/199475
var byteCodeSigs = map[DataType][]byte{
	DataTypeGzip:  {0x1f, 0x8b, 0x08},
	DataTypeZip:   {0x50, 0x4b, 0x03, 0x04},
	DataTypeXZ:    {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
	DataTypeBZip2: {0x42, 0x5a, 0x68},
}

// The largest signature above
const sigLen = 6

// DetectDataType reports the compression of a stream by looking at its first
// bytes. Nothing is consumed from br.
func DetectDataType(br *bufio.Reader) (DataType, error) {
	buff, err := br.Peek(sigLen)
	if err != nil && err != io.EOF {
		// A stream shorter than sigLen peeks with io.EOF and is treated as
		// uncompressed.
		return DataTypeInvalid, err
	}

Outer:
	for dt, sig := range byteCodeSigs {
		if len(buff) < len(sig) {
			continue
		}
		for position := range sig {
			if buff[position] != sig[position] {
				continue Outer
			}
		}
		return dt, nil
	}

	return DataTypeNoCompression, nil
}

// MaybeDecompress wraps rc in a decompressor if its leading bytes identify a
// known compression format. Closing the result closes rc as well.
func MaybeDecompress(rc io.ReadCloser) (io.ReadCloser, DataType, error) {
	br := bufio.NewReaderSize(rc, 4*1024*1024)

	dt, err := DetectDataType(br)
	if err != nil {
		return nil, DataTypeInvalid, pfx.Err(err)
	}

	var r io.Reader
	switch dt {
	case DataTypeGzip:
		gz, err := pgzip.NewReader(br)
		if err != nil {
			return nil, dt, pfx.Err(err)
		}
		return &stackedReadCloser{Reader: gz, closers: []io.Closer{gz, rc}}, dt, nil
	case DataTypeZip:
		// Only the first member of the archive is read
		zr := zipstream.NewReader(br)
		if _, err := zr.Next(); err != nil {
			return nil, dt, pfx.Err(err)
		}
		r = zr
	case DataTypeBZip2:
		r = bzip2.NewReader(br)
	case DataTypeXZ:
		xzr, err := xz.NewReader(br, 0)
		if err != nil {
			return nil, dt, pfx.Err(err)
		}
		r = xzr
	default:
		r = br
	}

	return &stackedReadCloser{Reader: r, closers: []io.Closer{rc}}, dt, nil
}

// stackedReadCloser reads from the outermost layer and closes every layer,
// innermost last.
type stackedReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedReadCloser) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}

	return first
}
