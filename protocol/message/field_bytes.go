package message

import (
	"encoding/binary"
	"encoding/json"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/azd1997/emsg/common/encoding"
)

/*

Bytes / String 变长字段在区间内的布局
+-------------+----------------+------------------+
| Len (u32)   |   Data (Len)   |  zero padding    |
+-------------+----------------+------------------+
区间宽度就是容量上限. 填充必须全为0，保证编码唯一
*/

// readPrefixed 检查并返回区间内的数据部分(不拷贝)
func readPrefixed(body []byte, from, to int) ([]byte, error) {
	if err := checkSlot(body, from, to, 0); err != nil {
		return nil, err
	}
	width := to - from
	if width < lengthPrefixSize {
		return nil, errors.Errorf("range width %d too small for length prefix", width)
	}
	n := binary.LittleEndian.Uint32(body[from:])
	if uint64(n) > uint64(width-lengthPrefixSize) {
		return nil, errors.Errorf("length %d exceeds capacity %d", n, width-lengthPrefixSize)
	}
	start := from + lengthPrefixSize
	end := start + int(n)
	if !isZero(body[end:to]) {
		return nil, errors.New("non-zero padding")
	}
	return body[start:end], nil
}

func writePrefixed(data []byte, body []byte, from, to int) {
	binary.LittleEndian.PutUint32(body[from:], uint32(len(data)))
	start := from + lengthPrefixSize
	n := copy(body[start:to], data)
	zero(body[start+n : to])
}

func validatePrefixed(n, width int) error {
	if width < lengthPrefixSize {
		return errors.Errorf("range width %d too small for length prefix", width)
	}
	if n > width-lengthPrefixSize {
		return errors.Errorf("length %d exceeds capacity %d", n, width-lengthPrefixSize)
	}
	return nil
}

////////////////////////////////////////////////////////////////////

type bytesCodec struct{}

// Bytes 变长字节串，JSON中为十六进制串
var Bytes Codec[[]byte] = bytesCodec{}

func (bytesCodec) FieldSize() int { return 0 }

func (bytesCodec) Check(body []byte, from, to int) error {
	_, err := readPrefixed(body, from, to)
	return err
}

func (bytesCodec) Read(body []byte, from, to int) []byte {
	data, _ := readPrefixed(body, from, to)
	return cloneBytes(data)
}

func (bytesCodec) Write(v []byte, body []byte, from, to int) {
	writePrefixed(v, body, from, to)
}

func (bytesCodec) Validate(v []byte, width int) error {
	return validatePrefixed(len(v), width)
}

func (bytesCodec) EncodeJSON(v []byte) ([]byte, error) {
	return json.Marshal(encoding.ToHex(v))
}

func (bytesCodec) DecodeJSON(data []byte) ([]byte, error) {
	s, err := decodeJSONString(data)
	if err != nil {
		return nil, err
	}
	return encoding.FromHex(s)
}

////////////////////////////////////////////////////////////////////

type stringCodec struct{}

// String 变长UTF-8字符串
var String Codec[string] = stringCodec{}

func (stringCodec) FieldSize() int { return 0 }

func (stringCodec) Check(body []byte, from, to int) error {
	data, err := readPrefixed(body, from, to)
	if err != nil {
		return err
	}
	if !utf8.Valid(data) {
		return errors.New("invalid utf-8 string")
	}
	return nil
}

func (stringCodec) Read(body []byte, from, to int) string {
	data, _ := readPrefixed(body, from, to)
	return string(data)
}

func (stringCodec) Write(v string, body []byte, from, to int) {
	writePrefixed([]byte(v), body, from, to)
}

func (stringCodec) Validate(v string, width int) error {
	if !utf8.ValidString(v) {
		return errors.New("invalid utf-8 string")
	}
	return validatePrefixed(len(v), width)
}

func (stringCodec) EncodeJSON(v string) ([]byte, error) {
	return json.Marshal(v)
}

func (stringCodec) DecodeJSON(data []byte) (string, error) {
	return decodeJSONString(data)
}
