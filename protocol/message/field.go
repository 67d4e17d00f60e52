package message

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// Codec 是某种线上类型T在消息体某个字节区间内的读、写、检查能力.
//
// Check 面向不可信字节，只验证区间内是不是一个合法的T，不物化值;
// Read/Write 假定区间已经检查过(或由自己写入);
// Validate 判断一个值能否放进宽度为width的区间，JSON解码和构造消息时都会先调它.
type Codec[T any] interface {
	// FieldSize 定长类型的编码宽度. 变长类型返回0，其实际占用宽度由区间内的长度前缀决定
	FieldSize() int
	Check(body []byte, from, to int) error
	Read(body []byte, from, to int) T
	Write(v T, body []byte, from, to int)
	Validate(v T, width int) error
	EncodeJSON(v T) ([]byte, error)
	DecodeJSON(data []byte) (T, error)
}

// lengthPrefixSize 变长类型(Bytes/String/List)在区间开头的 u32 长度前缀
const lengthPrefixSize = 4

// checkSlot 检查区间在body内，对定长类型还要求宽度正好相等
func checkSlot(body []byte, from, to, fixed int) error {
	if from < 0 || from > to || to > len(body) {
		return errors.Errorf("range [%d..%d) out of body length %d", from, to, len(body))
	}
	if fixed > 0 && to-from != fixed {
		return errors.Errorf("range width %d, want %d", to-from, fixed)
	}
	return nil
}

func checkWidth(width, fixed int) error {
	if width != fixed {
		return errors.Errorf("range width %d, want %d", width, fixed)
	}
	return nil
}

func isZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

var jsonNull = []byte("null")

// decodeJSONValue 与json.Unmarshal相同，但拒绝null(否则null会被静默解成零值)
func decodeJSONValue(data []byte, v interface{}) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		return errors.New("unexpected null")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

func decodeJSONObject(data []byte) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := decodeJSONValue(data, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

func decodeJSONString(data []byte) (string, error) {
	var s string
	err := decodeJSONValue(data, &s)
	return s, err
}
