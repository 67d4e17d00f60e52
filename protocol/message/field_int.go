package message

import (
	"encoding/binary"
	"strconv"

	"github.com/pkg/errors"
)

// 整数一律小端编码

type uintCodec[T uint8 | uint16 | uint32 | uint64] struct {
	size int
}

var (
	Uint8  Codec[uint8]  = uintCodec[uint8]{size: 1}
	Uint16 Codec[uint16] = uintCodec[uint16]{size: 2}
	Uint32 Codec[uint32] = uintCodec[uint32]{size: 4}
	Uint64 Codec[uint64] = uintCodec[uint64]{size: 8}
)

func (c uintCodec[T]) FieldSize() int { return c.size }

func (c uintCodec[T]) Check(body []byte, from, to int) error {
	return checkSlot(body, from, to, c.size)
}

func (c uintCodec[T]) Read(body []byte, from, to int) T {
	b := body[from:to]
	switch c.size {
	case 1:
		return T(b[0])
	case 2:
		return T(binary.LittleEndian.Uint16(b))
	case 4:
		return T(binary.LittleEndian.Uint32(b))
	default:
		return T(binary.LittleEndian.Uint64(b))
	}
}

func (c uintCodec[T]) Write(v T, body []byte, from, to int) {
	b := body[from:to]
	switch c.size {
	case 1:
		b[0] = uint8(v)
	case 2:
		binary.LittleEndian.PutUint16(b, uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(b, uint32(v))
	default:
		binary.LittleEndian.PutUint64(b, uint64(v))
	}
}

func (c uintCodec[T]) Validate(v T, width int) error {
	return checkWidth(width, c.size)
}

func (c uintCodec[T]) EncodeJSON(v T) ([]byte, error) {
	return strconv.AppendUint(nil, uint64(v), 10), nil
}

func (c uintCodec[T]) DecodeJSON(data []byte) (T, error) {
	var v T
	err := decodeJSONValue(data, &v)
	return v, err
}

////////////////////////////////////////////////////////////////////

type int64Codec struct{}

var Int64 Codec[int64] = int64Codec{}

func (int64Codec) FieldSize() int { return 8 }

func (int64Codec) Check(body []byte, from, to int) error {
	return checkSlot(body, from, to, 8)
}

func (int64Codec) Read(body []byte, from, to int) int64 {
	return int64(binary.LittleEndian.Uint64(body[from:to]))
}

func (int64Codec) Write(v int64, body []byte, from, to int) {
	binary.LittleEndian.PutUint64(body[from:to], uint64(v))
}

func (int64Codec) Validate(v int64, width int) error {
	return checkWidth(width, 8)
}

func (int64Codec) EncodeJSON(v int64) ([]byte, error) {
	return strconv.AppendInt(nil, v, 10), nil
}

func (int64Codec) DecodeJSON(data []byte) (int64, error) {
	var v int64
	err := decodeJSONValue(data, &v)
	return v, err
}

////////////////////////////////////////////////////////////////////

// boolCodec 占1字节，只接受0和1
type boolCodec struct{}

var Bool Codec[bool] = boolCodec{}

func (boolCodec) FieldSize() int { return 1 }

func (boolCodec) Check(body []byte, from, to int) error {
	if err := checkSlot(body, from, to, 1); err != nil {
		return err
	}
	if b := body[from]; b > 1 {
		return errors.Errorf("invalid bool value %d", b)
	}
	return nil
}

func (boolCodec) Read(body []byte, from, to int) bool {
	return body[from] == 1
}

func (boolCodec) Write(v bool, body []byte, from, to int) {
	if v {
		body[from] = 1
	} else {
		body[from] = 0
	}
}

func (boolCodec) Validate(v bool, width int) error {
	return checkWidth(width, 1)
}

func (boolCodec) EncodeJSON(v bool) ([]byte, error) {
	if v {
		return []byte("true"), nil
	}
	return []byte("false"), nil
}

func (boolCodec) DecodeJSON(data []byte) (bool, error) {
	var v bool
	err := decodeJSONValue(data, &v)
	return v, err
}
