package message

import (
	"encoding/binary"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/azd1997/emsg/common/utils"
)

/*

List 变长列表，元素必须是定长类型
+-------------+---------------------------+------------------+
| Count (u32) | Elems (Count * elemSize)  |  zero padding    |
+-------------+---------------------------+------------------+
*/

type listCodec[T any] struct {
	elem Codec[T]
}

// List 由定长元素组成的列表. 元素类型是变长的属于schema写错了，直接panic
func List[T any](elem Codec[T]) Codec[[]T] {
	if elem.FieldSize() <= 0 {
		panic("message: list element must be fixed width")
	}
	return listCodec[T]{elem: elem}
}

func (c listCodec[T]) FieldSize() int { return 0 }

// bounds 检查计数前缀，返回元素个数
func (c listCodec[T]) bounds(body []byte, from, to int) (int, error) {
	if err := checkSlot(body, from, to, 0); err != nil {
		return 0, err
	}
	width := to - from
	if width < lengthPrefixSize {
		return 0, errors.Errorf("range width %d too small for count prefix", width)
	}
	n := uint64(binary.LittleEndian.Uint32(body[from:]))
	capacity := uint64(width-lengthPrefixSize) / uint64(c.elem.FieldSize())
	if n > capacity {
		return 0, errors.Errorf("count %d exceeds capacity %d", n, capacity)
	}
	return int(n), nil
}

func (c listCodec[T]) Check(body []byte, from, to int) error {
	n, err := c.bounds(body, from, to)
	if err != nil {
		return err
	}
	size := c.elem.FieldSize()
	off := from + lengthPrefixSize
	for i := 0; i < n; i++ {
		if err := c.elem.Check(body, off, off+size); err != nil {
			return errors.Wrapf(err, "element %d", i)
		}
		off += size
	}
	if !isZero(body[off:to]) {
		return errors.New("non-zero padding")
	}
	return nil
}

func (c listCodec[T]) Read(body []byte, from, to int) []T {
	n, _ := c.bounds(body, from, to)
	size := c.elem.FieldSize()
	out := make([]T, n)
	off := from + lengthPrefixSize
	for i := range out {
		out[i] = c.elem.Read(body, off, off+size)
		off += size
	}
	return out
}

func (c listCodec[T]) Write(v []T, body []byte, from, to int) {
	binary.LittleEndian.PutUint32(body[from:], uint32(len(v)))
	size := c.elem.FieldSize()
	off := from + lengthPrefixSize
	for _, e := range v {
		c.elem.Write(e, body, off, off+size)
		off += size
	}
	zero(body[off:to])
}

func (c listCodec[T]) Validate(v []T, width int) error {
	size := c.elem.FieldSize()
	if width < lengthPrefixSize {
		return errors.Errorf("range width %d too small for count prefix", width)
	}
	if capacity := (width - lengthPrefixSize) / size; len(v) > capacity {
		return errors.Errorf("count %d exceeds capacity %d", len(v), capacity)
	}
	for i, e := range v {
		if err := c.elem.Validate(e, size); err != nil {
			return errors.Wrapf(err, "element %d", i)
		}
	}
	return nil
}

func (c listCodec[T]) EncodeJSON(v []T) ([]byte, error) {
	buf := utils.GetBuf()
	defer utils.ReturnBuf(buf)

	buf.WriteByte('[')
	for i, e := range v {
		if i > 0 {
			buf.WriteByte(',')
		}
		data, err := c.elem.EncodeJSON(e)
		if err != nil {
			return nil, errors.Wrapf(err, "element %d", i)
		}
		buf.Write(data)
	}
	buf.WriteByte(']')
	return utils.CopyBytes(buf), nil
}

func (c listCodec[T]) DecodeJSON(data []byte) ([]T, error) {
	var elems []json.RawMessage
	if err := decodeJSONValue(data, &elems); err != nil {
		return nil, err
	}
	out := make([]T, len(elems))
	for i, raw := range elems {
		e, err := c.elem.DecodeJSON(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "element %d", i)
		}
		out[i] = e
	}
	return out, nil
}
