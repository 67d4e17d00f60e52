package message

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/azd1997/emsg/common/encoding"
)

// nestedCodec 把另一个schema的完整消息(头+体+签名)嵌进一个字段.
// 嵌套消息的体长由它自己的schema固定，所以这是定长字段;
// Check 会递归跑嵌套schema自己的字段检查，开销受外层消息体长度约束
type nestedCodec struct {
	schema *Schema
}

func Nested(s *Schema) Codec[Message] {
	if s == nil {
		panic("message: nested schema is nil")
	}
	return nestedCodec{schema: s}
}

func (c nestedCodec) FieldSize() int { return c.schema.Size() }

func (c nestedCodec) Check(body []byte, from, to int) error {
	if err := checkSlot(body, from, to, c.schema.Size()); err != nil {
		return err
	}
	return c.schema.check(NewRawMessage(body[from:to]))
}

func (c nestedCodec) Read(body []byte, from, to int) Message {
	return c.schema.bind(NewRawMessage(cloneBytes(body[from:to])))
}

func (c nestedCodec) Write(v Message, body []byte, from, to int) {
	copy(body[from:to], v.raw.buf)
}

func (c nestedCodec) Validate(v Message, width int) error {
	if v.schema == nil {
		return errors.New("empty message")
	}
	if v.schema != c.schema {
		return errors.Errorf("expect %s message, got %s", c.schema.name, v.schema.name)
	}
	return checkWidth(width, c.schema.Size())
}

func (c nestedCodec) EncodeJSON(v Message) ([]byte, error) {
	return v.MarshalJSON()
}

func (c nestedCodec) DecodeJSON(data []byte) (Message, error) {
	return c.schema.DecodeJSON(data)
}

////////////////////////////////////////////////////////////////////

// rawCodec 任意一条原始消息，只做结构检查(头部声明的长度放得进区间、填充为0)，
// 不知道也不检查其内部schema. JSON中为整条消息的十六进制串
type rawCodec struct{}

var Raw Codec[RawMessage] = rawCodec{}

func (rawCodec) FieldSize() int { return 0 }

// extent 返回区间内那条消息的总长度
func (rawCodec) extent(body []byte, from, to int) (int, error) {
	if err := checkSlot(body, from, to, 0); err != nil {
		return 0, err
	}
	width := to - from
	if width < HeaderSize+SignatureSize {
		return 0, errors.Errorf("range width %d too small for a message", width)
	}
	bodyLen := binary.LittleEndian.Uint32(body[from+bodyLenOffset:])
	total := uint64(HeaderSize) + uint64(bodyLen) + SignatureSize
	if total > uint64(width) {
		return 0, errors.Errorf("message length %d exceeds capacity %d", total, width)
	}
	return int(total), nil
}

func (c rawCodec) Check(body []byte, from, to int) error {
	total, err := c.extent(body, from, to)
	if err != nil {
		return err
	}
	if !isZero(body[from+total : to]) {
		return errors.New("non-zero padding")
	}
	return nil
}

func (c rawCodec) Read(body []byte, from, to int) RawMessage {
	total, _ := c.extent(body, from, to)
	return NewRawMessage(cloneBytes(body[from : from+total]))
}

func (rawCodec) Write(v RawMessage, body []byte, from, to int) {
	n := copy(body[from:to], v.buf)
	zero(body[from+n : to])
}

func (rawCodec) Validate(v RawMessage, width int) error {
	if err := checkLayout(v.buf); err != nil {
		return err
	}
	if v.Len() > width {
		return errors.Errorf("message length %d exceeds capacity %d", v.Len(), width)
	}
	return nil
}

func (rawCodec) EncodeJSON(v RawMessage) ([]byte, error) {
	return []byte(`"` + encoding.ToHex(v.buf) + `"`), nil
}

func (rawCodec) DecodeJSON(data []byte) (RawMessage, error) {
	s, err := decodeJSONString(data)
	if err != nil {
		return RawMessage{}, err
	}
	b, err := encoding.FromHex(s)
	if err != nil {
		return RawMessage{}, err
	}
	return ParseRawMessage(b)
}
