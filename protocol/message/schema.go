package message

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
)

// FieldDesc 类型擦除后的字段描述，只能由 NewField 构造
type FieldDesc interface {
	Name() string
	Range() (from, to int)

	fixedSize() int
	owner() *Schema
	setOwner(s *Schema)
	check(body []byte) error
	encodeJSON(body []byte) ([]byte, error)
	decodeJSON(data []byte, b *Builder) error
	format(body []byte) string
}

// Schema 一种消息的静态描述: 服务ID、消息ID、消息体长度、按声明顺序排列的字段.
// 创建后不再修改，可被任意多个goroutine并发使用
type Schema struct {
	name      string
	serviceID uint16
	messageID uint16
	bodySize  int
	fields    []FieldDesc
	reserved  [][2]int // 没有字段覆盖的区间，必须全为0
}

// NewSchema 检查字段区间: 名字非空且唯一、0 <= from < to <= bodySize、
// 定长类型宽度与区间一致、区间互不重叠、字段没有被别的schema占用
func NewSchema(name string, serviceID, messageID uint16, bodySize int, fields ...FieldDesc) (*Schema, error) {
	if name == "" {
		return nil, errors.New("NewSchema: empty name")
	}
	if bodySize < 0 || int64(bodySize) > maxBodySize {
		return nil, errors.Errorf("NewSchema %s: invalid body size %d", name, bodySize)
	}

	names := make(map[string]bool, len(fields))
	for _, f := range fields {
		from, to := f.Range()
		switch {
		case f.Name() == "":
			return nil, errors.Errorf("NewSchema %s: field with empty name", name)
		case names[f.Name()]:
			return nil, errors.Errorf("NewSchema %s: duplicate field %s", name, f.Name())
		case from < 0 || from >= to || to > bodySize:
			return nil, errors.Errorf("NewSchema %s: field %s range [%d..%d) out of body size %d", name, f.Name(), from, to, bodySize)
		case f.fixedSize() > 0 && to-from != f.fixedSize():
			return nil, errors.Errorf("NewSchema %s: field %s range width %d, want %d", name, f.Name(), to-from, f.fixedSize())
		case f.owner() != nil:
			return nil, errors.Errorf("NewSchema %s: field %s already belongs to %s", name, f.Name(), f.owner().name)
		}
		names[f.Name()] = true
	}

	sorted := make([]FieldDesc, len(fields))
	copy(sorted, fields)
	sort.Slice(sorted, func(i, j int) bool {
		fi, _ := sorted[i].Range()
		fj, _ := sorted[j].Range()
		return fi < fj
	})
	var reserved [][2]int
	cursor := 0
	for _, f := range sorted {
		from, to := f.Range()
		if from < cursor {
			return nil, errors.Errorf("NewSchema %s: field %s range [%d..%d) overlaps previous field", name, f.Name(), from, to)
		}
		if from > cursor {
			reserved = append(reserved, [2]int{cursor, from})
		}
		cursor = to
	}
	if cursor < bodySize {
		reserved = append(reserved, [2]int{cursor, bodySize})
	}

	s := &Schema{
		name:      name,
		serviceID: serviceID,
		messageID: messageID,
		bodySize:  bodySize,
		fields:    append([]FieldDesc(nil), fields...),
		reserved:  reserved,
	}
	for _, f := range fields {
		f.setOwner(s)
	}
	return s, nil
}

// maxBodySize 让整条消息的长度仍能用u32表示
const maxBodySize = int64(^uint32(0)) - HeaderSize - SignatureSize

// MustSchema schema是编译进程序的可信数据，写错了直接panic
func MustSchema(name string, serviceID, messageID uint16, bodySize int, fields ...FieldDesc) *Schema {
	s, err := NewSchema(name, serviceID, messageID, bodySize, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) Name() string        { return s.name }
func (s *Schema) ServiceID() uint16   { return s.serviceID }
func (s *Schema) MessageID() uint16   { return s.messageID }
func (s *Schema) BodySize() int       { return s.bodySize }
func (s *Schema) Size() int           { return HeaderSize + s.bodySize + SignatureSize }
func (s *Schema) Fields() []FieldDesc { return append([]FieldDesc(nil), s.fields...) }

func (s *Schema) String() string {
	return fmt.Sprintf("%s(service_id: %d, message_id: %d, body_size: %d)", s.name, s.serviceID, s.messageID, s.bodySize)
}

// NewBuilder 开始构造一条该schema的消息
func (s *Schema) NewBuilder() *Builder {
	return &Builder{
		schema: s,
		w:      NewWriter(s.serviceID, s.messageID, s.bodySize),
	}
}

// FromRaw 依次检查结构、标识、体长、每个字段和保留字节，全部通过才绑定到schema(零拷贝).
// 第一个失败的检查决定返回的错误
func (s *Schema) FromRaw(raw RawMessage) (Message, error) {
	if err := s.check(raw); err != nil {
		return Message{}, err
	}
	return s.bind(raw), nil
}

// Parse 拷贝不可信的buf并做 FromRaw 的全部检查
func (s *Schema) Parse(buf []byte) (Message, error) {
	raw, err := ParseRawMessage(buf)
	if err != nil {
		return Message{}, err
	}
	return s.FromRaw(raw)
}

func (s *Schema) check(raw RawMessage) error {
	if err := checkLayout(raw.buf); err != nil {
		return err
	}
	if raw.ServiceID() != s.serviceID || raw.MessageID() != s.messageID {
		return &SchemaMismatchError{
			Schema:            s.name,
			ExpectedServiceID: s.serviceID,
			ExpectedMessageID: s.messageID,
			ServiceID:         raw.ServiceID(),
			MessageID:         raw.MessageID(),
		}
	}
	if int64(raw.BodyLen()) != int64(s.bodySize) {
		return &MalformedBufferError{
			Len:    raw.Len(),
			Want:   uint64(s.Size()),
			Reason: fmt.Sprintf("body length %d, %s declares %d", raw.BodyLen(), s.name, s.bodySize),
		}
	}
	body := raw.body()
	for _, f := range s.fields {
		if err := f.check(body); err != nil {
			return err
		}
	}
	for _, gap := range s.reserved {
		if !isZero(body[gap[0]:gap[1]]) {
			return &FieldError{Field: ReservedField, From: gap[0], To: gap[1], Err: errors.New("reserved bytes must be zero")}
		}
	}
	return nil
}

func (s *Schema) bind(raw RawMessage) Message {
	return Message{raw: raw, schema: s}
}
