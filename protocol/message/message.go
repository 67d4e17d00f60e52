package message

import (
	"github.com/pkg/errors"

	"github.com/azd1997/emsg/common/crypto"
	"github.com/azd1997/emsg/common/utils"
)

// Message 绑定到schema的消息: 要么由本进程构造，要么通过了 FromRaw / DecodeJSON 的全部检查.
// 不可变，可以在goroutine之间随意共享
type Message struct {
	raw    RawMessage
	schema *Schema
}

func (m Message) IsEmpty() bool               { return m.schema == nil }
func (m Message) Raw() RawMessage             { return m.raw }
func (m Message) Schema() *Schema             { return m.schema }
func (m Message) ServiceID() uint16           { return m.raw.ServiceID() }
func (m Message) MessageID() uint16           { return m.raw.MessageID() }
func (m Message) Signature() crypto.Signature { return m.raw.Signature() }
func (m Message) Hash() crypto.Hash           { return m.raw.Hash() }
func (m Message) Bytes() []byte               { return m.raw.Bytes() }

// VerifySignature 见 RawMessage.VerifySignature
func (m Message) VerifySignature(pub crypto.PublicKey) error {
	return m.raw.VerifySignature(pub)
}

func (m Message) Equal(other Message) bool {
	return m.schema == other.schema && m.raw.Equal(other.raw)
}

func (m Message) schemaName() string {
	if m.schema == nil {
		return "empty message"
	}
	return m.schema.name
}

// String 调试输出: Name{field: value, ...}
func (m Message) String() string {
	if m.schema == nil {
		return "Message{}"
	}
	buf := utils.GetBuf()
	defer utils.ReturnBuf(buf)

	body := m.raw.body()
	buf.WriteString(m.schema.name)
	buf.WriteByte('{')
	for i, f := range m.schema.fields {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(f.Name())
		buf.WriteString(": ")
		buf.WriteString(f.format(body))
	}
	buf.WriteByte('}')
	return buf.String()
}

// MarshalJSON 见 json.go
func (m Message) MarshalJSON() ([]byte, error) {
	if m.schema == nil {
		return nil, errors.New("marshal empty message")
	}
	return m.schema.encodeJSON(m)
}
