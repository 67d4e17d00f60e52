package message

import (
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"

	"github.com/azd1997/emsg/common/crypto"
	"github.com/azd1997/emsg/common/utils"
)

/*

JSON形式
{
  "body": { "<field>": <字段类型自己的JSON值>, ... },   // 按声明顺序
  "signature": "<hex>",
  "message_id": <int>,
  "service_id": <int>
}

解码时签名原样附回消息，从不重新计算也不验证. 真实性由调用方用 VerifySignature 单独确认
*/

const (
	keyBody      = "body"
	keySignature = "signature"
	keyMessageID = "message_id"
	keyServiceID = "service_id"
)

var requiredKeys = []string{keyBody, keySignature, keyMessageID, keyServiceID}

func (s *Schema) encodeJSON(m Message) ([]byte, error) {
	buf := utils.GetBuf()
	defer utils.ReturnBuf(buf)

	body := m.raw.body()
	buf.WriteString(`{"body":{`)
	for i, f := range s.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(f.Name())
		if err != nil {
			return nil, errors.WithStack(err)
		}
		value, err := f.encodeJSON(body)
		if err != nil {
			return nil, errors.Wrapf(err, "encode field %s", f.Name())
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteString(`},"signature":"`)
	buf.WriteString(m.raw.Signature().ToHex())
	buf.WriteString(`","message_id":`)
	buf.WriteString(strconv.FormatUint(uint64(m.raw.MessageID()), 10))
	buf.WriteString(`,"service_id":`)
	buf.WriteString(strconv.FormatUint(uint64(m.raw.ServiceID()), 10))
	buf.WriteByte('}')
	return utils.CopyBytes(buf), nil
}

// envelopeJSON 顶层四个键都在的JSON对象
type envelopeJSON struct {
	obj       map[string]json.RawMessage
	serviceID uint16
	messageID uint16
}

// decodeEnvelope 检查顶层是对象、四个键齐全、两个标识是合法的u16
func decodeEnvelope(data []byte) (*envelopeJSON, error) {
	obj, err := decodeJSONObject(data)
	if err != nil {
		return nil, &JSONTypeError{Err: err}
	}
	for _, key := range requiredKeys {
		if _, ok := obj[key]; !ok {
			return nil, &MissingKeyError{Key: key}
		}
	}
	env := &envelopeJSON{obj: obj}
	if err := decodeJSONValue(obj[keyServiceID], &env.serviceID); err != nil {
		return nil, &JSONTypeError{Key: keyServiceID, Err: err}
	}
	if err := decodeJSONValue(obj[keyMessageID], &env.messageID); err != nil {
		return nil, &JSONTypeError{Key: keyMessageID, Err: err}
	}
	return env, nil
}

// DecodeJSON 从JSON重建消息. 先核对标识再碰字段，字段按声明顺序解码写入新的Writer，
// 最后原样附上JSON里的签名. 结果与用同样字段值和签名直接构造的消息逐字节相同
func (s *Schema) DecodeJSON(data []byte) (Message, error) {
	env, err := decodeEnvelope(data)
	if err != nil {
		return Message{}, err
	}
	return s.decodeEnvelope(env)
}

func (s *Schema) decodeEnvelope(env *envelopeJSON) (Message, error) {
	if env.serviceID != s.serviceID || env.messageID != s.messageID {
		return Message{}, &SchemaMismatchError{
			Schema:            s.name,
			ExpectedServiceID: s.serviceID,
			ExpectedMessageID: s.messageID,
			ServiceID:         env.serviceID,
			MessageID:         env.messageID,
		}
	}

	sigHex, err := decodeJSONString(env.obj[keySignature])
	if err != nil {
		return Message{}, &JSONTypeError{Key: keySignature, Err: err}
	}
	sig, err := crypto.SignatureFromHex(sigHex)
	if err != nil {
		return Message{}, &JSONTypeError{Key: keySignature, Err: err}
	}

	b, err := s.BuilderFromJSON(env.obj[keyBody])
	if err != nil {
		return Message{}, err
	}
	return b.WithSignature(sig)
}

// BuilderFromJSON 只解码"body"对象，返回尚未签名的Builder. 工具可以用它重新签名
func (s *Schema) BuilderFromJSON(body []byte) (*Builder, error) {
	fields, err := decodeJSONObject(body)
	if err != nil {
		return nil, &JSONTypeError{Key: keyBody, Err: err}
	}
	b := s.NewBuilder()
	for _, f := range s.fields {
		value, ok := fields[f.Name()]
		if !ok {
			return nil, &MissingKeyError{Key: keyBody + "." + f.Name()}
		}
		if err := f.decodeJSON(value, b); err != nil {
			return nil, err
		}
	}
	return b, nil
}
