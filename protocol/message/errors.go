package message

import (
	"fmt"

	"github.com/pkg/errors"
)

// 错误分类. 具体错误类型都可以用 errors.Is 归到下面某一类
var (
	ErrMalformedBuffer = errors.New("malformed buffer")
	ErrFieldCheck      = errors.New("field check failed")
	ErrSchemaMismatch  = errors.New("schema mismatch")
	ErrMissingKey      = errors.New("missing json key")
	ErrJSONType        = errors.New("json type error")
	ErrUnknownMessage  = errors.New("unknown message")
)

// ReservedField 是未被任何字段覆盖的保留字节在FieldError中使用的名字
const ReservedField = "<reserved>"

// MalformedBufferError 缓冲区总长度与头部声明的消息体长度、签名长度对不上
type MalformedBufferError struct {
	Len    int
	Want   uint64
	Reason string
}

func (e *MalformedBufferError) Error() string {
	return fmt.Sprintf("%v: %s (len %d, want %d)", ErrMalformedBuffer, e.Reason, e.Len, e.Want)
}

func (e *MalformedBufferError) Is(target error) bool {
	return target == ErrMalformedBuffer
}

// FieldError 某个字段的字节区间没有通过该字段类型的检查
type FieldError struct {
	Field string
	From  int
	To    int
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s [%d..%d): %v", e.Field, e.From, e.To, e.Err)
}

func (e *FieldError) Is(target error) bool {
	return target == ErrFieldCheck
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// SchemaMismatchError 缓冲区或JSON里的标识与目标schema不一致
type SchemaMismatchError struct {
	Schema            string
	ExpectedServiceID uint16
	ExpectedMessageID uint16
	ServiceID         uint16
	MessageID         uint16
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("%v: %s expects service_id %d message_id %d, got service_id %d message_id %d",
		ErrSchemaMismatch, e.Schema, e.ExpectedServiceID, e.ExpectedMessageID, e.ServiceID, e.MessageID)
}

func (e *SchemaMismatchError) Is(target error) bool {
	return target == ErrSchemaMismatch
}

type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%v: %q", ErrMissingKey, e.Key)
}

func (e *MissingKeyError) Is(target error) bool {
	return target == ErrMissingKey
}

// JSONTypeError 键存在但值的形状不符合字段类型
type JSONTypeError struct {
	Key string
	Err error
}

func (e *JSONTypeError) Error() string {
	return fmt.Sprintf("%v: %q: %v", ErrJSONType, e.Key, e.Err)
}

func (e *JSONTypeError) Is(target error) bool {
	return target == ErrJSONType
}

func (e *JSONTypeError) Unwrap() error {
	return e.Err
}

// prefixKey 把嵌套消息解码出的错误挂到外层字段的路径下
func prefixKey(prefix string, err error) error {
	switch e := err.(type) {
	case *MissingKeyError:
		return &MissingKeyError{Key: prefix + "." + e.Key}
	case *JSONTypeError:
		key := prefix
		if e.Key != "" {
			key = prefix + "." + e.Key
		}
		return &JSONTypeError{Key: key, Err: e.Err}
	}
	return err
}
