package message

import (
	"fmt"

	"github.com/azd1997/emsg/common/crypto"
)

// FieldDef 带类型的字段句柄. 由它读写，调用方拿到的就是具体的Go类型
type FieldDef[T any] struct {
	name   string
	codec  Codec[T]
	from   int
	to     int
	schema *Schema
}

func NewField[T any](name string, codec Codec[T], from, to int) *FieldDef[T] {
	return &FieldDef[T]{name: name, codec: codec, from: from, to: to}
}

func (f *FieldDef[T]) Name() string          { return f.name }
func (f *FieldDef[T]) Range() (from, to int) { return f.from, f.to }
func (f *FieldDef[T]) Codec() Codec[T]       { return f.codec }

// Get 读取m中该字段的值. m必须属于该字段所在的schema
func (f *FieldDef[T]) Get(m Message) T {
	if m.schema == nil || m.schema != f.schema {
		panic(fmt.Sprintf("message: field %s read from %s", f.name, m.schemaName()))
	}
	return f.codec.Read(m.raw.body(), f.from, f.to)
}

// Put 把v写入b. 值放不进字段区间时错误记在b上，由 Sign/WithSignature 返回
func (f *FieldDef[T]) Put(b *Builder, v T) {
	if b.schema != f.schema {
		panic(fmt.Sprintf("message: field %s written to %s builder", f.name, b.schema.name))
	}
	if b.err != nil {
		return
	}
	if err := WriteField(b.w, f.codec, v, f.from, f.to); err != nil {
		b.err = f.fieldError(err)
	}
}

func (f *FieldDef[T]) fieldError(err error) error {
	return &FieldError{Field: f.name, From: f.from, To: f.to, Err: err}
}

func (f *FieldDef[T]) fixedSize() int     { return f.codec.FieldSize() }
func (f *FieldDef[T]) owner() *Schema     { return f.schema }
func (f *FieldDef[T]) setOwner(s *Schema) { f.schema = s }

func (f *FieldDef[T]) check(body []byte) error {
	if err := f.codec.Check(body, f.from, f.to); err != nil {
		return f.fieldError(err)
	}
	return nil
}

func (f *FieldDef[T]) encodeJSON(body []byte) ([]byte, error) {
	return f.codec.EncodeJSON(f.codec.Read(body, f.from, f.to))
}

func (f *FieldDef[T]) decodeJSON(data []byte, b *Builder) error {
	key := keyBody + "." + f.name
	v, err := f.codec.DecodeJSON(data)
	if err != nil {
		switch err.(type) {
		case *MissingKeyError, *JSONTypeError:
			return prefixKey(key, err)
		case *SchemaMismatchError, *FieldError, *MalformedBufferError:
			return f.fieldError(err)
		}
		return &JSONTypeError{Key: key, Err: err}
	}
	if err := f.codec.Validate(v, f.to-f.from); err != nil {
		return f.fieldError(err)
	}
	f.Put(b, v)
	return b.err
}

func (f *FieldDef[T]) format(body []byte) string {
	return formatValue(f.codec.Read(body, f.from, f.to))
}

func formatValue(v interface{}) string {
	switch x := v.(type) {
	case []byte:
		return fmt.Sprintf("%x", x)
	case string:
		return fmt.Sprintf("%q", x)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprintf("%v", v)
}

////////////////////////////////////////////////////////////////////

// Builder 某个schema的一次性消息构造器
type Builder struct {
	schema *Schema
	w      *Writer
	err    error
}

func (b *Builder) Schema() *Schema { return b.schema }

// Err 第一次写入失败的错误
func (b *Builder) Err() error { return b.err }

// Sign 签名并结束构造. 对应"签名构造"
func (b *Builder) Sign(sk *crypto.PrivateKey) (Message, error) {
	if b.err != nil {
		return Message{}, b.err
	}
	raw, err := b.w.Sign(sk)
	if err != nil {
		return Message{}, err
	}
	return b.schema.bind(raw), nil
}

// WithSignature 附上已知签名并结束构造，不计算也不验证签名.
// 用于转发或重新物化一条真实性已经在别处确认过的消息
func (b *Builder) WithSignature(sig crypto.Signature) (Message, error) {
	if b.err != nil {
		return Message{}, b.err
	}
	return b.schema.bind(b.w.AppendSignature(sig)), nil
}
