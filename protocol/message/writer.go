package message

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/azd1997/emsg/common/crypto"
)

// Writer 一次性的消息构造器: 预分配 Header+Body+Signature 的缓冲区并立即写好头部，
// 字段按区间写入Body，最后用 Sign 或 AppendSignature 二选一收尾
type Writer struct {
	buf      []byte
	bodySize int
	finished bool
}

func NewWriter(serviceID, messageID uint16, bodySize int) *Writer {
	if bodySize < 0 || uint64(bodySize) > math.MaxUint32 {
		panic(fmt.Sprintf("message: invalid body size %d", bodySize))
	}
	buf := make([]byte, HeaderSize+bodySize+SignatureSize)
	putHeader(buf, serviceID, messageID, uint32(bodySize))
	return &Writer{buf: buf, bodySize: bodySize}
}

func (w *Writer) mustOpen() {
	if w.finished {
		panic("message: writer already finalized")
	}
}

func (w *Writer) body() []byte {
	w.mustOpen()
	return w.buf[HeaderSize : HeaderSize+w.bodySize]
}

// WriteField 用codec把v写进Body的[from, to)区间.
// 区间越界或与定长类型宽度不符属于schema写错了，直接panic；值本身放不进区间则返回错误
func WriteField[T any](w *Writer, c Codec[T], v T, from, to int) error {
	mustRange(from, to, w.bodySize, c.FieldSize())
	if err := c.Validate(v, to-from); err != nil {
		return err
	}
	c.Write(v, w.body(), from, to)
	return nil
}

// Sign 对 Header+Body 签名并把签名追加在尾部
func (w *Writer) Sign(sk *crypto.PrivateKey) (RawMessage, error) {
	w.mustOpen()
	sig, err := crypto.Sign(sk, w.buf[:HeaderSize+w.bodySize])
	if err != nil {
		return RawMessage{}, errors.Wrap(err, "Writer_Sign")
	}
	return w.finish(sig), nil
}

// AppendSignature 原样追加调用方给出的签名，不计算也不检查
func (w *Writer) AppendSignature(sig crypto.Signature) RawMessage {
	w.mustOpen()
	return w.finish(sig)
}

func (w *Writer) finish(sig crypto.Signature) RawMessage {
	copy(w.buf[HeaderSize+w.bodySize:], sig[:])
	buf := w.buf
	w.buf = nil
	w.finished = true
	return NewRawMessage(buf)
}

func mustRange(from, to, bodySize, fixed int) {
	if from < 0 || from >= to || to > bodySize {
		panic(fmt.Sprintf("message: field range [%d..%d) out of body size %d", from, to, bodySize))
	}
	if fixed > 0 && to-from != fixed {
		panic(fmt.Sprintf("message: field range [%d..%d) does not match width %d", from, to, fixed))
	}
}
