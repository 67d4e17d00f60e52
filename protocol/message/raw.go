/**********************************************************************
* @Author: Eiger (201820114847@mail.scut.edu.cn)
* @Date: 2020/5/2 10:14
* @Description: The file is for
***********************************************************************/

package message

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"

	"github.com/azd1997/emsg/common/crypto"
)

/*

RawMessage
+--------------+--------------+------------------+
|  ServiceID   |  MessageID   |     BodyLen      |
+--------------+--------------+------------------+
|              Body (BodyLen bytes)              |
+------------------------------------------------+
|              Signature (64 bytes)              |
+------------------------------------------------+
(bytes, little endian)
ServiceID       2
MessageID       2
BodyLen         4
Body            BodyLen
Signature       64

签名覆盖 Header+Body. 字段区间都是相对Body起点的偏移
*/

const (
	HeaderSize    = 8
	SignatureSize = crypto.SIGNATURE_LEN

	serviceIDOffset = 0
	messageIDOffset = 2
	bodyLenOffset   = 4
)

// RawMessage 不可变的二进制消息. 独占其底层缓冲区，不暴露任何原地修改的方法
type RawMessage struct {
	buf []byte
}

// NewRawMessage 不做任何校验，直接接管buf. 只给刚刚自己组装好缓冲区的Writer用
func NewRawMessage(buf []byte) RawMessage {
	return RawMessage{buf: buf}
}

// ParseRawMessage 拷贝buf并检查总长度与头部声明是否一致. 不做字段级检查
func ParseRawMessage(buf []byte) (RawMessage, error) {
	if err := checkLayout(buf); err != nil {
		return RawMessage{}, err
	}
	own := make([]byte, len(buf))
	copy(own, buf)
	return RawMessage{buf: own}, nil
}

func checkLayout(buf []byte) error {
	if len(buf) < HeaderSize+SignatureSize {
		return &MalformedBufferError{
			Len:    len(buf),
			Want:   HeaderSize + SignatureSize,
			Reason: "shorter than header and signature",
		}
	}
	bodyLen := binary.LittleEndian.Uint32(buf[bodyLenOffset:])
	want := uint64(HeaderSize) + uint64(bodyLen) + SignatureSize
	if uint64(len(buf)) != want {
		return &MalformedBufferError{
			Len:    len(buf),
			Want:   want,
			Reason: fmt.Sprintf("declared body length %d", bodyLen),
		}
	}
	return nil
}

func putHeader(buf []byte, serviceID, messageID uint16, bodyLen uint32) {
	binary.LittleEndian.PutUint16(buf[serviceIDOffset:], serviceID)
	binary.LittleEndian.PutUint16(buf[messageIDOffset:], messageID)
	binary.LittleEndian.PutUint32(buf[bodyLenOffset:], bodyLen)
}

func (r RawMessage) IsEmpty() bool {
	return len(r.buf) == 0
}

func (r RawMessage) Len() int {
	return len(r.buf)
}

// 头部不完整(包括零值)时，头部字段都读作0
func (r RawMessage) ServiceID() uint16 {
	if len(r.buf) < HeaderSize {
		return 0
	}
	return binary.LittleEndian.Uint16(r.buf[serviceIDOffset:])
}

func (r RawMessage) MessageID() uint16 {
	if len(r.buf) < HeaderSize {
		return 0
	}
	return binary.LittleEndian.Uint16(r.buf[messageIDOffset:])
}

func (r RawMessage) BodyLen() uint32 {
	if len(r.buf) < HeaderSize {
		return 0
	}
	return binary.LittleEndian.Uint32(r.buf[bodyLenOffset:])
}

// body 布局不完整时为nil
func (r RawMessage) body() []byte {
	if checkLayout(r.buf) != nil {
		return nil
	}
	return r.buf[HeaderSize : HeaderSize+int(r.BodyLen())]
}

// Body 消息体的拷贝
func (r RawMessage) Body() []byte {
	return cloneBytes(r.body())
}

// ReadRange 读消息体[from, to)区间的拷贝. 消息布局不完整或区间越界时返回错误
func (r RawMessage) ReadRange(from, to int) ([]byte, error) {
	if err := checkLayout(r.buf); err != nil {
		return nil, err
	}
	body := r.body()
	if from < 0 || from > to || to > len(body) {
		return nil, errors.Errorf("range [%d..%d) out of body length %d", from, to, len(body))
	}
	return cloneBytes(body[from:to]), nil
}

// Signature 布局不完整时为全零签名
func (r RawMessage) Signature() crypto.Signature {
	var sig crypto.Signature
	if checkLayout(r.buf) != nil {
		return sig
	}
	copy(sig[:], r.buf[len(r.buf)-SignatureSize:])
	return sig
}

func (r RawMessage) signedData() []byte {
	if checkLayout(r.buf) != nil {
		return nil
	}
	return r.buf[:len(r.buf)-SignatureSize]
}

// SignedData 签名覆盖的部分: Header+Body
func (r RawMessage) SignedData() []byte {
	return cloneBytes(r.signedData())
}

// Bytes 完整线上字节的拷贝
func (r RawMessage) Bytes() []byte {
	return cloneBytes(r.buf)
}

// Hash 整条消息(含签名)的哈希，用作消息ID
func (r RawMessage) Hash() crypto.Hash {
	return crypto.HashD(r.buf)
}

// VerifySignature 检查签名是否由pub对Header+Body所做. 解码路径从不隐式调用它，
// 是否信任某个签名者由调用方决定
func (r RawMessage) VerifySignature(pub crypto.PublicKey) error {
	if err := checkLayout(r.buf); err != nil {
		return err
	}
	return crypto.Verify(pub, r.signedData(), r.Signature())
}

func (r RawMessage) Equal(other RawMessage) bool {
	return bytes.Equal(r.buf, other.buf)
}

func (r RawMessage) String() string {
	if checkLayout(r.buf) != nil {
		return fmt.Sprintf("RawMessage{malformed, %d bytes}", len(r.buf))
	}
	return fmt.Sprintf("RawMessage{service_id: %d, message_id: %d, body_len: %d}",
		r.ServiceID(), r.MessageID(), r.BodyLen())
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
