package message

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// 连续写在字节流中的消息靠头部的体长自行分界，不需要额外的长度前缀

func (r RawMessage) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.buf)
	return int64(n), err
}

func declaredLen(head []byte, maxBodyLen uint32) (int, error) {
	bodyLen := binary.LittleEndian.Uint32(head[bodyLenOffset:])
	if bodyLen > maxBodyLen {
		return 0, &MalformedBufferError{
			Len:    len(head),
			Want:   uint64(HeaderSize) + uint64(bodyLen) + SignatureSize,
			Reason: fmt.Sprintf("body length %d exceeds limit %d", bodyLen, maxBodyLen),
		}
	}
	return HeaderSize + int(bodyLen) + SignatureSize, nil
}

// ReadRawMessage 从流中读出一条完整消息. 头部声明的体长超过maxBodyLen时直接拒绝，不再读后面的字节.
// 流恰好在消息边界结束时返回 io.EOF
func ReadRawMessage(r io.Reader, maxBodyLen uint32) (RawMessage, error) {
	head := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, head); err != nil {
		if err == io.EOF {
			return RawMessage{}, err
		}
		return RawMessage{}, errors.Wrap(err, "ReadRawMessage: header")
	}
	total, err := declaredLen(head, maxBodyLen)
	if err != nil {
		return RawMessage{}, err
	}
	buf := make([]byte, total)
	copy(buf, head)
	if _, err := io.ReadFull(r, buf[HeaderSize:]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return RawMessage{}, errors.Wrap(err, "ReadRawMessage: body")
	}
	return NewRawMessage(buf), nil
}

// SplitRawMessages 从接收缓冲中切出所有完整的消息，不完整的尾部留在received里等下次
func SplitRawMessages(received *bytes.Buffer, maxBodyLen uint32) ([]RawMessage, error) {
	var msgs []RawMessage
	for received.Len() >= HeaderSize {
		total, err := declaredLen(received.Bytes()[:HeaderSize], maxBodyLen)
		if err != nil {
			return msgs, err
		}
		if received.Len() < total {
			break
		}
		buf := make([]byte, total)
		if _, err := received.Read(buf); err != nil {
			return msgs, errors.Wrap(err, "SplitRawMessages")
		}
		msgs = append(msgs, NewRawMessage(buf))
	}
	return msgs, nil
}
