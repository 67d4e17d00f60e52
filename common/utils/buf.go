package utils

import (
	"bytes"
	"sync"
)

var bufPool = sync.Pool{
	New: func() interface{} {
		return new(bytes.Buffer)
	},
}

// GetBuf 从池中取一个空的Buffer. 用完必须ReturnBuf, 且ReturnBuf之后不能再引用buf.Bytes()
func GetBuf() *bytes.Buffer {
	buf := bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func ReturnBuf(buf *bytes.Buffer) {
	bufPool.Put(buf)
}

// CopyBytes 取出buf内容的拷贝，用于在ReturnBuf之前把结果带出去
func CopyBytes(buf *bytes.Buffer) []byte {
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out
}
