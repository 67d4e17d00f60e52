package params

import "fmt"

type CodeVersion uint16 // 用三位数字表示版本号, 如 102 表示 v1.0.2

const (
	// CodecVersionV1 starts from v1.0.0. 线上格式: 8B头 + 消息体 + 64B签名
	CodecVersionV1 = CodeVersion(100)
)

var CurrentCodeVersion = CodecVersionV1

func (v CodeVersion) String() string {
	return fmt.Sprintf("v%d.%d.%d", v/100, v/10%10, v%10)
}
