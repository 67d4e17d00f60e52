package encoding

import (
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

// ToHex 小写十六进制，不带0x前缀
func ToHex(data []byte) string {
	return hex.EncodeToString(data)
}

// FromHex 接受带或不带0x前缀的十六进制串
func FromHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(err, "FromHex")
	}
	return b, nil
}

// FromHexFixed 解码到定长的dst中，长度不一致则报错
func FromHexFixed(s string, dst []byte) error {
	b, err := FromHex(s)
	if err != nil {
		return err
	}
	if len(b) != len(dst) {
		return errors.Errorf("hex decodes to %d bytes, want %d", len(b), len(dst))
	}
	copy(dst, b)
	return nil
}
