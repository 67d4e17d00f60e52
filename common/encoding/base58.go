package encoding

import (
	"bytes"
	"crypto/sha256"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

const checksumLen = 4

var ErrChecksum = errors.New("checksum mismatch")

// Base58CheckEncode version + payload + checksum(前4字节双重sha256) -> base58
func Base58CheckEncode(version byte, payload []byte) string {
	data := make([]byte, 0, 1+len(payload)+checksumLen)
	data = append(data, version)
	data = append(data, payload...)
	data = append(data, checksum(data)...)
	return base58.Encode(data)
}

// Base58CheckDecode 返回版本号与payload
func Base58CheckDecode(s string) (byte, []byte, error) {
	data, err := base58.Decode(s)
	if err != nil {
		return 0, nil, errors.Wrap(err, "Base58CheckDecode")
	}
	if len(data) < 1+checksumLen {
		return 0, nil, errors.Errorf("Base58CheckDecode: decoded %d bytes, too short", len(data))
	}
	body, sum := data[:len(data)-checksumLen], data[len(data)-checksumLen:]
	if !bytes.Equal(checksum(body), sum) {
		return 0, nil, ErrChecksum
	}
	return body[0], body[1:], nil
}

func checksum(data []byte) []byte {
	first := sha256.Sum256(data)
	second := sha256.Sum256(first[:])
	return second[:checksumLen]
}
