package crypto

import (
	"crypto/sha256"

	"github.com/pkg/errors"

	"github.com/azd1997/emsg/common/encoding"
)

const HASH_LENGTH = sha256.Size

// Hash 统一使用SHA256 32B长度. 当然要改的话只需要在这里改就行了
type Hash [HASH_LENGTH]byte

var ZeroHash Hash // 用来表示未设置哈希值

// HashD 哈希
func HashD(data []byte) Hash {
	return sha256.Sum256(data)
}

// HashH 双重哈希
func HashH(data []byte) Hash {
	h := HashD(data)
	return HashD(h[:])
}

func (h Hash) IsZero() bool {
	return h == ZeroHash
}

func (h Hash) ToHex() string {
	return encoding.ToHex(h[:])
}

func (h Hash) String() string {
	return h.ToHex()
}

func HashFromHex(s string) (Hash, error) {
	var h Hash
	if err := encoding.FromHexFixed(s, h[:]); err != nil {
		return h, errors.Wrap(err, "HashFromHex")
	}
	return h, nil
}
