package crypto

import (
	"golang.org/x/crypto/ripemd160"

	"github.com/pkg/errors"

	"github.com/azd1997/emsg/common/encoding"
)

// Address: publicKey -> sha256 -> ripemd160 (20B)
// 文本形式: version(1B) + address + checksum(4B) -> base58

const (
	ADDRESS_LEN    = ripemd160.Size
	AddressVersion = byte(0x21)
)

type Address [ADDRESS_LEN]byte

var ZeroAddress Address

func AddressOf(pub PublicKey) Address {
	sum := HashD(pub[:])
	hasher := ripemd160.New()
	hasher.Write(sum[:])
	var a Address
	copy(a[:], hasher.Sum(nil))
	return a
}

func (a Address) String() string {
	return encoding.Base58CheckEncode(AddressVersion, a[:])
}

func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// ParseAddress 解析base58check格式的地址，版本号或校验和不对都返回错误
func ParseAddress(s string) (Address, error) {
	var a Address
	version, payload, err := encoding.Base58CheckDecode(s)
	if err != nil {
		return a, errors.Wrap(err, "ParseAddress")
	}
	if version != AddressVersion {
		return a, errors.Errorf("ParseAddress: unexpected version 0x%02x", version)
	}
	if len(payload) != ADDRESS_LEN {
		return a, errors.Errorf("ParseAddress: payload has %d bytes, want %d", len(payload), ADDRESS_LEN)
	}
	copy(a[:], payload)
	return a, nil
}
