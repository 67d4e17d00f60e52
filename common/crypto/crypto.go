package crypto

import (
	"crypto/elliptic"
	"math/big"

	"github.com/btcsuite/btcd/btcec"
	"github.com/pkg/errors"

	"github.com/azd1997/emsg/common/encoding"
)

// 使用btcec库包装一下，避免其他模块大量包引用导致后期修改不便
// 签名方案固定为 secp256k1 + RFC6979 ECDSA，签名以定长 R||S 形式出现在消息尾部

const (
	PUBKEY_LEN    = btcec.PubKeyBytesLenCompressed // 33
	PRIVKEY_LEN   = btcec.PrivKeyBytesLen          // 32
	SIGNATURE_LEN = 64
	scalarLen     = 32
)

var S256 *KoblitzCurve = btcec.S256()

type PrivateKey = btcec.PrivateKey
type KoblitzCurve = btcec.KoblitzCurve

var ErrInvalidSignature = errors.New("invalid signature")

//////////////////////////////////////////////////////////////////////////

// PublicKey 压缩编码的公钥(33B)
type PublicKey [PUBKEY_LEN]byte

func (p PublicKey) ToHex() string {
	return encoding.ToHex(p[:])
}

func (p PublicKey) String() string {
	return p.ToHex()
}

// IsValid 检查是否为曲线上合法的压缩公钥
func (p PublicKey) IsValid() bool {
	_, err := p.parse()
	return err == nil
}

// Address 由公钥派生的地址
func (p PublicKey) Address() Address {
	return AddressOf(p)
}

func (p PublicKey) parse() (*btcec.PublicKey, error) {
	if p[0] != 0x02 && p[0] != 0x03 {
		return nil, errors.Errorf("invalid public key prefix 0x%02x", p[0])
	}
	return btcec.ParsePubKey(p[:], S256)
}

func PublicKeyFromHex(s string) (PublicKey, error) {
	var p PublicKey
	if err := encoding.FromHexFixed(s, p[:]); err != nil {
		return p, errors.Wrap(err, "PublicKeyFromHex")
	}
	return p, nil
}

//////////////////////////////////////////////////////////////////////////

// Signature 定长签名 R(32B)||S(32B)
type Signature [SIGNATURE_LEN]byte

func (s Signature) ToHex() string {
	return encoding.ToHex(s[:])
}

func (s Signature) String() string {
	return s.ToHex()
}

// IsCanonical 检查 R、S 是否都落在 [1, N) 内
func (s Signature) IsCanonical() bool {
	r, sv := s.scalars()
	return inScalarRange(r) && inScalarRange(sv)
}

func (s Signature) scalars() (*big.Int, *big.Int) {
	r := new(big.Int).SetBytes(s[:scalarLen])
	sv := new(big.Int).SetBytes(s[scalarLen:])
	return r, sv
}

func inScalarRange(v *big.Int) bool {
	return v.Sign() > 0 && v.Cmp(S256.N) < 0
}

func SignatureFromHex(str string) (Signature, error) {
	var s Signature
	if err := encoding.FromHexFixed(str, s[:]); err != nil {
		return s, errors.Wrap(err, "SignatureFromHex")
	}
	return s, nil
}

//////////////////////////////////////////////////////////////////////////

// NewPrivateKeyS256 新建PrivateKey
func NewPrivateKeyS256() (*PrivateKey, error) {
	return btcec.NewPrivateKey(S256)
}

// GenKeyPair 生成一对新的密钥
func GenKeyPair() (PublicKey, *PrivateKey, error) {
	priv, err := NewPrivateKeyS256()
	if err != nil {
		return PublicKey{}, nil, errors.Wrap(err, "GenKeyPair")
	}
	return PublicKeyOf(priv), priv, nil
}

// PublicKeyOf 取私钥对应的压缩公钥
func PublicKeyOf(priv *PrivateKey) PublicKey {
	var p PublicKey
	copy(p[:], priv.PubKey().SerializeCompressed())
	return p
}

func PrivKeyFromBytes(curve elliptic.Curve, privKeyBytes []byte) *PrivateKey {
	priv, _ := btcec.PrivKeyFromBytes(curve, privKeyBytes)
	return priv
}

func PrivKeyFromBytesS256(privKeyBytes []byte) (*PrivateKey, error) {
	if len(privKeyBytes) != PRIVKEY_LEN {
		return nil, errors.Errorf("private key has %d bytes, want %d", len(privKeyBytes), PRIVKEY_LEN)
	}
	return PrivKeyFromBytes(S256, privKeyBytes), nil
}

//////////////////////////////////////////////////////////////////////////

// Sign 私钥签名。先对数据做sha256，再做ECDSA签名
func Sign(priv *PrivateKey, data []byte) (Signature, error) {
	var out Signature
	if priv == nil {
		return out, errors.New("nil private key")
	}
	digest := HashD(data)
	sig, err := priv.Sign(digest[:])
	if err != nil {
		return out, errors.Wrap(err, "Sign")
	}
	rb, sb := sig.R.Bytes(), sig.S.Bytes()
	copy(out[scalarLen-len(rb):scalarLen], rb)
	copy(out[SIGNATURE_LEN-len(sb):], sb)
	return out, nil
}

// Verify 公钥验证签名. 只回答"这个签名是不是这个公钥对这段数据做的"，信任与否由调用方决定
func Verify(pub PublicKey, data []byte, sig Signature) error {
	if !sig.IsCanonical() {
		return errors.Wrap(ErrInvalidSignature, "signature scalar out of range")
	}
	publicKey, err := pub.parse()
	if err != nil {
		return errors.Wrap(err, "Verify")
	}
	r, s := sig.scalars()
	digest := HashD(data)
	ecSig := &btcec.Signature{R: r, S: s}
	if !ecSig.Verify(digest[:], publicKey) {
		return ErrInvalidSignature
	}
	return nil
}
