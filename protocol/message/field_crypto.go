package message

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/azd1997/emsg/common/crypto"
)

// 哈希、公钥、签名在JSON中都是不带0x的小写十六进制串; 地址是base58check串

type hashCodec struct{}

var HashField Codec[crypto.Hash] = hashCodec{}

func (hashCodec) FieldSize() int { return crypto.HASH_LENGTH }

func (hashCodec) Check(body []byte, from, to int) error {
	return checkSlot(body, from, to, crypto.HASH_LENGTH)
}

func (hashCodec) Read(body []byte, from, to int) crypto.Hash {
	var h crypto.Hash
	copy(h[:], body[from:to])
	return h
}

func (hashCodec) Write(v crypto.Hash, body []byte, from, to int) {
	copy(body[from:to], v[:])
}

func (hashCodec) Validate(v crypto.Hash, width int) error {
	return checkWidth(width, crypto.HASH_LENGTH)
}

func (hashCodec) EncodeJSON(v crypto.Hash) ([]byte, error) {
	return json.Marshal(v.ToHex())
}

func (hashCodec) DecodeJSON(data []byte) (crypto.Hash, error) {
	s, err := decodeJSONString(data)
	if err != nil {
		return crypto.Hash{}, err
	}
	return crypto.HashFromHex(s)
}

////////////////////////////////////////////////////////////////////

// publicKeyCodec 压缩公钥，要求是曲线上的合法点
type publicKeyCodec struct{}

var PublicKeyField Codec[crypto.PublicKey] = publicKeyCodec{}

func (publicKeyCodec) FieldSize() int { return crypto.PUBKEY_LEN }

func (publicKeyCodec) Check(body []byte, from, to int) error {
	if err := checkSlot(body, from, to, crypto.PUBKEY_LEN); err != nil {
		return err
	}
	var p crypto.PublicKey
	copy(p[:], body[from:to])
	if !p.IsValid() {
		return errors.New("invalid public key")
	}
	return nil
}

func (publicKeyCodec) Read(body []byte, from, to int) crypto.PublicKey {
	var p crypto.PublicKey
	copy(p[:], body[from:to])
	return p
}

func (publicKeyCodec) Write(v crypto.PublicKey, body []byte, from, to int) {
	copy(body[from:to], v[:])
}

func (publicKeyCodec) Validate(v crypto.PublicKey, width int) error {
	if err := checkWidth(width, crypto.PUBKEY_LEN); err != nil {
		return err
	}
	if !v.IsValid() {
		return errors.New("invalid public key")
	}
	return nil
}

func (publicKeyCodec) EncodeJSON(v crypto.PublicKey) ([]byte, error) {
	return json.Marshal(v.ToHex())
}

func (publicKeyCodec) DecodeJSON(data []byte) (crypto.PublicKey, error) {
	s, err := decodeJSONString(data)
	if err != nil {
		return crypto.PublicKey{}, err
	}
	return crypto.PublicKeyFromHex(s)
}

////////////////////////////////////////////////////////////////////

// signatureCodec 作为字段出现的签名(比如转发别人的签名)，R、S都必须在[1, N)内
type signatureCodec struct{}

var SignatureField Codec[crypto.Signature] = signatureCodec{}

func (signatureCodec) FieldSize() int { return crypto.SIGNATURE_LEN }

func (signatureCodec) Check(body []byte, from, to int) error {
	if err := checkSlot(body, from, to, crypto.SIGNATURE_LEN); err != nil {
		return err
	}
	var s crypto.Signature
	copy(s[:], body[from:to])
	if !s.IsCanonical() {
		return errors.New("signature scalar out of range")
	}
	return nil
}

func (signatureCodec) Read(body []byte, from, to int) crypto.Signature {
	var s crypto.Signature
	copy(s[:], body[from:to])
	return s
}

func (signatureCodec) Write(v crypto.Signature, body []byte, from, to int) {
	copy(body[from:to], v[:])
}

func (signatureCodec) Validate(v crypto.Signature, width int) error {
	if err := checkWidth(width, crypto.SIGNATURE_LEN); err != nil {
		return err
	}
	if !v.IsCanonical() {
		return errors.New("signature scalar out of range")
	}
	return nil
}

func (signatureCodec) EncodeJSON(v crypto.Signature) ([]byte, error) {
	return json.Marshal(v.ToHex())
}

func (signatureCodec) DecodeJSON(data []byte) (crypto.Signature, error) {
	s, err := decodeJSONString(data)
	if err != nil {
		return crypto.Signature{}, err
	}
	return crypto.SignatureFromHex(s)
}

////////////////////////////////////////////////////////////////////

type addressCodec struct{}

var AddressField Codec[crypto.Address] = addressCodec{}

func (addressCodec) FieldSize() int { return crypto.ADDRESS_LEN }

func (addressCodec) Check(body []byte, from, to int) error {
	return checkSlot(body, from, to, crypto.ADDRESS_LEN)
}

func (addressCodec) Read(body []byte, from, to int) crypto.Address {
	var a crypto.Address
	copy(a[:], body[from:to])
	return a
}

func (addressCodec) Write(v crypto.Address, body []byte, from, to int) {
	copy(body[from:to], v[:])
}

func (addressCodec) Validate(v crypto.Address, width int) error {
	return checkWidth(width, crypto.ADDRESS_LEN)
}

func (addressCodec) EncodeJSON(v crypto.Address) ([]byte, error) {
	return json.Marshal(v.String())
}

func (addressCodec) DecodeJSON(data []byte) (crypto.Address, error) {
	s, err := decodeJSONString(data)
	if err != nil {
		return crypto.Address{}, err
	}
	return crypto.ParseAddress(s)
}
