package message

import (
	"testing"

	"github.com/azd1997/emsg/common/crypto"
)

// Toy 1:7, 消息体12字节，9..12 保留
var (
	toyAmount = NewField("amount", Uint64, 0, 8)
	toyFlag   = NewField("flag", Uint8, 8, 9)
	toySchema = MustSchema("Toy", 1, 7, 12, toyAmount, toyFlag)
)

// Wallet 1:8, 覆盖大部分字段类型
var (
	walletOwner   = NewField("owner", PublicKeyField, 0, 33)
	walletName    = NewField("name", String, 33, 65)
	walletActive  = NewField("active", Bool, 65, 66)
	walletBalance = NewField("balance", Int64, 66, 74)
	walletHistory = NewField("history", List(HashField), 74, 174)
	walletAddress = NewField("address", AddressField, 174, 194)
	walletMemo    = NewField("memo", Bytes, 194, 210)
	walletSchema  = MustSchema("Wallet", 1, 8, 210,
		walletOwner, walletName, walletActive, walletBalance, walletHistory, walletAddress, walletMemo)
)

// Envelope 2:1, 嵌套一条Toy和一条任意消息
var (
	envelopeNote   = NewField("note", String, 0, 20)
	envelopeToy    = NewField("toy", Nested(toySchema), 20, 20+toySchema.Size())
	envelopeExtra  = NewField("extra", Raw, 104, 304)
	envelopeSchema = MustSchema("Envelope", 2, 1, 304, envelopeNote, envelopeToy, envelopeExtra)
)

type walletValues struct {
	owner   crypto.PublicKey
	name    string
	active  bool
	balance int64
	history []crypto.Hash
	address crypto.Address
	memo    []byte
}

func genKey(t *testing.T) (crypto.PublicKey, *crypto.PrivateKey) {
	t.Helper()
	pub, priv, err := crypto.GenKeyPair()
	if err != nil {
		t.Fatal(err)
	}
	return pub, priv
}

func newToy(t *testing.T, amount uint64, flag uint8, sk *crypto.PrivateKey) Message {
	t.Helper()
	b := toySchema.NewBuilder()
	toyAmount.Put(b, amount)
	toyFlag.Put(b, flag)
	m, err := b.Sign(sk)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func genWalletValues(t *testing.T) walletValues {
	t.Helper()
	owner, _ := genKey(t)
	return walletValues{
		owner:   owner,
		name:    "alice 的钱包",
		active:  true,
		balance: -1024,
		history: []crypto.Hash{crypto.HashD([]byte("a")), crypto.HashD([]byte("b"))},
		address: owner.Address(),
		memo:    []byte{0xde, 0xad, 0xbe, 0xef},
	}
}

func buildWallet(v walletValues) *Builder {
	b := walletSchema.NewBuilder()
	walletOwner.Put(b, v.owner)
	walletName.Put(b, v.name)
	walletActive.Put(b, v.active)
	walletBalance.Put(b, v.balance)
	walletHistory.Put(b, v.history)
	walletAddress.Put(b, v.address)
	walletMemo.Put(b, v.memo)
	return b
}

func newWallet(t *testing.T, v walletValues, sk *crypto.PrivateKey) Message {
	t.Helper()
	m, err := buildWallet(v).Sign(sk)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func newEnvelope(t *testing.T, note string, toy Message, extra RawMessage, sk *crypto.PrivateKey) Message {
	t.Helper()
	b := envelopeSchema.NewBuilder()
	envelopeNote.Put(b, note)
	envelopeToy.Put(b, toy)
	envelopeExtra.Put(b, extra)
	m, err := b.Sign(sk)
	if err != nil {
		t.Fatal(err)
	}
	return m
}
