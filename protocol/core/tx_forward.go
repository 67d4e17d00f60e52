package core

import (
	"github.com/pkg/errors"

	"github.com/azd1997/emsg/common/crypto"
	"github.com/azd1997/emsg/protocol/message"
)

var (
	txForwardTo = message.NewField("to", message.PublicKeyField, 0, 33)
	txForwardTx = message.NewField("tx", message.Raw, 33, 33+MaxTxLen)

	TxForwardSchema = message.MustSchema("TxForward", ConsensusServiceID, MsgTxForward, 33+MaxTxLen,
		txForwardTo, txForwardTx)
)

// TxForward 把一条交易转发给指定节点. 交易属于哪个服务由上层决定，这里只保证结构完整
type TxForward struct {
	message.Message
}

func txForwardBuilder(to crypto.PublicKey, tx message.RawMessage) *message.Builder {
	b := TxForwardSchema.NewBuilder()
	txForwardTo.Put(b, to)
	txForwardTx.Put(b, tx)
	return b
}

func NewTxForward(to crypto.PublicKey, tx message.RawMessage, sk *crypto.PrivateKey) (*TxForward, error) {
	m, err := txForwardBuilder(to, tx).Sign(sk)
	if err != nil {
		return nil, errors.Wrap(err, "NewTxForward")
	}
	return &TxForward{m}, nil
}

func NewTxForwardWithSignature(to crypto.PublicKey, tx message.RawMessage, sig crypto.Signature) (*TxForward, error) {
	m, err := txForwardBuilder(to, tx).WithSignature(sig)
	if err != nil {
		return nil, errors.Wrap(err, "NewTxForwardWithSignature")
	}
	return &TxForward{m}, nil
}

func TxForwardFromRaw(raw message.RawMessage) (*TxForward, error) {
	m, err := TxForwardSchema.FromRaw(raw)
	if err != nil {
		return nil, err
	}
	return &TxForward{m}, nil
}

func (f *TxForward) To() crypto.PublicKey   { return txForwardTo.Get(f.Message) }
func (f *TxForward) Tx() message.RawMessage { return txForwardTx.Get(f.Message) }

func (f *TxForward) UnmarshalJSON(data []byte) error {
	return unmarshalInto(TxForwardSchema, data, &f.Message)
}
