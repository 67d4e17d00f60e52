package core

import (
	"github.com/pkg/errors"

	"github.com/azd1997/emsg/common/crypto"
	"github.com/azd1997/emsg/protocol/message"
)

var (
	proposeValidator    = message.NewField("validator", message.Uint16, 0, 2)
	proposeHeight       = message.NewField("height", message.Uint64, 2, 10)
	proposeRound        = message.NewField("round", message.Uint32, 10, 14)
	proposePrevHash     = message.NewField("prev_hash", message.HashField, 14, 46)
	proposeTransactions = message.NewField("transactions", message.List(message.HashField), 46, 46+4+MaxProposeTxs*crypto.HASH_LENGTH)

	ProposeSchema = message.MustSchema("Propose", ConsensusServiceID, MsgPropose, 562,
		proposeValidator, proposeHeight, proposeRound, proposePrevHash, proposeTransactions)
)

// Propose 某一轮的领导者提出的区块提案，只携带交易哈希
type Propose struct {
	message.Message
}

func proposeBuilder(validator uint16, height uint64, round uint32, prevHash crypto.Hash, txs []crypto.Hash) *message.Builder {
	b := ProposeSchema.NewBuilder()
	proposeValidator.Put(b, validator)
	proposeHeight.Put(b, height)
	proposeRound.Put(b, round)
	proposePrevHash.Put(b, prevHash)
	proposeTransactions.Put(b, txs)
	return b
}

func NewPropose(validator uint16, height uint64, round uint32, prevHash crypto.Hash, txs []crypto.Hash, sk *crypto.PrivateKey) (*Propose, error) {
	m, err := proposeBuilder(validator, height, round, prevHash, txs).Sign(sk)
	if err != nil {
		return nil, errors.Wrap(err, "NewPropose")
	}
	return &Propose{m}, nil
}

func NewProposeWithSignature(validator uint16, height uint64, round uint32, prevHash crypto.Hash, txs []crypto.Hash, sig crypto.Signature) (*Propose, error) {
	m, err := proposeBuilder(validator, height, round, prevHash, txs).WithSignature(sig)
	if err != nil {
		return nil, errors.Wrap(err, "NewProposeWithSignature")
	}
	return &Propose{m}, nil
}

func ProposeFromRaw(raw message.RawMessage) (*Propose, error) {
	m, err := ProposeSchema.FromRaw(raw)
	if err != nil {
		return nil, err
	}
	return &Propose{m}, nil
}

func (p *Propose) Validator() uint16           { return proposeValidator.Get(p.Message) }
func (p *Propose) Height() uint64              { return proposeHeight.Get(p.Message) }
func (p *Propose) Round() uint32               { return proposeRound.Get(p.Message) }
func (p *Propose) PrevHash() crypto.Hash       { return proposePrevHash.Get(p.Message) }
func (p *Propose) Transactions() []crypto.Hash { return proposeTransactions.Get(p.Message) }

// Verify 用验证者列表里对应编号的公钥检查签名
func (p *Propose) Verify(validators []crypto.PublicKey) error {
	return verifyByValidator(p.Message, p.Validator(), validators)
}

func (p *Propose) UnmarshalJSON(data []byte) error {
	return unmarshalInto(ProposeSchema, data, &p.Message)
}
