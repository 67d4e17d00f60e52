package core

import (
	"time"

	"github.com/pkg/errors"

	"github.com/azd1997/emsg/common/crypto"
	"github.com/azd1997/emsg/protocol/message"
)

var (
	precommitValidator   = message.NewField("validator", message.Uint16, 0, 2)
	precommitHeight      = message.NewField("height", message.Uint64, 2, 10)
	precommitRound       = message.NewField("round", message.Uint32, 10, 14)
	precommitProposeHash = message.NewField("propose_hash", message.HashField, 14, 46)
	precommitBlockHash   = message.NewField("block_hash", message.HashField, 46, 78)
	precommitTime        = message.NewField("time", message.Int64, 78, 86)

	PrecommitSchema = message.MustSchema("Precommit", ConsensusServiceID, MsgPrecommit, 86,
		precommitValidator, precommitHeight, precommitRound, precommitProposeHash, precommitBlockHash, precommitTime)
)

// Precommit 验证者对某一提案及其执行结果(区块哈希)的最终投票
type Precommit struct {
	message.Message
}

func precommitBuilder(validator uint16, height uint64, round uint32, proposeHash, blockHash crypto.Hash, t time.Time) (*message.Builder, error) {
	b := PrecommitSchema.NewBuilder()
	precommitValidator.Put(b, validator)
	precommitHeight.Put(b, height)
	precommitRound.Put(b, round)
	precommitProposeHash.Put(b, proposeHash)
	precommitBlockHash.Put(b, blockHash)
	if err := putTime(b, precommitTime, t); err != nil {
		return nil, err
	}
	return b, nil
}

func NewPrecommit(validator uint16, height uint64, round uint32, proposeHash, blockHash crypto.Hash, t time.Time, sk *crypto.PrivateKey) (*Precommit, error) {
	b, err := precommitBuilder(validator, height, round, proposeHash, blockHash, t)
	if err != nil {
		return nil, errors.Wrap(err, "NewPrecommit")
	}
	m, err := b.Sign(sk)
	if err != nil {
		return nil, errors.Wrap(err, "NewPrecommit")
	}
	return &Precommit{m}, nil
}

func NewPrecommitWithSignature(validator uint16, height uint64, round uint32, proposeHash, blockHash crypto.Hash, t time.Time, sig crypto.Signature) (*Precommit, error) {
	b, err := precommitBuilder(validator, height, round, proposeHash, blockHash, t)
	if err != nil {
		return nil, errors.Wrap(err, "NewPrecommitWithSignature")
	}
	m, err := b.WithSignature(sig)
	if err != nil {
		return nil, errors.Wrap(err, "NewPrecommitWithSignature")
	}
	return &Precommit{m}, nil
}

func PrecommitFromRaw(raw message.RawMessage) (*Precommit, error) {
	m, err := PrecommitSchema.FromRaw(raw)
	if err != nil {
		return nil, err
	}
	return &Precommit{m}, nil
}

func (p *Precommit) Validator() uint16        { return precommitValidator.Get(p.Message) }
func (p *Precommit) Height() uint64           { return precommitHeight.Get(p.Message) }
func (p *Precommit) Round() uint32            { return precommitRound.Get(p.Message) }
func (p *Precommit) ProposeHash() crypto.Hash { return precommitProposeHash.Get(p.Message) }
func (p *Precommit) BlockHash() crypto.Hash   { return precommitBlockHash.Get(p.Message) }
func (p *Precommit) Time() time.Time          { return time.Unix(0, precommitTime.Get(p.Message)) }

func (p *Precommit) Verify(validators []crypto.PublicKey) error {
	return verifyByValidator(p.Message, p.Validator(), validators)
}

func (p *Precommit) UnmarshalJSON(data []byte) error {
	return unmarshalInto(PrecommitSchema, data, &p.Message)
}
