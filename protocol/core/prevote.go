package core

import (
	"github.com/pkg/errors"

	"github.com/azd1997/emsg/common/crypto"
	"github.com/azd1997/emsg/protocol/message"
)

var (
	prevoteValidator   = message.NewField("validator", message.Uint16, 0, 2)
	prevoteHeight      = message.NewField("height", message.Uint64, 2, 10)
	prevoteRound       = message.NewField("round", message.Uint32, 10, 14)
	prevoteProposeHash = message.NewField("propose_hash", message.HashField, 14, 46)
	prevoteLockedRound = message.NewField("locked_round", message.Uint32, 46, 50)

	PrevoteSchema = message.MustSchema("Prevote", ConsensusServiceID, MsgPrevote, 50,
		prevoteValidator, prevoteHeight, prevoteRound, prevoteProposeHash, prevoteLockedRound)
)

type Prevote struct {
	message.Message
}

func prevoteBuilder(validator uint16, height uint64, round uint32, proposeHash crypto.Hash, lockedRound uint32) *message.Builder {
	b := PrevoteSchema.NewBuilder()
	prevoteValidator.Put(b, validator)
	prevoteHeight.Put(b, height)
	prevoteRound.Put(b, round)
	prevoteProposeHash.Put(b, proposeHash)
	prevoteLockedRound.Put(b, lockedRound)
	return b
}

func NewPrevote(validator uint16, height uint64, round uint32, proposeHash crypto.Hash, lockedRound uint32, sk *crypto.PrivateKey) (*Prevote, error) {
	m, err := prevoteBuilder(validator, height, round, proposeHash, lockedRound).Sign(sk)
	if err != nil {
		return nil, errors.Wrap(err, "NewPrevote")
	}
	return &Prevote{m}, nil
}

func NewPrevoteWithSignature(validator uint16, height uint64, round uint32, proposeHash crypto.Hash, lockedRound uint32, sig crypto.Signature) (*Prevote, error) {
	m, err := prevoteBuilder(validator, height, round, proposeHash, lockedRound).WithSignature(sig)
	if err != nil {
		return nil, errors.Wrap(err, "NewPrevoteWithSignature")
	}
	return &Prevote{m}, nil
}

func PrevoteFromRaw(raw message.RawMessage) (*Prevote, error) {
	m, err := PrevoteSchema.FromRaw(raw)
	if err != nil {
		return nil, err
	}
	return &Prevote{m}, nil
}

func (p *Prevote) Validator() uint16        { return prevoteValidator.Get(p.Message) }
func (p *Prevote) Height() uint64           { return prevoteHeight.Get(p.Message) }
func (p *Prevote) Round() uint32            { return prevoteRound.Get(p.Message) }
func (p *Prevote) ProposeHash() crypto.Hash { return prevoteProposeHash.Get(p.Message) }
func (p *Prevote) LockedRound() uint32      { return prevoteLockedRound.Get(p.Message) }

func (p *Prevote) Verify(validators []crypto.PublicKey) error {
	return verifyByValidator(p.Message, p.Validator(), validators)
}

func (p *Prevote) UnmarshalJSON(data []byte) error {
	return unmarshalInto(PrevoteSchema, data, &p.Message)
}
