package core

import (
	"github.com/pkg/errors"

	"github.com/azd1997/emsg/common/crypto"
	"github.com/azd1997/emsg/protocol/message"
)

var (
	relayTo        = message.NewField("to", message.PublicKeyField, 0, 33)
	relayPrecommit = message.NewField("precommit", message.Nested(PrecommitSchema), 33, 33+PrecommitSchema.Size())

	PrecommitRelaySchema = message.MustSchema("PrecommitRelay", ConsensusServiceID, MsgPrecommitRelay, 191,
		relayTo, relayPrecommit)
)

// PrecommitRelay 把别的验证者签过的Precommit原样转给落后的节点.
// 外层由转发者签名，内层保留原投票者的签名
type PrecommitRelay struct {
	message.Message
}

func precommitRelayBuilder(to crypto.PublicKey, precommit *Precommit) *message.Builder {
	b := PrecommitRelaySchema.NewBuilder()
	relayTo.Put(b, to)
	var inner message.Message
	if precommit != nil {
		inner = precommit.Message
	}
	relayPrecommit.Put(b, inner)
	return b
}

func NewPrecommitRelay(to crypto.PublicKey, precommit *Precommit, sk *crypto.PrivateKey) (*PrecommitRelay, error) {
	m, err := precommitRelayBuilder(to, precommit).Sign(sk)
	if err != nil {
		return nil, errors.Wrap(err, "NewPrecommitRelay")
	}
	return &PrecommitRelay{m}, nil
}

func NewPrecommitRelayWithSignature(to crypto.PublicKey, precommit *Precommit, sig crypto.Signature) (*PrecommitRelay, error) {
	m, err := precommitRelayBuilder(to, precommit).WithSignature(sig)
	if err != nil {
		return nil, errors.Wrap(err, "NewPrecommitRelayWithSignature")
	}
	return &PrecommitRelay{m}, nil
}

func PrecommitRelayFromRaw(raw message.RawMessage) (*PrecommitRelay, error) {
	m, err := PrecommitRelaySchema.FromRaw(raw)
	if err != nil {
		return nil, err
	}
	return &PrecommitRelay{m}, nil
}

func (r *PrecommitRelay) To() crypto.PublicKey { return relayTo.Get(r.Message) }

func (r *PrecommitRelay) Precommit() *Precommit {
	return &Precommit{relayPrecommit.Get(r.Message)}
}

func (r *PrecommitRelay) UnmarshalJSON(data []byte) error {
	return unmarshalInto(PrecommitRelaySchema, data, &r.Message)
}
