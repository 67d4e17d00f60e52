package core

import (
	"github.com/pkg/errors"

	"github.com/azd1997/emsg/common/crypto"
	"github.com/azd1997/emsg/protocol/message"
)

var (
	statusHeight   = message.NewField("height", message.Uint64, 0, 8)
	statusLastHash = message.NewField("last_hash", message.HashField, 8, 40)
	statusFrom     = message.NewField("from", message.PublicKeyField, 40, 73)

	StatusSchema = message.MustSchema("Status", ConsensusServiceID, MsgStatus, 73,
		statusHeight, statusLastHash, statusFrom)
)

// Status 节点定期广播的当前高度和最新区块哈希
type Status struct {
	message.Message
}

func statusBuilder(height uint64, lastHash crypto.Hash, from crypto.PublicKey) *message.Builder {
	b := StatusSchema.NewBuilder()
	statusHeight.Put(b, height)
	statusLastHash.Put(b, lastHash)
	statusFrom.Put(b, from)
	return b
}

func NewStatus(height uint64, lastHash crypto.Hash, from crypto.PublicKey, sk *crypto.PrivateKey) (*Status, error) {
	m, err := statusBuilder(height, lastHash, from).Sign(sk)
	if err != nil {
		return nil, errors.Wrap(err, "NewStatus")
	}
	return &Status{m}, nil
}

func NewStatusWithSignature(height uint64, lastHash crypto.Hash, from crypto.PublicKey, sig crypto.Signature) (*Status, error) {
	m, err := statusBuilder(height, lastHash, from).WithSignature(sig)
	if err != nil {
		return nil, errors.Wrap(err, "NewStatusWithSignature")
	}
	return &Status{m}, nil
}

func StatusFromRaw(raw message.RawMessage) (*Status, error) {
	m, err := StatusSchema.FromRaw(raw)
	if err != nil {
		return nil, err
	}
	return &Status{m}, nil
}

func (s *Status) Height() uint64         { return statusHeight.Get(s.Message) }
func (s *Status) LastHash() crypto.Hash  { return statusLastHash.Get(s.Message) }
func (s *Status) From() crypto.PublicKey { return statusFrom.Get(s.Message) }

func (s *Status) Verify() error {
	return s.VerifySignature(s.From())
}

func (s *Status) UnmarshalJSON(data []byte) error {
	return unmarshalInto(StatusSchema, data, &s.Message)
}
