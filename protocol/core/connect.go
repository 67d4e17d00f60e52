package core

import (
	"time"

	"github.com/pkg/errors"

	"github.com/azd1997/emsg/common/crypto"
	"github.com/azd1997/emsg/protocol/message"
)

var (
	connectPubKey = message.NewField("pub_key", message.PublicKeyField, 0, 33)
	connectTime   = message.NewField("time", message.Int64, 33, 41)
	connectAddr   = message.NewField("addr", message.String, 41, 105)

	ConnectSchema = message.MustSchema("Connect", ConsensusServiceID, MsgConnect, 105,
		connectPubKey, connectTime, connectAddr)
)

// Connect 节点建立连接时发送的自我介绍，由pub_key自己签名
type Connect struct {
	message.Message
}

func connectBuilder(pub crypto.PublicKey, t time.Time, addr string) (*message.Builder, error) {
	b := ConnectSchema.NewBuilder()
	connectPubKey.Put(b, pub)
	if err := putTime(b, connectTime, t); err != nil {
		return nil, err
	}
	connectAddr.Put(b, addr)
	return b, nil
}

func NewConnect(pub crypto.PublicKey, t time.Time, addr string, sk *crypto.PrivateKey) (*Connect, error) {
	b, err := connectBuilder(pub, t, addr)
	if err != nil {
		return nil, errors.Wrap(err, "NewConnect")
	}
	m, err := b.Sign(sk)
	if err != nil {
		return nil, errors.Wrap(err, "NewConnect")
	}
	return &Connect{m}, nil
}

func NewConnectWithSignature(pub crypto.PublicKey, t time.Time, addr string, sig crypto.Signature) (*Connect, error) {
	b, err := connectBuilder(pub, t, addr)
	if err != nil {
		return nil, errors.Wrap(err, "NewConnectWithSignature")
	}
	m, err := b.WithSignature(sig)
	if err != nil {
		return nil, errors.Wrap(err, "NewConnectWithSignature")
	}
	return &Connect{m}, nil
}

func ConnectFromRaw(raw message.RawMessage) (*Connect, error) {
	m, err := ConnectSchema.FromRaw(raw)
	if err != nil {
		return nil, err
	}
	return &Connect{m}, nil
}

func (c *Connect) PubKey() crypto.PublicKey { return connectPubKey.Get(c.Message) }
func (c *Connect) Time() time.Time          { return time.Unix(0, connectTime.Get(c.Message)) }
func (c *Connect) Addr() string             { return connectAddr.Get(c.Message) }

// Verify 检查签名是否来自消息声明的公钥
func (c *Connect) Verify() error {
	return c.VerifySignature(c.PubKey())
}

func (c *Connect) UnmarshalJSON(data []byte) error {
	return unmarshalInto(ConnectSchema, data, &c.Message)
}
