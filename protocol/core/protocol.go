package core

import (
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/azd1997/emsg/common/crypto"
	"github.com/azd1997/emsg/protocol/message"
)

// 共识服务的消息都在服务0下
const ConsensusServiceID = 0

// 协议消息编号
const (
	MsgConnect        = 0
	MsgStatus         = 1
	MsgPropose        = 2
	MsgPrevote        = 3
	MsgPrecommit      = 4
	MsgPrecommitRelay = 5
	MsgTxForward      = 6
)

const (
	// MaxAddrLen Connect中监听地址的最大字节数
	MaxAddrLen = 60
	// MaxProposeTxs 一个提案最多携带的交易哈希数
	MaxProposeTxs = 16
	// MaxTxLen 转发的交易(一条完整的原始消息)的最大字节数
	MaxTxLen = 1024
)

/*

所有消息的消息体布局(字节偏移，左闭右开)

Connect         pub_key   PublicKey    [0..33)
                time      Int64        [33..41)     unix纳秒
                addr      String       [41..105)
Status          height    Uint64       [0..8)
                last_hash Hash         [8..40)
                from      PublicKey    [40..73)
Propose         validator Uint16       [0..2)
                height    Uint64       [2..10)
                round     Uint32       [10..14)
                prev_hash Hash         [14..46)
                transactions List(Hash) [46..562)
Prevote         validator, height, round 同Propose
                propose_hash Hash      [14..46)
                locked_round Uint32    [46..50)
Precommit       validator, height, round 同Propose
                propose_hash Hash      [14..46)
                block_hash   Hash      [46..78)
                time         Int64     [78..86)
PrecommitRelay  to        PublicKey    [0..33)
                precommit Precommit    [33..191)
TxForward       to        PublicKey    [0..33)
                tx        Raw          [33..1057)
*/

func schemas() []*message.Schema {
	return []*message.Schema{
		ConnectSchema,
		StatusSchema,
		ProposeSchema,
		PrevoteSchema,
		PrecommitSchema,
		PrecommitRelaySchema,
		TxForwardSchema,
	}
}

// Register 把全部共识消息注册到r
func Register(r *message.Registry) error {
	return errors.Wrap(r.Register(schemas()...), "core.Register")
}

// Registry 返回一个只注册了共识消息的Registry
func Registry() *message.Registry {
	r := message.NewRegistry()
	if err := Register(r); err != nil {
		panic(err)
	}
	return r
}

// ValidatorKey 按验证者编号取公钥
func ValidatorKey(validators []crypto.PublicKey, validator uint16) (crypto.PublicKey, error) {
	if int(validator) >= len(validators) {
		return crypto.PublicKey{}, errors.Errorf("unknown validator %d of %d", validator, len(validators))
	}
	return validators[validator], nil
}

func verifyByValidator(m message.Message, validator uint16, validators []crypto.PublicKey) error {
	pub, err := ValidatorKey(validators, validator)
	if err != nil {
		return err
	}
	return m.VerifySignature(pub)
}

// unmarshalInto 供各消息的UnmarshalJSON使用
func unmarshalInto(s *message.Schema, data []byte, dst *message.Message) error {
	m, err := s.DecodeJSON(data)
	if err != nil {
		return err
	}
	*dst = m
	return nil
}

// 时间字段存unix纳秒，能表示的范围约为1678年到2262年
var (
	MinTime = time.Unix(0, math.MinInt64)
	MaxTime = time.Unix(0, math.MaxInt64)
)

// putTime 超出纳秒表示范围的时间(包括零值time.Time{})记为该字段的检查错误
func putTime(b *message.Builder, f *message.FieldDef[int64], t time.Time) error {
	if t.Before(MinTime) || t.After(MaxTime) {
		from, to := f.Range()
		return &message.FieldError{Field: f.Name(), From: from, To: to,
			Err: errors.Errorf("time %s out of unix nano range", t.UTC().Format(time.RFC3339))}
	}
	f.Put(b, t.UnixNano())
	return nil
}
