package message

import (
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/azd1997/emsg/common/log"
)

// Registry 按 (service_id, message_id) 找到对应schema，把收到的原始字节或JSON分派给它.
// 可并发使用
type Registry struct {
	mu      sync.RWMutex
	schemas map[uint32]*Schema
	logger  *log.Logger
}

func NewRegistry() *Registry {
	return &Registry{
		schemas: make(map[uint32]*Schema),
		logger:  log.NewLogger("message"),
	}
}

func registryKey(serviceID, messageID uint16) uint32 {
	return uint32(serviceID)<<16 | uint32(messageID)
}

// Register 同一对标识只能注册一次. 出错时本次调用的schema一个都不注册
func (r *Registry) Register(schemas ...*Schema) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	added := make(map[uint32]*Schema, len(schemas))
	for _, s := range schemas {
		key := registryKey(s.serviceID, s.messageID)
		if old, ok := r.schemas[key]; ok {
			return errors.Errorf("Register: service_id %d message_id %d already registered as %s", s.serviceID, s.messageID, old.name)
		}
		if old, ok := added[key]; ok {
			return errors.Errorf("Register: service_id %d message_id %d registered twice (%s, %s)", s.serviceID, s.messageID, old.name, s.name)
		}
		added[key] = s
	}
	for key, s := range added {
		r.schemas[key] = s
	}
	return nil
}

func (r *Registry) Lookup(serviceID, messageID uint16) (*Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[registryKey(serviceID, messageID)]
	return s, ok
}

// Schemas 按 (service_id, message_id) 排序
func (r *Registry) Schemas() []*Schema {
	r.mu.RLock()
	out := make([]*Schema, 0, len(r.schemas))
	for _, s := range r.schemas {
		out = append(out, s)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return registryKey(out[i].serviceID, out[i].messageID) < registryKey(out[j].serviceID, out[j].messageID)
	})
	return out
}

func (r *Registry) lookup(serviceID, messageID uint16) (*Schema, error) {
	s, ok := r.Lookup(serviceID, messageID)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownMessage, "service_id %d message_id %d", serviceID, messageID)
	}
	return s, nil
}

// Parse 校验不可信的二进制消息
func (r *Registry) Parse(buf []byte) (Message, error) {
	raw, err := ParseRawMessage(buf)
	if err != nil {
		r.logger.Debug("reject raw message: %v", err)
		return Message{}, err
	}
	return r.FromRaw(raw)
}

// FromRaw 按头部标识选schema做全部检查
func (r *Registry) FromRaw(raw RawMessage) (Message, error) {
	if err := checkLayout(raw.buf); err != nil {
		r.logger.Debug("reject raw message: %v", err)
		return Message{}, err
	}
	s, err := r.lookup(raw.ServiceID(), raw.MessageID())
	if err != nil {
		r.logger.Debug("reject raw message: %v", err)
		return Message{}, err
	}
	m, err := s.FromRaw(raw)
	if err != nil {
		r.logger.Debug("reject %s: %v", s.name, err)
		return Message{}, err
	}
	return m, nil
}

// DecodeJSON 根据JSON里声明的标识选schema再解码
func (r *Registry) DecodeJSON(data []byte) (Message, error) {
	env, err := decodeEnvelope(data)
	if err != nil {
		r.logger.Debug("reject json message: %v", err)
		return Message{}, err
	}
	s, err := r.lookup(env.serviceID, env.messageID)
	if err != nil {
		r.logger.Debug("reject json message: %v", err)
		return Message{}, err
	}
	m, err := s.decodeEnvelope(env)
	if err != nil {
		r.logger.Debug("reject %s: %v", s.name, err)
		return Message{}, err
	}
	return m, nil
}
