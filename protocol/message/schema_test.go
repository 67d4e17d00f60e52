package message

import (
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/azd1997/emsg/common/crypto"
	"github.com/azd1997/emsg/common/utils"
)

func TestNewSchemaValidation(t *testing.T) {
	tests := []struct {
		name   string
		fields func() []FieldDesc
		body   int
		errStr string
	}{
		{"empty field name", func() []FieldDesc { return []FieldDesc{NewField("", Uint8, 0, 1)} }, 1, "empty name"},
		{"duplicate name", func() []FieldDesc {
			return []FieldDesc{NewField("a", Uint8, 0, 1), NewField("a", Uint8, 1, 2)}
		}, 2, "duplicate"},
		{"beyond body", func() []FieldDesc { return []FieldDesc{NewField("a", Uint32, 0, 4)} }, 3, "out of body size"},
		{"negative from", func() []FieldDesc { return []FieldDesc{NewField("a", Uint8, -1, 0)} }, 3, "out of body size"},
		{"width mismatch", func() []FieldDesc { return []FieldDesc{NewField("a", Uint16, 0, 4)} }, 4, "want 2"},
		{"overlap", func() []FieldDesc {
			return []FieldDesc{NewField("b", Uint32, 2, 6), NewField("a", Uint32, 0, 4)}
		}, 6, "overlaps"},
	}
	for _, tt := range tests {
		_, err := NewSchema("Bad", 9, 9, tt.body, tt.fields()...)
		if err == nil || !strings.Contains(err.Error(), tt.errStr) {
			t.Errorf("%s: expect error containing %q, got %v", tt.name, tt.errStr, err)
		}
	}

	if _, err := NewSchema("", 9, 9, 0); err == nil {
		t.Error("empty schema name must be rejected")
	}
	if _, err := NewSchema("Bad", 9, 9, -1); err == nil {
		t.Error("negative body size must be rejected")
	}

	// 字段只能属于一个schema
	f := NewField("a", Uint8, 0, 1)
	MustSchema("First", 9, 1, 1, f)
	if _, err := NewSchema("Second", 9, 2, 1, f); err == nil {
		t.Error("field reuse must be rejected")
	}
	expectPanic(t, "MustSchema", func() { MustSchema("Bad", 9, 3, 0, NewField("x", Uint8, 0, 1)) })
}

func TestSchemaAccessors(t *testing.T) {
	if err := utils.TCheckInt("toy size", HeaderSize+12+SignatureSize, toySchema.Size()); err != nil {
		t.Fatal(err)
	}
	fields := toySchema.Fields()
	if len(fields) != 2 || fields[0].Name() != "amount" || fields[1].Name() != "flag" {
		t.Fatalf("unexpected fields %v", fields)
	}
	from, to := fields[1].Range()
	if from != 8 || to != 9 {
		t.Fatalf("unexpected flag range [%d..%d)", from, to)
	}
	if err := utils.TCheckString("schema string", "Toy(service_id: 1, message_id: 7, body_size: 12)", toySchema.String()); err != nil {
		t.Fatal(err)
	}
}

func TestToyMessage(t *testing.T) {
	pub, sk := genKey(t)
	m := newToy(t, 42, 1, sk)

	if err := utils.TCheckUint64("amount", 42, toyAmount.Get(m)); err != nil {
		t.Fatal(err)
	}
	if err := utils.TCheckUint8("flag", 1, toyFlag.Get(m)); err != nil {
		t.Fatal(err)
	}
	if err := utils.TCheckUint16("service id", 1, m.ServiceID()); err != nil {
		t.Fatal(err)
	}
	if err := utils.TCheckUint16("message id", 7, m.MessageID()); err != nil {
		t.Fatal(err)
	}
	if err := m.VerifySignature(pub); err != nil {
		t.Fatal(err)
	}
	if m.Hash() != crypto.HashD(m.Bytes()) {
		t.Fatal("hash must cover the whole message")
	}
	if err := utils.TCheckString("debug string", "Toy{amount: 42, flag: 1}", m.String()); err != nil {
		t.Fatal(err)
	}

	parsed, err := toySchema.Parse(m.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if !parsed.Equal(m) {
		t.Fatal("parsed message differs")
	}

	// 同样的字段值和签名，WithSignature 得到逐字节相同的消息
	b := toySchema.NewBuilder()
	toyAmount.Put(b, 42)
	toyFlag.Put(b, 1)
	again, err := b.WithSignature(m.Signature())
	if err != nil {
		t.Fatal(err)
	}
	if !again.Equal(m) {
		t.Fatal("WithSignature must reproduce the message")
	}
}

func TestFromRawSchemaMismatch(t *testing.T) {
	_, sk := genKey(t)
	data := newToy(t, 1, 1, sk).Bytes()
	data[0] = 2

	_, err := toySchema.Parse(data)
	var mErr *SchemaMismatchError
	if !errors.As(err, &mErr) {
		t.Fatalf("expect *SchemaMismatchError, got %v", err)
	}
	if mErr.ServiceID != 2 || mErr.ExpectedServiceID != 1 || mErr.MessageID != 7 {
		t.Fatalf("unexpected mismatch detail %+v", mErr)
	}

	// 标识对但体长不对
	w := NewWriter(1, 7, 13)
	raw := w.AppendSignature(crypto.Signature{})
	if _, err := toySchema.FromRaw(raw); !errors.Is(err, ErrMalformedBuffer) {
		t.Fatalf("expect malformed buffer, got %v", err)
	}

	// 合法的钱包消息不能当作Toy解析
	wallet := newWallet(t, genWalletValues(t), sk)
	if _, err := toySchema.FromRaw(wallet.Raw()); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expect schema mismatch, got %v", err)
	}
}

func TestWalletMessage(t *testing.T) {
	_, sk := genKey(t)
	v := genWalletValues(t)
	m := newWallet(t, v, sk)

	parsed, err := walletSchema.Parse(m.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if walletOwner.Get(parsed) != v.owner {
		t.Fatal("owner mismatch")
	}
	if err := utils.TCheckString("name", v.name, walletName.Get(parsed)); err != nil {
		t.Fatal(err)
	}
	if err := utils.TCheckBool("active", v.active, walletActive.Get(parsed)); err != nil {
		t.Fatal(err)
	}
	if err := utils.TCheckInt64("balance", v.balance, walletBalance.Get(parsed)); err != nil {
		t.Fatal(err)
	}
	history := walletHistory.Get(parsed)
	if len(history) != len(v.history) || history[0] != v.history[0] || history[1] != v.history[1] {
		t.Fatalf("history mismatch: %v", history)
	}
	if walletAddress.Get(parsed) != v.address {
		t.Fatal("address mismatch")
	}
	if err := utils.TCheckBytes("memo", v.memo, walletMemo.Get(parsed)); err != nil {
		t.Fatal(err)
	}
}

func TestFieldCheckFailed(t *testing.T) {
	_, sk := genKey(t)
	m := newWallet(t, genWalletValues(t), sk)

	data := m.Bytes()
	data[HeaderSize+65] = 2 // active

	_, err := walletSchema.Parse(data)
	var fErr *FieldError
	if !errors.As(err, &fErr) {
		t.Fatalf("expect *FieldError, got %v", err)
	}
	if fErr.Field != "active" || fErr.From != 65 || fErr.To != 66 {
		t.Fatalf("unexpected field error %+v", fErr)
	}
	if !errors.Is(err, ErrFieldCheck) {
		t.Fatal("field error must match ErrFieldCheck")
	}

	// 其余字段的区间各自仍然合法
	body := data[HeaderSize : HeaderSize+walletSchema.BodySize()]
	for _, f := range walletSchema.Fields() {
		if f.Name() == "active" {
			continue
		}
		if err := f.check(body); err != nil {
			t.Errorf("field %s: %v", f.Name(), err)
		}
	}

	// 第一个失败的字段决定错误
	data[HeaderSize+34] = 0xff // name 的长度前缀
	_, err = walletSchema.Parse(data)
	if !errors.As(err, &fErr) || fErr.Field != "name" {
		t.Fatalf("expect name to fail first, got %v", err)
	}
}

func TestReservedBytes(t *testing.T) {
	_, sk := genKey(t)
	data := newToy(t, 42, 1, sk).Bytes()
	data[HeaderSize+11] = 1

	_, err := toySchema.Parse(data)
	var fErr *FieldError
	if !errors.As(err, &fErr) {
		t.Fatalf("expect *FieldError, got %v", err)
	}
	if fErr.Field != ReservedField || fErr.From != 9 || fErr.To != 12 {
		t.Fatalf("unexpected reserved error %+v", fErr)
	}
}

func TestBuilderErrors(t *testing.T) {
	_, sk := genKey(t)
	v := genWalletValues(t)
	v.memo = make([]byte, 13)

	b := buildWallet(v)
	var fErr *FieldError
	if !errors.As(b.Err(), &fErr) || fErr.Field != "memo" {
		t.Fatalf("expect memo field error, got %v", b.Err())
	}
	if _, err := b.Sign(sk); err == nil {
		t.Fatal("sign must return the builder error")
	}
	if _, err := b.WithSignature(crypto.Signature{}); err == nil {
		t.Fatal("WithSignature must return the builder error")
	}

	// 只记第一个错误
	b = walletSchema.NewBuilder()
	walletName.Put(b, strings.Repeat("x", 29))
	walletOwner.Put(b, crypto.PublicKey{})
	if !errors.As(b.Err(), &fErr) || fErr.Field != "name" {
		t.Fatalf("expect name field error, got %v", b.Err())
	}

	expectPanic(t, "field of another schema", func() { toyAmount.Put(walletSchema.NewBuilder(), 1) })
	m := newToy(t, 1, 1, sk)
	expectPanic(t, "get from another schema", func() { walletBalance.Get(m) })
	expectPanic(t, "get from empty message", func() { toyAmount.Get(Message{}) })
}

func TestEnvelopeMessage(t *testing.T) {
	_, sk := genKey(t)
	toy := newToy(t, 5, 0, sk)
	extra := newWallet(t, genWalletValues(t), sk).Raw()

	// 钱包消息放不进200字节的槽，换一条Toy
	b := envelopeSchema.NewBuilder()
	envelopeExtra.Put(b, extra)
	if b.Err() == nil {
		t.Fatal("expect capacity error for extra")
	}

	extra = newToy(t, 6, 1, sk).Raw()
	m := newEnvelope(t, "hi", toy, extra, sk)
	parsed, err := envelopeSchema.Parse(m.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if !envelopeToy.Get(parsed).Equal(toy) {
		t.Fatal("nested toy mismatch")
	}
	if !envelopeExtra.Get(parsed).Equal(extra) {
		t.Fatal("raw extra mismatch")
	}

	// 嵌套消息内部的字段检查失败，外层报告嵌套字段
	data := m.Bytes()
	data[HeaderSize+20+HeaderSize+11] = 1 // toy 的保留字节
	_, err = envelopeSchema.Parse(data)
	var fErr *FieldError
	if !errors.As(err, &fErr) || fErr.Field != "toy" {
		t.Fatalf("expect toy field error, got %v", err)
	}
	var inner *FieldError
	if !errors.As(fErr.Err, &inner) || inner.Field != ReservedField {
		t.Fatalf("expect nested reserved error, got %v", fErr.Err)
	}
}

func TestMessageString(t *testing.T) {
	if err := utils.TCheckString("empty", "Message{}", Message{}.String()); err != nil {
		t.Fatal(err)
	}
	_, sk := genKey(t)
	v := genWalletValues(t)
	s := newWallet(t, v, sk).String()
	for _, part := range []string{"Wallet{owner: ", `name: "alice 的钱包"`, "active: true", "balance: -1024", "memo: deadbeef"} {
		if !strings.Contains(s, part) {
			t.Errorf("%q missing %q", s, part)
		}
	}
}
