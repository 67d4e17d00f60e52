package message

import (
	"testing"

	"github.com/azd1997/emsg/common/crypto"
	"github.com/azd1997/emsg/common/utils"
)

func expectPanic(t *testing.T, what string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s: expect panic", what)
		}
	}()
	fn()
}

func TestWriterLayout(t *testing.T) {
	pub, sk := genKey(t)

	w := NewWriter(0x0102, 0x0304, 10)
	if err := WriteField(w, Uint16, 0xbeef, 0, 2); err != nil {
		t.Fatal(err)
	}
	if err := WriteField(w, Uint64, 0x1122334455667788, 2, 10); err != nil {
		t.Fatal(err)
	}
	raw, err := w.Sign(sk)
	if err != nil {
		t.Fatal(err)
	}

	expectHead := []byte{
		0x02, 0x01, // service_id
		0x04, 0x03, // message_id
		10, 0, 0, 0, // body_len
		0xef, 0xbe,
		0x88, 0x77, 0x66, 0x55, 0x44, 0x33, 0x22, 0x11,
	}
	data := raw.Bytes()
	if err := utils.TCheckInt("length", HeaderSize+10+SignatureSize, len(data)); err != nil {
		t.Fatal(err)
	}
	if err := utils.TCheckBytes("header+body", expectHead, data[:HeaderSize+10]); err != nil {
		t.Fatal(err)
	}
	if err := raw.VerifySignature(pub); err != nil {
		t.Fatal(err)
	}
	sig := raw.Signature()
	if err := utils.TCheckBool("canonical signature", true, sig.IsCanonical()); err != nil {
		t.Fatal(err)
	}
}

func TestWriterAppendSignatureVerbatim(t *testing.T) {
	var sig crypto.Signature
	for i := range sig {
		sig[i] = byte(i)
	}
	w := NewWriter(1, 2, 0)
	raw := w.AppendSignature(sig)

	if raw.Signature() != sig {
		t.Fatal("signature must be appended verbatim")
	}
	if err := utils.TCheckInt("length", HeaderSize+SignatureSize, raw.Len()); err != nil {
		t.Fatal(err)
	}
}

func TestWriterSingleUse(t *testing.T) {
	_, sk := genKey(t)
	w := NewWriter(1, 2, 8)
	if _, err := w.Sign(sk); err != nil {
		t.Fatal(err)
	}

	expectPanic(t, "sign twice", func() { _, _ = w.Sign(sk) })
	expectPanic(t, "append after sign", func() { w.AppendSignature(crypto.Signature{}) })
	expectPanic(t, "write after sign", func() { _ = WriteField(w, Uint8, 1, 0, 1) })
}

func TestWriterPreconditions(t *testing.T) {
	w := NewWriter(1, 2, 8)

	expectPanic(t, "range beyond body", func() { _ = WriteField(w, Uint64, 1, 4, 12) })
	expectPanic(t, "empty range", func() { _ = WriteField(w, Bytes, nil, 3, 3) })
	expectPanic(t, "width mismatch", func() { _ = WriteField(w, Uint32, 1, 0, 8) })
	expectPanic(t, "negative body size", func() { NewWriter(1, 2, -1) })

	// 值放不进区间只是错误
	if err := WriteField(w, Bytes, []byte{1, 2, 3, 4, 5}, 0, 8); err == nil {
		t.Fatal("expect capacity error")
	}
	if err := WriteField(w, Bytes, []byte{1, 2, 3, 4}, 0, 8); err != nil {
		t.Fatal(err)
	}
}
