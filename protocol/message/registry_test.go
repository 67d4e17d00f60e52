package message

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/pkg/errors"

	"github.com/azd1997/emsg/common/utils"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	if err := r.Register(walletSchema, toySchema, envelopeSchema); err != nil {
		t.Fatal(err)
	}
	return r
}

func TestRegistryRegister(t *testing.T) {
	r := newTestRegistry(t)

	schemas := r.Schemas()
	if err := utils.TCheckInt("schemas", 3, len(schemas)); err != nil {
		t.Fatal(err)
	}
	for i, name := range []string{"Toy", "Wallet", "Envelope"} {
		if err := utils.TCheckString("sorted schema", name, schemas[i].Name()); err != nil {
			t.Fatal(err)
		}
	}

	if s, ok := r.Lookup(1, 7); !ok || s != toySchema {
		t.Fatal("expect toy schema for 1:7")
	}
	if _, ok := r.Lookup(1, 9); ok {
		t.Fatal("expect no schema for 1:9")
	}

	// 重复注册整体失败，不留半截
	dup := MustSchema("Dup", 1, 7, 0)
	fresh := MustSchema("Fresh", 3, 1, 0)
	if err := r.Register(fresh, dup); err == nil {
		t.Fatal("expect duplicate error")
	}
	if _, ok := r.Lookup(3, 1); ok {
		t.Fatal("failed register must not add any schema")
	}
	if err := NewRegistry().Register(fresh, MustSchema("Fresh2", 3, 1, 0)); err == nil {
		t.Fatal("expect duplicate error within one call")
	}
}

func TestRegistryParse(t *testing.T) {
	r := newTestRegistry(t)
	_, sk := genKey(t)
	toy := newToy(t, 42, 1, sk)

	m, err := r.Parse(toy.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if m.Schema() != toySchema || !m.Equal(toy) {
		t.Fatalf("expect toy message, got %v", m)
	}

	data := toy.Bytes()
	data[2] = 9 // message_id
	if _, err := r.Parse(data); !errors.Is(err, ErrUnknownMessage) {
		t.Fatalf("expect unknown message, got %v", err)
	}
	if _, err := r.Parse(data[:10]); !errors.Is(err, ErrMalformedBuffer) {
		t.Fatalf("expect malformed buffer, got %v", err)
	}
	data = toy.Bytes()
	data[HeaderSize+8] = 0
	data[HeaderSize+9] = 1
	if _, err := r.Parse(data); !errors.Is(err, ErrFieldCheck) {
		t.Fatalf("expect field check failure, got %v", err)
	}
}

func TestRegistryDecodeJSON(t *testing.T) {
	r := newTestRegistry(t)
	_, sk := genKey(t)
	wallet := newWallet(t, genWalletValues(t), sk)

	data, err := json.Marshal(wallet)
	if err != nil {
		t.Fatal(err)
	}
	m, err := r.DecodeJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	if !m.Equal(wallet) {
		t.Fatal("registry json decode mismatch")
	}

	unknown := []byte(`{"body":{},"signature":"","message_id":1,"service_id":9}`)
	if _, err := r.DecodeJSON(unknown); !errors.Is(err, ErrUnknownMessage) {
		t.Fatalf("expect unknown message, got %v", err)
	}
	if _, err := r.DecodeJSON([]byte(`{"body":{}}`)); !errors.Is(err, ErrMissingKey) {
		t.Fatalf("expect missing key, got %v", err)
	}
}

func TestRegistryConcurrent(t *testing.T) {
	r := newTestRegistry(t)
	_, sk := genKey(t)
	data := newToy(t, 1, 1, sk).Bytes()

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%4 == 0 {
				_ = r.Register(MustSchema("Extra", 100, uint16(i), 0))
				return
			}
			if _, err := r.Parse(data); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}
