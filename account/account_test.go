package account

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/azd1997/emsg/common/crypto"
	"github.com/azd1997/emsg/common/utils"
	"github.com/azd1997/emsg/protocol/message"
)

func TestLoadOrCreateAccount(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"acc.json", "acc.gob"} {
		file := filepath.Join(dir, name)

		created, err := LoadOrCreateAccount(file)
		if err != nil {
			t.Fatalf("%s: create: %v", name, err)
		}
		loaded, err := LoadOrCreateAccount(file)
		if err != nil {
			t.Fatalf("%s: load: %v", name, err)
		}
		if created.PublicKey() != loaded.PublicKey() {
			t.Fatalf("%s: loaded account differs", name)
		}
		if err := utils.TCheckBytes(name+" private key", created.PrivateKey.Serialize(), loaded.PrivateKey.Serialize()); err != nil {
			t.Fatal(err)
		}
	}
}

func TestLoadBadAccountFile(t *testing.T) {
	dir := t.TempDir()
	acc := &Account{}
	if err := acc.LoadFileWithJsonDecode(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatal("expect error for missing file")
	}

	bad := &account{PrivKeyB: []byte{1, 2, 3}}
	if _, err := bad.toAccount(); err == nil {
		t.Fatal("expect error for short private key")
	}
}

func TestAccountSign(t *testing.T) {
	acc, err := NewAccount()
	if err != nil {
		t.Fatal(err)
	}
	other, _ := NewAccount()

	sig, err := acc.Sign([]byte("hello"))
	if err != nil {
		t.Fatal(err)
	}
	if !acc.VerifySign([]byte("hello"), sig, acc.PublicKey()) {
		t.Fatal("expect valid signature")
	}
	if acc.VerifySign([]byte("hello"), sig, other.PublicKey()) {
		t.Fatal("expect signature rejected for other key")
	}
	if acc.Address() != crypto.AddressOf(acc.PublicKey()) {
		t.Fatal("address mismatch")
	}

	s := acc.String()
	if !strings.Contains(s, acc.PublicKey().ToHex()) || !strings.Contains(s, acc.Address().String()) {
		t.Fatalf("unexpected account string %s", s)
	}
}

func TestSignMessage(t *testing.T) {
	acc, _ := NewAccount()
	height := message.NewField("height", message.Uint64, 0, 8)
	schema := message.MustSchema("Ping", 5, 1, 8, height)

	b := schema.NewBuilder()
	height.Put(b, 7)
	m, err := acc.SignMessage(b)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.VerifySignature(acc.PublicKey()); err != nil {
		t.Fatal(err)
	}
}

func TestLoadAccount(t *testing.T) {
	file := filepath.Join(t.TempDir(), "acc.gob")
	if _, err := LoadAccount(file); !errors.Is(err, ErrNoAccountFile) {
		t.Fatalf("expect no account file, got %v", err)
	}
	if _, err := LoadAccount(file); !errors.Is(err, ErrNoAccountFile) {
		t.Fatal("LoadAccount must not create the file")
	}

	created, err := LoadOrCreateAccount(file)
	if err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadAccount(file)
	if err != nil {
		t.Fatal(err)
	}
	if created.PublicKey() != loaded.PublicKey() {
		t.Fatal("loaded account differs")
	}
}
