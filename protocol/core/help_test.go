package core

import (
	"math/rand"
	"testing"
	"time"

	"github.com/azd1997/emsg/common/crypto"
)

func init() {
	rand.Seed(time.Now().UnixNano())
}

type validatorSet struct {
	pubs []crypto.PublicKey
	sks  []*crypto.PrivateKey
}

func genValidators(t *testing.T, n int) *validatorSet {
	t.Helper()
	vs := &validatorSet{}
	for i := 0; i < n; i++ {
		pub, sk, err := crypto.GenKeyPair()
		if err != nil {
			t.Fatal(err)
		}
		vs.pubs = append(vs.pubs, pub)
		vs.sks = append(vs.sks, sk)
	}
	return vs
}

func randHash() crypto.Hash {
	var h crypto.Hash
	rand.Read(h[:])
	return h
}

func randHashes(n int) []crypto.Hash {
	out := make([]crypto.Hash, n)
	for i := range out {
		out[i] = randHash()
	}
	return out
}

func genPrecommit(t *testing.T, vs *validatorSet, validator uint16) *Precommit {
	t.Helper()
	p, err := NewPrecommit(validator, rand.Uint64(), rand.Uint32(), randHash(), randHash(),
		time.Unix(0, rand.Int63()), vs.sks[validator])
	if err != nil {
		t.Fatal(err)
	}
	return p
}
