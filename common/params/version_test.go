package params

import "testing"

func TestCodeVersionString(t *testing.T) {
	cases := map[CodeVersion]string{
		CodecVersionV1:   "v1.0.0",
		CodeVersion(102): "v1.0.2",
		CodeVersion(315): "v3.1.5",
	}
	for v, want := range cases {
		if v.String() != want {
			t.Errorf("%d: expect %s, got %s", v, want, v.String())
		}
	}
}
