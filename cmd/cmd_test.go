package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matryer/is"
)

func TestAsk(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" yes ", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"sure\n", false},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			is := is.New(t)
			var out bytes.Buffer
			ok, err := Ask(strings.NewReader(c.in), &out, "Delete?")
			is.NoErr(err)
			is.Equal(ok, c.want)
			is.Equal(out.String(), "Delete? [y/N] ")
		})
	}
}

func TestParseID(t *testing.T) {
	is := is.New(t)
	id, err := ParseID(" 42 ")
	is.NoErr(err)
	is.Equal(id, int64(42))

	_, err = ParseID("-1")
	is.True(err != nil)
	_, err = ParseID("abc")
	is.True(err != nil)
}
