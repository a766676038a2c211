package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLike(t *testing.T) {
	cases := map[string]string{
		"":          "",
		"São Paulo": "São Paulo",
		"100%":      `100\%`,
		"a_b":       `a\_b`,
		`c:\temp`:   `c:\\temp`,
		`%_\`:       `\%\_\\`,
	}
	for in, want := range cases {
		assert.Equal(t, want, escapeLike(in), in)
	}
}
