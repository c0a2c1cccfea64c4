package matchmaker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_NormalizeTopic(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"all", ""},
		{"ALL", ""},
		{" All ", ""},
		{"Arrays", "arrays"},
		{"  Dynamic Programming ", "dynamic programming"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, NormalizeTopic(c.in), "input %q", c.in)
	}
}

func Test_NormalizeDifficulty(t *testing.T) {
	assert.Equal(t, "easy", NormalizeDifficulty(" Easy "))
	assert.Equal(t, "medium", NormalizeDifficulty("MEDIUM"))
}

func Test_TopicKey(t *testing.T) {
	assert.Equal(t, TopicAll, topicKey(""))
	assert.Equal(t, "graphs", topicKey("graphs"))
}
