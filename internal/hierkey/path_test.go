package hierkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "ss", Key("", "ss"))
	assert.Equal(t, "ss.web", Key("ss", "web"))
	assert.Equal(t, "ss.web.controller", Key("ss.web", "controller"))
}

func TestPathAppend(t *testing.T) {
	root := Path{Segments: []string{"ss"}}
	child := root.Append("web")

	assert.Equal(t, "ss", root.Join(), "Append must not mutate the receiver")
	assert.Equal(t, "ss.web", child.Join())
}

func TestOf(t *testing.T) {
	assert.Equal(t, "env", Of("", "env").Join())
	assert.Equal(t, "env.node1.node2", Of("env.node1", "node2").Join())
}
