package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderDecisionEmailEscapes(t *testing.T) {
	out := RenderDecisionEmail("Case <C001>", "line one\n<script>x</script>")
	assert.Contains(t, out, "<title>Case &lt;C001&gt;</title>")
	assert.Contains(t, out, "line one<br>&lt;script&gt;")
	assert.False(t, strings.Contains(out, "<script>"))
}
