package mathx

import (
	"bytes"
	"errors"
	"strings"
	"sync"

	treeblood "github.com/wyatt915/goldmark-treeblood"
	"github.com/yuin/goldmark"
)

var (
	mathmlOnce sync.Once
	mathmlMD   goldmark.Markdown
)

// ToMathML renders delimited LaTeX to a MathML fragment. Conversion is best
// effort; callers treat an error as "no MathML available".
func ToMathML(latex string) (string, error) {
	mathmlOnce.Do(func() {
		mathmlMD = goldmark.New(goldmark.WithExtensions(treeblood.MathML()))
	})

	var buf bytes.Buffer
	if err := mathmlMD.Convert([]byte(latex), &buf); err != nil {
		return "", err
	}
	out := buf.String()
	start := strings.Index(out, "<math")
	end := strings.LastIndex(out, "</math>")
	if start < 0 || end < start {
		return "", errors.New("no math element produced")
	}
	return out[start : end+len("</math>")], nil
}
