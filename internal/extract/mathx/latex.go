package mathx

import (
	"regexp"
	"strings"

	"github.com/studykit/pdfparse/constants"
)

// Unicode to LaTeX command substitutions applied during normalization.
var latexReplacer = strings.NewReplacer(
	"×", `\times `,
	"÷", `\div `,
	"±", `\pm `,
	"∓", `\mp `,
	"≤", `\leq `,
	"≥", `\geq `,
	"≠", `\neq `,
	"≈", `\approx `,
	"≡", `\equiv `,
	"∞", `\infty `,
	"∑", `\sum `,
	"∫", `\int `,
	"∂", `\partial `,
	"∇", `\nabla `,
	"√", `\sqrt `,
	"∈", `\in `,
	"∉", `\notin `,
	"→", `\rightarrow `,
	"⇒", `\Rightarrow `,
	"α", `\alpha `,
	"β", `\beta `,
	"γ", `\gamma `,
	"δ", `\delta `,
	"ε", `\epsilon `,
	"θ", `\theta `,
	"λ", `\lambda `,
	"μ", `\mu `,
	"π", `\pi `,
	"ρ", `\rho `,
	"σ", `\sigma `,
	"τ", `\tau `,
	"φ", `\phi `,
	"ω", `\omega `,
	"Γ", `\Gamma `,
	"Δ", `\Delta `,
	"Θ", `\Theta `,
	"Π", `\Pi `,
	"Σ", `\Sigma `,
	"Φ", `\Phi `,
	"Ω", `\Omega `,
)

var (
	fracRe     = regexp.MustCompile(`\b(\w+)\s*/\s*(\w+)\b`)
	subscript  = regexp.MustCompile(`([a-zA-Z])_(\w)\b`)
	superscrpt = regexp.MustCompile(`([a-zA-Z0-9])\^(\w)\b`)
	spacesRe   = regexp.MustCompile(`\s+`)
)

// ToLaTeX normalizes a raw equation into delimited LaTeX. Inputs already
// wrapped in $ or $$ keep their delimiters; otherwise short equations become
// inline math and long ones display math.
func ToLaTeX(raw string) string {
	s := strings.TrimSpace(raw)

	alreadyDisplay := strings.HasPrefix(s, "$$") && strings.HasSuffix(s, "$$") && len(s) > 4
	alreadyInline := !alreadyDisplay && strings.HasPrefix(s, "$") && strings.HasSuffix(s, "$") && len(s) > 2
	s = strings.Trim(s, "$")
	s = strings.TrimPrefix(s, `\[`)
	s = strings.TrimSuffix(s, `\]`)
	s = strings.TrimPrefix(s, `\(`)
	s = strings.TrimSuffix(s, `\)`)
	s = strings.TrimSpace(s)

	s = latexReplacer.Replace(s)
	s = fracRe.ReplaceAllString(s, `\frac{$1}{$2}`)
	s = subscript.ReplaceAllString(s, `${1}_{$2}`)
	s = superscrpt.ReplaceAllString(s, `${1}^{$2}`)
	s = strings.TrimSpace(spacesRe.ReplaceAllString(s, " "))

	switch {
	case alreadyDisplay:
		return "$$" + s + "$$"
	case alreadyInline:
		return "$" + s + "$"
	case len(s) > constants.DisplayEquationChars:
		return "$$" + s + "$$"
	default:
		return "$" + s + "$"
	}
}
