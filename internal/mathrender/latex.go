package mathrender

import (
	"strings"
	"unicode"
)

// ToUnicode approximates a LaTeX math expression with Unicode text suitable
// for a terminal: Greek letters and common operators become symbols, simple
// super- and subscripts become script characters, \frac becomes a slash and
// \sqrt a radical. Unknown commands are left as written.
func ToUnicode(src string) string {
	var b strings.Builder
	convert([]rune(src), &b)
	return b.String()
}

func convert(rs []rune, b *strings.Builder) {
	for i := 0; i < len(rs); {
		switch r := rs[i]; r {
		case '\\':
			var name string
			name, i = readCommand(rs, i+1)
			i = command(name, rs, i, b)

		case '^', '_':
			var arg string
			arg, i = readArg(rs, i+1)
			inner := ToUnicode(arg)
			table := superscripts
			if r == '_' {
				table = subscripts
			}
			if s, ok := script(inner, table); ok {
				b.WriteString(s)
			} else {
				b.WriteRune(r)
				b.WriteString(group(inner))
			}

		case '{', '}':
			i++

		case '~':
			b.WriteRune(' ')
			i++

		default:
			b.WriteRune(r)
			i++
		}
	}
}

// command writes the expansion of \name and returns the index after any
// arguments it consumed.
func command(name string, rs []rune, i int, b *strings.Builder) int {
	var arg string
	switch name {
	case "frac", "dfrac", "tfrac":
		var num, den string
		num, i = readArg(rs, i)
		den, i = readArg(rs, i)
		b.WriteString(group(ToUnicode(num)))
		b.WriteRune('/')
		b.WriteString(group(ToUnicode(den)))
	case "sqrt":
		arg, i = readArg(rs, i)
		b.WriteRune('√')
		b.WriteString(group(ToUnicode(arg)))
	case "text", "textrm", "mathrm", "mathit", "mathbf", "mathsf", "mathtt", "operatorname", "boldsymbol":
		arg, i = readArg(rs, i)
		b.WriteString(ToUnicode(arg))
	case "mathbb":
		arg, i = readArg(rs, i)
		for _, r := range arg {
			if s, ok := doubleStruck[r]; ok {
				b.WriteRune(s)
			} else {
				b.WriteRune(r)
			}
		}
	case "left", "right", "big", "Big", "bigg", "Bigg":
		if i < len(rs) && rs[i] == '.' {
			i++
		}
	case ",", ":", ";", " ", "quad", "qquad":
		b.WriteRune(' ')
	case "!":
	case "\\":
		b.WriteRune('\n')
	case "{", "}", "$", "%", "#", "&", "_":
		b.WriteString(name)
	default:
		if s, ok := symbols[name]; ok {
			b.WriteString(s)
		} else {
			b.WriteRune('\\')
			b.WriteString(name)
		}
	}
	return i
}

// readCommand reads a control word (letters) or a single control symbol.
func readCommand(rs []rune, i int) (string, int) {
	if i >= len(rs) {
		return "", i
	}
	if !unicode.IsLetter(rs[i]) {
		return string(rs[i]), i + 1
	}
	start := i
	for i < len(rs) && unicode.IsLetter(rs[i]) {
		i++
	}
	return string(rs[start:i]), i
}

// readArg reads one argument: a braced group, a command, or a single rune.
func readArg(rs []rune, i int) (string, int) {
	for i < len(rs) && rs[i] == ' ' {
		i++
	}
	if i >= len(rs) {
		return "", i
	}
	switch rs[i] {
	case '{':
		depth := 0
		for j := i; j < len(rs); j++ {
			switch rs[j] {
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return string(rs[i+1 : j]), j + 1
				}
			}
		}
		return string(rs[i+1:]), len(rs)
	case '\\':
		name, j := readCommand(rs, i+1)
		return `\` + name, j
	default:
		return string(rs[i]), i + 1
	}
}

// group parenthesizes multi-rune expressions.
func group(s string) string {
	if len([]rune(s)) <= 1 {
		return s
	}
	return "(" + s + ")"
}

// script maps every rune of s through table, failing if any is missing.
func script(s string, table map[rune]rune) (string, bool) {
	if s == "" {
		return "", false
	}
	var b strings.Builder
	for _, r := range s {
		m, ok := table[r]
		if !ok {
			return "", false
		}
		b.WriteRune(m)
	}
	return b.String(), true
}

var superscripts = map[rune]rune{
	'0': '⁰', '1': '¹', '2': '²', '3': '³', '4': '⁴',
	'5': '⁵', '6': '⁶', '7': '⁷', '8': '⁸', '9': '⁹',
	'+': '⁺', '-': '⁻', '=': '⁼', '(': '⁽', ')': '⁾',
	'a': 'ᵃ', 'b': 'ᵇ', 'c': 'ᶜ', 'd': 'ᵈ', 'e': 'ᵉ',
	'f': 'ᶠ', 'g': 'ᵍ', 'h': 'ʰ', 'i': 'ⁱ', 'j': 'ʲ',
	'k': 'ᵏ', 'l': 'ˡ', 'm': 'ᵐ', 'n': 'ⁿ', 'o': 'ᵒ',
	'p': 'ᵖ', 'r': 'ʳ', 's': 'ˢ', 't': 'ᵗ', 'u': 'ᵘ',
	'v': 'ᵛ', 'w': 'ʷ', 'x': 'ˣ', 'y': 'ʸ', 'z': 'ᶻ',
	'T': 'ᵀ', '′': '′',
}

var subscripts = map[rune]rune{
	'0': '₀', '1': '₁', '2': '₂', '3': '₃', '4': '₄',
	'5': '₅', '6': '₆', '7': '₇', '8': '₈', '9': '₉',
	'+': '₊', '-': '₋', '=': '₌', '(': '₍', ')': '₎',
	'a': 'ₐ', 'e': 'ₑ', 'h': 'ₕ', 'i': 'ᵢ', 'j': 'ⱼ',
	'k': 'ₖ', 'l': 'ₗ', 'm': 'ₘ', 'n': 'ₙ', 'o': 'ₒ',
	'p': 'ₚ', 'r': 'ᵣ', 's': 'ₛ', 't': 'ₜ', 'u': 'ᵤ',
	'v': 'ᵥ', 'x': 'ₓ',
}

var doubleStruck = map[rune]rune{
	'C': 'ℂ', 'H': 'ℍ', 'N': 'ℕ', 'P': 'ℙ', 'Q': 'ℚ', 'R': 'ℝ', 'Z': 'ℤ',
}

var symbols = map[string]string{
	"alpha": "α", "beta": "β", "gamma": "γ", "delta": "δ", "epsilon": "ε",
	"varepsilon": "ε", "zeta": "ζ", "eta": "η", "theta": "θ", "vartheta": "ϑ",
	"iota": "ι", "kappa": "κ", "lambda": "λ", "mu": "μ", "nu": "ν",
	"xi": "ξ", "pi": "π", "rho": "ρ", "sigma": "σ", "tau": "τ",
	"upsilon": "υ", "phi": "φ", "varphi": "φ", "chi": "χ", "psi": "ψ", "omega": "ω",
	"Gamma": "Γ", "Delta": "Δ", "Theta": "Θ", "Lambda": "Λ", "Xi": "Ξ",
	"Pi": "Π", "Sigma": "Σ", "Phi": "Φ", "Psi": "Ψ", "Omega": "Ω",

	"sum": "∑", "prod": "∏", "int": "∫", "iint": "∬", "oint": "∮",
	"partial": "∂", "nabla": "∇", "infty": "∞", "pm": "±", "mp": "∓",
	"times": "×", "cdot": "·", "div": "÷", "ast": "∗", "circ": "∘",
	"leq": "≤", "le": "≤", "geq": "≥", "ge": "≥", "neq": "≠", "ne": "≠",
	"approx": "≈", "equiv": "≡", "sim": "∼", "simeq": "≃", "propto": "∝",
	"ll": "≪", "gg": "≫",
	"to": "→", "rightarrow": "→", "leftarrow": "←", "leftrightarrow": "↔",
	"Rightarrow": "⇒", "Leftarrow": "⇐", "Leftrightarrow": "⇔", "iff": "⇔",
	"implies": "⇒", "mapsto": "↦",
	"in": "∈", "notin": "∉", "ni": "∋", "subset": "⊂", "subseteq": "⊆",
	"supset": "⊃", "supseteq": "⊇", "cup": "∪", "cap": "∩", "setminus": "∖",
	"emptyset": "∅", "varnothing": "∅",
	"forall": "∀", "exists": "∃", "neg": "¬", "land": "∧", "wedge": "∧",
	"lor": "∨", "vee": "∨", "oplus": "⊕", "otimes": "⊗",
	"ldots": "…", "dots": "…", "cdots": "⋯", "vdots": "⋮", "ddots": "⋱",
	"prime": "′", "degree": "°", "angle": "∠", "perp": "⊥", "parallel": "∥",
	"langle": "⟨", "rangle": "⟩", "lfloor": "⌊", "rfloor": "⌋", "lceil": "⌈", "rceil": "⌉",
	"hbar": "ℏ", "ell": "ℓ", "Re": "ℜ", "Im": "ℑ", "aleph": "ℵ",
	"sin": "sin", "cos": "cos", "tan": "tan", "log": "log", "ln": "ln",
	"exp": "exp", "lim": "lim", "max": "max", "min": "min", "det": "det",
}
