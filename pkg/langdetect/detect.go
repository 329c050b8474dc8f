// Package langdetect decides whether file content is Python source.
// It backs discovery of extensionless scripts, using go-enry for
// shebang and content classification.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

const langPython = "Python"

// classifierCandidates restricts enry's Bayesian classifier to the
// languages an extensionless script plausibly is. A smaller candidate
// set keeps misclassification of short scripts down.
var classifierCandidates = []string{
	"Python", "Shell", "Ruby", "Perl", "JavaScript", "Text",
}

// IsPython reports whether content is Python source. The shebang is
// checked first since it is the strongest signal for scripts; content
// classification is the fallback.
func IsPython(filename string, content []byte) bool {
	if len(bytes.TrimSpace(content)) == 0 {
		return false
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return lang == langPython
	}

	if lang, safe := enry.GetLanguageByFilename(filename); safe {
		return lang == langPython
	}
	if lang, safe := enry.GetLanguageByExtension(filename); safe {
		return lang == langPython
	}

	if lang := detectByPattern(content); lang != "" {
		return lang == langPython
	}

	lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates)
	return safe && lang == langPython
}

// detectByPattern checks for constructs that identify Python without
// invoking the classifier.
func detectByPattern(content []byte) string {
	text := string(content)

	// def/class definitions ending in a colon.
	if strings.Contains(text, "def ") && strings.Contains(text, "):") {
		return langPython
	}
	// from X import Y is unambiguous.
	if strings.Contains(text, "from ") && strings.Contains(text, " import ") {
		return langPython
	}
	// Dunder names appear in nearly every Python entry point.
	if strings.Contains(text, "__name__") || strings.Contains(text, "__main__") {
		return langPython
	}
	return ""
}
