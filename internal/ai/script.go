package ai

// ScriptKind classifies the writing system of a piece of text.
type ScriptKind int

const (
	ScriptOther ScriptKind = iota
	ScriptLatin
	ScriptCyrillic
)

// ClassifyScript inspects rune ranges only; it makes no attempt at language
// detection. Any Cyrillic rune wins over Latin, since a single Cyrillic word
// inside an otherwise Latin title still means the title needs repair.
func ClassifyScript(text string) ScriptKind {
	kind := ScriptOther
	for _, r := range text {
		if r >= 0x0400 && r <= 0x04FF {
			return ScriptCyrillic
		}
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			kind = ScriptLatin
		}
	}
	return kind
}
