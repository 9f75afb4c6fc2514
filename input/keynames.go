package input

import (
	"strconv"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// Key identifiers are stable strings shared by both backends and by keymap.toml
// Naming follows the device_query set: A, Key1, Space, LShift, Numpad0, F5

// evdevNames maps Linux input event codes (input-event-codes.h) to key identifiers
var evdevNames = map[uint16]string{
	1:   "Escape",
	2:   "Key1",
	3:   "Key2",
	4:   "Key3",
	5:   "Key4",
	6:   "Key5",
	7:   "Key6",
	8:   "Key7",
	9:   "Key8",
	10:  "Key9",
	11:  "Key0",
	12:  "Minus",
	13:  "Equal",
	14:  "Backspace",
	15:  "Tab",
	16:  "Q",
	17:  "W",
	18:  "E",
	19:  "R",
	20:  "T",
	21:  "Y",
	22:  "U",
	23:  "I",
	24:  "O",
	25:  "P",
	26:  "LeftBracket",
	27:  "RightBracket",
	28:  "Enter",
	29:  "LControl",
	30:  "A",
	31:  "S",
	32:  "D",
	33:  "F",
	34:  "G",
	35:  "H",
	36:  "J",
	37:  "K",
	38:  "L",
	39:  "Semicolon",
	40:  "Apostrophe",
	41:  "Grave",
	42:  "LShift",
	43:  "BackSlash",
	44:  "Z",
	45:  "X",
	46:  "C",
	47:  "V",
	48:  "B",
	49:  "N",
	50:  "M",
	51:  "Comma",
	52:  "Dot",
	53:  "Slash",
	54:  "RShift",
	55:  "NumpadMultiply",
	56:  "LAlt",
	57:  "Space",
	58:  "CapsLock",
	59:  "F1",
	60:  "F2",
	61:  "F3",
	62:  "F4",
	63:  "F5",
	64:  "F6",
	65:  "F7",
	66:  "F8",
	67:  "F9",
	68:  "F10",
	71:  "Numpad7",
	72:  "Numpad8",
	73:  "Numpad9",
	74:  "NumpadSubtract",
	75:  "Numpad4",
	76:  "Numpad5",
	77:  "Numpad6",
	78:  "NumpadAdd",
	79:  "Numpad1",
	80:  "Numpad2",
	81:  "Numpad3",
	82:  "Numpad0",
	83:  "NumpadDecimal",
	87:  "F11",
	88:  "F12",
	96:  "NumpadEnter",
	97:  "RControl",
	98:  "NumpadDivide",
	100: "RAlt",
	102: "Home",
	103: "Up",
	104: "PageUp",
	105: "Left",
	106: "Right",
	107: "End",
	108: "Down",
	109: "PageDown",
	110: "Insert",
	111: "Delete",
	117: "NumpadEquals",
	125: "LMeta",
	126: "RMeta",
}

// EvdevName returns the identifier for a kernel key code
// Codes outside the table render as Code<n>
func EvdevName(code uint16) string {
	if name, ok := evdevNames[code]; ok {
		return name
	}
	return "Code" + strconv.Itoa(int(code))
}

// runeNames maps printable characters to the physical key producing them on a US layout
// Shifted symbols fold onto their base key so Shift+1 and 1 share a sound
var runeNames = map[rune]string{
	' ':  "Space",
	'`':  "Grave",
	'~':  "Grave",
	'-':  "Minus",
	'_':  "Minus",
	'=':  "Equal",
	'+':  "Equal",
	'[':  "LeftBracket",
	'{':  "LeftBracket",
	']':  "RightBracket",
	'}':  "RightBracket",
	'\\': "BackSlash",
	'|':  "BackSlash",
	';':  "Semicolon",
	':':  "Semicolon",
	'\'': "Apostrophe",
	'"':  "Apostrophe",
	',':  "Comma",
	'<':  "Comma",
	'.':  "Dot",
	'>':  "Dot",
	'/':  "Slash",
	'?':  "Slash",
	'!':  "Key1",
	'@':  "Key2",
	'#':  "Key3",
	'$':  "Key4",
	'%':  "Key5",
	'^':  "Key6",
	'&':  "Key7",
	'*':  "Key8",
	'(':  "Key9",
	')':  "Key0",
}

// shiftedRunes are the US-layout characters typed with Shift held
// Terminals report them as plain runes, without a shift modifier
var shiftedRunes = map[rune]bool{
	'~': true, '_': true, '+': true, '{': true, '}': true, '|': true, ':': true,
	'"': true, '<': true, '>': true, '?': true, '!': true, '@': true, '#': true,
	'$': true, '%': true, '^': true, '&': true, '*': true, '(': true, ')': true,
}

// shifted reports whether typing r needs Shift
func shifted(r rune) bool {
	return (r >= 'A' && r <= 'Z') || shiftedRunes[r]
}

// RuneName returns the identifier of the key that types r
// Letters are case-folded; characters with no physical key name keep their upper-cased glyph
func RuneName(r rune) string {
	switch {
	case r >= 'a' && r <= 'z':
		return string(r - 'a' + 'A')
	case r >= 'A' && r <= 'Z':
		return string(r)
	case r >= '0' && r <= '9':
		return "Key" + string(r)
	}
	if name, ok := runeNames[r]; ok {
		return name
	}
	return string(unicode.ToUpper(r))
}

// tcellNames covers non-rune keys
// KeyBackspace/KeyTab/KeyEnter share values with Ctrl+H/I/M; the named meaning wins
var tcellNames = map[tcell.Key]string{
	tcell.KeyEscape:     "Escape",
	tcell.KeyEnter:      "Enter",
	tcell.KeyTab:        "Tab",
	tcell.KeyBacktab:    "Tab",
	tcell.KeyBackspace:  "Backspace",
	tcell.KeyBackspace2: "Backspace",
	tcell.KeyDelete:     "Delete",
	tcell.KeyInsert:     "Insert",
	tcell.KeyUp:         "Up",
	tcell.KeyDown:       "Down",
	tcell.KeyLeft:       "Left",
	tcell.KeyRight:      "Right",
	tcell.KeyHome:       "Home",
	tcell.KeyEnd:        "End",
	tcell.KeyPgUp:       "PageUp",
	tcell.KeyPgDn:       "PageDown",
	tcell.KeyF1:         "F1",
	tcell.KeyF2:         "F2",
	tcell.KeyF3:         "F3",
	tcell.KeyF4:         "F4",
	tcell.KeyF5:         "F5",
	tcell.KeyF6:         "F6",
	tcell.KeyF7:         "F7",
	tcell.KeyF8:         "F8",
	tcell.KeyF9:         "F9",
	tcell.KeyF10:        "F10",
	tcell.KeyF11:        "F11",
	tcell.KeyF12:        "F12",
}

// EventNames returns every key identifier a terminal key event implies, modifiers included
// Unrecognized keys contribute only their modifiers
func EventNames(ev *tcell.EventKey) []string {
	var names []string

	mods := ev.Modifiers()
	if mods&tcell.ModCtrl != 0 {
		names = append(names, "LControl")
	}
	if mods&tcell.ModAlt != 0 {
		names = append(names, "LAlt")
	}
	key := ev.Key()
	if mods&tcell.ModShift != 0 || key == tcell.KeyBacktab || (key == tcell.KeyRune && shifted(ev.Rune())) {
		names = append(names, "LShift")
	}

	if name, ok := tcellNames[key]; ok {
		return append(names, name)
	}
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		return append(names, "LControl", string(rune('A'+key-tcell.KeyCtrlA)))
	}
	if key == tcell.KeyRune {
		return append(names, RuneName(ev.Rune()))
	}
	return names
}
