package terminal

import (
	"strconv"
	"unicode/utf8"

	uv "github.com/charmbracelet/ultraviolet"
)

// Key is a raw key code in the console scan-code model: ASCII keys report
// their byte value, navigation keys arrive as KeyExtended followed by a
// second code.
type Key int

const (
	KeyOther    Key = -1
	KeyEnter    Key = 13
	KeyEscape   Key = 27
	KeyUp       Key = 72
	KeyLeft     Key = 75
	KeyRight    Key = 77
	KeyDown     Key = 80
	KeyExtended Key = 224
)

var keyNames = map[Key]string{
	KeyOther:    "other",
	KeyEnter:    "enter",
	KeyEscape:   "escape",
	KeyExtended: "extended",
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	if k > 32 && k < 127 {
		return strconv.QuoteRune(rune(k))
	}
	return strconv.Itoa(int(k))
}

// arrowCodes maps decoded arrow keys to the second code of the extended pair.
var arrowCodes = map[rune]Key{
	uv.KeyUp:    KeyUp,
	uv.KeyDown:  KeyDown,
	uv.KeyRight: KeyRight,
	uv.KeyLeft:  KeyLeft,
}

// decodeKeys converts one chunk of raw terminal input into key codes.
// Non-key events (mouse, focus, replies) are dropped.
func decodeKeys(dec *uv.EventDecoder, buf []byte) []Key {
	keys := make([]Key, 0, len(buf))
	for len(buf) > 0 {
		n, ev := dec.Decode(buf)
		if n == 0 {
			break
		}
		buf = buf[n:]
		if press, ok := ev.(uv.KeyPressEvent); ok {
			keys = append(keys, keysFromPress(uv.Key(press))...)
		}
	}
	return keys
}

// keysFromPress maps a decoded key press onto scan codes. Arrows become
// extended pairs regardless of modifiers. Non-ASCII input is KeyOther.
func keysFromPress(k uv.Key) []Key {
	if code, ok := arrowCodes[k.Code]; ok {
		return []Key{KeyExtended, code}
	}
	switch {
	case k.Code == uv.KeyEnter:
		return []Key{KeyEnter}
	case k.Code == uv.KeyEscape:
		return []Key{KeyEscape}
	case k.Mod == uv.ModCtrl && (k.Code == 'j' || k.Code == 'm'):
		return []Key{KeyEnter}
	case k.Mod == uv.ModCtrl && k.Code >= 'a' && k.Code <= 'z':
		return []Key{Key(k.Code - 'a' + 1)}
	}
	if k.Mod&^uv.ModShift == 0 {
		if r := []rune(k.Text); len(r) == 1 && r[0] < utf8.RuneSelf {
			return []Key{Key(r[0])}
		}
		if k.Text == "" && k.Code < utf8.RuneSelf {
			return []Key{Key(k.Code)}
		}
	}
	return []Key{KeyOther}
}
