// Package dtmf decodes DTMF touch-tone signaling from chunked audio: tone
// classification with SNR gating, a button press/release state machine, and
// a keypress sequence buffer with timeout, terminator, and kill-code
// handling.
package dtmf

// tonePair identifies a key by its low-group and high-group frequencies in Hz.
type tonePair struct {
	low  int
	high int
}

// keyMap is the fixed bijection from tone pairs to keypad symbols.
var keyMap = map[tonePair]byte{
	{697, 1209}: '1',
	{697, 1336}: '2',
	{697, 1477}: '3',
	{697, 1633}: 'A',
	{770, 1209}: '4',
	{770, 1336}: '5',
	{770, 1477}: '6',
	{770, 1633}: 'B',
	{852, 1209}: '7',
	{852, 1336}: '8',
	{852, 1477}: '9',
	{852, 1633}: 'C',
	{941, 1209}: '*',
	{941, 1336}: '0',
	{941, 1477}: '#',
	{941, 1633}: 'D',
}

// TonesFor returns the (low, high) tone pair for a keypad symbol. It is the
// inverse of KeyFor, used by tone synthesis in dev fixtures and tests.
func TonesFor(key byte) (low, high int, ok bool) {
	for pair, k := range keyMap {
		if k == key {
			return pair.low, pair.high, true
		}
	}
	return 0, 0, false
}

// KeyFor returns the keypad symbol for a (low, high) tone pair.
func KeyFor(low, high int) (byte, bool) {
	k, ok := keyMap[tonePair{low: low, high: high}]
	return k, ok
}

// ValidSymbol reports whether b is one of the sixteen keypad symbols.
func ValidSymbol(b byte) bool {
	switch {
	case b >= '0' && b <= '9':
		return true
	case b >= 'A' && b <= 'D':
		return true
	case b == '*' || b == '#':
		return true
	}
	return false
}
