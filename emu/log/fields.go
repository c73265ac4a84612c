package log

import (
	"fmt"
	"strconv"
)

type fieldKind uint8

const (
	kindBool fieldKind = iota
	kindString
	kindHex8
	kindHex16
	kindHex32
	kindInt
	kindUint
	kindError
	kindStringer
)

// field is a typed key-value pair of an EntryZ. The value is formatted only
// when the entry is written.
type field struct {
	key  string
	kind fieldKind
	num  uint64
	str  string
	val  any // error or fmt.Stringer
}

func (f *field) format() string {
	switch f.kind {
	case kindBool:
		return strconv.FormatBool(f.num != 0)
	case kindString:
		return f.str
	case kindHex8:
		return fmt.Sprintf("%02x", f.num)
	case kindHex16:
		return fmt.Sprintf("%04x", f.num)
	case kindHex32:
		return fmt.Sprintf("%08x", f.num)
	case kindInt:
		return strconv.FormatInt(int64(f.num), 10)
	case kindUint:
		return strconv.FormatUint(f.num, 10)
	case kindError:
		if f.val == nil {
			return "<nil>"
		}
		return f.val.(error).Error()
	case kindStringer:
		if f.val == nil {
			return "<nil>"
		}
		return f.val.(fmt.Stringer).String()
	}
	return ""
}
