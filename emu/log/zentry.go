package log

import (
	"fmt"
	"sync"

	"gopkg.in/Sirupsen/logrus.v0"
)

// EntryZ is a log entry built field by field. A nil *EntryZ is valid and
// discards everything, so that disabled log statements cost a nil check.
type EntryZ struct {
	lvl Level
	msg string
	mod Module

	fields  [16]field
	nfields int
}

var entryPool = sync.Pool{
	New: func() any { return new(EntryZ) },
}

func newEntryZ() *EntryZ {
	e := entryPool.Get().(*EntryZ)
	e.nfields = 0
	return e
}

func (z *EntryZ) add(f field) *EntryZ {
	if z == nil {
		return nil
	}
	if z.nfields < len(z.fields) {
		z.fields[z.nfields] = f
		z.nfields++
	}
	return z
}

func (z *EntryZ) Bool(key string, b bool) *EntryZ {
	var v uint64
	if b {
		v = 1
	}
	return z.add(field{key: key, kind: kindBool, num: v})
}

func (z *EntryZ) String(key, s string) *EntryZ {
	return z.add(field{key: key, kind: kindString, str: s})
}

func (z *EntryZ) Stringer(key string, s fmt.Stringer) *EntryZ {
	return z.add(field{key: key, kind: kindStringer, val: s})
}

func (z *EntryZ) Hex8(key string, v uint8) *EntryZ {
	return z.add(field{key: key, kind: kindHex8, num: uint64(v)})
}

func (z *EntryZ) Hex16(key string, v uint16) *EntryZ {
	return z.add(field{key: key, kind: kindHex16, num: uint64(v)})
}

func (z *EntryZ) Hex32(key string, v uint32) *EntryZ {
	return z.add(field{key: key, kind: kindHex32, num: uint64(v)})
}

func (z *EntryZ) Int(key string, v int) *EntryZ {
	return z.add(field{key: key, kind: kindInt, num: uint64(v)})
}

func (z *EntryZ) Uint8(key string, v uint8) *EntryZ {
	return z.add(field{key: key, kind: kindUint, num: uint64(v)})
}

func (z *EntryZ) Error(key string, err error) *EntryZ {
	return z.add(field{key: key, kind: kindError, val: err})
}

// End writes the entry.
func (z *EntryZ) End() {
	if z == nil {
		return
	}

	fields := make(logrus.Fields, z.nfields+1)
	fields["_mod"] = z.mod.String()
	for i := range z.fields[:z.nfields] {
		fields[z.fields[i].key] = z.fields[i].format()
	}
	entry := logrus.StandardLogger().WithFields(fields)
	lvl, msg := z.lvl, z.msg

	z.fields = [16]field{}
	entryPool.Put(z)

	switch lvl {
	case DebugLevel:
		entry.Debug(msg)
	case InfoLevel:
		entry.Info(msg)
	case WarnLevel:
		entry.Warn(msg)
	case ErrorLevel:
		entry.Error(msg)
	case FatalLevel:
		entry.Fatal(msg)
	case PanicLevel:
		entry.Panic(msg)
	}
}
