package hwio

//go:generate go tool stringer -type=Access -trimprefix=Access

// Access is the type of the last access made to a memory-mapped register.
type Access uint8

const (
	AccessNone Access = iota
	AccessRead
	AccessWrite
)
