package encoding

// Serializable is implemented by records that encode themselves into the
// append/reader wire format of this package and can rebuild themselves from
// those bytes.
type Serializable[T any] interface {
	Serialize() ([]byte, error)
	Deserialize([]byte) error
}
