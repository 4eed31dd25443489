package objectid

// ID is an identifier tagged with the kind of object it names. The tag exists
// only at compile time: an ID[T] has the same size and encodings as a RawID,
// and nothing checks that the object behind it really is a T.
type ID[T any] struct {
	raw RawID
}

// Typed tags a raw id with T.
func Typed[T any](raw RawID) ID[T] {
	return ID[T]{raw: raw}
}

// ParseID parses s into an id tagged with T.
func ParseID[T any](s string) (ID[T], error) {
	raw, err := Parse(s)
	if err != nil {
		return ID[T]{}, err
	}
	return ID[T]{raw: raw}, nil
}

// Retype changes the tag of id, unchecked.
func Retype[U, T any](id ID[T]) ID[U] {
	return ID[U]{raw: id.raw}
}

// Raw drops the tag.
func (id ID[T]) Raw() RawID {
	return id.raw
}

func (id ID[T]) String() string {
	return id.raw.String()
}

func (id ID[T]) Bytes() [Size]byte {
	return id.raw.packed
}

func (id ID[T]) Len() int {
	return id.raw.Len()
}

func (id ID[T]) IsZero() bool {
	return id.raw.IsZero()
}

// Compare orders ids of the same kind; see RawID.Compare.
func (id ID[T]) Compare(other ID[T]) int {
	return id.raw.Compare(other.raw)
}

func (id ID[T]) MarshalBinary() ([]byte, error) {
	return id.raw.MarshalBinary()
}

func (id *ID[T]) UnmarshalBinary(data []byte) error {
	return id.raw.UnmarshalBinary(data)
}

func (id ID[T]) MarshalText() ([]byte, error) {
	return id.raw.MarshalText()
}

func (id *ID[T]) UnmarshalText(text []byte) error {
	return id.raw.UnmarshalText(text)
}
