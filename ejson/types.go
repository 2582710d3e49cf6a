package ejson

// Decimal128 is a high-precision decimal carried as its string form.
// The client never does arithmetic on it; the server interprets the value.
type Decimal128 string

// String returns the decimal's literal form.
func (d Decimal128) String() string { return string(d) }

// Binary is raw binary data, hex-encoded on the wire.
type Binary []byte

// Regex is a server-side regular expression with flags.
type Regex struct {
	Pattern string
	Options string
}

// Code is a string of server-side code.
type Code string

// Timestamp is an internal server timestamp: seconds since the epoch plus an
// ordering increment within that second.
type Timestamp struct {
	T uint32
	I uint32
}

// MinKey sorts before every other value.
type MinKey struct{}

// MaxKey sorts after every other value.
type MaxKey struct{}
