package ejson

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"
)

// ObjectID is a 12-byte document identifier: a 4-byte big-endian unix
// timestamp followed by 8 random bytes.
type ObjectID [12]byte

// NilObjectID is the zero ObjectID.
var NilObjectID ObjectID

// NewObjectID generates an ObjectID with the current timestamp.
func NewObjectID() ObjectID {
	return NewObjectIDFromTime(time.Now())
}

// NewObjectIDFromTime generates an ObjectID with the given timestamp.
func NewObjectIDFromTime(t time.Time) ObjectID {
	var id ObjectID
	binary.BigEndian.PutUint32(id[:4], uint32(t.Unix()))
	if _, err := rand.Read(id[4:]); err != nil {
		// crypto/rand.Read does not fail on supported platforms.
		panic(fmt.Sprintf("ejson: read random bytes: %v", err))
	}
	return id
}

// ObjectIDFromHex parses a 24-character hex string into an ObjectID.
func ObjectIDFromHex(s string) (ObjectID, error) {
	if len(s) != 24 {
		return NilObjectID, fmt.Errorf("ejson: invalid ObjectID length %d, want 24", len(s))
	}
	var id ObjectID
	if _, err := hex.Decode(id[:], []byte(s)); err != nil {
		return NilObjectID, fmt.Errorf("ejson: invalid ObjectID %q: %w", s, err)
	}
	return id, nil
}

// Hex returns the 24-character hex form.
func (id ObjectID) Hex() string {
	return hex.EncodeToString(id[:])
}

// Timestamp returns the creation time encoded in the ID.
func (id ObjectID) Timestamp() time.Time {
	return time.Unix(int64(binary.BigEndian.Uint32(id[:4])), 0)
}

// IsZero reports whether the ID is the zero value.
func (id ObjectID) IsZero() bool {
	return id == NilObjectID
}

func (id ObjectID) String() string {
	return fmt.Sprintf("ObjectID(%q)", id.Hex())
}
