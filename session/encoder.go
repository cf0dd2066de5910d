package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrMalformed is returned when a stored or received value is not a well-formed [Record].
var ErrMalformed = errors.New("malformed session record")

const maxRecordSize = 64 << 10

// wireRecord mirrors Record with a pointer user so a missing object is detectable.
type wireRecord struct {
	Token *string `json:"token"`
	User  *User   `json:"user"`
}

// Encode serializes a record after checking it is well-formed.
func Encode(r *Record) ([]byte, error) {
	if err := Check(r); err != nil {
		return nil, err
	}
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return data, nil
}

// Decode parses data into a [Record]. Any structural defect yields [ErrMalformed];
// there is no partially decoded result.
func Decode(data []byte) (*Record, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty value", ErrMalformed)
	}
	if len(data) > maxRecordSize {
		return nil, fmt.Errorf("%w: value too large", ErrMalformed)
	}

	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if w.Token == nil {
		return nil, fmt.Errorf("%w: missing token", ErrMalformed)
	}
	if w.User == nil {
		return nil, fmt.Errorf("%w: missing user", ErrMalformed)
	}

	r := &Record{Token: *w.Token, User: *w.User}
	if err := Check(r); err != nil {
		return nil, err
	}
	return r, nil
}

// Check reports whether r is structurally complete: a non-blank token and a user with a
// non-blank role, with every field valid UTF-8 so it survives a JSON round trip
// unchanged. Whether the role is one the console recognizes is not checked here.
func Check(r *Record) error {
	if r == nil {
		return fmt.Errorf("%w: nil record", ErrMalformed)
	}
	if strings.TrimSpace(r.Token) == "" {
		return fmt.Errorf("%w: empty token", ErrMalformed)
	}
	if strings.TrimSpace(r.User.Role) == "" {
		return fmt.Errorf("%w: empty role", ErrMalformed)
	}
	for _, f := range []string{r.Token, r.User.ID, r.User.Name, r.User.Email, r.User.Role} {
		if !utf8.ValidString(f) {
			return fmt.Errorf("%w: invalid utf-8", ErrMalformed)
		}
	}
	return nil
}
