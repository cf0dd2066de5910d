package session

// Record is the persisted credential bundle returned by the admin-login exchange.
//
// Record values are written once per login and read once per process start; callers
// should treat a loaded Record as immutable.
type Record struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// User is the operator identity carried in a [Record].
type User struct {
	ID    string `json:"_id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
}

// LoadStatus reports what [Store.LoadWithStatus] found in the slot.
type LoadStatus uint8

const (
	// StatusAbsent means the key does not exist.
	StatusAbsent LoadStatus = iota
	// StatusPresent means a well-formed record was decoded.
	StatusPresent
	// StatusMalformed means a value exists but is not a well-formed record.
	StatusMalformed
)

func (s LoadStatus) String() string {
	switch s {
	case StatusAbsent:
		return "absent"
	case StatusPresent:
		return "present"
	case StatusMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}
