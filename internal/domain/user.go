package domain

import "encoding/json"

// UserRecord is the profile decoded from the "user" field of a verified
// initData payload. Identity fields keep whatever JSON type the host sent
// (string or number) and are nil when absent.
type UserRecord struct {
	ID              any  `json:"id"`
	FirstName       any  `json:"first_name"`
	LastName        any  `json:"last_name"`
	LanguageCode    any  `json:"language_code"`
	AllowsWriteToPM bool `json:"allows_write_to_pm"`

	present bool
}

// NewUserRecord builds a record from a decoded "user" object.
func NewUserRecord(obj map[string]any) UserRecord {
	u := UserRecord{
		ID:           obj["id"],
		FirstName:    obj["first_name"],
		LastName:     obj["last_name"],
		LanguageCode: obj["language_code"],
		present:      true,
	}
	if v, ok := obj["allows_write_to_pm"].(bool); ok {
		u.AllowsWriteToPM = v
	}
	return u
}

// IsEmpty reports whether the payload carried no usable user object.
func (u UserRecord) IsEmpty() bool {
	return !u.present
}

func (u UserRecord) MarshalJSON() ([]byte, error) {
	if u.IsEmpty() {
		return []byte("{}"), nil
	}
	type record UserRecord
	return json.Marshal(record(u))
}
