package entities

// Credentials holds the login pair entered once per run. The password is
// kept in memory only; String and MarshalText redact it so the secret
// cannot leak through logs or serialized output.
type Credentials struct {
	Username string
	Password string
}

// HasPassword reports whether a password was supplied
func (c Credentials) HasPassword() bool {
	return c.Password != ""
}

// String renders the credentials with the password redacted
func (c Credentials) String() string {
	if c.Username == "" {
		return "<no credentials>"
	}
	return c.Username + ":***"
}

// MarshalText redacts the password on any text serialization path
func (c Credentials) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
