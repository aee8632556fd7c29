package config

// SecretStringValue is what ends up in configuration dumps and debug reports
// instead of the actual value.
const SecretStringValue = "<secret>"

// SecretString is used for configuration values which must never be visible
// in logs or dumps, for example remote image authorization header.
type SecretString string

// MarshalJSON hides actual value.
func (s SecretString) MarshalJSON() ([]byte, error) {
	if len(s) == 0 {
		return []byte("null"), nil
	}
	return []byte("\"" + SecretStringValue + "\""), nil
}

// MarshalYAML hides actual value.
func (s SecretString) MarshalYAML() (any, error) {
	if len(s) == 0 {
		return nil, nil
	}
	return SecretStringValue, nil
}

// String implements fmt.Stringer so the value does not leak through zap.Stringer or %v.
func (s SecretString) String() string {
	if len(s) == 0 {
		return ""
	}
	return SecretStringValue
}
