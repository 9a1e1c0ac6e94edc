package utils

func StringPtr(s string) *string {
	return &s
}

func PtrString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// OptionalString returns nil for an empty string so optional document fields
// are omitted rather than stored empty.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
