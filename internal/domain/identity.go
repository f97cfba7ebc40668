package domain

import "regexp"

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,20}$`)
	uuidPattern     = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
)

// ValidUsername reports whether name is 3-20 alphanumeric/underscore/dash
// characters.
func ValidUsername(name string) bool {
	return usernamePattern.MatchString(name)
}

// ValidUserID reports whether id is a UUID.
func ValidUserID(id string) bool {
	return uuidPattern.MatchString(id)
}

// ValidModelID reports whether id names a known classifier family.
// Empty is allowed; callers default it.
func ValidModelID(id string) bool {
	switch id {
	case "", "resnet", "alexnet", "mobilenet":
		return true
	}
	return false
}
