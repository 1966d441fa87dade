package options

// Arguments represents command line arguments
type Arguments []string

// SubMode returns true when first argument is a command
func (a Arguments) SubMode() bool {
	if len(a) == 0 {
		return false
	}
	switch a[0] {
	case "resolve", "sample", "command", "invoke", "catalog", "ping":
		return true
	}
	return false
}

// IsHelp returns true for help request
func (a Arguments) IsHelp() bool {
	for _, arg := range a {
		if arg == "-h" || arg == "--help" {
			return true
		}
	}
	return false
}
