package config

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"extensions":    []string{".xml"},
		"indent":        4,
		"max_width":     120,
		"backup_suffix": ".bak",
		"jobs":          0,
		"fail_on":       "error",
		"rules_file":    ".moquilint.yaml",
	}
}
