package policy

// File is the YAML layout of a policy file. Every section is optional.
type File struct {
	Categories         []CategoryEntry `yaml:"categories"`
	ReservedCategories []string        `yaml:"reserved_categories"`
	Image              ImageSection    `yaml:"image"`
}

// CategoryEntry maps raw spellings (regular expressions, matched
// case-insensitively) to one label.
type CategoryEntry struct {
	Label    string   `yaml:"label"`
	Patterns []string `yaml:"patterns"`
}

type ImageSection struct {
	BlockedHosts []string `yaml:"blocked_hosts"`
	Extensions   []string `yaml:"extensions"`
}
