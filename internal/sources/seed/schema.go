package seed

// File is the top-level structure of a seed catalog file.
// The YAML structure is: - CategoryName: [ - ListingName: { website, description, ... } ]
// Category and listing names are dynamic keys, mirroring how dashboards group links.
type File []map[string][]map[string]Entry

// Entry contains the listing properties
type Entry struct {
	Website      string `yaml:"website"`
	Description  string `yaml:"description"`
	AuthRequired bool   `yaml:"auth_required,omitempty"`
	Source       string `yaml:"source,omitempty"`
	Summary      string `yaml:"summary,omitempty"`
}
