package types

// UserProfile is the operator's own pitch material, quoted in generated
// proposals.
type UserProfile struct {
	Bio             string   `yaml:"bio" json:"bio"`
	Specializations []string `yaml:"specializations" json:"specializations"`
	UniqueValue     string   `yaml:"unique_value" json:"unique_value"`
}

// Project is one portfolio entry, selected into proposals by technology
// overlap with the listing.
type Project struct {
	Title        string   `yaml:"title" json:"title"`
	Description  string   `yaml:"description" json:"description"`
	Technologies []string `yaml:"technologies" json:"technologies"`
	Outcomes     string   `yaml:"outcomes" json:"outcomes"`
}

// Guidelines shape the tone and structure of generated proposal text.
type Guidelines struct {
	Tone             string   `yaml:"tone" json:"tone"`
	MaxLength        int      `yaml:"max_length" json:"max_length"`
	RequiredSections []string `yaml:"required_sections" json:"required_sections"`
	AvoidPhrases     []string `yaml:"avoid_phrases" json:"avoid_phrases"`
	Emphasis         []string `yaml:"emphasis" json:"emphasis"`
	MaxProjects      int      `yaml:"max_projects" json:"max_projects"`
}
