package constants

const (
	// AllSubjectsLabel names sessions recorded without a subject
	AllSubjectsLabel = "All Subjects"
	// DefaultBlockColor colors calendar blocks with no subject color
	DefaultBlockColor = "#f59f0a"
	// DefaultSubjectColor colors subject breakdown rows with no color
	DefaultSubjectColor = "#3b82f6"

	// NoSubjectFilter selects only sessions without a subject
	NoSubjectFilter = "none"
)
