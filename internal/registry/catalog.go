package registry

// Module is a top-level domain grouping.
type Module string

const (
	Education     Module = "education"
	Health        Module = "health"
	SocialJustice Module = "social-justice"
)

// Category describes one record collection within a module.
type Category struct {
	Key        string   `json:"key"`
	Label      string   `json:"label"`
	Collection string   `json:"collection"`
	FilterKeys []string `json:"filterKeys"`
}

// CommonFilterKeys are accepted for every category.
var CommonFilterKeys = []string{"status", "search"}

var moduleLabels = map[Module]string{
	Education:     "Education",
	Health:        "Health",
	SocialJustice: "Social Justice",
}

var moduleOrder = []Module{Education, Health, SocialJustice}

// catalog is the closed set of categories per module. Adding a category is an edit here.
var catalog = map[Module][]Category{
	Education: {
		{Key: "study-centers", Label: "Study Centers", Collection: "education/study-centers", FilterKeys: []string{"wardNo", "habitation"}},
		{Key: "sc-students", Label: "SC Students", Collection: "education/sc-students", FilterKeys: []string{"wardNo", "habitation", "classOrGrade"}},
		{Key: "dropouts", Label: "Dropouts", Collection: "education/dropouts", FilterKeys: []string{"wardNo", "habitation", "classOrGrade"}},
		{Key: "schools", Label: "Schools", Collection: "education/schools", FilterKeys: []string{"wardNo", "habitation"}},
		{Key: "competitive-exams", Label: "Competitive Exams", Collection: "education/competitive-exams", FilterKeys: []string{"wardNo", "examType"}},
		{Key: "board-preparation", Label: "Board Preparation", Collection: "education/board-preparation", FilterKeys: []string{"wardNo", "boardType", "classOrGrade"}},
	},
	Health: {
		{Key: "health-camps", Label: "Health Camps", Collection: "health/health-camps", FilterKeys: []string{"wardNo", "habitation"}},
		{Key: "elderly", Label: "Elderly", Collection: "health/elderly", FilterKeys: []string{"wardNo", "habitation"}},
		{Key: "mother-child", Label: "Mother & Child", Collection: "health/mother-child", FilterKeys: []string{"wardNo", "habitation"}},
		{Key: "pwd", Label: "Persons with Disabilities", Collection: "health/pwd", FilterKeys: []string{"wardNo", "habitation"}},
		{Key: "adolescents", Label: "Adolescents", Collection: "health/adolescents", FilterKeys: []string{"wardNo", "habitation"}},
		{Key: "tuberculosis", Label: "Tuberculosis", Collection: "health/tuberculosis", FilterKeys: []string{"wardNo", "habitation", "treatmentStatus"}},
		{Key: "hiv", Label: "HIV", Collection: "health/hiv", FilterKeys: []string{"wardNo", "habitation", "treatmentStatus"}},
		{Key: "leprosy", Label: "Leprosy", Collection: "health/leprosy", FilterKeys: []string{"wardNo", "habitation", "treatmentStatus"}},
		{Key: "addiction", Label: "Addiction", Collection: "health/addiction", FilterKeys: []string{"wardNo", "habitation", "treatmentStatus"}},
		{Key: "other-diseases", Label: "Other Diseases", Collection: "health/other-diseases", FilterKeys: []string{"wardNo", "habitation", "diseaseType", "treatmentStatus"}},
	},
	SocialJustice: {
		{Key: "beneficiaries", Label: "Beneficiaries", Collection: "social-justice/beneficiaries", FilterKeys: []string{"wardNo", "habitation"}},
		{Key: "cbucbo", Label: "CBUCBO", Collection: "social-justice/cbucbo", FilterKeys: []string{"wardNo", "groupType"}},
		{Key: "entitlements", Label: "Entitlements", Collection: "social-justice/entitlements", FilterKeys: []string{"wardNo", "habitation"}},
		{Key: "legal-aid", Label: "Legal Aid", Collection: "social-justice/legal-aid", FilterKeys: []string{"wardNo", "caseType"}},
		{Key: "workshops", Label: "Workshops", Collection: "social-justice/workshops", FilterKeys: []string{"wardNo"}},
	},
}

// Label returns the display name of the module, or the raw key when unknown.
func (m Module) Label() string {
	if l, ok := moduleLabels[m]; ok {
		return l
	}
	return string(m)
}

// Valid reports whether m is one of the registered modules.
func (m Module) Valid() bool {
	_, ok := moduleLabels[m]
	return ok
}

// Modules returns the registered modules in display order.
func Modules() []Module {
	out := make([]Module, len(moduleOrder))
	copy(out, moduleOrder)
	return out
}

// ParseModule resolves a module key, accepting a few common spellings.
func ParseModule(s string) (Module, bool) {
	switch s {
	case "education", "Education":
		return Education, true
	case "health", "Health":
		return Health, true
	case "social-justice", "socialJustice", "social_justice", "SocialJustice", "Social Justice":
		return SocialJustice, true
	}
	return "", false
}
