package itemschema

// ImportanceLevel is the value type of the Importance property.
type ImportanceLevel int

const (
	ImportanceLow ImportanceLevel = iota
	ImportanceNormal
	ImportanceHigh
)

var importanceNames = map[ImportanceLevel]string{
	ImportanceLow:    "Low",
	ImportanceNormal: "Normal",
	ImportanceHigh:   "High",
}

func (i ImportanceLevel) String() string { return importanceNames[i] }

// SensitivityLevel is the value type of the Sensitivity property.
type SensitivityLevel int

const (
	SensitivityNormal SensitivityLevel = iota
	SensitivityPersonal
	SensitivityPrivate
	SensitivityConfidential
)

var sensitivityNames = map[SensitivityLevel]string{
	SensitivityNormal:       "Normal",
	SensitivityPersonal:     "Personal",
	SensitivityPrivate:      "Private",
	SensitivityConfidential: "Confidential",
}

func (s SensitivityLevel) String() string { return sensitivityNames[s] }
