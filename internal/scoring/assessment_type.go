package scoring

// Respondent carries the profile fields that decide which assessment a user
// takes.
type Respondent struct {
	Gender          string
	Region          string
	CulturalContext string
}

// ResolveAssessmentType picks the assessment for a respondent. A requested
// type is honored only when it matches the respondent's gender; the second
// return value is false when no assessment applies.
func ResolveAssessmentType(r Respondent, requested AssessmentType) (AssessmentType, bool) {
	if requested != "" {
		var gender string
		switch requested {
		case HighValueMan:
			gender = "male"
		case WifeMaterial, BridalPrice:
			gender = "female"
		}
		if gender == "" || r.Gender != gender {
			return "", false
		}
		return requested, true
	}

	switch r.Gender {
	case "male":
		return HighValueMan, true
	case "female":
		if r.Region == "africa" && r.CulturalContext == "african" {
			return BridalPrice, true
		}
		return WifeMaterial, true
	}
	return "", false
}

// AssessmentTypeName is the display name of t.
func AssessmentTypeName(t AssessmentType) string {
	switch t {
	case HighValueMan:
		return "High-Value Man Assessment"
	case WifeMaterial:
		return "Wife Material Assessment"
	case BridalPrice:
		return "Bridal Price Estimator"
	default:
		return "Assessment"
	}
}
