package entry

import "strconv"

// DefaultSheet returns the sample offices the form starts with.
func DefaultSheet() Sheet {
	return Sheet{
		Trials: strconv.Itoa(DefaultTrials),
		Units: []RawUnit{
			{Label: "Office A", Applicants: "50546", Rates: []string{"57.2", "53.6", "71.7", "71.6", "49.0"}},
			{Label: "Office B", Applicants: "46630", Rates: []string{"29.8", "19.5", "100", "91.6", "66.0"}},
		},
	}
}
