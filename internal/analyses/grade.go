package analyses

var grades = []struct {
	min   int
	grade string
}{
	{95, "A+"},
	{90, "A"},
	{85, "B+"},
	{80, "B"},
	{75, "C+"},
	{70, "C"},
	{60, "D"},
}

// GradeForScore maps a 0-100 score onto the letter scale.
func GradeForScore(score int) string {
	for _, g := range grades {
		if score >= g.min {
			return g.grade
		}
	}
	return "F"
}

// ValidGrade reports whether g is one of A+, A, B+, B, C+, C, D, F.
func ValidGrade(g string) bool {
	if g == "F" {
		return true
	}
	for _, known := range grades {
		if known.grade == g {
			return true
		}
	}
	return false
}
