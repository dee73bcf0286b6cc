package profiles

func sampleProfile() ProfileData {
	return ProfileData{
		PersonalInfo: PersonalInfo{
			Name:     "Ada Lovelace",
			Email:    "ada@example.com",
			Phone:    "+44 20 7946 0000",
			Location: "London, UK",
			LinkedIn: "linkedin.com/in/ada",
		},
		AboutMe: "Analyst of engines.",
		Education: []EducationItem{
			{ID: "edu1", Institution: "University of London", Degree: "BSc", Field: "Mathematics", StartDate: "1832", EndDate: "1835", GPA: "4.0"},
		},
		WorkExperience: []WorkExperienceItem{
			{ID: "work1", Company: "Analytical Engines Ltd", Position: "Programmer", StartDate: "1842", EndDate: "1843", Location: "London", Description: []string{"Wrote the first algorithm", "Translated Menabrea"}},
			{ID: "work2", Company: "Difference Co", Position: "Analyst", StartDate: "1840", EndDate: "1842", Location: "Remote", Description: []string{"Reviewed designs"}},
		},
		Projects: []ProjectItem{
			{ID: "proj1", Name: "Note G", Description: "Bernoulli numbers", Technologies: []string{"Punch cards"}, StartDate: "1843"},
		},
		VolunteerWork: []VolunteerItem{
			{ID: "vol1", Organization: "Royal Society", Role: "Guest", StartDate: "1840", Description: "Attended lectures"},
		},
		Skills: []SkillItem{
			{ID: "sk1", Category: "Languages", Skills: []string{"English", "French"}},
			{ID: "sk2", Category: "Math", Skills: []string{"Calculus"}},
		},
	}
}
