package profiles

import (
	"fmt"
	"strings"
)

// FormatAsText renders the profile as the plain-text resume used in prompts.
func FormatAsText(p ProfileData) string {
	var b strings.Builder
	info := p.PersonalInfo

	b.WriteString("PERSONAL INFORMATION:\n")
	fmt.Fprintf(&b, "Name: %s\n", info.Name)
	fmt.Fprintf(&b, "Email: %s\n", info.Email)
	fmt.Fprintf(&b, "Phone: %s\n", info.Phone)
	fmt.Fprintf(&b, "Location: %s\n", info.Location)
	if info.LinkedIn != "" {
		fmt.Fprintf(&b, "LinkedIn: %s\n", info.LinkedIn)
	}
	if info.Portfolio != "" {
		fmt.Fprintf(&b, "Portfolio: %s\n", info.Portfolio)
	}

	if p.AboutMe != "" {
		fmt.Fprintf(&b, "\nABOUT ME:\n%s\n", p.AboutMe)
	}

	if len(p.WorkExperience) > 0 {
		b.WriteString("\nWORK EXPERIENCE:\n")
		for _, exp := range p.WorkExperience {
			fmt.Fprintf(&b, "%s at %s (%s - %s)\n", exp.Position, exp.Company, exp.StartDate, exp.EndDate)
			fmt.Fprintf(&b, "Location: %s\n", exp.Location)
			for _, line := range exp.Description {
				fmt.Fprintf(&b, "• %s\n", line)
			}
			b.WriteString("\n")
		}
	}

	if len(p.Education) > 0 {
		b.WriteString("EDUCATION:\n")
		for _, edu := range p.Education {
			fmt.Fprintf(&b, "%s in %s from %s (%s - %s)\n", edu.Degree, edu.Field, edu.Institution, edu.StartDate, edu.EndDate)
			if edu.GPA != "" {
				fmt.Fprintf(&b, "GPA: %s\n", edu.GPA)
			}
			if edu.Description != "" {
				fmt.Fprintf(&b, "%s\n", edu.Description)
			}
			b.WriteString("\n")
		}
	}

	if len(p.Projects) > 0 {
		b.WriteString("PROJECTS:\n")
		for _, proj := range p.Projects {
			fmt.Fprintf(&b, "%s (%s)\n", proj.Name, dateRange(proj.StartDate, proj.EndDate))
			fmt.Fprintf(&b, "%s\n", proj.Description)
			fmt.Fprintf(&b, "Technologies: %s\n", strings.Join(proj.Technologies, ", "))
			if proj.Link != "" {
				fmt.Fprintf(&b, "Link: %s\n", proj.Link)
			}
			b.WriteString("\n")
		}
	}

	if len(p.Skills) > 0 {
		b.WriteString("SKILLS:\n")
		for _, group := range p.Skills {
			fmt.Fprintf(&b, "%s: %s\n", group.Category, strings.Join(group.Skills, ", "))
		}
	}

	if len(p.VolunteerWork) > 0 {
		b.WriteString("\nVOLUNTEER WORK:\n")
		for _, vol := range p.VolunteerWork {
			fmt.Fprintf(&b, "%s at %s (%s)\n", vol.Role, vol.Organization, dateRange(vol.StartDate, vol.EndDate))
			fmt.Fprintf(&b, "%s\n\n", vol.Description)
		}
	}

	return b.String()
}

func dateRange(start, end string) string {
	if end == "" {
		return start
	}
	return start + " - " + end
}
