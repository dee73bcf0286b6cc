package profiles

// ProfileData is the whole personal profile. It is stored and exchanged as one document.
type ProfileData struct {
	PersonalInfo   PersonalInfo         `json:"personalInfo"`
	AboutMe        string               `json:"aboutMe"`
	Education      []EducationItem      `json:"education" validate:"dive"`
	WorkExperience []WorkExperienceItem `json:"workExperience" validate:"dive"`
	Projects       []ProjectItem        `json:"projects" validate:"dive"`
	VolunteerWork  []VolunteerItem      `json:"volunteerWork" validate:"dive"`
	Skills         []SkillItem          `json:"skills" validate:"dive"`
}

type PersonalInfo struct {
	Name      string `json:"name"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone" validate:"omitempty,valid_phone"`
	Location  string `json:"location"`
	LinkedIn  string `json:"linkedin,omitempty" validate:"omitempty,loose_url"`
	Portfolio string `json:"portfolio,omitempty" validate:"omitempty,loose_url"`
}

type EducationItem struct {
	ID          string `json:"id" validate:"required"`
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	GPA         string `json:"gpa,omitempty"`
	Description string `json:"description,omitempty"`
}

type WorkExperienceItem struct {
	ID          string   `json:"id" validate:"required"`
	Company     string   `json:"company"`
	Position    string   `json:"position"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Location    string   `json:"location"`
	Description []string `json:"description"`
}

type ProjectItem struct {
	ID           string   `json:"id" validate:"required"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Link         string   `json:"link,omitempty"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate,omitempty"`
}

type VolunteerItem struct {
	ID           string `json:"id" validate:"required"`
	Organization string `json:"organization"`
	Role         string `json:"role"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate,omitempty"`
	Description  string `json:"description"`
}

type SkillItem struct {
	ID       string   `json:"id" validate:"required"`
	Category string   `json:"category"`
	Skills   []string `json:"skills"`
}

// Backup identifies one stored snapshot of a profile.
type Backup struct {
	Timestamp int64  `json:"timestamp"`
	Date      string `json:"date"`
}

// Stats reports storage used by a principal's profile and backups.
type Stats struct {
	ProfileBytes int64  `json:"profileBytes"`
	BackupBytes  int64  `json:"backupBytes"`
	BackupCount  int    `json:"backupCount"`
	Used         string `json:"used"`
}

// Section names of the five entry lists.
const (
	SectionEducation      = "education"
	SectionWorkExperience = "workExperience"
	SectionProjects       = "projects"
	SectionVolunteerWork  = "volunteerWork"
	SectionSkills         = "skills"
)

// Sections lists every entry section in display order.
var Sections = []string{
	SectionEducation,
	SectionWorkExperience,
	SectionProjects,
	SectionVolunteerWork,
	SectionSkills,
}

// Empty returns a profile with no content and non-nil lists.
func Empty() ProfileData {
	return Normalize(ProfileData{})
}

// Normalize replaces nil lists with empty ones so the profile always
// serializes with arrays where the document format requires them.
func Normalize(p ProfileData) ProfileData {
	if p.Education == nil {
		p.Education = []EducationItem{}
	}
	if p.WorkExperience == nil {
		p.WorkExperience = []WorkExperienceItem{}
	}
	for i := range p.WorkExperience {
		if p.WorkExperience[i].Description == nil {
			p.WorkExperience[i].Description = []string{}
		}
	}
	if p.Projects == nil {
		p.Projects = []ProjectItem{}
	}
	for i := range p.Projects {
		if p.Projects[i].Technologies == nil {
			p.Projects[i].Technologies = []string{}
		}
	}
	if p.VolunteerWork == nil {
		p.VolunteerWork = []VolunteerItem{}
	}
	if p.Skills == nil {
		p.Skills = []SkillItem{}
	}
	for i := range p.Skills {
		if p.Skills[i].Skills == nil {
			p.Skills[i].Skills = []string{}
		}
	}
	return p
}

// IsSection reports whether name is one of the entry sections.
func IsSection(name string) bool {
	for _, s := range Sections {
		if s == name {
			return true
		}
	}
	return false
}
