package profiles

import (
	"math/rand"
	"strconv"
	"time"
)

const idSuffixLen = 9

var idNow = time.Now

// NewEntryID returns a list-entry id: the unix-ms timestamp in base 36 followed
// by a random base-36 suffix. Ids are unique enough for one profile, not secret.
func NewEntryID() string {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	buf := make([]byte, idSuffixLen)
	for i := range buf {
		buf[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return strconv.FormatInt(idNow().UnixMilli(), 36) + string(buf)
}

// AssignMissingIDs gives a fresh id to every entry whose id is empty.
func AssignMissingIDs(p *ProfileData) {
	for i := range p.Education {
		if p.Education[i].ID == "" {
			p.Education[i].ID = NewEntryID()
		}
	}
	for i := range p.WorkExperience {
		if p.WorkExperience[i].ID == "" {
			p.WorkExperience[i].ID = NewEntryID()
		}
	}
	for i := range p.Projects {
		if p.Projects[i].ID == "" {
			p.Projects[i].ID = NewEntryID()
		}
	}
	for i := range p.VolunteerWork {
		if p.VolunteerWork[i].ID == "" {
			p.VolunteerWork[i].ID = NewEntryID()
		}
	}
	for i := range p.Skills {
		if p.Skills[i].ID == "" {
			p.Skills[i].ID = NewEntryID()
		}
	}
}

// ReassignIDs replaces every entry id, used for freshly parsed profiles.
func ReassignIDs(p *ProfileData) {
	for i := range p.Education {
		p.Education[i].ID = ""
	}
	for i := range p.WorkExperience {
		p.WorkExperience[i].ID = ""
	}
	for i := range p.Projects {
		p.Projects[i].ID = ""
	}
	for i := range p.VolunteerWork {
		p.VolunteerWork[i].ID = ""
	}
	for i := range p.Skills {
		p.Skills[i].ID = ""
	}
	AssignMissingIDs(p)
}
