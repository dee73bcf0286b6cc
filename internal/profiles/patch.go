package profiles

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// sectionItemTypes maps each entry section to its item type.
var sectionItemTypes = map[string]reflect.Type{
	SectionEducation:      reflect.TypeOf(EducationItem{}),
	SectionWorkExperience: reflect.TypeOf(WorkExperienceItem{}),
	SectionProjects:       reflect.TypeOf(ProjectItem{}),
	SectionVolunteerWork:  reflect.TypeOf(VolunteerItem{}),
	SectionSkills:         reflect.TypeOf(SkillItem{}),
}

var personalInfoFields = jsonFieldNames(reflect.TypeOf(PersonalInfo{}))

// ApplyPatch sets the single field addressed by path to value and returns the
// updated profile. The input profile is not modified.
//
// Paths: "aboutMe", "personalInfo.<field>", "<section>.<id>.<field>".
func ApplyPatch(p ProfileData, path string, value json.RawMessage) (ProfileData, error) {
	parts := strings.Split(strings.TrimSpace(path), ".")
	if len(parts) == 0 || parts[0] == "" {
		return ProfileData{}, fmt.Errorf("%w: empty path", ErrInvalidInput)
	}
	if len(bytes.TrimSpace(value)) == 0 {
		return ProfileData{}, fmt.Errorf("%w: value is required", ErrInvalidInput)
	}

	doc, err := toDocument(p)
	if err != nil {
		return ProfileData{}, err
	}

	switch {
	case len(parts) == 1 && parts[0] == "aboutMe":
		doc["aboutMe"] = value
	case len(parts) == 2 && parts[0] == "personalInfo":
		if !personalInfoFields[parts[1]] {
			return ProfileData{}, fmt.Errorf("%w: unknown field %q", ErrInvalidInput, path)
		}
		info, err := decodeObject(doc["personalInfo"])
		if err != nil {
			return ProfileData{}, err
		}
		info[parts[1]] = value
		if doc["personalInfo"], err = json.Marshal(info); err != nil {
			return ProfileData{}, err
		}
	case len(parts) == 3 && IsSection(parts[0]):
		if err := patchEntry(doc, parts[0], parts[1], parts[2], value); err != nil {
			return ProfileData{}, err
		}
	default:
		return ProfileData{}, fmt.Errorf("%w: unsupported path %q", ErrInvalidInput, path)
	}

	return fromDocument(doc)
}

func patchEntry(doc map[string]json.RawMessage, section, id, field string, value json.RawMessage) error {
	if field == "id" || !jsonFieldNames(sectionItemTypes[section])[field] {
		return fmt.Errorf("%w: unknown field %s.%s", ErrInvalidInput, section, field)
	}
	var items []map[string]json.RawMessage
	if err := json.Unmarshal(doc[section], &items); err != nil {
		return err
	}
	idx := indexOfEntry(items, id)
	if idx < 0 {
		return fmt.Errorf("%w: %s entry %q", ErrNotFound, section, id)
	}
	items[idx][field] = value
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	doc[section] = raw
	return nil
}

// AddEntry decodes entry as an item of section, assigns it a fresh id and appends it.
func AddEntry(p ProfileData, section string, entry json.RawMessage) (ProfileData, string, error) {
	itemType, ok := sectionItemTypes[section]
	if !ok {
		return ProfileData{}, "", fmt.Errorf("%w: unknown section %q", ErrInvalidInput, section)
	}
	item := reflect.New(itemType)
	dec := json.NewDecoder(bytes.NewReader(entry))
	dec.DisallowUnknownFields()
	if err := dec.Decode(item.Interface()); err != nil {
		return ProfileData{}, "", fmt.Errorf("%w: %s entry: %v", ErrInvalidInput, section, err)
	}
	id := NewEntryID()
	item.Elem().FieldByName("ID").SetString(id)

	out := clone(p)
	list := sectionValue(&out, section)
	list.Set(reflect.Append(list, item.Elem()))
	return Normalize(out), id, nil
}

// RemoveEntry drops the entry with id from section.
func RemoveEntry(p ProfileData, section, id string) (ProfileData, error) {
	if !IsSection(section) {
		return ProfileData{}, fmt.Errorf("%w: unknown section %q", ErrInvalidInput, section)
	}
	out := clone(p)
	list := sectionValue(&out, section)
	kept := reflect.MakeSlice(list.Type(), 0, list.Len())
	found := false
	for i := 0; i < list.Len(); i++ {
		if list.Index(i).FieldByName("ID").String() == id {
			found = true
			continue
		}
		kept = reflect.Append(kept, list.Index(i))
	}
	if !found {
		return ProfileData{}, fmt.Errorf("%w: %s entry %q", ErrNotFound, section, id)
	}
	list.Set(kept)
	return out, nil
}

func sectionValue(p *ProfileData, section string) reflect.Value {
	v := reflect.ValueOf(p).Elem()
	switch section {
	case SectionEducation:
		return v.FieldByName("Education")
	case SectionWorkExperience:
		return v.FieldByName("WorkExperience")
	case SectionProjects:
		return v.FieldByName("Projects")
	case SectionVolunteerWork:
		return v.FieldByName("VolunteerWork")
	default:
		return v.FieldByName("Skills")
	}
}

func indexOfEntry(items []map[string]json.RawMessage, id string) int {
	for i, item := range items {
		var got string
		if err := json.Unmarshal(item["id"], &got); err == nil && got == id {
			return i
		}
	}
	return -1
}

func toDocument(p ProfileData) (map[string]json.RawMessage, error) {
	raw, err := json.Marshal(Normalize(p))
	if err != nil {
		return nil, err
	}
	return decodeObject(raw)
}

func fromDocument(doc map[string]json.RawMessage) (ProfileData, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return ProfileData{}, err
	}
	var out ProfileData
	if err := json.Unmarshal(raw, &out); err != nil {
		return ProfileData{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return Normalize(out), nil
}

func decodeObject(raw json.RawMessage) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		obj = map[string]json.RawMessage{}
	}
	return obj, nil
}

// clone deep-copies p through its JSON form.
func clone(p ProfileData) ProfileData {
	raw, err := json.Marshal(p)
	if err != nil {
		return p
	}
	var out ProfileData
	if err := json.Unmarshal(raw, &out); err != nil {
		return p
	}
	return Normalize(out)
}

func jsonFieldNames(t reflect.Type) map[string]bool {
	names := make(map[string]bool, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name := strings.SplitN(t.Field(i).Tag.Get("json"), ",", 2)[0]
		if name != "" && name != "-" {
			names[name] = true
		}
	}
	return names
}
