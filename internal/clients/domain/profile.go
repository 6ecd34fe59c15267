package domain

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

var (
	ErrInvalidName           = errors.New("name must contain only letters, digits and spaces and cannot be blank")
	ErrInvalidPhone          = errors.New("phone must contain only digits and be at least 3 digits long")
	ErrInvalidMedicalHistory = errors.New("medical history must be printable ASCII")
	ErrInvalidTag            = errors.New("tags must be alphanumeric")
)

var (
	namePattern  = regexp.MustCompile(`^[[:alnum:]][[:alnum:] ]*$`)
	phonePattern = regexp.MustCompile(`^\d{3,}$`)
	tagPattern   = regexp.MustCompile(`^[[:alnum:]]+$`)
)

// Profile is the descriptive part of a client. Goals, medical history,
// location and tags are optional.
type Profile struct {
	Name           string
	Phone          string
	Goals          string
	MedicalHistory string
	Location       string
	Tags           []string
}

// Normalize trims the fields, validates them and collapses duplicate tags.
func (p Profile) Normalize() (Profile, error) {
	out := Profile{
		Name:           strings.TrimSpace(p.Name),
		Phone:          strings.TrimSpace(p.Phone),
		Goals:          strings.TrimSpace(p.Goals),
		MedicalHistory: strings.TrimSpace(p.MedicalHistory),
		Location:       strings.TrimSpace(p.Location),
	}

	if !namePattern.MatchString(out.Name) {
		return Profile{}, ErrInvalidName
	}
	if !phonePattern.MatchString(out.Phone) {
		return Profile{}, ErrInvalidPhone
	}
	if !isPrintableASCII(out.MedicalHistory) {
		return Profile{}, ErrInvalidMedicalHistory
	}

	seen := make(map[string]bool, len(p.Tags))
	for _, tag := range p.Tags {
		tag = strings.TrimSpace(tag)
		if !tagPattern.MatchString(tag) {
			return Profile{}, ErrInvalidTag
		}
		if !seen[tag] {
			seen[tag] = true
			out.Tags = append(out.Tags, tag)
		}
	}

	return out, nil
}

// HasTag reports whether the profile carries tag, ignoring case.
func (p Profile) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func (p Profile) clone() Profile {
	p.Tags = append([]string(nil), p.Tags...)
	return p
}

func isPrintableASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}

// Draft is a client as read from an import source, before its schedule
// tokens are parsed.
type Draft struct {
	Profile   Profile
	Recurring []string
	OneTime   []string
}
