package session

import (
	"strings"

	"github.com/ravelandante/field-tagger/internal/tagging"
)

// Record is the metadata collected for one file. HasLocation is set once a
// location has been confirmed, even an empty one.
type Record struct {
	Tags        []string
	Location    string
	HasLocation bool
}

// SetLocation overwrites the location with the trimmed input
func (r *Record) SetLocation(input string) {
	r.Location = strings.TrimSpace(input)
	r.HasLocation = true
}

// AddTags splits input on commas and appends every non-empty trimmed part.
func (r *Record) AddTags(input string) {
	for _, part := range strings.Split(input, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			r.Tags = append(r.Tags, tag)
		}
	}
}

func (r Record) entry() tagging.Entry {
	return tagging.Entry{Tags: r.Tags, Location: r.Location, HasLocation: r.HasLocation}
}

func (r Record) clone() Record {
	r.Tags = append([]string(nil), r.Tags...)
	return r
}
