package domain

import "strings"

// FieldType is the declared type of a projectable contact field.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeEnum    FieldType = "enum"
	FieldTypeInteger FieldType = "integer"
	FieldTypeDate    FieldType = "date"
)

// Field describes one entry of the contact field registry.
type Field struct {
	Key   string    `json:"key"`
	Label string    `json:"label"`
	Type  FieldType `json:"type"`
}

// Field keys. They double as JSON keys in search results.
const (
	FieldID                        = "id"
	FieldFirstName                 = "firstName"
	FieldLastName                  = "lastName"
	FieldPhoneNumber               = "phoneNumber"
	FieldEmail                     = "email"
	FieldCampus                    = "campus"
	FieldMajor                     = "major"
	FieldYear                      = "year"
	FieldIsInterested              = "isInterested"
	FieldGender                    = "gender"
	FieldFollowUpStatusNumber      = "followUpStatusNumber"
	FieldFollowUpStatusDescription = "followUpStatusDescription"
	FieldNotes                     = "notes"
	FieldOrgID                     = "orgId"
	FieldCreatedAt                 = "createdAt"
	FieldUpdatedAt                 = "updatedAt"
)

var registry = []Field{
	{FieldID, "ID", FieldTypeString},
	{FieldFirstName, "First Name", FieldTypeString},
	{FieldLastName, "Last Name", FieldTypeString},
	{FieldPhoneNumber, "Phone Number", FieldTypeString},
	{FieldEmail, "Email", FieldTypeString},
	{FieldCampus, "Campus", FieldTypeString},
	{FieldMajor, "Major", FieldTypeString},
	{FieldYear, "Year", FieldTypeEnum},
	{FieldIsInterested, "Is Interested", FieldTypeBoolean},
	{FieldGender, "Gender", FieldTypeEnum},
	{FieldFollowUpStatusNumber, "Follow-up Status Number", FieldTypeInteger},
	{FieldFollowUpStatusDescription, "Follow-up Status Description", FieldTypeString},
	{FieldNotes, "Notes", FieldTypeString},
	{FieldOrgID, "Organization ID", FieldTypeString},
	{FieldCreatedAt, "Created At", FieldTypeDate},
	{FieldUpdatedAt, "Updated At", FieldTypeDate},
}

var registryIndex = func() map[string]int {
	index := make(map[string]int, len(registry))
	for i, f := range registry {
		index[f.Key] = i
	}
	return index
}()

// Fields returns a copy of the registry in canonical order.
func Fields() []Field {
	out := make([]Field, len(registry))
	copy(out, registry)
	return out
}

// FieldKeys returns every registry key in canonical order.
func FieldKeys() []string {
	keys := make([]string, len(registry))
	for i, f := range registry {
		keys[i] = f.Key
	}
	return keys
}

// LookupField returns the registry entry for key.
func LookupField(key string) (Field, bool) {
	i, ok := registryIndex[key]
	if !ok {
		return Field{}, false
	}
	return registry[i], true
}

// ResolveProjection turns a comma separated field list into the keys to
// project. Unknown names are dropped and duplicates collapse. An empty
// result, an empty input or "*" selects every field. Keys come back in
// canonical registry order.
func ResolveProjection(raw string) []string {
	requested := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "*" {
			return FieldKeys()
		}
		if _, ok := registryIndex[name]; ok {
			requested[name] = struct{}{}
		}
	}

	if len(requested) == 0 {
		return FieldKeys()
	}

	keys := make([]string, 0, len(requested))
	for _, f := range registry {
		if _, ok := requested[f.Key]; ok {
			keys = append(keys, f.Key)
		}
	}
	return keys
}
