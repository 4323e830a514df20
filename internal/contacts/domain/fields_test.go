package domain

import (
	"reflect"
	"testing"
)

func TestResolveProjectionDropsUnknownNames(t *testing.T) {
	got := ResolveProjection("lastName, password ,firstName,firstName,__proto__")
	want := []string{FieldFirstName, FieldLastName}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestResolveProjectionFallsBackToAllFields(t *testing.T) {
	all := FieldKeys()
	for _, raw := range []string{"", "  ", "nope,also-nope", "*", "firstName,*"} {
		if got := ResolveProjection(raw); !reflect.DeepEqual(got, all) {
			t.Fatalf("ResolveProjection(%q): expected all fields, got %v", raw, got)
		}
	}
}

func TestRegistryKeysAreUniqueAndTyped(t *testing.T) {
	seen := make(map[string]bool)
	for _, f := range Fields() {
		if seen[f.Key] {
			t.Fatalf("duplicate registry key %q", f.Key)
		}
		seen[f.Key] = true
		if f.Label == "" || f.Type == "" {
			t.Fatalf("field %q must have a label and a type", f.Key)
		}
	}
	if f, ok := LookupField(FieldYear); !ok || f.Type != FieldTypeEnum {
		t.Fatalf("expected year to be an enum field, got %+v", f)
	}
}

func TestEnumMembership(t *testing.T) {
	if !IsValidYear("PhD") || IsValidYear("phd") || IsValidYear("6") {
		t.Fatal("unexpected year membership result")
	}
	if !IsValidGender("prefer_not_to_say") || IsValidGender("Female") {
		t.Fatal("unexpected gender membership result")
	}
}
