package anonymize

import (
	"regexp"
	"testing"
)

func TestPseudonymStableAndDistinct(t *testing.T) {
	r := NewRegistry()
	a := r.Pseudonym("teams", "Platform")
	b := r.Pseudonym("teams", "Payments")
	again := r.Pseudonym("teams", "Platform")

	if a != "Team1" || b != "Team2" {
		t.Fatalf("unexpected pseudonyms %s %s", a, b)
	}
	if again != a {
		t.Fatalf("expected stable pseudonym, got %s then %s", a, again)
	}
}

func TestPseudonymCountersPerEntityType(t *testing.T) {
	r := NewRegistry()
	if got := r.Pseudonym("users", "Ada"); got != "User1" {
		t.Fatalf("unexpected user pseudonym %s", got)
	}
	if got := r.Pseudonym("services", "Ada"); got != "Service1" {
		t.Fatalf("unexpected service pseudonym %s", got)
	}
	if got := r.Pseudonym("escalation_policies", "Default"); got != "Escalation_policie1" {
		t.Fatalf("unexpected policy pseudonym %s", got)
	}
}

func TestPseudonymPattern(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z][a-z_]*[1-9][0-9]*$`)
	r := NewRegistry()
	for _, entity := range []string{"teams", "users", "schedules", "escalation_policies", "services"} {
		for _, name := range []string{"a", "b", "", "ç"} {
			if got := r.Pseudonym(entity, name); !pattern.MatchString(got) {
				t.Fatalf("pseudonym %q does not match pattern", got)
			}
		}
	}
}

func TestFreshRegistryResetsCounters(t *testing.T) {
	first := NewRegistry()
	first.Pseudonym("teams", "x")
	first.Pseudonym("teams", "y")

	second := NewRegistry()
	if got := second.Pseudonym("teams", "y"); got != "Team1" {
		t.Fatalf("expected counters to reset per registry, got %s", got)
	}
}

func TestObserveAndSeen(t *testing.T) {
	r := NewRegistry()
	if r.Seen("users", "PU1") {
		t.Fatalf("unexpected seen before observe")
	}
	r.Observe("users", "PU1", "Ada")
	if !r.Seen("users", "PU1") {
		t.Fatalf("expected id to be seen")
	}
	if r.Seen("schedules", "PU1") {
		t.Fatalf("id should be scoped per entity type")
	}
	if name, ok := r.Name("users", "PU1"); !ok || name != "Ada" {
		t.Fatalf("unexpected name %q", name)
	}
	if r.Count("users") != 1 {
		t.Fatalf("unexpected count %d", r.Count("users"))
	}
}

func TestLabel(t *testing.T) {
	cases := map[string]string{
		"teams":     "Team",
		"schedules": "Schedule",
		"USERS":     "User",
		"s":         "",
		"":          "",
	}
	for in, want := range cases {
		if got := Label(in); got != want {
			t.Fatalf("Label(%q) = %q, want %q", in, got, want)
		}
	}
}
