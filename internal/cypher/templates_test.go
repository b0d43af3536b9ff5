package cypher

import (
	"strings"
	"testing"
)

func TestMustTemplate(t *testing.T) {
	q := MustTemplate("upsert_nodes.cql", map[string]string{"LabelPattern": ":PagerDuty:Team"})
	if !strings.Contains(q, "MERGE (n:PagerDuty:Team {pd_key: row.pd_key})") {
		t.Fatalf("unexpected query %s", q)
	}
	q = MustTemplate("upsert_rels.cql", map[string]string{"RelType": ":MEMBER_OF"})
	if !strings.Contains(q, "[r:MEMBER_OF]") {
		t.Fatalf("unexpected query %s", q)
	}
}

func TestMustStatements(t *testing.T) {
	stmts := MustStatements("init_schema.cql")
	if len(stmts) != 7 {
		t.Fatalf("expect 7 schema statements, got %d", len(stmts))
	}
	for _, s := range stmts {
		if strings.HasSuffix(s, ";") || s == "" {
			t.Fatalf("unexpected statement %q", s)
		}
	}
}

func TestMustTemplateUnknownPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for unknown template")
		}
	}()
	MustTemplate("missing.cql", nil)
}
