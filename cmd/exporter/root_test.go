package main

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pdexport/internal/pagerduty"
)

func fakePagerDuty(t *testing.T, wantToken string) *httptest.Server {
	t.Helper()
	bodies := map[string]string{
		"/teams":               `{"teams": [{"id": "PT1", "name": "Platform", "description": "infra"}], "more": false}`,
		"/users":               `{"users": [{"id": "PU1", "name": "Ada", "email": "ada@example.org", "role": "admin", "teams": [{"id": "PT1"}]}], "more": false}`,
		"/schedules":           `{"schedules": [], "more": false}`,
		"/escalation_policies": `{"escalation_policies": [{"id": "PE1", "name": "Default", "escalation_rules": [{"targets": [{"id": "PU1", "type": "user_reference"}]}]}]}`,
		"/services":            `{"services": [{"id": "PV1", "name": "API", "integrations": [{"id": "PI1", "type": "generic_email_inbound_integration", "summary": "Email"}]}], "more": false}`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Token token="+wantToken {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"error": {"message": "Unauthorized"}}`)
			return
		}
		body, ok := bodies[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := fmt.Sprintf("pagerduty:\n  base_url: %s\nlog:\n  level: error\n", baseURL)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, env map[string]string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmdWithEnv(func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func exportDirs(t *testing.T, root string) []string {
	t.Helper()
	dirs, err := filepath.Glob(filepath.Join(root, "pagerduty_export_*"))
	if err != nil {
		t.Fatal(err)
	}
	return dirs
}

func TestExportWithTokenFlag(t *testing.T) {
	srv := fakePagerDuty(t, "secret")
	root := t.TempDir()
	metricsFile := filepath.Join(t.TempDir(), "pdexport.prom")

	out, err := execute(t, nil,
		"--config", writeConfig(t, srv.URL),
		"--token", "secret",
		"--output-root", root,
		"--metrics-file", metricsFile,
	)
	if err != nil {
		t.Fatalf("execute: %v\n%s", err, out)
	}
	if !strings.Contains(out, "🔍 Fetching teams...") || !strings.Contains(out, "✅ Export complete! Files saved to ") {
		t.Fatalf("unexpected progress output:\n%s", out)
	}
	dirs := exportDirs(t, root)
	if len(dirs) != 1 {
		t.Fatalf("expect one export dir, got %v", dirs)
	}
	teams, err := os.ReadFile(filepath.Join(dirs[0], "teams.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(teams), "PT1,Platform,infra") {
		t.Fatalf("unexpected teams.csv:\n%s", teams)
	}
	prom, err := os.ReadFile(metricsFile)
	if err != nil {
		t.Fatalf("metrics file: %v", err)
	}
	if !strings.Contains(string(prom), "pdexport_pages_fetched_total") {
		t.Fatalf("metrics file missing page counter:\n%s", prom)
	}
}

func TestExportAnonymizeAlias(t *testing.T) {
	srv := fakePagerDuty(t, "from-env")
	root := t.TempDir()

	out, err := execute(t, map[string]string{"PD_TOKEN": "from-env"},
		"--config", writeConfig(t, srv.URL),
		"--token-env", "PD_TOKEN",
		"--anonymize",
		"--output-root", root,
	)
	if err != nil {
		t.Fatalf("execute: %v\n%s", err, out)
	}
	teams, err := os.ReadFile(filepath.Join(exportDirs(t, root)[0], "teams.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(teams), "PT1,Team1,") {
		t.Fatalf("team name not anonymized:\n%s", teams)
	}
}

func TestExportMissingToken(t *testing.T) {
	root := t.TempDir()
	_, err := execute(t, nil, "--output-root", root)
	var credErr *pagerduty.CredentialMissingError
	if !errors.As(err, &credErr) {
		t.Fatalf("expected CredentialMissingError, got %v", err)
	}
	if credErr.EnvVar != pagerduty.DefaultTokenEnv {
		t.Fatalf("unexpected env var %q", credErr.EnvVar)
	}
	if dirs := exportDirs(t, root); len(dirs) != 0 {
		t.Fatalf("no directory should be created without a token: %v", dirs)
	}
}

func TestExportUnauthorized(t *testing.T) {
	srv := fakePagerDuty(t, "secret")
	_, err := execute(t, nil,
		"--config", writeConfig(t, srv.URL),
		"--token", "wrong",
		"--output-root", t.TempDir(),
	)
	var httpErr *pagerduty.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestTokenFlagsMutuallyExclusive(t *testing.T) {
	_, err := execute(t, nil, "--token", "a", "--token-env", "B", "--output-root", t.TempDir())
	if err == nil {
		t.Fatalf("expected error when both token flags are set")
	}
}

func TestGraphFlagRequiresURI(t *testing.T) {
	_, err := execute(t, nil, "--token", "a", "--graph", "--output-root", t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "neo4j.uri") {
		t.Fatalf("expected neo4j.uri validation error, got %v", err)
	}
}
