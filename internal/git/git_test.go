package git

import (
	"strings"
	"testing"
)

func TestFormatGitStatus(t *testing.T) {
	if got := FormatGitStatus(&GitStatus{}, ".sealfile"); got != "" {
		t.Errorf("expected empty output outside a repo, got %q", got)
	}

	status := &GitStatus{
		IsRepo:              true,
		TrackedPlaintext:    []string{".env"},
		UnignoredPlaintext:  []string{"db.secret"},
		UntrackedContainers: []string{".env.sealed"},
	}
	out := FormatGitStatus(status, ".sealfile")

	for _, want := range []string{
		".sealfile not tracked",
		"git rm --cached .env",
		"db.secret not in .gitignore",
		"- .env.sealed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "no plaintext exposed") {
		t.Error("should not report clean state with exposed plaintext")
	}
}

func TestCheckGitIntegrationOutsideRepo(t *testing.T) {
	status, err := CheckGitIntegration(t.TempDir(), ".sealfile", nil, []string{".env"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.IsRepo {
		t.Skip("temp dir is inside a git work tree")
	}
	if len(status.UnignoredPlaintext) != 0 {
		t.Error("no plaintext checks expected outside a repo")
	}
}
