package gitcmd

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeRunner struct {
	responses map[string]Result
	calls     [][]string
}

func (f *fakeRunner) Run(ctx context.Context, args ...string) (Result, error) {
	f.calls = append(f.calls, args)
	if res, ok := f.responses[strings.Join(args, " ")]; ok {
		return res, nil
	}
	return Result{}, nil
}

func TestCurrentBranch(t *testing.T) {
	repo := NewRepo(&fakeRunner{responses: map[string]Result{
		"branch --show-current": {Stdout: "main\n"},
	}})
	branch, err := repo.CurrentBranch(context.Background())
	if err != nil {
		t.Fatalf("CurrentBranch error: %v", err)
	}
	if branch != "main" {
		t.Fatalf("want main, got %q", branch)
	}
}

func TestUserNameUnsetIsNotAnError(t *testing.T) {
	// git config exits 1 for an unset key.
	repo := NewRepo(&fakeRunner{responses: map[string]Result{
		"config user.name": {ExitCode: 1},
	}})
	name, err := repo.UserName(context.Background())
	if err != nil {
		t.Fatalf("UserName error: %v", err)
	}
	if name != "" {
		t.Fatalf("want empty name, got %q", name)
	}
}

func TestIsTracked(t *testing.T) {
	t.Run("tracked", func(t *testing.T) {
		repo := NewRepo(&fakeRunner{responses: map[string]Result{
			"ls-files -- .env": {Stdout: ".env\n"},
		}})
		tracked, err := repo.IsTracked(context.Background(), ".env")
		if err != nil {
			t.Fatalf("IsTracked error: %v", err)
		}
		if !tracked {
			t.Fatal("want tracked")
		}
	})

	t.Run("untracked", func(t *testing.T) {
		repo := NewRepo(&fakeRunner{})
		tracked, err := repo.IsTracked(context.Background(), ".env")
		if err != nil {
			t.Fatalf("IsTracked error: %v", err)
		}
		if tracked {
			t.Fatal("want untracked")
		}
	})
}

func TestStatusParsesPorcelain(t *testing.T) {
	out := " M a.txt\n?? dir/b.txt\nR  old.txt -> new.txt\nM  \"we ird.txt\"\n"
	repo := NewRepo(&fakeRunner{responses: map[string]Result{
		"status --porcelain": {Stdout: out},
	}})

	entries, err := repo.Status(context.Background())
	if err != nil {
		t.Fatalf("Status error: %v", err)
	}
	wantPaths := []string{"a.txt", "dir/b.txt", "new.txt", "we ird.txt"}
	if len(entries) != len(wantPaths) {
		t.Fatalf("want %d entries, got %d: %v", len(wantPaths), len(entries), entries)
	}
	for i, want := range wantPaths {
		if entries[i].Path != want {
			t.Fatalf("entry %d: want %q, got %q", i, want, entries[i].Path)
		}
	}
	if entries[0].Code != " M" {
		t.Fatalf("want code ' M', got %q", entries[0].Code)
	}
}

func TestIndexClean(t *testing.T) {
	t.Run("clean", func(t *testing.T) {
		repo := NewRepo(&fakeRunner{})
		clean, err := repo.IndexClean(context.Background())
		if err != nil {
			t.Fatalf("IndexClean error: %v", err)
		}
		if !clean {
			t.Fatal("want clean index")
		}
	})

	t.Run("dirty", func(t *testing.T) {
		repo := NewRepo(&fakeRunner{responses: map[string]Result{
			"diff --cached --quiet": {ExitCode: 1},
		}})
		clean, err := repo.IndexClean(context.Background())
		if err != nil {
			t.Fatalf("IndexClean error: %v", err)
		}
		if clean {
			t.Fatal("want dirty index")
		}
	})

	t.Run("other exit is an error", func(t *testing.T) {
		repo := NewRepo(&fakeRunner{responses: map[string]Result{
			"diff --cached --quiet": {ExitCode: 129, Stderr: "bad revision"},
		}})
		if _, err := repo.IndexClean(context.Background()); err == nil {
			t.Fatal("want error for unexpected exit code")
		}
	})
}

func TestPushSurfacesStderr(t *testing.T) {
	repo := NewRepo(&fakeRunner{responses: map[string]Result{
		"push origin main": {ExitCode: 1, Stderr: "remote: denied\n"},
	}})

	err := repo.Push(context.Background(), "origin", "main")
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("want *CommandError, got %T: %v", err, err)
	}
	if cmdErr.ExitCode != 1 {
		t.Fatalf("want exit 1, got %d", cmdErr.ExitCode)
	}
	if !strings.Contains(cmdErr.Stderr, "remote: denied") {
		t.Fatalf("stderr lost: %q", cmdErr.Stderr)
	}
}

func TestUntrackUsesPathSeparator(t *testing.T) {
	f := &fakeRunner{}
	repo := NewRepo(f)
	if err := repo.Untrack(context.Background(), ".env"); err != nil {
		t.Fatalf("Untrack error: %v", err)
	}
	if len(f.calls) != 1 || strings.Join(f.calls[0], " ") != "rm --cached -- .env" {
		t.Fatalf("unexpected argument vector: %v", f.calls)
	}
}
