package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestColored(t *testing.T) {
	origVersion, origNoColor := Version, color.NoColor
	defer func() { Version, color.NoColor = origVersion, origNoColor }()

	color.NoColor = true
	cases := []string{"0.1.0-dev", "1.2.3", "1.0.0-beta.1", "weird"}
	for _, v := range cases {
		Version = v
		if got := Colored(); got != v {
			t.Errorf("Colored() without colour = %q, want %q", got, v)
		}
	}

	color.NoColor = false
	Version = "1.2.3-rc"
	if got := Colored(); got == Version {
		t.Errorf("Colored() with colour should add escapes, got %q", got)
	}
}

func TestShortCommit(t *testing.T) {
	orig := GitCommit
	defer func() { GitCommit = orig }()

	GitCommit = "1234567890abcdef1234567890abcdef12345678"
	if ShortCommit() != "1234567890ab" {
		t.Errorf("ShortCommit() = %q", ShortCommit())
	}
	GitCommit = "abc"
	if ShortCommit() != "abc" {
		t.Errorf("ShortCommit() = %q", ShortCommit())
	}
}
