package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestGetSectionsShape(t *testing.T) {
	home := "/Users/tester"
	sections := GetSections(home)
	if len(sections) == 0 {
		t.Fatal("expected sections")
	}

	names := make(map[string]bool)
	labels := make(map[string]bool)
	for _, s := range sections {
		if s.Name == "" || s.Title == "" {
			t.Errorf("section %+v missing name or title", s)
		}
		if names[s.Name] {
			t.Errorf("duplicate section name %q", s.Name)
		}
		names[s.Name] = true

		for _, tgt := range s.Targets {
			if !filepath.IsAbs(tgt.Path) {
				t.Errorf("%s: path %q is not absolute", tgt.Label, tgt.Path)
			}
			if labels[tgt.Label] {
				t.Errorf("duplicate target label %q", tgt.Label)
			}
			labels[tgt.Label] = true
		}
		for _, tool := range s.Tools {
			if tool.Tool == "" || tool.Label == "" {
				t.Errorf("tool action %+v missing tool or label", tool)
			}
			if tool.MeasurePath != "" && !strings.HasPrefix(tool.MeasurePath, home) {
				t.Errorf("%s: measure path %q outside home", tool.Label, tool.MeasurePath)
			}
		}
	}

	for _, want := range []string{"caches", "logs", "xcode", "packages", "snapshots", "temp", "trash"} {
		if !names[want] {
			t.Errorf("missing section %q", want)
		}
	}
}

func TestTargetsAreNotNeverDeletePaths(t *testing.T) {
	home := "/Users/tester"
	never := GetNeverDeletePaths(home)
	for _, s := range GetSections(home) {
		for _, tgt := range s.Targets {
			for _, p := range never {
				if strings.EqualFold(filepath.Clean(tgt.Path), p) {
					t.Errorf("%s: target %q is a never-delete path", tgt.Label, tgt.Path)
				}
			}
		}
	}
}

func TestSectionNamesOrder(t *testing.T) {
	names := SectionNames()
	if names[0] != "caches" {
		t.Errorf("expected caches first, got %q", names[0])
	}
	if names[len(names)-1] != "trash" {
		t.Errorf("expected trash last, got %q", names[len(names)-1])
	}
}

func TestModeString(t *testing.T) {
	if ClearContents.String() != "clear" || RemoveEntirely.String() != "remove" {
		t.Errorf("unexpected mode strings %q %q", ClearContents, RemoveEntirely)
	}
}

func TestBrowserTargets(t *testing.T) {
	home := "/Users/tester"
	var browsers Section
	for _, s := range GetSections(home) {
		if s.Name == "browsers" {
			browsers = s
		}
	}

	have := make(map[string]bool)
	for _, tgt := range browsers.Targets {
		have[tgt.Path] = true
	}
	support := filepath.Join(home, "Library", "Application Support")
	for _, browser := range []string{"Google/Chrome", "BraveSoftware/Brave-Browser", "Microsoft Edge"} {
		for _, leaf := range []string{"Cache", "Code Cache", "GPUCache"} {
			want := filepath.Join(support, browser, "*", leaf)
			if !have[want] {
				t.Errorf("expected browser target %q", want)
			}
		}
	}
	firefox := filepath.Join(home, "Library", "Caches", "Firefox", "Profiles", "*", "cache2")
	if !have[firefox] {
		t.Errorf("expected browser target %q", firefox)
	}
	if len(browsers.Targets) != 10 {
		t.Errorf("expected 10 browser targets, got %d", len(browsers.Targets))
	}
}
