package entities

import (
	"sort"
	"strings"

	"golang.org/x/mod/semver"
)

// VersionResult is the outcome of looking up one dependency on the registry.
// Exactly one of Version or Err is set.
type VersionResult struct {
	Name     string
	Declared string
	Version  string
	Err      error
}

// Resolved returns true when the lookup produced a version.
func (r VersionResult) Resolved() bool {
	return r.Err == nil && r.Version != ""
}

// IsOutdated returns true if the published version is newer than the declared one.
// Non-semver values fall back to a plain inequality check.
func (r VersionResult) IsOutdated() bool {
	if !r.Resolved() || r.Declared == "" {
		return false
	}

	current := normalizeVersion(r.Declared)
	latest := normalizeVersion(r.Version)
	if semver.IsValid(current) && semver.IsValid(latest) {
		return semver.Compare(latest, current) > 0
	}

	return strings.TrimSpace(r.Declared) != strings.TrimSpace(r.Version)
}

// normalizeVersion ensures version has 'v' prefix for semver compatibility.
func normalizeVersion(version string) string {
	version = strings.TrimSpace(version)
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}

// Report groups the results of a run into resolved and failed lookups,
// both sorted by dependency name.
type Report struct {
	Resolved []VersionResult
	Failed   []VersionResult
}

// NewReport splits results into resolved and failed lookups.
func NewReport(results []VersionResult) *Report {
	report := &Report{
		Resolved: make([]VersionResult, 0, len(results)),
		Failed:   make([]VersionResult, 0),
	}

	for _, result := range results {
		if result.Resolved() {
			report.Resolved = append(report.Resolved, result)
		} else {
			report.Failed = append(report.Failed, result)
		}
	}

	sortByName(report.Resolved)
	sortByName(report.Failed)
	return report
}

// Outdated returns the resolved results whose published version is newer
// than the declared one.
func (r *Report) Outdated() []VersionResult {
	var outdated []VersionResult
	for _, result := range r.Resolved {
		if result.IsOutdated() {
			outdated = append(outdated, result)
		}
	}
	return outdated
}

func sortByName(results []VersionResult) {
	sort.Slice(results, func(i, j int) bool {
		return results[i].Name < results[j].Name
	})
}
