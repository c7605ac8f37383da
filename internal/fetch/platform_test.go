package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected Platform
	}{
		{"greenhouse board", "https://boards.greenhouse.io/acme/jobs/123", PlatformGreenhouse},
		{"greenhouse job-boards host", "https://job-boards.greenhouse.io/acme/jobs/7063751", PlatformGreenhouse},
		{"lever posting", "https://jobs.lever.co/acme/some-posting-id", PlatformLever},
		{"workday tenant", "https://acme.wd5.myworkdayjobs.com/en-US/External", PlatformWorkday},
		{"workday root", "https://workday.com/jobs", PlatformWorkday},
		{"plain company site", "https://example.com/careers/123", PlatformUnknown},
		{"unsupported board", "https://indeed.com/viewjob?jk=abc", PlatformUnknown},
		{"unparseable url", "://missing-scheme", PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectPlatform(tt.url))
		})
	}
}

func TestPlatformContentSelectors(t *testing.T) {
	tests := []struct {
		name     string
		platform Platform
		want     string
	}{
		{"greenhouse description", PlatformGreenhouse, ".job__description.body"},
		{"lever posting page", PlatformLever, ".posting-page"},
		{"workday automation id", PlatformWorkday, "[data-automation-id='jobDescription']"},
		{"unknown uses generic selectors", PlatformUnknown, ".job-description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, PlatformContentSelectors(tt.platform), tt.want)
		})
	}
}

func TestPlatformContentSelectors_UnlistedPlatform(t *testing.T) {
	selectors := PlatformContentSelectors(Platform("someday"))
	assert.Equal(t, PlatformContentSelectors(PlatformUnknown), selectors)
}

func TestPlatformNoiseSelectors(t *testing.T) {
	// Apply forms and EEO boilerplate are stripped everywhere.
	for _, platform := range []Platform{PlatformGreenhouse, PlatformLever, PlatformWorkday, PlatformUnknown} {
		t.Run(string(platform), func(t *testing.T) {
			selectors := PlatformNoiseSelectors(platform)
			assert.Contains(t, selectors, "form")
			assert.Contains(t, selectors, ".eeo-statement")
		})
	}

	assert.Contains(t, PlatformNoiseSelectors(PlatformGreenhouse), ".voluntary-self-id")
	assert.Contains(t, PlatformNoiseSelectors(PlatformLever), ".posting-apply")
	assert.Contains(t, PlatformNoiseSelectors(PlatformWorkday), "[data-automation-id='applyButton']")
}
