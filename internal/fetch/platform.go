package fetch

import (
	"net/url"
	"strings"
)

// Platform identifies the applicant-tracking system serving a job posting
// URL. Knowing the ATS lets extraction target its description markup
// directly instead of probing generic selectors.
type Platform string

const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformUnknown    Platform = "unknown"
)

// hostSignatures maps hostname fragments to the ATS that serves them,
// checked in order.
var hostSignatures = []struct {
	fragment string
	platform Platform
}{
	{"greenhouse.io", PlatformGreenhouse},
	{"lever.co", PlatformLever},
	{"myworkdayjobs.com", PlatformWorkday},
	{"workday.com", PlatformWorkday},
}

// DetectPlatform identifies the ATS behind a job posting URL. Unparseable
// URLs and unrecognized hosts map to PlatformUnknown.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Host)
	for _, sig := range hostSignatures {
		if strings.Contains(host, sig.fragment) {
			return sig.platform
		}
	}
	return PlatformUnknown
}

// selectorProfile holds the extraction selectors for one ATS: where the
// description text lives, and which elements inside it must be stripped so
// application forms and legal boilerplate do not end up in the analyzed
// text.
type selectorProfile struct {
	content []string
	noise   []string
}

// commonNoise is stripped on every platform. Apply forms and EEO sections
// sit inside the description container on most boards, so the structural
// cleanup in ExtractMainText does not catch them.
var commonNoise = []string{
	"form",
	"#application-form",
	".application-form",
	".apply-button-container",
	".voluntary-disclosure",
	".eeo-statement",
	".legal-disclosure",
	".self-identification",
}

// profiles lists per-ATS selectors, most specific first. The
// PlatformUnknown entry carries the generic job-board selectors used when
// the ATS could not be identified.
var profiles = map[Platform]selectorProfile{
	PlatformGreenhouse: {
		content: []string{
			".job__description.body",
			".job__description",
			"#content",
			".job-post-container",
		},
		noise: []string{
			".application--wrapper",
			".voluntary-self-id",
			".post-apply",
		},
	},
	PlatformLever: {
		content: []string{
			".posting-page",
			".posting-description",
			".content",
		},
		noise: []string{
			".posting-apply",
			".lever-application-form",
		},
	},
	PlatformWorkday: {
		content: []string{
			"[data-automation-id='jobDescription']",
			".gwt-HTML",
			".job-description",
		},
		noise: []string{
			"[data-automation-id='applyButton']",
			".application-section",
		},
	},
	PlatformUnknown: {
		content: []string{
			".job-description",
			"#job-description",
			".job-content",
			"#job-content",
			".posting-content",
			".job-details",
			"[data-testid='job-description']",
			"main",
			"article",
			".content",
			"#content",
		},
	},
}

// PlatformContentSelectors returns the description selectors for the ATS.
// Unrecognized platforms get the generic job-board selectors.
func PlatformContentSelectors(platform Platform) []string {
	profile, ok := profiles[platform]
	if !ok {
		profile = profiles[PlatformUnknown]
	}
	return profile.content
}

// PlatformNoiseSelectors returns the elements to strip before extracting
// description text for the ATS.
func PlatformNoiseSelectors(platform Platform) []string {
	selectors := make([]string, 0, len(commonNoise)+len(profiles[platform].noise))
	selectors = append(selectors, commonNoise...)
	return append(selectors, profiles[platform].noise...)
}
