package fetch

import (
	"net/url"
	"strings"
)

// Platform is a job board or applicant tracking system.
type Platform string

const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformAshby      Platform = "ashby"
	PlatformUnknown    Platform = "unknown"
)

type platformRule struct {
	platform Platform
	hosts    []string
	content  []string
	noise    []string
}

var platformRules = []platformRule{
	{
		platform: PlatformGreenhouse,
		hosts:    []string{"greenhouse.io"},
		content:  []string{".job__description.body", ".job__description", ".job-description__content", "#content", ".job-post-container"},
		noise:    []string{".application--wrapper", ".voluntary-self-id", "#usa_self_id_section", ".post-apply"},
	},
	{
		platform: PlatformLever,
		hosts:    []string{"lever.co"},
		content:  []string{".posting-page", ".section-wrapper.page-full-width", ".posting-description", ".content"},
		noise:    []string{".apply-section", ".lever-application-form", ".posting-apply"},
	},
	{
		platform: PlatformWorkday,
		hosts:    []string{"workday.com", "myworkdayjobs.com"},
		content:  []string{"[data-automation-id='jobPostingDescription']", "[data-automation-id='jobDescription']", ".job-description"},
		noise:    []string{"[data-automation-id='applyButton']", ".application-section"},
	},
	{
		platform: PlatformAshby,
		hosts:    []string{"ashbyhq.com"},
		content:  []string{"[class*='descriptionText']", "main"},
		noise:    []string{"[class*='applicationForm']"},
	},
}

// Shared by every platform: application forms, EEO blocks, share widgets.
var commonNoise = []string{
	"form",
	"#application-form",
	".application-form",
	".apply-button-container",
	".voluntary-disclosure",
	".eeo-statement",
	".eeo-section",
	".self-identification",
	".social-share",
	".share-buttons",
	".cookie-consent",
	".gdpr-notice",
}

// DetectPlatform identifies the posting's platform from its host.
func DetectPlatform(rawURL string) Platform {
	if r := ruleFor(rawURL); r != nil {
		return r.platform
	}
	return PlatformUnknown
}

func ruleFor(rawURL string) *platformRule {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	host := strings.ToLower(parsed.Hostname())
	for i := range platformRules {
		for _, h := range platformRules[i].hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return &platformRules[i]
			}
		}
	}
	return nil
}

func (p Platform) rule() *platformRule {
	for i := range platformRules {
		if platformRules[i].platform == p {
			return &platformRules[i]
		}
	}
	return nil
}

// ContentSelectors lists where p keeps the description, best match first.
func (p Platform) ContentSelectors() []string {
	if r := p.rule(); r != nil {
		return r.content
	}
	return JobPostingSelectors()
}

// NoiseSelectors lists elements to drop before extracting text from p.
func (p Platform) NoiseSelectors() []string {
	out := append([]string{}, commonNoise...)
	if r := p.rule(); r != nil {
		out = append(out, r.noise...)
	}
	return out
}
