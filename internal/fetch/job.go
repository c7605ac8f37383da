package fetch

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/cv-analyzer/internal/logger"
)

// JobPosting is a fetched job description reduced to plain text.
type JobPosting struct {
	URL      string
	Text     string
	Platform Platform
	Rendered bool // true when a headless browser was needed
}

// JobPostingOptions configures FetchJobPosting.
type JobPostingOptions struct {
	UseBrowser bool // allow headless browser fallback for SPA pages
	Timeout    time.Duration
	Logger     *zap.Logger
}

// FetchJobPosting retrieves a job posting URL and extracts the description
// text using platform-aware selectors. When the plain HTTP fetch yields too
// little text and UseBrowser is set, the page is re-rendered in a headless
// browser before extraction.
func FetchJobPosting(ctx context.Context, urlStr string, opts JobPostingOptions) (*JobPosting, error) {
	log := logger.OrNop(opts.Logger)
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}

	platform := DetectPlatform(urlStr)
	log.Debug("fetching job posting",
		zap.String("url", urlStr),
		zap.String("platform", string(platform)))

	result, err := URL(ctx, urlStr, &Options{Timeout: opts.Timeout, UserAgent: DefaultUserAgent})
	if err != nil {
		return nil, err
	}

	text, err := ExtractMainText(result.HTML,
		PlatformContentSelectors(platform),
		PlatformNoiseSelectors(platform)...)
	if err != nil {
		return nil, err
	}

	posting := &JobPosting{URL: urlStr, Text: text, Platform: platform}

	if ShouldUseBrowser(text) && opts.UseBrowser {
		log.Info("page content too short, rendering in browser", zap.String("url", urlStr))
		html, err := WithBrowser(ctx, urlStr, opts.Timeout, log)
		if err != nil {
			return nil, err
		}
		text, err = ExtractMainText(html,
			PlatformContentSelectors(platform),
			PlatformNoiseSelectors(platform)...)
		if err != nil {
			return nil, err
		}
		posting.Text = text
		posting.Rendered = true
	}

	return posting, nil
}
