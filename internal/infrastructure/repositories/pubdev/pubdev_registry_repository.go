package pubdev

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/pubcheck/internal/domain/entities"
	"github.com/rios0rios0/pubcheck/internal/domain/repositories"
)

const (
	registryName = "pub.dev"

	// versionsPathFmt is the per-package version listing page.
	versionsPathFmt = "/packages/%s/versions"

	// versionSelector selects the version cells of the listing table; the
	// first one is the latest release.
	versionSelector = "td.version"
)

var (
	// ErrUnexpectedStatus is returned when the listing page is not served with 200 OK.
	ErrUnexpectedStatus = errors.New("failed to retrieve the page")

	// ErrVersionNotFound is returned when the listing page has no version cell.
	ErrVersionNotFound = errors.New("version information not found")
)

// PubDevRegistryRepository implements repositories.RegistryRepository by
// scraping the HTML version listing pages of pub.dev.
type PubDevRegistryRepository struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewPubDevRegistryRepository creates a registry repository from the given settings.
func NewPubDevRegistryRepository(settings *entities.Settings) repositories.RegistryRepository {
	timeout := time.Duration(0)
	baseURL := entities.DefaultRegistryURL
	userAgent := entities.DefaultUserAgent
	if settings != nil {
		timeout = settings.Timeout
		baseURL = settings.RegistryURL
		userAgent = settings.UserAgent
	}

	return &PubDevRegistryRepository{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
	}
}

func (r *PubDevRegistryRepository) Name() string { return registryName }

// VersionsURL returns the listing page URL for the named package.
func (r *PubDevRegistryRepository) VersionsURL(name string) string {
	return r.baseURL + fmt.Sprintf(versionsPathFmt, url.PathEscape(name))
}

// LatestVersion fetches the listing page of name and returns the trimmed
// text of its first version cell.
func (r *PubDevRegistryRepository) LatestVersion(ctx context.Context, name string) (string, error) {
	pageURL := r.VersionsURL(name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	logger.Debugf("[pubdev] GET %s", pageURL)
	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status code %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	document, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", pageURL, err)
	}

	return ExtractLatestVersion(document)
}

// ExtractLatestVersion returns the trimmed text of the first version cell in document.
func ExtractLatestVersion(document *goquery.Document) (string, error) {
	cell := document.Find(versionSelector).First()
	if cell.Length() == 0 {
		return "", ErrVersionNotFound
	}

	version := strings.TrimSpace(cell.Text())
	if version == "" {
		return "", ErrVersionNotFound
	}
	return version, nil
}
