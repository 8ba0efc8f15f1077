package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
	"golang.org/x/text/language"
	"io"
	"net/http"
	"net/url"
	"promod/internal/models"
	"promod/internal/providers"
	"promod/internal/structures"
	"strconv"
	"strings"
	"time"
)

const (
	OptionKeyOff         = "promotion_off"
	OptionActivePlugins  = "active_plugins"
	TransientKeyCache    = "data_cache"
	TransientKeyNotices  = "admin_notices_cache"
	PromotionTemplate    = "promotion.html"
	DefaultLanguage      = "en"
	CacheTTL             = time.Hour
	NoticeTTL            = 3 * 30 * 24 * time.Hour
	adminNoticeOpenHTML  = `<div class="notice notice-info is-dismissible">`
	adminNoticeCloseHTML = `</div>`
)

var ErrFetch = errors.New("promotion fetch failed")

type RenderOptions struct {
	PinnedOnly bool
	Echo       bool
	Popup      bool
}

type PromoServiceInterface interface {
	Enable(ctx context.Context) error
	Disable(ctx context.Context) error
	IsEnabled(ctx context.Context) bool
	ClearCache() bool
	GetData(ctx context.Context) (*models.PromoDataset, error)
	ShouldHide(ctx context.Context, plugins models.PluginSet) bool
	GetLinks(ctx context.Context) []models.PromoLink
	Render(ctx context.Context, w io.Writer, opts RenderOptions) string
	RenderAdminNotice(ctx context.Context, w io.Writer) int
	ActivePlugins(ctx context.Context) (models.PluginSet, error)
	SetActivePlugins(ctx context.Context, plugins models.PluginSet) error
}

type PromoService struct {
	conf       *structures.Config
	logger     providers.Logger
	options    providers.OptionProviderInterface
	transients providers.TransientProviderInterface
	client     providers.HttpClientProviderInterface
	templates  providers.TemplateProviderInterface
	metrics    providers.MetricsProviderInterface
	now        func() time.Time
}

func NewPromoService(
	conf *structures.Config,
	logger providers.Logger,
	options providers.OptionProviderInterface,
	transients providers.TransientProviderInterface,
	client providers.HttpClientProviderInterface,
	templates providers.TemplateProviderInterface,
	metrics providers.MetricsProviderInterface,
) PromoServiceInterface {
	return &PromoService{
		conf:       conf,
		logger:     logger,
		options:    options,
		transients: transients,
		client:     client,
		templates:  templates,
		metrics:    metrics,
		now:        time.Now,
	}
}

func (ps *PromoService) key(name string) string {
	return ps.conf.Promo.Prefix + name
}

func (ps *PromoService) Enable(ctx context.Context) error {
	_, err := ps.options.DeleteOption(ctx, ps.key(OptionKeyOff))
	return err
}

func (ps *PromoService) Disable(ctx context.Context) error {
	return ps.options.UpdateOption(ctx, ps.key(OptionKeyOff), "1")
}

// IsEnabled is true unless the off flag holds a truthy value. A store that
// cannot be read leaves the promotion on.
func (ps *PromoService) IsEnabled(ctx context.Context) bool {
	value, err := ps.options.GetOption(ctx, ps.key(OptionKeyOff))
	if errors.Is(err, providers.ErrOptionNotFound) {
		return true
	}
	if err != nil {
		ps.logger.Errorf(providers.TypeApp, "Read promotion flag: %s", err)
		return true
	}
	return !cast.ToBool(value)
}

// ClearCache drops both the payload cache and the notice debounce record.
// Both deletions are attempted; the result is true only if both removed
// something.
func (ps *PromoService) ClearCache() bool {
	data := ps.transients.Delete(ps.key(TransientKeyCache))
	notices := ps.transients.Delete(ps.key(TransientKeyNotices))
	return data && notices
}

// LanguageCode reduces a locale such as "de_DE" to its language subtag.
// A bare language such as "de" is accepted as is instead of falling back
// to DefaultLanguage; only unparseable values fall back.
func LanguageCode(locale string) string {
	prefix, _, _ := strings.Cut(strings.ReplaceAll(locale, "-", "_"), "_")
	base, err := language.ParseBase(prefix)
	if err != nil {
		return DefaultLanguage
	}
	return base.String()
}

func withQueryArg(endpoint, key, value string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// GetData returns the promotion payload, fetching it when the cache record
// is missing. A nil dataset with a nil error means "nothing to show".
func (ps *PromoService) GetData(ctx context.Context) (*models.PromoDataset, error) {
	cacheKey := ps.key(TransientKeyCache)
	if cached, ok := ps.transients.Get(cacheKey); ok {
		return ps.decodeCached(cached), nil
	}

	target, err := withQueryArg(ps.conf.Promo.Endpoint, "lng", LanguageCode(ps.conf.Promo.Locale))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	start := time.Now()
	resp, err := ps.client.Get(ctx, target)
	ps.metrics.ObserveFetchDuration(time.Since(start))
	if errors.Is(err, providers.ErrResponseTooLarge) {
		ps.logger.Warnf(providers.TypeApp, "Promotion payload rejected: %s", err)
		ps.metrics.IncFetchTotal(providers.FetchResultBadBody)
		ps.store(cacheKey, nil, CacheTTL)
		return nil, nil
	}
	if err != nil {
		ps.metrics.IncFetchTotal(providers.FetchResultError)
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	if resp.StatusCode != http.StatusOK {
		ps.logger.Warnf(providers.TypeApp, "Promotion endpoint answered %d", resp.StatusCode)
		ps.metrics.IncFetchTotal(providers.FetchResultBadStatus)
		ps.store(cacheKey, nil, CacheTTL)
		return nil, nil
	}

	var data models.PromoDataset
	if err := json.Unmarshal(resp.Body, &data); err != nil {
		ps.logger.Warnf(providers.TypeApp, "Promotion payload is not valid JSON: %s", err)
		ps.metrics.IncFetchTotal(providers.FetchResultBadBody)
		ps.store(cacheKey, nil, CacheTTL)
		return nil, nil
	}
	ps.metrics.IncFetchTotal(providers.FetchResultOk)

	if data.IsEmpty() {
		ps.store(cacheKey, nil, CacheTTL)
		return nil, nil
	}

	// the body already decoded cleanly, so it is cached as received
	ps.store(cacheKey, resp.Body, CacheTTL)
	ps.logger.Debugf(providers.TypeApp, "Fetched %d promotion entries", len(data.Promo))

	return &data, nil
}

func (ps *PromoService) store(key string, value []byte, ttl time.Duration) {
	if err := ps.transients.Set(key, value, ttl); err != nil {
		ps.logger.Errorf(providers.TypeApp, "Cache write failed: %s", err)
	}
}

func (ps *PromoService) decodeCached(cached []byte) *models.PromoDataset {
	if len(cached) == 0 {
		return nil
	}
	var data models.PromoDataset
	if err := json.Unmarshal(cached, &data); err != nil {
		ps.logger.Errorf(providers.TypeApp, "Corrupted promotion cache: %s", err)
		return nil
	}
	if data.IsEmpty() {
		return nil
	}
	return &data
}

func (ps *PromoService) loadData(ctx context.Context) *models.PromoDataset {
	data, err := ps.GetData(ctx)
	if err != nil {
		ps.logger.Warnf(providers.TypeApp, "Promotion data unavailable: %s", err)
		return nil
	}
	return data
}

func (ps *PromoService) ActivePlugins(ctx context.Context) (models.PluginSet, error) {
	raw, err := ps.options.GetOption(ctx, OptionActivePlugins)
	if errors.Is(err, providers.ErrOptionNotFound) {
		return models.PluginSet{}, nil
	}
	if err != nil {
		return nil, err
	}
	var plugins models.PluginSet
	if err := json.Unmarshal([]byte(raw), &plugins); err != nil {
		return nil, err
	}
	if plugins == nil {
		plugins = models.PluginSet{}
	}
	return plugins, nil
}

func (ps *PromoService) SetActivePlugins(ctx context.Context, plugins models.PluginSet) error {
	if plugins == nil {
		plugins = models.PluginSet{}
	}
	encoded, err := json.Marshal(plugins)
	if err != nil {
		return err
	}
	return ps.options.UpdateOption(ctx, OptionActivePlugins, string(encoded))
}

// ShouldHide reports whether any of the given plugins is active.
func (ps *PromoService) ShouldHide(ctx context.Context, plugins models.PluginSet) bool {
	if len(plugins) == 0 {
		return false
	}
	active, err := ps.ActivePlugins(ctx)
	if err != nil {
		ps.logger.Errorf(providers.TypeApp, "Read active plugins: %s", err)
		return false
	}
	for _, a := range active {
		for _, p := range plugins {
			if a == p {
				return true
			}
		}
	}
	return false
}

func (ps *PromoService) GetLinks(ctx context.Context) []models.PromoLink {
	data := ps.loadData(ctx)
	if data.IsEmpty() {
		return nil
	}

	var links []models.PromoLink
	for _, e := range data.Promo {
		if ps.ShouldHide(ctx, e.HideIfActive) || e.LinkText == "" {
			continue
		}
		links = append(links, models.PromoLink{Link: e.Link, LinkText: e.LinkText})
	}
	return links
}

// Render executes the promotion template. With Echo set the markup is
// written to w and the returned string is empty.
func (ps *PromoService) Render(ctx context.Context, w io.Writer, opts RenderOptions) string {
	html := ps.render(ctx, opts)
	if !opts.Echo {
		return html
	}
	if w != nil && html != "" {
		if _, err := io.WriteString(w, html); err != nil {
			ps.logger.Warnf(providers.TypeApp, "Write promotion: %s", err)
		}
	}
	return ""
}

func (ps *PromoService) render(ctx context.Context, opts RenderOptions) string {
	data := ps.loadData(ctx)
	if data == nil {
		return ""
	}

	view := models.PromoDataset{Promo: data.Promo, Popup: opts.Popup}
	if opts.PinnedOnly {
		if entry, ok := data.Pinned(); ok {
			view.Promo = []models.PromoEntry{entry}
		} else {
			view.Promo = nil
		}
	}
	if view.IsEmpty() {
		return ""
	}

	var buf bytes.Buffer
	if err := ps.templates.Render(&buf, PromotionTemplate, &view); err != nil {
		ps.logger.Errorf(providers.TypeApp, "Render promotion: %s", err)
		return ""
	}
	return buf.String()
}

// RenderAdminNotice writes one admin notice per visible entry and returns the
// number written. Once something was shown it stays quiet until the notice
// record expires or the cache is cleared.
func (ps *PromoService) RenderAdminNotice(ctx context.Context, w io.Writer) int {
	noticesKey := ps.key(TransientKeyNotices)
	if _, ok := ps.transients.Get(noticesKey); ok {
		return 0
	}

	data := ps.loadData(ctx)
	if data.IsEmpty() {
		return 0
	}

	emitted := 0
	for _, e := range data.Promo {
		if ps.ShouldHide(ctx, e.HideIfActive) {
			continue
		}
		if _, err := io.WriteString(w, adminNoticeOpenHTML+e.Notice+adminNoticeCloseHTML); err != nil {
			ps.logger.Warnf(providers.TypeApp, "Write admin notice: %s", err)
			break
		}
		emitted++
	}

	if emitted > 0 {
		ps.store(noticesKey, []byte(strconv.FormatInt(ps.now().Unix(), 10)), NoticeTTL)
		ps.metrics.AddNoticesEmitted(emitted)
	}
	return emitted
}
