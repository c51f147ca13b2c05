package network

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"covid-dashboard/src/helpers"
	"covid-dashboard/src/interfaces"
	"covid-dashboard/src/logger"
	"covid-dashboard/src/models"
)

const defaultTimeout = 15 * time.Second

// NetworkManager issues single-attempt GET requests. Retries are deliberately absent:
// the callers own their fallback strategy.
type NetworkManager struct {
	Config       *models.MConfig
	ProxyManager interfaces.IProxyManager
	Logger       *logger.Logger

	client *http.Client
	mu     sync.RWMutex
}

// -----------------------------------------------------------------------------

func NewNetworkManager(cfg *models.MConfig, log *logger.Logger) *NetworkManager {
	var proxies []string
	if cfg.Network.Enabled {
		proxies = cfg.Network.Proxies
	}

	nm := &NetworkManager{
		Config:       cfg,
		ProxyManager: helpers.NewProxyManager(proxies, cfg.Network.UserAgent, log.Named("ProxyManager")),
		Logger:       log,
	}
	nm.client = nm.createClient()
	return nm
}

// -----------------------------------------------------------------------------

func (nm *NetworkManager) createClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if nm.ProxyManager.HasProxies() {
		proxyStr, err := nm.ProxyManager.GetCurrentProxy()
		if err == nil && proxyStr != "" {
			proxyURL, err := url.Parse(proxyStr)
			if err == nil {
				transport.Proxy = http.ProxyURL(proxyURL)
			}
		}
	}

	timeout := defaultTimeout
	if nm.Config.Network.RequestTimeout > 0 {
		timeout = time.Duration(nm.Config.Network.RequestTimeout) * time.Second
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// -----------------------------------------------------------------------------

// rotateProxy switches proxy for the next request after the remote blocked us.
func (nm *NetworkManager) rotateProxy() {
	if !nm.ProxyManager.HasProxies() {
		return
	}

	nm.ProxyManager.RotateProxy()
	client := nm.createClient()
	nm.mu.Lock()
	nm.client = client
	nm.mu.Unlock()
}

// -----------------------------------------------------------------------------

// Get performs one GET request. Non-200 answers become *helpers.NetworkError.
func (nm *NetworkManager) Get(ctx context.Context, urlStr string, params map[string]string) ([]byte, error) {
	reqUrl, err := url.Parse(urlStr)
	if err != nil {
		return nil, helpers.NewNetworkError(0, fmt.Sprintf("invalid url %q", urlStr), err)
	}

	q := reqUrl.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	reqUrl.RawQuery = q.Encode()
	finalUrl := reqUrl.String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, finalUrl, nil)
	if err != nil {
		return nil, helpers.NewNetworkError(0, "failed to create request", err)
	}
	req.Header.Set("User-Agent", nm.ProxyManager.GetUserAgent())
	req.Header.Set("Accept", "application/json")

	nm.mu.RLock()
	client := nm.client
	nm.mu.RUnlock()

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		nm.Logger.Info("Request to %s failed: %v", finalUrl, err)
		return nil, helpers.NewNetworkError(0, fmt.Sprintf("GET %s failed", finalUrl), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusForbidden {
		nm.Logger.Warning("Request blocked (%d) by %s. Rotating proxy.", resp.StatusCode, reqUrl.Host)
		nm.rotateProxy()
	}

	if resp.StatusCode != http.StatusOK {
		return nil, helpers.NewNetworkError(resp.StatusCode, fmt.Sprintf("GET %s returned status %d", finalUrl, resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, helpers.NewNetworkError(resp.StatusCode, "failed to read response body", err)
	}

	nm.Logger.Debug("GET %s -> %d bytes in %v", finalUrl, len(body), time.Since(start))
	return body, nil
}
