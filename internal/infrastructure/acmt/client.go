package acmt

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"kwh-verifier/internal/domain/port"
)

const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

	xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Options — адреса порталов и параметры запросов.
type Options struct {
	PhotoBaseURL  string // https://{server} портала ACMT
	ReportBaseURL string // https://{server} сервера BIRT
	Cookie        string
	PhotoTimeout  time.Duration
	ReportTimeout time.Duration
}

// Client ходит в порталы ACMT за фото и выгрузками DLPD.
type Client struct {
	HTTPClient *http.Client
	opts       Options
}

// NewClient создаёт клиента. Внутренние порталы работают с самоподписанными
// сертификатами, поэтому проверка TLS отключена.
func NewClient(httpClient *http.Client, opts Options) *Client {
	if httpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // внутренние порталы
		httpClient = &http.Client{Transport: transport}
	}
	if opts.PhotoTimeout <= 0 {
		opts.PhotoTimeout = 15 * time.Second
	}
	if opts.ReportTimeout <= 0 {
		opts.ReportTimeout = 120 * time.Second
	}
	return &Client{HTTPClient: httpClient, opts: opts}
}

// BaseURL приводит имя сервера к https://host без завершающего слэша.
func BaseURL(server string) string {
	server = strings.TrimRight(strings.TrimSpace(server), "/")
	if server == "" || strings.Contains(server, "://") {
		return server
	}
	return "https://" + server
}

// FetchPhoto скачивает фото счётчика по idpel за период blth.
func (c *Client) FetchPhoto(ctx context.Context, idpel, blth string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.PhotoTimeout)
	defer cancel()

	q := url.Values{}
	q.Set("idpel", idpel)
	q.Set("blth", blth)
	q.Set("unitup", "")
	endpoint := c.opts.PhotoBaseURL + "/acmt/DisplayBlobServlet1?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8")
	req.Header.Set("Referer", c.opts.PhotoBaseURL+"/acmt/Main.html")
	if c.opts.Cookie != "" {
		req.Header.Set("Cookie", c.opts.Cookie)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return body, nil
}

// FetchDLPD скачивает xlsx-выгрузку DLPD для одного UP.
func (c *Client) FetchDLPD(ctx context.Context, up, blth string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.ReportTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.dlpdURL(up, blth), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept", xlsxMIME)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	ctype := strings.ToLower(resp.Header.Get("Content-Type"))
	if !strings.Contains(ctype, "excel") && !strings.Contains(ctype, "spreadsheetml") {
		return nil, fmt.Errorf("not an xlsx (Content-Type: %s)", ctype)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return body, nil
}

func (c *Client) dlpdURL(up, blth string) string {
	q := url.Values{}
	q.Set("__report", "rpt_icmo_DataDetail.rptdesign")
	q.Set("up", up)
	q.Set("blth", blth)
	q.Set("rbm", "TOTAL")
	q.Set("jns", "FG_DLPD_JAMNYALA")
	q.Set("tglbaca", "")
	q.Set("jnf", "0")
	q.Set("jnt", "99999999999")
	q.Set("kdbaca", "")
	q.Set("kdklpk", "")
	q.Set("dlpd", "4")
	q.Set("ptgs", "")
	q.Set("__format", "xlsx")
	return c.opts.ReportBaseURL + "/birt-acmt/run?" + q.Encode()
}

// Проверка реализации интерфейсов
var (
	_ port.PhotoFetcher  = (*Client)(nil)
	_ port.ReportFetcher = (*Client)(nil)
)
