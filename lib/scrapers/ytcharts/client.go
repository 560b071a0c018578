package ytcharts

import (
	"bytes"
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"time"
	"ytcharts-backend/lib/chart"
	"ytcharts-backend/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/ytcharts")

const DefaultBaseUrl = "https://charts.youtube.com"
const DefaultChartPath = "/charts/TopSongs/global/weekly"

// Client talks to the public weekly charts page over plain http. The
// page is aggressively bot-checked, hence the bypass transport and the
// browser-looking headers.
type Client struct {
	BaseUrl   *url.URL
	ChartPath string
	Http      *resty.Client
}

type ClientOptions struct {
	BaseUrl   string
	ChartPath string
}

var instrumentOutput restyutil.InstrumentOutput

// SetRestyInstrumentOutput enables http message dumps for every client
// created by this package (debug logging must also be on).
func SetRestyInstrumentOutput(output restyutil.InstrumentOutput) {
	instrumentOutput = output
}

// proxies writes so SetRestyInstrumentOutput works regardless of
// whether it is called before or after NewClient
type outputProxy struct{}

func (outputProxy) Write(id string, contents string) {
	if instrumentOutput == nil {
		return
	}
	instrumentOutput.Write(id, contents)
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.ChartPath == "" {
		opts.ChartPath = DefaultChartPath
	}
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetHeader("accept-language", "en-US,en;q=0.9")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	restyutil.InstrumentClient(client, tracer, outputProxy{})

	c := &Client{
		BaseUrl:   baseUrl,
		ChartPath: opts.ChartPath,
		Http:      client,
	}
	return c, nil
}

// DownloadCSV fetches the chart's csv export endpoint directly, the
// same file the page's download button produces.
func (c *Client) DownloadCSV(ctx context.Context) ([]chart.Entry, error) {
	ctx, span := tracer.Start(ctx, "client:DownloadCSV")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParam("format", "csv").
		Get(c.ChartPath + "/download")
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch csv export")
		return nil, err
	}
	if res.StatusCode() != 200 {
		err = fmt.Errorf("csv export returned status %d", res.StatusCode())
		span.RecordError(err)
		span.SetStatus(codes.Error, "unexpected status")
		return nil, err
	}

	entries, err := chart.ReadCSV(bytes.NewReader(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse csv export")
		return nil, err
	}
	return entries, nil
}

// FetchPage fetches and parses the chart html page itself, for the
// table and embedded-json extractors.
func (c *Client) FetchPage(ctx context.Context) (*goquery.Document, error) {
	ctx, span := tracer.Start(ctx, "client:FetchPage")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(c.ChartPath)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch chart page")
		return nil, err
	}
	if res.StatusCode() != 200 {
		err = fmt.Errorf("chart page returned status %d", res.StatusCode())
		span.RecordError(err)
		span.SetStatus(codes.Error, "unexpected status")
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, err
	}
	return doc, nil
}
