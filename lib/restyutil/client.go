package restyutil

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

type ClientOptions struct {
	BaseUrl string
	// defaults to 30 seconds
	Timeout time.Duration
	// minimum time between the start of two requests, 0 disables the limit
	Interval time.Duration
	// wrap the transport so requests look like they come from a browser
	BrowserTransport bool
	// return 3xx responses as-is instead of following them
	NoRedirects bool

	Tracer trace.Tracer
	Output InstrumentOutput
}

func NewClient(opts ClientOptions) (*resty.Client, error) {
	client := resty.New()
	if opts.BaseUrl != "" {
		baseUrl, err := url.Parse(opts.BaseUrl)
		if err != nil {
			return nil, err
		}
		client.SetBaseURL(opts.BaseUrl)
		if !opts.NoRedirects {
			client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
		}
	}
	if opts.NoRedirects {
		client.SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}))
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	if opts.BrowserTransport {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	client.SetHeader("user-agent", UserAgent)
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = time.Second * 30
	}
	client.SetTimeout(timeout)

	if opts.Interval > 0 {
		// burst of 1 so that every request waits out the full interval
		limiter := rate.NewLimiter(rate.Every(opts.Interval), 1)
		client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return limiter.Wait(req.Context())
		})
	}

	InstrumentClient(client, opts.Tracer, opts.Output)
	return client, nil
}
