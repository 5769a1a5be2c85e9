package source_test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vigo/cvelookup/internal/useragent"
)

type fakeFetcher struct {
	mu      sync.Mutex
	pages   map[string]string
	err     error
	urls    []string
	headers []useragent.Header
}

func (f *fakeFetcher) Fetch(_ context.Context, url string, header useragent.Header) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.urls = append(f.urls, url)
	f.headers = append(f.headers, header)

	if f.err != nil {
		return "", f.err
	}

	page, ok := f.pages[url]
	if !ok {
		return "", fmt.Errorf("no page for %s", url)
	}
	return page, nil
}

type fixedAgent string

func (a fixedAgent) Pick() useragent.Header {
	return useragent.Header{Name: useragent.HeaderName, Value: string(a)}
}

var errTransport = errors.New("connection refused")

const registryPage = `<html><body>
<h2>PRINTNIGHTMARE</h2>
<table>
<tr><td colspan="2">  padding cell  </td></tr>
<tr><td colspan="2">Windows Print Spooler Remote Code Execution Vulnerability.</td></tr>
<tr><td colspan="2">Second candidate that must be ignored.</td></tr>
<tr><td>single column</td></tr>
</table>
<ul>
<li><a target="_blank" href="https://portal.msrc.microsoft.com/x">URL:https://portal.msrc.microsoft.com/x</a></li>
<li><a target="_blank" href="https://portal.msrc.microsoft.com/x">URL:https://portal.msrc.microsoft.com/x</a></li>
<li><a target="_blank" href="http://www.kb.cert.org/vuls/id/383432">MISC:http://www.kb.cert.org/vuls/id/383432</a></li>
<li><a target="_blank" href="https://packetstormsecurity.com/y">MISC:https://packetstormsecurity.com/y</a></li>
<li><a href="https://cve.mitre.org/about">https://cve.mitre.org/about</a></li>
</ul>
</body></html>`

const registryNotFoundPage = `<html><body>
<h2>ERROR: Couldn't find 'CVE-2099-99999'</h2>
<table><tr><td colspan="2">Some text.</td></tr></table>
</body></html>`

const registryReservedPage = `<html><body>
<h2>CVE-2024-99999</h2>
<table><tr><td colspan="2">** RESERVED ** This candidate has been reserved by an organization or individual that will use it when announcing a new security problem.</td></tr></table>
<a target="_blank">URL:https://should.not/appear</a>
</body></html>`

const databasePage = `<html><body>
<div>
<span class="severityDetail"><a id="Cvss3NistCalculatorAnchor" href="#">8.8 HIGH</a></span>
<span class="severityDetail"><a href="#">9.0 HIGH</a></span>
</div>
<span data-testid="vuln-published-on">07/02/2021</span>
</body></html>`

const databaseNoSeverityPage = `<html><body>
<h2>CVE ID Not Found</h2>
<span data-testid="vuln-published-on">07/02/2021</span>
</body></html>`
