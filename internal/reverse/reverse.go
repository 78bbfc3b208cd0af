// Package reverse maps numeric IP addresses back to hostnames via DNS
// PTR queries. Dispatch is on address syntax: IPv4 literals query
// in-addr.arpa, IPv6 literals query ip6.arpa, and anything that parses
// as neither fails without a network call.
package reverse

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"net/netip"
	"strings"
	"time"

	"github.com/miekg/dns"
	"go.uber.org/multierr"
)

var (
	// ErrEmptyAddress is returned when an empty address is provided.
	ErrEmptyAddress = fmt.Errorf("empty address")
	// ErrUnparseableAddress is returned when the input is neither an
	// IPv4 nor an IPv6 literal.
	ErrUnparseableAddress = fmt.Errorf("unparseable address")
	// ErrNoName is returned when the PTR query succeeds but carries no
	// name. A merely reachable address without a name is a failure.
	ErrNoName = fmt.Errorf("no name found")
	// ErrEmptyMsg is returned when the DNS response message is empty.
	ErrEmptyMsg = fmt.Errorf("empty message")
)

var _defaultNameserver = "1.1.1.1:53"

var _ AddrLookuper = (*Client)(nil)

// AddrLookuper defines the interface for reverse address resolution.
type AddrLookuper interface {
	// LookupAddr resolves an IP address literal to a hostname.
	LookupAddr(ctx context.Context, addr string) (string, error)
}

// Exchanger defines the interface for DNS message exchange.
type Exchanger interface {
	ExchangeContext(ctx context.Context, m *dns.Msg, a string) (r *dns.Msg, rtt time.Duration, err error)
}

// Client implements AddrLookuper on top of a DNS message exchanger.
type Client struct {
	Client      Exchanger
	Timeout     time.Duration
	Nameservers []string
}

// Opt is a function option for configuring the Client.
type Opt func(c *Client)

// New creates a new Client with the given timeout and optional
// configurations. The returned Client is ready for PTR lookups.
func New(timeout time.Duration, opts ...Opt) *Client {
	c := &Client{
		Client: &dns.Client{
			Timeout: timeout,
		},
		Timeout: timeout,
	}

	for _, o := range opts {
		o(c)
	}

	return c
}

// WithNameservers returns an option to set custom DNS servers. If not
// provided, the default nameserver (1.1.1.1:53) is used.
func WithNameservers(nameservers []string) Opt {
	return func(c *Client) {
		c.Nameservers = nameservers
	}
}

// WithTimeout returns an option to set a custom timeout for PTR
// queries. This overrides the timeout provided to New.
func WithTimeout(timeout time.Duration) Opt {
	return func(c *Client) {
		c.Timeout = timeout
	}
}

// LookupAddr resolves an IPv4 or IPv6 address literal to a hostname.
// Unparseable input fails immediately without touching the network.
// Each configured nameserver is tried at most once, starting from a
// random position; the first PTR name wins. There are no retries beyond
// that rotation and no timeout beyond the exchanger's own.
func (c *Client) LookupAddr(ctx context.Context, addr string) (string, error) {
	if strings.TrimSpace(addr) == "" {
		return "", ErrEmptyAddress
	}

	// Syntax check up front: netip accepts exactly the IPv4 and IPv6
	// literal forms we resolve.
	if _, err := netip.ParseAddr(addr); err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnparseableAddress, addr)
	}

	arpa, err := dns.ReverseAddr(addr)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnparseableAddress, addr)
	}

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	return c.query(ctx, arpa)
}

// query asks each nameserver in rotation for a PTR record of the given
// reverse name, aggregating failures until one answers.
func (c *Client) query(ctx context.Context, arpa string) (string, error) {
	servers := c.Nameservers
	if len(servers) == 0 {
		servers = []string{_defaultNameserver}
	}

	var errs error
	start := randIndex(len(servers))
	for i := 0; i < len(servers); i++ {
		if err := ctx.Err(); err != nil {
			return "", multierr.Append(errs, err)
		}

		// Fresh request each attempt: ExchangeContext mutates *dns.Msg
		req := &dns.Msg{}
		req.SetQuestion(arpa, dns.TypePTR)

		resp, _, err := c.Client.ExchangeContext(ctx, req, servers[(start+i)%len(servers)])
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if resp == nil {
			errs = multierr.Append(errs, ErrEmptyMsg)
			continue
		}
		if resp.Rcode != dns.RcodeSuccess {
			errs = multierr.Append(errs, fmt.Errorf("ptr query for %q: %s", arpa, dns.RcodeToString[resp.Rcode]))
			continue
		}

		name, err := parsePTR(resp)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("ptr query for %q: %w", arpa, err))
			continue
		}
		return name, nil
	}

	return "", errs
}

// parsePTR extracts the first PTR name from a DNS response.
func parsePTR(resp *dns.Msg) (string, error) {
	for _, rr := range resp.Answer {
		if ptr, ok := rr.(*dns.PTR); ok {
			return strings.TrimSuffix(ptr.Ptr, "."), nil
		}
	}
	return "", ErrNoName
}

// randIndex returns a random starting index for nameserver rotation.
func randIndex(n int) int {
	if n <= 1 {
		return 0
	}
	i, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(i.Int64())
}
