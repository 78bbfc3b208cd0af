// Package reverse provides blocking reverse-DNS (PTR) resolution for
// IPv4 and IPv6 address literals.
//
// The package exists to answer one question: "what is the hostname
// behind this numeric address from a log line?". It deliberately keeps
// the contract of the classic getnameinfo(NI_NAMEREQD) call: a lookup
// succeeds only when an actual name comes back, never on mere
// reachability, and there are no retries and no negative caching.
//
// # Basic Usage
//
//	client := reverse.New(5 * time.Second)
//	name, err := client.LookupAddr(ctx, "93.184.216.34")
//	if err != nil {
//		// unparseable input, NXDOMAIN, timeout, ...
//	}
//
// Configure custom nameservers:
//
//	client := reverse.New(
//		5*time.Second,
//		reverse.WithNameservers([]string{"1.1.1.1:53", "8.8.8.8:53"}),
//	)
//
// # Dispatch and Failure Modes
//
// Input is parsed as an IPv4 literal, then as an IPv6 literal. If
// neither parse succeeds, ErrUnparseableAddress is returned without any
// network traffic. Parsed addresses are turned into their in-addr.arpa
// or ip6.arpa form and queried for PTR records against each configured
// nameserver in rotation, starting from a random position. Failures
// from individual nameservers are aggregated with go.uber.org/multierr.
//
// # Concurrency
//
// A Client holds no mutable state after construction and is safe for
// concurrent use.
package reverse
