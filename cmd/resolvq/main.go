// Command resolvq is the end-user CLI for the resolvq daemon.
//
// The daemon resolves numeric IP addresses from log pipelines to
// hostnames in the background; this CLI submits addresses, inspects the
// resolved set, and reports daemon status.
//
// Usage:
//
//	resolvq submit <address>...   - Queue addresses for background resolution
//	resolvq lookup <address>      - Show the resolved hostname for an address
//	resolvq hosts                 - List all resolved address/hostname pairs
//	resolvq status                - Show daemon status and queue counters
//	resolvq pipe                  - Read addresses from stdin and submit them
//
// Examples:
//
//	resolvq submit 93.184.216.34
//	awk '{print $1}' access.log | resolvq pipe
//	resolvq lookup 93.184.216.34
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/lc/resolvq/internal/buildinfo"
	"github.com/lc/resolvq/internal/config"
	"github.com/lc/resolvq/pkg/client"
)

// pipeSubmitters is the number of concurrent producers the pipe command
// runs against the daemon socket.
const pipeSubmitters = 4

func main() {
	cfg, err := config.New().Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	cli := client.New(cfg.Socket.Path)

	root := &cobra.Command{
		Use:   "resolvq",
		Short: "resolvq reverse-DNS CLI",
		Long: `resolvq resolves numeric IP addresses to hostnames in the background.
A daemon drains a bounded queue of submitted addresses and stores every
hostname it finds; this CLI is the front door to that daemon.`,
	}

	// ---- version command ----
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("version: %s\n", buildinfo.Version)
			fmt.Printf("commit: %s\n", buildinfo.Commit)
		},
	}

	// ---- submit command ----
	submitCmd := &cobra.Command{
		Use:   "submit <address>...",
		Short: "Queue addresses for background resolution",
		Long: `Queue one or more IP addresses for background reverse resolution.

Submission is best-effort: an address already pending, or arriving while
the queue is full, is reported as dropped and never retried by the daemon.`,
		Example: "resolvq submit 93.184.216.34 8.8.8.8",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			for _, addr := range args {
				accepted, err := cli.Submit(ctx, addr)
				if err != nil {
					return err
				}
				if accepted {
					color.New(color.FgGreen).Printf("✓ queued %s\n", addr)
				} else {
					color.New(color.FgYellow).Printf("- dropped %s (pending or queue full)\n", addr)
				}
			}
			return nil
		},
	}

	// ---- lookup command ----
	lookupCmd := &cobra.Command{
		Use:     "lookup <address>",
		Short:   "Show the resolved hostname for an address",
		Example: "resolvq lookup 93.184.216.34",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()

			host, err := cli.Host(ctx, args[0])
			if err != nil {
				return err
			}
			if !host.Found {
				color.Yellow("%s is not resolved (yet)", args[0])
				return nil
			}
			fmt.Printf("%s\t%s\n", host.Address, host.Hostname)
			return nil
		},
	}

	// ---- hosts command ----
	hostsCmd := &cobra.Command{
		Use:     "hosts",
		Short:   "List all resolved address/hostname pairs",
		Example: "resolvq hosts",
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()

			hosts, err := cli.Hosts(ctx)
			if err != nil {
				return err
			}
			if len(hosts) == 0 {
				color.Yellow("No resolved hostnames yet.")
				return nil
			}

			addrs := make([]string, 0, len(hosts))
			for addr := range hosts {
				addrs = append(addrs, addr)
			}
			sort.Strings(addrs)

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Address", "Hostname"})
			table.SetHeaderColor(
				tablewriter.Colors{tablewriter.Bold, tablewriter.FgHiCyanColor},
				tablewriter.Colors{tablewriter.Bold, tablewriter.FgHiCyanColor},
			)
			table.SetBorder(false)
			table.SetColumnColor(
				tablewriter.Colors{tablewriter.FgHiWhiteColor},
				tablewriter.Colors{tablewriter.FgGreenColor},
			)
			for _, addr := range addrs {
				table.Append([]string{addr, hosts[addr]})
			}

			color.New(color.Bold).Println("RESOLVED HOSTNAMES:")
			table.Render()
			return nil
		},
	}

	// ---- status command ----
	statusCmd := &cobra.Command{
		Use:     "status",
		Short:   "Show daemon status and queue counters",
		Example: "resolvq status",
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()

			st, err := cli.Status(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("active:    %v\n", st.Active)
			fmt.Printf("queue:     %d/%d\n", st.Queued, st.QueueCapacity)
			fmt.Printf("resolved:  %d\n", st.Resolved)
			fmt.Printf("failed:    %d\n", st.Failed)
			fmt.Printf("dropped:   %d\n", st.Dropped)
			fmt.Printf("hosts:     %d\n", st.Hosts)
			fmt.Printf("uptime:    %s\n", st.Uptime.Round(time.Second))
			fmt.Printf("version:   %s (%s)\n", st.Version, st.Commit)
			fmt.Printf("instance:  %s\n", st.Instance)
			return nil
		},
	}

	// ---- pipe command ----
	pipeCmd := &cobra.Command{
		Use:   "pipe",
		Short: "Read addresses from stdin and submit them",
		Long: `Read whitespace-separated lines from stdin and submit the first field
of each line for background resolution. This is the producer path a log
pipeline uses:

	awk '{print $1}' access.log | resolvq pipe

Dropped submissions are counted, not retried; the daemon deduplicates
repeated addresses on its own.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPipe(cmd.Context(), cli, os.Stdin)
		},
	}

	root.AddCommand(submitCmd, lookupCmd, hostsCmd, statusCmd, pipeCmd, versionCmd)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// runPipe streams addresses from r to the daemon with a small group of
// concurrent submitters, then prints a one-line summary.
func runPipe(ctx context.Context, cli *client.Client, r *os.File) error {
	if ctx == nil {
		ctx = context.Background()
	}

	addrs := make(chan string, 256)
	var queued, dropped atomic.Int64

	grp, ctx := errgroup.WithContext(ctx)

	grp.Go(func() error {
		defer close(addrs)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			fields := strings.Fields(scanner.Text())
			if len(fields) == 0 {
				continue
			}
			select {
			case addrs <- fields[0]:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return scanner.Err()
	})

	for i := 0; i < pipeSubmitters; i++ {
		grp.Go(func() error {
			for addr := range addrs {
				accepted, err := cli.Submit(ctx, addr)
				if err != nil {
					return err
				}
				if accepted {
					queued.Inc()
				} else {
					dropped.Inc()
				}
			}
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return err
	}

	fmt.Printf("queued %d, dropped %d\n", queued.Load(), dropped.Load())
	return nil
}
