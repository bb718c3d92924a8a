// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tochemey/gotcpwave/log"
	"github.com/tochemey/gotcpwave/tcpwave"
	"github.com/tochemey/gotcpwave/transport"
)

// settings holds the persistent flags
type settings struct {
	address  string
	certFile string
	keyFile  string
	token    string
	orgName  string
	timeout  time.Duration
	insecure bool
	logLevel string
}

// newRootCommand creates the tcpwave command and its subcommands
func newRootCommand() *cobra.Command {
	s := new(settings)
	rootCmd := &cobra.Command{
		Use:           "tcpwave",
		Short:         "Find DHCP leases across the DHCP servers of a TCPWave IPAM",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&s.address, "addr", "", "TCPWave address (TCPWAVE_ADDR)")
	flags.StringVar(&s.certFile, "cert", "", "client certificate file (TCPWAVE_SSL_CERT)")
	flags.StringVar(&s.keyFile, "key", "", "client certificate key file (TCPWAVE_SSL_KEY)")
	flags.StringVar(&s.token, "token", "", "session token (TCPWAVE_TOKEN)")
	flags.StringVar(&s.orgName, "org", "", "organization used to list the DHCP servers (TCPWAVE_ORG)")
	flags.DurationVar(&s.timeout, "timeout", transport.DefaultTimeout, "per request timeout (TCPWAVE_TIMEOUT)")
	flags.BoolVar(&s.insecure, "insecure", true, "skip the server certificate verification (TCPWAVE_INSECURE)")
	flags.StringVar(&s.logLevel, "log-level", "error", "log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newServersCommand(s),
		newLeasesCommand(s),
		newFindCommand(s),
		newObjectCommand(s),
		newSubnetCommand(s),
		newSearchCommand(s),
	)
	return rootCmd
}

// newClient builds the client from the environment overridden by the flags that were set
func newClient(ctx context.Context, cmd *cobra.Command, s *settings) (*tcpwave.Client, error) {
	var opts []transport.Option
	flags := cmd.Flags()
	if flags.Changed("addr") {
		opts = append(opts, transport.WithAddress(s.address))
	}
	if flags.Changed("cert") || flags.Changed("key") {
		opts = append(opts, transport.WithClientCertificate(s.certFile, s.keyFile))
	}
	if flags.Changed("token") {
		opts = append(opts, transport.WithToken(s.token))
	}
	if flags.Changed("org") {
		opts = append(opts, transport.WithOrgName(s.orgName))
	}
	if flags.Changed("timeout") {
		opts = append(opts, transport.WithTimeout(s.timeout))
	}
	if flags.Changed("insecure") {
		opts = append(opts, transport.WithInsecure(s.insecure))
	}

	config, err := transport.ConfigFromEnv(opts...)
	if err != nil {
		return nil, err
	}

	logger := log.DiscardLogger
	if level, ok := log.ParseLevel(s.logLevel); ok {
		logger = log.NewZap(level, os.Stderr)
	}

	return tcpwave.New(ctx, tcpwave.WithConfig(config), tcpwave.WithLogger(logger))
}

// printJSON writes v as indented JSON
func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
