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
	"github.com/spf13/cobra"

	"github.com/tochemey/gotcpwave/dhcp"
)

func newServersCommand(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "servers",
		Short: "List the DHCP servers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			client, err := newClient(ctx, cmd, s)
			if err != nil {
				return err
			}
			defer client.Close()

			servers, err := client.RefreshServers(ctx, nil)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), servers)
		},
	}
}

func newLeasesCommand(s *settings) *cobra.Command {
	var servers []string
	cmd := &cobra.Command{
		Use:   "leases",
		Short: "List the active leases of the DHCP servers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			client, err := newClient(ctx, cmd, s)
			if err != nil {
				return err
			}
			defer client.Close()

			leases, err := client.FindLeases(ctx, dhcp.MatchAll(), servers...)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), leases)
		},
	}
	cmd.Flags().StringSliceVar(&servers, "server", nil, "DHCP server names, all servers when not set")
	return cmd
}

func newFindCommand(s *settings) *cobra.Command {
	var (
		servers []string
		ip      string
		mac     string
		name    string
		pattern string
	)

	cmd := &cobra.Command{
		Use:   "find",
		Short: "Find active leases by IP address, MAC address or host name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			client, err := newClient(ctx, cmd, s)
			if err != nil {
				return err
			}
			defer client.Close()

			switch {
			case ip != "":
				lease, err := client.FindLeaseByAddress(ctx, ip, servers...)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), lease)
			case mac != "":
				lease, err := client.FindLeaseByMAC(ctx, mac, servers...)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), lease)
			default:
				leases, err := client.FindLeasesByName(ctx, dhcp.NameQuery{Contains: name, Pattern: pattern}, servers...)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), leases)
			}
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVar(&servers, "server", nil, "DHCP server names, all servers when not set")
	flags.StringVar(&ip, "ip", "", "leased IP address")
	flags.StringVar(&mac, "mac", "", "client MAC address, xx:xx:xx:xx:xx:xx")
	flags.StringVar(&name, "name", "", "host name substring, case insensitive")
	flags.StringVar(&pattern, "regex", "", "host name regular expression, case insensitive")
	cmd.MarkFlagsMutuallyExclusive("ip", "mac", "name", "regex")
	cmd.MarkFlagsOneRequired("ip", "mac", "name", "regex")
	return cmd
}

func newObjectCommand(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "object <ip-address>",
		Short: "Show the IPAM object of an IP address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := newClient(ctx, cmd, s)
			if err != nil {
				return err
			}
			defer client.Close()

			details, err := client.ObjectDetails(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), details)
		},
	}
}

func newSubnetCommand(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "subnet <address>",
		Short: "Show the IPAM subnet of an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := newClient(ctx, cmd, s)
			if err != nil {
				return err
			}
			defer client.Close()

			details, err := client.SubnetDetails(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), details)
		},
	}
}

func newSearchCommand(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "search <expression>",
		Short: "Run an entity global search",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := newClient(ctx, cmd, s)
			if err != nil {
				return err
			}
			defer client.Close()

			response, err := client.GlobalSearch(ctx, args[0])
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(response.Body)
			return err
		},
	}
}
