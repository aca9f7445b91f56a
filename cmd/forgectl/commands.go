package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/forge-journal/forge-identity/internal/transport/response"
	"github.com/forge-journal/forge-identity/pkg/envelope"
)

const defaultListLimit = 10

// withCaller opens a caller for the duration of fn.
func withCaller(cmd *cobra.Command, opts *options, fn func(ctx context.Context, c caller) error) error {
	ctx := cmd.Context()
	c, err := newCaller(ctx, opts)
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(ctx, c)
}

func newProfileCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the current identity profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCaller(cmd, opts, func(ctx context.Context, c caller) error {
				raw, err := c.Profile(ctx)
				if err != nil {
					return err
				}
				var p response.Profile
				if err := envelope.Decode(raw, &p); err != nil {
					return degrade(cmd, opts, raw, err)
				}
				return newPrinter(cmd.OutOrStdout(), opts.output).profile(p)
			})
		},
	}
}

func newHistoryCmd(opts *options) *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List profile versions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCaller(cmd, opts, func(ctx context.Context, c caller) error {
				raw, err := c.History(ctx, limit, offset)
				if err != nil {
					return err
				}
				var h response.History
				if err := envelope.Decode(raw, &h); err != nil {
					return degrade(cmd, opts, raw, err)
				}
				return newPrinter(cmd.OutOrStdout(), opts.output).history(h, offset)
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", defaultListLimit, "Maximum number of versions to show")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of versions to skip")

	return cmd
}

func newVersionCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version <history-id>",
		Short: "Show the profile as it was at a history entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withCaller(cmd, opts, func(ctx context.Context, c caller) error {
				raw, err := c.Version(ctx, id)
				if err != nil {
					return err
				}
				var v response.Version
				if err := envelope.Decode(raw, &v); err != nil {
					return degrade(cmd, opts, raw, err)
				}
				return newPrinter(cmd.OutOrStdout(), opts.output).version(v)
			})
		},
	}
}

func newCompareCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <history-id-1> <history-id-2>",
		Short: "Show what changed between two profile versions",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id1, err := parseID(args[0])
			if err != nil {
				return err
			}
			id2, err := parseID(args[1])
			if err != nil {
				return err
			}
			return withCaller(cmd, opts, func(ctx context.Context, c caller) error {
				raw, err := c.Compare(ctx, id1, id2)
				if err != nil {
					return err
				}
				var cmp response.Comparison
				if err := envelope.Decode(raw, &cmp); err != nil || cmp.Comparison == nil {
					if err == nil {
						err = fmt.Errorf("%w: comparison missing", envelope.ErrMalformed)
					}
					return degrade(cmd, opts, raw, err)
				}
				return newPrinter(cmd.OutOrStdout(), opts.output).comparison(cmp)
			})
		},
	}
}

func newRestoreCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <history-id>",
		Short: "Make a past profile version current again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withCaller(cmd, opts, func(ctx context.Context, c caller) error {
				raw, err := c.Restore(ctx, id)
				if err != nil {
					return err
				}
				var s response.Saved
				if err := envelope.Decode(raw, &s); err != nil {
					return err
				}
				return newPrinter(cmd.OutOrStdout(), opts.output).restored(id, s)
			})
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid history id %q", s)
	}
	return id, nil
}

// degrade turns an unreadable payload into "no data available". Remote
// errors other than a parse failure are returned as they are.
func degrade(cmd *cobra.Command, opts *options, raw []byte, err error) error {
	if !isParseFailure(err) {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "no data available")
	if opts.debug {
		printRaw(cmd.ErrOrStderr(), raw, err)
	}
	return nil
}

func isParseFailure(err error) bool {
	if errors.Is(err, envelope.ErrMalformed) {
		return true
	}
	var re *envelope.RemoteError
	return errors.As(err, &re) && re.Message == response.ParseFailureMessage
}

func printRaw(w io.Writer, raw []byte, err error) {
	fmt.Fprintf(w, "decode error: %v\nraw payload:\n%s\n", err, raw)
}
